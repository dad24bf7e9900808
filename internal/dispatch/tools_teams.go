package dispatch

import (
	"context"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/normalize"
	"futebol-mcp/internal/shape"
)

// teamMatchWindow bounds how many raw matches feed team records and
// comparisons.
const teamMatchWindow = 200

func searchTeamTool() *Tool {
	return &Tool{
		Name:        "search_team",
		Description: "Search teams by full or partial name, case and accent insensitive",
		TTLClass:    TTLLive,
		Schema: objectSchema("Team search parameters", map[string]interface{}{
			"name":  stringProp("Full or partial team name"),
			"limit": intProp("Maximum number of results", 1, 100, 10),
		}, []string{"name"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Name  string `arg:"name"`
				Limit int    `arg:"limit"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			name, err := requireText("name", args.Name)
			if err != nil {
				return nil, err
			}
			limit, err := boundedLimit("limit", args.Limit, 10, 100)
			if err != nil {
				return nil, err
			}
			limit = d.capResults("search_team", limit)
			folded := normalize.Fold(name)

			return &invocation{
				cacheKey: cacheKey("search_team", "name", folded, "limit", itoa(limit)),
				run: func(ctx context.Context) (interface{}, error) {
					rows, err := d.runner.Run(ctx, graph.SearchTeamsQuery, map[string]interface{}{
						"name":  folded,
						"limit": limit,
					})
					if err != nil {
						return nil, err
					}
					return shape.TeamSearch(name, rows), nil
				},
			}, nil
		},
	}
}

func searchTeamsByLeagueTool() *Tool {
	return &Tool{
		Name:        "search_teams_by_league",
		Description: "List the teams appearing in a competition's matches",
		TTLClass:    TTLLive,
		Schema: objectSchema("League team search parameters", map[string]interface{}{
			"league": stringProp("Competition or league name"),
			"limit":  intProp("Maximum number of results", 1, 100, 20),
		}, []string{"league"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				League string `arg:"league"`
				Limit  int    `arg:"limit"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			league, err := requireText("league", args.League)
			if err != nil {
				return nil, err
			}
			limit, err := boundedLimit("limit", args.Limit, 20, 100)
			if err != nil {
				return nil, err
			}
			limit = d.capResults("search_teams_by_league", limit)
			folded := normalize.Fold(league)

			return &invocation{
				cacheKey: cacheKey("search_teams_by_league", "league", folded, "limit", itoa(limit)),
				run: func(ctx context.Context) (interface{}, error) {
					rows, err := d.runner.Run(ctx, graph.TeamsByLeagueQuery, map[string]interface{}{
						"league": folded,
						"limit":  limit,
					})
					if err != nil {
						return nil, err
					}
					return shape.TeamsByLeague(league, rows), nil
				},
			}, nil
		},
	}
}

func getTeamRosterTool() *Tool {
	return &Tool{
		Name:        "get_team_roster",
		Description: "List a team's squad, optionally only stints overlapping one season",
		TTLClass:    TTLFinal,
		Schema: objectSchema("Team roster parameters", map[string]interface{}{
			"team":   stringProp("Exact team name"),
			"season": stringProp("Season year, e.g. 2023"),
		}, []string{"team"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Team   string `arg:"team"`
				Season string `arg:"season"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			team, err := requireText("team", args.Team)
			if err != nil {
				return nil, err
			}
			season, err := optionalSeason("season", args.Season)
			if err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("get_team_roster", "team", normalize.Fold(team), "season", season),
				run: func(ctx context.Context) (interface{}, error) {
					teamRow, err := d.resolveTeam(ctx, team)
					if err != nil {
						return nil, err
					}
					params := map[string]interface{}{"name": normalize.Fold(team)}
					if season != "" {
						params["season_start"] = season + "-01-01"
						params["season_end"] = season + "-12-31"
					}
					roster, err := d.runner.Run(ctx, graph.TeamRosterQuery(season != ""), params)
					if err != nil {
						return nil, err
					}
					return shape.TeamRoster(teamRow, roster, seasonLabel(season)), nil
				},
			}, nil
		},
	}
}

func getTeamStatsTool() *Tool {
	return &Tool{
		Name:        "get_team_stats",
		Description: "Derive a team's win/draw/loss record and recent form from its matches",
		TTLClass:    TTLStats,
		Schema: objectSchema("Team statistics parameters", map[string]interface{}{
			"team":        stringProp("Exact team name"),
			"competition": stringProp("Restrict the record to one competition"),
		}, []string{"team"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Team        string `arg:"team"`
				Competition string `arg:"competition"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			team, err := requireText("team", args.Team)
			if err != nil {
				return nil, err
			}
			competition, err := optionalText("competition", args.Competition)
			if err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("get_team_stats", "team", normalize.Fold(team), "competition", normalize.Fold(competition)),
				run: func(ctx context.Context) (interface{}, error) {
					teamRow, err := d.resolveTeam(ctx, team)
					if err != nil {
						return nil, err
					}
					params := map[string]interface{}{"team": normalize.Fold(team), "limit": teamMatchWindow}
					if competition != "" {
						params["competition"] = normalize.Fold(competition)
					}
					matches, err := d.runner.Run(ctx, graph.TeamMatchesQuery(competition != ""), params)
					if err != nil {
						return nil, err
					}
					var filter *string
					if competition != "" {
						filter = &competition
					}
					return shape.TeamStats(teamRow, matches, filter), nil
				},
			}, nil
		},
	}
}

func compareTeamsTool() *Tool {
	return &Tool{
		Name:        "compare_teams",
		Description: "Compare two teams' squad sizes and match volumes",
		TTLClass:    TTLStats,
		Schema: objectSchema("Team comparison parameters", map[string]interface{}{
			"team1": stringProp("First team name"),
			"team2": stringProp("Second team name"),
		}, []string{"team1", "team2"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Team1 string `arg:"team1"`
				Team2 string `arg:"team2"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			t1, err := requireText("team1", args.Team1)
			if err != nil {
				return nil, err
			}
			t2, err := requireText("team2", args.Team2)
			if err != nil {
				return nil, err
			}
			if err := distinctPair("team2", t1, t2); err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("compare_teams", "team1", normalize.Fold(t1), "team2", normalize.Fold(t2)),
				run: func(ctx context.Context) (interface{}, error) {
					row1, err := d.resolveTeam(ctx, t1)
					if err != nil {
						return nil, err
					}
					row2, err := d.resolveTeam(ctx, t2)
					if err != nil {
						return nil, err
					}
					matches1, err := d.runner.Run(ctx, graph.TeamMatchesQuery(false), map[string]interface{}{"team": normalize.Fold(t1), "limit": teamMatchWindow})
					if err != nil {
						return nil, err
					}
					matches2, err := d.runner.Run(ctx, graph.TeamMatchesQuery(false), map[string]interface{}{"team": normalize.Fold(t2), "limit": teamMatchWindow})
					if err != nil {
						return nil, err
					}
					return shape.CompareTeams(row1, row2, len(matches1), len(matches2)), nil
				},
			}, nil
		},
	}
}

// resolveTeam fetches the summary row for an exact-name team lookup,
// turning an empty result into NotFound.
func (d *Dispatcher) resolveTeam(ctx context.Context, name string) (graph.Row, error) {
	rows, err := d.runner.Run(ctx, graph.TeamSummaryQuery, map[string]interface{}{"name": normalize.Fold(name)})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NewNotFound("team", name)
	}
	return rows[0], nil
}
