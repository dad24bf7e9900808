package dispatch

import (
	"context"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/normalize"
	"futebol-mcp/internal/shape"
	"futebol-mcp/pkg/types"
)

// pairMatchWindow bounds how many meetings feed pair aggregations.
const pairMatchWindow = 200

func getMatchDetailsTool() *Tool {
	return &Tool{
		Name:        "get_match_details",
		Description: "Fetch one match with its event timeline, by id or by the two team names",
		TTLClass:    TTLFinal,
		Schema: objectSchema("Match details parameters", map[string]interface{}{
			"match_id":  stringProp("Stable match identifier"),
			"home_team": stringProp("Home team name, used with away_team when no id is given"),
			"away_team": stringProp("Away team name"),
			"date":      stringProp("Match date YYYY-MM-DD, disambiguates repeated fixtures"),
		}, []string{}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				MatchID  string `arg:"match_id"`
				HomeTeam string `arg:"home_team"`
				AwayTeam string `arg:"away_team"`
				Date     string `arg:"date"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}

			id, err := optionalText("match_id", args.MatchID)
			if err != nil {
				return nil, err
			}
			home, err := optionalText("home_team", args.HomeTeam)
			if err != nil {
				return nil, err
			}
			away, err := optionalText("away_team", args.AwayTeam)
			if err != nil {
				return nil, err
			}
			date, err := optionalDate("date", args.Date)
			if err != nil {
				return nil, err
			}

			if id == "" && (home == "" || away == "") {
				return nil, apperr.NewInvalidArgument("match_id", "either match_id or both home_team and away_team are required", nil)
			}
			if id == "" && home != "" && away != "" {
				if err := distinctPair("away_team", home, away); err != nil {
					return nil, err
				}
			}

			return &invocation{
				cacheKey: cacheKey("get_match_details",
					"id", id,
					"home", normalize.Fold(home),
					"away", normalize.Fold(away),
					"date", date,
				),
				run: func(ctx context.Context) (interface{}, error) {
					var rows []graph.Row
					var err error
					if id != "" {
						rows, err = d.runner.Run(ctx, graph.MatchByIDQuery, map[string]interface{}{"id": id, "limit": 1})
					} else {
						params := map[string]interface{}{"team1": normalize.Fold(home), "team2": normalize.Fold(away), "limit": 1}
						if date != "" {
							params["date"] = date
						}
						rows, err = d.runner.Run(ctx, graph.MatchByTeamsQuery(date != ""), params)
					}
					if err != nil {
						return nil, err
					}
					if len(rows) == 0 {
						return nil, apperr.NewNotFound("match", matchLabel(id, home, away))
					}

					match := rows[0]
					var events []graph.Row
					if matchID := match.String("id"); matchID != "" {
						events, err = d.runner.Run(ctx, graph.MatchEventsQuery, map[string]interface{}{"id": matchID})
						if err != nil {
							return nil, err
						}
					}
					return shape.MatchDetails(match, events), nil
				},
			}, nil
		},
	}
}

func matchLabel(id, home, away string) string {
	if id != "" {
		return id
	}
	return home + " vs " + away
}

func searchMatchesTool() *Tool {
	return &Tool{
		Name:        "search_matches",
		Description: "Search matches by any combination of team, date range, and competition",
		TTLClass:    TTLLive,
		Schema: objectSchema("Match search parameters", map[string]interface{}{
			"team":        stringProp("Team appearing on either side"),
			"start_date":  stringProp("Earliest date YYYY-MM-DD"),
			"end_date":    stringProp("Latest date YYYY-MM-DD"),
			"competition": stringProp("Competition name"),
			"limit":       intProp("Maximum number of results", 1, 200, 20),
		}, []string{}),
		prepare: prepareMatchSearch("search_matches", false),
	}
}

func searchMatchesByDateTool() *Tool {
	return &Tool{
		Name:        "search_matches_by_date",
		Description: "List matches within a mandatory date range",
		TTLClass:    TTLLive,
		Schema: objectSchema("Date range search parameters", map[string]interface{}{
			"start_date":  stringProp("Earliest date YYYY-MM-DD"),
			"end_date":    stringProp("Latest date YYYY-MM-DD"),
			"team":        stringProp("Team appearing on either side"),
			"competition": stringProp("Competition name"),
			"limit":       intProp("Maximum number of results", 1, 200, 20),
		}, []string{"start_date", "end_date"}),
		prepare: prepareMatchSearch("search_matches_by_date", true),
	}
}

// prepareMatchSearch backs both match search tools; they differ only in
// whether the date range is mandatory.
func prepareMatchSearch(tool string, datesRequired bool) func(*Dispatcher, map[string]interface{}) (*invocation, error) {
	return func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
		var args struct {
			Team        string `arg:"team"`
			StartDate   string `arg:"start_date"`
			EndDate     string `arg:"end_date"`
			Competition string `arg:"competition"`
			Limit       int    `arg:"limit"`
		}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}

		team, err := optionalText("team", args.Team)
		if err != nil {
			return nil, err
		}
		competition, err := optionalText("competition", args.Competition)
		if err != nil {
			return nil, err
		}
		dateCheck := optionalDate
		if datesRequired {
			dateCheck = requiredDate
		}
		start, err := dateCheck("start_date", args.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := dateCheck("end_date", args.EndDate)
		if err != nil {
			return nil, err
		}
		if start != "" && end != "" && start > end {
			return nil, apperr.NewInvalidArgument("end_date", "must not precede start_date", args.EndDate)
		}
		limit, err := boundedLimit("limit", args.Limit, 20, 200)
		if err != nil {
			return nil, err
		}
		limit = d.capResults(tool, limit)

		filters := graph.MatchFilters{
			Team:        normalize.Fold(team),
			StartDate:   start,
			EndDate:     end,
			Competition: normalize.Fold(competition),
		}
		criteria := types.MatchSearchCriteria{
			Team:        optPtr(team),
			StartDate:   optPtr(start),
			EndDate:     optPtr(end),
			Competition: optPtr(competition),
		}

		return &invocation{
			cacheKey: cacheKey(tool,
				"team", normalize.Fold(team),
				"start", start,
				"end", end,
				"competition", normalize.Fold(competition),
				"limit", itoa(limit),
			),
			run: func(ctx context.Context) (interface{}, error) {
				query, params := graph.SearchMatchesQuery(filters)
				params["limit"] = limit
				rows, err := d.runner.Run(ctx, query, params)
				if err != nil {
					return nil, err
				}
				return shape.MatchSearch(criteria, rows), nil
			},
		}, nil
	}
}

func getHeadToHeadTool() *Tool {
	return &Tool{
		Name:        "get_head_to_head",
		Description: "Aggregate every meeting between two teams, symmetric in the pair order",
		TTLClass:    TTLStats,
		Schema: objectSchema("Head-to-head parameters", map[string]interface{}{
			"team1":       stringProp("First team name"),
			"team2":       stringProp("Second team name"),
			"competition": stringProp("Restrict to one competition"),
		}, []string{"team1", "team2"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Team1       string `arg:"team1"`
				Team2       string `arg:"team2"`
				Competition string `arg:"competition"`
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
			competition, err := optionalText("competition", args.Competition)
			if err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("get_head_to_head",
					"team1", normalize.Fold(t1),
					"team2", normalize.Fold(t2),
					"competition", normalize.Fold(competition),
				),
				run: func(ctx context.Context) (interface{}, error) {
					params := map[string]interface{}{"team1": normalize.Fold(t1), "team2": normalize.Fold(t2), "limit": pairMatchWindow}
					if competition != "" {
						params["competition"] = normalize.Fold(competition)
					}
					rows, err := d.runner.Run(ctx, graph.HeadToHeadQuery(competition != "", false), params)
					if err != nil {
						return nil, err
					}
					return shape.HeadToHead(t1, t2, optPtr(competition), rows), nil
				},
			}, nil
		},
	}
}

func optPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
