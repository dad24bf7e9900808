package dispatch

import (
	"context"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/normalize"
	"futebol-mcp/internal/shape"
)

func getCompetitionStandingsTool() *Tool {
	return &Tool{
		Name:        "get_competition_standings",
		Description: "Derive the league table from a competition's match results",
		TTLClass:    TTLLive,
		Schema: objectSchema("Standings parameters", map[string]interface{}{
			"competition": stringProp("Competition name"),
			"season":      stringProp("Season year, e.g. 2023"),
		}, []string{"competition"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Competition string `arg:"competition"`
				Season      string `arg:"season"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			competition, err := requireText("competition", args.Competition)
			if err != nil {
				return nil, err
			}
			season, err := optionalSeason("season", args.Season)
			if err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("get_competition_standings", "competition", normalize.Fold(competition), "season", season),
				run: func(ctx context.Context) (interface{}, error) {
					params := map[string]interface{}{"competition": normalize.Fold(competition)}
					if season != "" {
						params["season"] = season
					}
					rows, err := d.runner.Run(ctx, graph.CompetitionMatchesQuery(season != ""), params)
					if err != nil {
						return nil, err
					}
					display := competition
					if len(rows) > 0 {
						if name := rows[0].String("competition"); name != "" {
							display = name
						}
					}
					return shape.Standings(display, seasonLabel(season), rows), nil
				},
			}, nil
		},
	}
}

func getCompetitionTopScorersTool() *Tool {
	return &Tool{
		Name:        "get_competition_top_scorers",
		Description: "Rank a competition's scorers by goals, fewer matches breaking ties",
		TTLClass:    TTLStats,
		Schema: objectSchema("Top scorers parameters", map[string]interface{}{
			"competition": stringProp("Competition name"),
			"season":      stringProp("Season year, e.g. 2023"),
			"limit":       intProp("Maximum number of scorers", 1, 100, 10),
		}, []string{"competition"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Competition string `arg:"competition"`
				Season      string `arg:"season"`
				Limit       int    `arg:"limit"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			competition, err := requireText("competition", args.Competition)
			if err != nil {
				return nil, err
			}
			season, err := optionalSeason("season", args.Season)
			if err != nil {
				return nil, err
			}
			limit, err := boundedLimit("limit", args.Limit, 10, 100)
			if err != nil {
				return nil, err
			}
			limit = d.capResults("get_competition_top_scorers", limit)

			return &invocation{
				cacheKey: cacheKey("get_competition_top_scorers",
					"competition", normalize.Fold(competition),
					"season", season,
					"limit", itoa(limit),
				),
				run: func(ctx context.Context) (interface{}, error) {
					params := map[string]interface{}{"competition": normalize.Fold(competition)}
					if season != "" {
						params["season"] = season
					}
					rows, err := d.runner.Run(ctx, graph.ScorerParticipationQuery(season != ""), params)
					if err != nil {
						return nil, err
					}
					return shape.TopScorers(competition, seasonLabel(season), rows, limit), nil
				},
			}, nil
		},
	}
}

func getCompetitionInfoTool() *Tool {
	return &Tool{
		Name:        "get_competition_info",
		Description: "Fetch one competition's format and coarse match counts",
		TTLClass:    TTLFinal,
		Schema: objectSchema("Competition info parameters", map[string]interface{}{
			"name": stringProp("Competition name"),
		}, []string{"name"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Name string `arg:"name"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			name, err := requireText("name", args.Name)
			if err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("get_competition_info", "name", normalize.Fold(name)),
				run: func(ctx context.Context) (interface{}, error) {
					rows, err := d.runner.Run(ctx, graph.CompetitionInfoQuery, map[string]interface{}{"name": normalize.Fold(name)})
					if err != nil {
						return nil, err
					}
					if len(rows) == 0 {
						return nil, apperr.NewNotFound("competition", name)
					}
					return shape.CompetitionInfo(rows[0]), nil
				},
			}, nil
		},
	}
}
