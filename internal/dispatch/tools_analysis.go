package dispatch

import (
	"context"
	"fmt"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/normalize"
	"futebol-mcp/internal/shape"
)

const (
	minTeammateGroup = 2
	maxTeammateGroup = 5

	defaultRivalryYears = 10
	maxRivalryYears     = 100
)

func findCommonTeammatesTool() *Tool {
	return &Tool{
		Name:        "find_common_teammates",
		Description: "Find players who shared a team and a time window with every listed player",
		TTLClass:    TTLFinal,
		Schema: objectSchema("Common teammates parameters", map[string]interface{}{
			"players": stringArrayProp("Two to five player names"),
			"team":    stringProp("Restrict to one team"),
		}, []string{"players"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Players []string `arg:"players"`
				Team    string   `arg:"team"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if len(args.Players) < minTeammateGroup || len(args.Players) > maxTeammateGroup {
				return nil, apperr.NewInvalidArgument("players",
					fmt.Sprintf("must list between %d and %d players", minTeammateGroup, maxTeammateGroup), args.Players)
			}

			players := make([]string, 0, len(args.Players))
			seen := map[string]bool{}
			for i, p := range args.Players {
				cleaned, err := requireText(fmt.Sprintf("players[%d]", i), p)
				if err != nil {
					return nil, err
				}
				folded := normalize.Fold(cleaned)
				if seen[folded] {
					return nil, apperr.NewInvalidArgument("players", "must not repeat a player", p)
				}
				seen[folded] = true
				players = append(players, cleaned)
			}
			team, err := optionalText("team", args.Team)
			if err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("find_common_teammates",
					"players", foldedList(players),
					"team", normalize.Fold(team),
				),
				run: func(ctx context.Context) (interface{}, error) {
					names := make([]interface{}, len(players))
					for i, p := range players {
						names[i] = normalize.Fold(p)
					}
					params := map[string]interface{}{"players": names}
					if team != "" {
						params["team"] = normalize.Fold(team)
					}
					rows, err := d.runner.Run(ctx, graph.CommonTeammatesQuery(team != ""), params)
					if err != nil {
						return nil, err
					}
					return shape.CommonTeammates(players, optPtr(team), rows), nil
				},
			}, nil
		},
	}
}

func foldedList(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ","
		}
		out += normalize.Fold(v)
	}
	return out
}

func getRivalryStatsTool() *Tool {
	return &Tool{
		Name:        "get_rivalry_stats",
		Description: "Break a rivalry down by venue, competition, and year over a lookback window",
		TTLClass:    TTLStats,
		Schema: objectSchema("Rivalry parameters", map[string]interface{}{
			"team1": stringProp("First team name"),
			"team2": stringProp("Second team name"),
			"years": intProp("Lookback window in years", 1, maxRivalryYears, defaultRivalryYears),
		}, []string{"team1", "team2"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Team1 string `arg:"team1"`
				Team2 string `arg:"team2"`
				Years int    `arg:"years"`
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
			years, err := boundedLimit("years", args.Years, defaultRivalryYears, maxRivalryYears)
			if err != nil {
				return nil, err
			}
			since := d.now().AddDate(-years, 0, 0).Format("2006-01-02")

			return &invocation{
				cacheKey: cacheKey("get_rivalry_stats",
					"team1", normalize.Fold(t1),
					"team2", normalize.Fold(t2),
					"since", since,
				),
				run: func(ctx context.Context) (interface{}, error) {
					rows, err := d.runner.Run(ctx, graph.HeadToHeadQuery(false, true), map[string]interface{}{
						"team1": normalize.Fold(t1),
						"team2": normalize.Fold(t2),
						"since": since,
						"limit": pairMatchWindow,
					})
					if err != nil {
						return nil, err
					}
					return shape.Rivalry(t1, t2, years, since, rows), nil
				},
			}, nil
		},
	}
}
