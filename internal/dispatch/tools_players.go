package dispatch

import (
	"context"
	"strings"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/external"
	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/normalize"
	"futebol-mcp/internal/shape"
)

func searchPlayerTool() *Tool {
	return &Tool{
		Name:        "search_player",
		Description: "Search players by full or partial name, case and accent insensitive",
		TTLClass:    TTLLive,
		Schema: objectSchema("Player search parameters", map[string]interface{}{
			"name":  stringProp("Full or partial player name"),
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
			limit = d.capResults("search_player", limit)
			folded := normalize.Fold(name)

			return &invocation{
				cacheKey: cacheKey("search_player", "name", folded, "limit", itoa(limit)),
				run: func(ctx context.Context) (interface{}, error) {
					rows, err := d.runner.Run(ctx, graph.SearchPlayersQuery, map[string]interface{}{
						"name":  folded,
						"limit": limit,
					})
					if err != nil {
						return nil, err
					}
					return shape.PlayerSearch(name, rows), nil
				},
			}, nil
		},
	}
}

func getPlayerStatsTool() *Tool {
	return &Tool{
		Name:        "get_player_stats",
		Description: "Aggregate a player's goals, assists, and cards, optionally for one season",
		TTLClass:    TTLStats,
		Schema: objectSchema("Player statistics parameters", map[string]interface{}{
			"player": stringProp("Exact player name"),
			"season": stringProp("Season year, e.g. 2023"),
		}, []string{"player"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Player string `arg:"player"`
				Season string `arg:"season"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			player, err := requireText("player", args.Player)
			if err != nil {
				return nil, err
			}
			season, err := optionalSeason("season", args.Season)
			if err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("get_player_stats", "player", normalize.Fold(player), "season", season),
				run: func(ctx context.Context) (interface{}, error) {
					bio, err := d.resolvePlayer(ctx, player)
					if err != nil {
						return nil, err
					}
					stints, err := d.runner.Run(ctx, graph.PlayerStintsQuery, map[string]interface{}{"name": normalize.Fold(player)})
					if err != nil {
						return nil, err
					}
					params := map[string]interface{}{"name": normalize.Fold(player)}
					if season != "" {
						params["season"] = season
					}
					participation, err := d.runner.Run(ctx, graph.PlayerParticipationQuery(season != ""), params)
					if err != nil {
						return nil, err
					}
					return shape.PlayerStats(bio, stints, participation, seasonLabel(season)), nil
				},
			}, nil
		},
	}
}

func getPlayerCareerTool() *Tool {
	return &Tool{
		Name:        "get_player_career",
		Description: "List a player's team spells with per-spell matches and goals",
		TTLClass:    TTLFinal,
		Schema: objectSchema("Player career parameters", map[string]interface{}{
			"player": stringProp("Exact player name"),
		}, []string{"player"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Player string `arg:"player"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			player, err := requireText("player", args.Player)
			if err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("get_player_career", "player", normalize.Fold(player)),
				run: func(ctx context.Context) (interface{}, error) {
					bio, err := d.resolvePlayer(ctx, player)
					if err != nil {
						return nil, err
					}
					career, err := d.runner.Run(ctx, graph.PlayerCareerQuery, map[string]interface{}{"name": normalize.Fold(player)})
					if err != nil {
						return nil, err
					}
					return shape.PlayerCareer(bio, career), nil
				},
			}, nil
		},
	}
}

func searchPlayersByPositionTool() *Tool {
	return &Tool{
		Name:        "search_players_by_position",
		Description: "List players for an exact position name",
		TTLClass:    TTLLive,
		Schema: objectSchema("Position search parameters", map[string]interface{}{
			"position": stringProp("Position name, e.g. Goalkeeper"),
			"limit":    intProp("Maximum number of results", 1, 100, 10),
		}, []string{"position"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Position string `arg:"position"`
				Limit    int    `arg:"limit"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			position, err := requireText("position", args.Position)
			if err != nil {
				return nil, err
			}
			limit, err := boundedLimit("limit", args.Limit, 10, 100)
			if err != nil {
				return nil, err
			}
			limit = d.capResults("search_players_by_position", limit)
			folded := normalize.Fold(position)

			return &invocation{
				cacheKey: cacheKey("search_players_by_position", "position", folded, "limit", itoa(limit)),
				run: func(ctx context.Context) (interface{}, error) {
					rows, err := d.runner.Run(ctx, graph.PlayersByPositionQuery, map[string]interface{}{
						"position": folded,
						"limit":    limit,
					})
					if err != nil {
						return nil, err
					}
					return shape.PlayersByPosition(position, rows), nil
				},
			}, nil
		},
	}
}

func comparePlayersTool() *Tool {
	return &Tool{
		Name:        "compare_players",
		Description: "Compare two players' career totals side by side",
		TTLClass:    TTLStats,
		Schema: objectSchema("Player comparison parameters", map[string]interface{}{
			"player1": stringProp("First player name"),
			"player2": stringProp("Second player name"),
		}, []string{"player1", "player2"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Player1 string `arg:"player1"`
				Player2 string `arg:"player2"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			p1, err := requireText("player1", args.Player1)
			if err != nil {
				return nil, err
			}
			p2, err := requireText("player2", args.Player2)
			if err != nil {
				return nil, err
			}
			if err := distinctPair("player2", p1, p2); err != nil {
				return nil, err
			}

			return &invocation{
				cacheKey: cacheKey("compare_players", "player1", normalize.Fold(p1), "player2", normalize.Fold(p2)),
				run: func(ctx context.Context) (interface{}, error) {
					row1, err := d.playerTotals(ctx, p1)
					if err != nil {
						return nil, err
					}
					row2, err := d.playerTotals(ctx, p2)
					if err != nil {
						return nil, err
					}
					return shape.ComparePlayers(row1, row2), nil
				},
			}, nil
		},
	}
}

func getPlayerSocialTool() *Tool {
	return &Tool{
		Name:        "get_player_social",
		Description: "Fetch a player's social media profile from an external source",
		TTLClass:    TTLLive,
		Schema: objectSchema("Social profile parameters", map[string]interface{}{
			"player": stringProp("Player name"),
			"source": stringProp("Profile source: twitter or instagram"),
		}, []string{"player", "source"}),
		prepare: func(d *Dispatcher, raw map[string]interface{}) (*invocation, error) {
			var args struct {
				Player string `arg:"player"`
				Source string `arg:"source"`
			}
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			player := strings.TrimSpace(args.Player)
			if _, err := requireText("player", player); err != nil {
				return nil, err
			}
			source := normalize.Clean(args.Source)
			if !external.ValidSource(source) {
				return nil, apperr.NewInvalidArgument("source", "must be one of: twitter, instagram", args.Source)
			}

			return &invocation{
				cacheKey: cacheKey("get_player_social", "player", normalize.Fold(player), "source", source),
				run: func(ctx context.Context) (interface{}, error) {
					return d.social.Profile(ctx, player, source)
				},
			}, nil
		},
	}
}

// resolvePlayer fetches the biographical row for an exact-name lookup,
// turning an empty result into NotFound.
func (d *Dispatcher) resolvePlayer(ctx context.Context, name string) (graph.Row, error) {
	rows, err := d.runner.Run(ctx, graph.PlayerBioQuery, map[string]interface{}{"name": normalize.Fold(name)})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NewNotFound("player", name)
	}
	return rows[0], nil
}

func (d *Dispatcher) playerTotals(ctx context.Context, name string) (graph.Row, error) {
	rows, err := d.runner.Run(ctx, graph.PlayerTotalsQuery, map[string]interface{}{"name": normalize.Fold(name)})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NewNotFound("player", name)
	}
	return rows[0], nil
}

func seasonLabel(season string) string {
	if season == "" {
		return "all"
	}
	return season
}
