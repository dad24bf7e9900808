package shape

import (
	"sort"
	"strings"

	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/normalize"
	"futebol-mcp/pkg/types"
)

// PlayerSearch shapes a player name search, ranked by closeness to the
// query: exact matches first, then prefix matches, then the remaining
// substring matches, alphabetical within each tier.
func PlayerSearch(query string, rows []graph.Row) types.PlayerSearchResult {
	players := make([]types.PlayerSummary, 0, len(rows))
	for _, r := range rows {
		players = append(players, playerSummaryFromRow(r))
	}

	folded := normalize.Fold(query)
	sort.SliceStable(players, func(i, j int) bool {
		ti, tj := matchTier(players[i].Name, folded), matchTier(players[j].Name, folded)
		if ti != tj {
			return ti < tj
		}
		return players[i].Name < players[j].Name
	})

	return types.PlayerSearchResult{
		Query:      query,
		TotalFound: len(players),
		Players:    players,
	}
}

func matchTier(name, foldedQuery string) int {
	folded := normalize.Fold(name)
	switch {
	case folded == foldedQuery:
		return 0
	case strings.HasPrefix(folded, foldedQuery):
		return 1
	default:
		return 2
	}
}

// PlayersByPosition shapes a position listing. Rows arrive alphabetical
// from the traversal; no closeness ranking applies.
func PlayersByPosition(position string, rows []graph.Row) types.PlayerSearchResult {
	players := make([]types.PlayerSummary, 0, len(rows))
	for _, r := range rows {
		players = append(players, playerSummaryFromRow(r))
	}
	return types.PlayerSearchResult{
		Query:      position,
		TotalFound: len(players),
		Players:    players,
	}
}

func playerSummaryFromRow(r graph.Row) types.PlayerSummary {
	return types.PlayerSummary{
		Name:        r.String("name"),
		Position:    r.OptString("position"),
		BirthDate:   r.OptString("birth_date"),
		Nationality: r.OptString("nationality"),
		Teams:       r.Strings("teams"),
	}
}

// PlayerBioFromRow builds the biographical block of a player result.
func PlayerBioFromRow(r graph.Row) types.PlayerBio {
	return types.PlayerBio{
		Name:        r.String("name"),
		Position:    r.OptString("position"),
		BirthDate:   r.OptString("birth_date"),
		Nationality: r.OptString("nationality"),
		Height:      r.OptInt("height"),
		Weight:      r.OptInt("weight"),
	}
}

// PlayerStats aggregates per-match participation into one stat line.
// season is "all" when the caller did not bound the window.
func PlayerStats(bioRow graph.Row, stintRows, participationRows []graph.Row, season string) types.PlayerStatsResult {
	var line types.StatLine
	competitions := map[string]struct{}{}
	for _, r := range participationRows {
		line.MatchesPlayed++
		line.Goals += r.Int("goals")
		line.Assists += r.Int("assists")
		line.YellowCards += r.Int("yellow_cards")
		line.RedCards += r.Int("red_cards")
		if c := r.String("competition"); c != "" {
			competitions[c] = struct{}{}
		}
	}
	line.Competitions = sortedKeys(competitions)

	stints := make([]types.Stint, 0, len(stintRows))
	for _, r := range stintRows {
		stints = append(stints, types.Stint{
			Team:         r.String("team"),
			StartDate:    r.OptString("start_date"),
			EndDate:      r.OptString("end_date"),
			JerseyNumber: r.OptInt("jersey_number"),
		})
	}

	return types.PlayerStatsResult{
		Player:     PlayerBioFromRow(bioRow),
		Season:     season,
		Statistics: line,
		Stints:     stints,
	}
}

// PlayerCareer shapes the spell-by-spell history plus career totals.
// CareerEnd stays null while any spell is still open.
func PlayerCareer(bioRow graph.Row, careerRows []graph.Row) types.PlayerCareerResult {
	history := make([]types.CareerEntry, 0, len(careerRows))
	summary := types.CareerSummary{TotalTeams: len(careerRows)}
	open := false

	for _, r := range careerRows {
		entry := types.CareerEntry{
			Team:         r.String("team"),
			City:         r.OptString("city"),
			StartDate:    r.OptString("start_date"),
			EndDate:      r.OptString("end_date"),
			JerseyNumber: r.OptInt("jersey_number"),
			Matches:      r.Int("matches"),
			Goals:        r.Int("goals"),
			Competitions: r.Strings("competitions"),
		}
		history = append(history, entry)

		summary.TotalMatches += entry.Matches
		summary.TotalGoals += entry.Goals
		if entry.StartDate != nil && (summary.CareerStart == nil || *entry.StartDate < *summary.CareerStart) {
			summary.CareerStart = entry.StartDate
		}
		if entry.EndDate == nil {
			open = true
		} else if summary.CareerEnd == nil || *entry.EndDate > *summary.CareerEnd {
			summary.CareerEnd = entry.EndDate
		}
	}
	if open {
		summary.CareerEnd = nil
	}

	return types.PlayerCareerResult{
		Player:  PlayerBioFromRow(bioRow),
		Summary: summary,
		History: history,
	}
}

// ComparePlayers shapes a two-sided player comparison from the per-player
// totals rows. GoalsDifference is from player1's perspective.
func ComparePlayers(row1, row2 graph.Row) types.PlayerComparisonResult {
	p1 := comparedPlayerFromRow(row1)
	p2 := comparedPlayerFromRow(row2)
	return types.PlayerComparisonResult{
		Player1:         p1,
		Player2:         p2,
		GoalsDifference: p1.Goals - p2.Goals,
		SamePosition:    optEqualFold(p1.Position, p2.Position),
		SameNationality: optEqualFold(p1.Nationality, p2.Nationality),
	}
}

func comparedPlayerFromRow(r graph.Row) types.ComparedPlayer {
	return types.ComparedPlayer{
		Name:        r.String("name"),
		Position:    r.OptString("position"),
		Nationality: r.OptString("nationality"),
		Goals:       r.Int("goals"),
		Matches:     r.Int("matches"),
		Teams:       r.Strings("teams"),
	}
}

func optEqualFold(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	return normalize.Fold(*a) == normalize.Fold(*b)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
