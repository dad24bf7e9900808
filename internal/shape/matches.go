// Package shape converts raw graph rows into the fixed tool response
// schemas. All derived numbers live here: win/draw/loss records, standings
// order, scorer rankings, percentages. The traversal templates stay
// aggregation-light so the shaper is the single place ordering and
// tie-break rules are defined.
package shape

import (
	"math"

	"futebol-mcp/internal/graph"
	"futebol-mcp/pkg/types"
)

// MatchFromRow builds one match summary, deriving the winner when both
// scores are known. A tie yields the literal "draw"; an unknown score
// yields a null winner.
func MatchFromRow(r graph.Row) types.MatchSummary {
	home := r.String("home_team")
	away := r.String("away_team")
	hs := r.OptInt("home_score")
	as := r.OptInt("away_score")
	return types.MatchSummary{
		ID:          r.OptString("id"),
		Date:        r.OptString("date"),
		HomeTeam:    home,
		AwayTeam:    away,
		HomeScore:   hs,
		AwayScore:   as,
		Venue:       r.OptString("venue"),
		Competition: r.OptString("competition"),
		Season:      r.OptString("season"),
		Winner:      winnerOf(home, away, hs, as),
	}
}

func winnerOf(home, away string, hs, as *int64) *string {
	if hs == nil || as == nil {
		return nil
	}
	switch {
	case *hs > *as:
		return &home
	case *as > *hs:
		return &away
	default:
		draw := "draw"
		return &draw
	}
}

// MatchSearch shapes a filtered match listing, echoing the normalized
// criteria so callers can see what was actually searched.
func MatchSearch(criteria types.MatchSearchCriteria, rows []graph.Row) types.MatchSearchResult {
	matches := make([]types.MatchSummary, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, MatchFromRow(r))
	}
	return types.MatchSearchResult{
		Criteria:   criteria,
		TotalFound: len(matches),
		Matches:    matches,
	}
}

// MatchDetails shapes one match with its ordered event timeline.
func MatchDetails(matchRow graph.Row, eventRows []graph.Row) types.MatchDetailsResult {
	summary := MatchFromRow(matchRow)

	events := make([]types.MatchEvent, 0, len(eventRows))
	for _, r := range eventRows {
		events = append(events, types.MatchEvent{
			Type:        r.String("type"),
			Minute:      r.Int("minute"),
			Player:      r.OptString("player"),
			Team:        r.OptString("team"),
			Description: r.OptString("description"),
		})
	}

	return types.MatchDetailsResult{
		ID:          summary.ID,
		Date:        summary.Date,
		Venue:       summary.Venue,
		Referee:     matchRow.OptString("referee"),
		Attendance:  matchRow.OptInt("attendance"),
		Competition: summary.Competition,
		Season:      summary.Season,
		Home:        types.MatchSide{Name: summary.HomeTeam, Score: summary.HomeScore},
		Away:        types.MatchSide{Name: summary.AwayTeam, Score: summary.AwayScore},
		Winner:      summary.Winner,
		Events:      events,
	}
}

// round2 rounds to two decimals for per-match averages.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pct1 converts a ratio to a percentage rounded to one decimal.
func pct1(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
