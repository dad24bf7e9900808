package shape

import (
	"sort"

	"futebol-mcp/internal/graph"
	"futebol-mcp/pkg/types"
)

// Standings derives the league table from a competition's raw match rows.
// Every scored match contributes to both sides' records; points are three
// per win and one per draw. Ties break on goal difference, then goals
// scored, then team name, so the table is a deterministic function of the
// match set regardless of row order.
func Standings(competition, season string, rows []graph.Row) types.StandingsResult {
	records := map[string]*types.TeamRecord{}
	record := func(team string) *types.TeamRecord {
		if r, ok := records[team]; ok {
			return r
		}
		r := &types.TeamRecord{}
		records[team] = r
		return r
	}

	for _, row := range rows {
		m := MatchFromRow(row)
		if m.HomeScore == nil || m.AwayScore == nil || m.HomeTeam == "" || m.AwayTeam == "" {
			continue
		}
		applyResult(record(m.HomeTeam), *m.HomeScore, *m.AwayScore)
		applyResult(record(m.AwayTeam), *m.AwayScore, *m.HomeScore)
	}

	table := make([]types.StandingsRow, 0, len(records))
	for team, rec := range records {
		rec.GoalDifference = rec.GoalsFor - rec.GoalsAgainst
		rec.Points = 3*rec.Wins + rec.Draws
		table = append(table, types.StandingsRow{Team: team, TeamRecord: *rec})
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Team < b.Team
	})
	for i := range table {
		table[i].Position = i + 1
	}

	return types.StandingsResult{
		Competition: competition,
		Season:      season,
		Table:       table,
	}
}

func applyResult(rec *types.TeamRecord, scored, conceded int64) {
	rec.MatchesPlayed++
	rec.GoalsFor += scored
	rec.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		rec.Wins++
	case scored < conceded:
		rec.Losses++
	default:
		rec.Draws++
	}
}

// TopScorers ranks the per-player participation aggregates: most goals
// first, fewer matches breaking ties, then name. Players without a goal
// are dropped.
func TopScorers(competition, season string, rows []graph.Row, limit int) types.TopScorersResult {
	scorers := make([]types.ScorerRow, 0, len(rows))
	for _, r := range rows {
		goals := r.Int("goals")
		if goals <= 0 {
			continue
		}
		row := types.ScorerRow{
			Player:        r.String("player"),
			Position:      r.OptString("position"),
			Team:          r.OptString("team"),
			Goals:         goals,
			Assists:       r.Int("assists"),
			MatchesPlayed: r.Int("matches_played"),
		}
		if row.MatchesPlayed > 0 {
			row.GoalsPerMatch = round2(float64(row.Goals) / float64(row.MatchesPlayed))
		}
		scorers = append(scorers, row)
	}

	sort.Slice(scorers, func(i, j int) bool {
		a, b := scorers[i], scorers[j]
		if a.Goals != b.Goals {
			return a.Goals > b.Goals
		}
		if a.MatchesPlayed != b.MatchesPlayed {
			return a.MatchesPlayed < b.MatchesPlayed
		}
		return a.Player < b.Player
	})

	if limit > 0 && len(scorers) > limit {
		scorers = scorers[:limit]
	}
	for i := range scorers {
		scorers[i].Rank = i + 1
	}

	return types.TopScorersResult{
		Competition: competition,
		Season:      season,
		Scorers:     scorers,
	}
}

// CompetitionInfo shapes one competition row. The team count halves the
// home/away mention tally from the traversal.
func CompetitionInfo(r graph.Row) types.CompetitionInfoResult {
	teams := r.Int("team_mentions")
	return types.CompetitionInfoResult{
		Name:         r.String("name"),
		Season:       r.OptString("season"),
		Format:       r.OptString("format"),
		TotalMatches: r.Int("total_matches"),
		TotalTeams:   teams / 2,
		SampleTeams:  r.Strings("sample_teams"),
	}
}
