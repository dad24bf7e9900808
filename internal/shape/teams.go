package shape

import (
	"fmt"
	"sort"

	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/normalize"
	"futebol-mcp/pkg/types"
)

// formWindow bounds how many recent matches feed the form readout.
const formWindow = 5

// TeamSearch shapes a team name search, ranked by closeness to the query:
// exact matches first, then prefix matches, then the remaining substring
// matches, alphabetical within each tier.
func TeamSearch(query string, rows []graph.Row) types.TeamSearchResult {
	teams := make([]types.TeamSummary, 0, len(rows))
	for _, r := range rows {
		teams = append(teams, TeamSummaryFromRow(r))
	}

	folded := normalize.Fold(query)
	sort.SliceStable(teams, func(i, j int) bool {
		ti, tj := matchTier(teams[i].Name, folded), matchTier(teams[j].Name, folded)
		if ti != tj {
			return ti < tj
		}
		return teams[i].Name < teams[j].Name
	})

	return types.TeamSearchResult{
		Query:      query,
		TotalFound: len(teams),
		Teams:      teams,
	}
}

// TeamsByLeague shapes a league-filtered team listing. Rows arrive
// alphabetical from the traversal; no closeness ranking applies.
func TeamsByLeague(league string, rows []graph.Row) types.TeamsByLeagueResult {
	teams := make([]types.TeamSummary, 0, len(rows))
	for _, r := range rows {
		teams = append(teams, TeamSummaryFromRow(r))
	}
	return types.TeamsByLeagueResult{
		League:     league,
		TotalFound: len(teams),
		Teams:      teams,
	}
}

// TeamSummaryFromRow builds one team block.
func TeamSummaryFromRow(r graph.Row) types.TeamSummary {
	return types.TeamSummary{
		Name:      r.String("name"),
		City:      r.OptString("city"),
		Founded:   r.OptString("founded"),
		Stadium:   r.OptString("stadium"),
		SquadSize: r.Int("squad_size"),
	}
}

// TeamRoster shapes a squad listing. season is "all" when unbounded.
func TeamRoster(teamRow graph.Row, rosterRows []graph.Row, season string) types.TeamRosterResult {
	roster := make([]types.RosterPlayer, 0, len(rosterRows))
	for _, r := range rosterRows {
		roster = append(roster, types.RosterPlayer{
			Name:         r.String("name"),
			Position:     r.OptString("position"),
			BirthDate:    r.OptString("birth_date"),
			Nationality:  r.OptString("nationality"),
			JerseyNumber: r.OptInt("jersey_number"),
			StartDate:    r.OptString("start_date"),
			EndDate:      r.OptString("end_date"),
		})
	}
	return types.TeamRosterResult{
		Team:         TeamSummaryFromRow(teamRow),
		Season:       season,
		TotalPlayers: len(roster),
		Roster:       roster,
	}
}

// TeamStats derives a team's record and recent form from its raw match
// rows. Matches without both scores carry no result and are excluded from
// the record. Rows arrive newest first; the form window takes the head.
func TeamStats(teamRow graph.Row, matchRows []graph.Row, competition *string) types.TeamStatsResult {
	team := TeamSummaryFromRow(teamRow)
	folded := normalize.Fold(team.Name)

	var record types.TeamRecord
	form := make([]types.FormEntry, 0, formWindow)

	for _, r := range matchRows {
		m := MatchFromRow(r)
		if m.HomeScore == nil || m.AwayScore == nil {
			continue
		}

		home := normalize.Fold(m.HomeTeam) == folded
		var gf, ga int64
		var opponent string
		if home {
			gf, ga = *m.HomeScore, *m.AwayScore
			opponent = m.AwayTeam
		} else {
			gf, ga = *m.AwayScore, *m.HomeScore
			opponent = m.HomeTeam
		}

		record.MatchesPlayed++
		record.GoalsFor += gf
		record.GoalsAgainst += ga
		outcome := "draw"
		switch {
		case gf > ga:
			record.Wins++
			outcome = "win"
		case gf < ga:
			record.Losses++
			outcome = "loss"
		default:
			record.Draws++
		}

		if len(form) < formWindow {
			form = append(form, types.FormEntry{
				Date:     m.Date,
				Opponent: opponent,
				Home:     home,
				Score:    fmt.Sprintf("%d-%d", gf, ga),
				Outcome:  outcome,
			})
		}
	}

	record.GoalDifference = record.GoalsFor - record.GoalsAgainst
	record.Points = 3*record.Wins + record.Draws

	return types.TeamStatsResult{
		Team:              team,
		CompetitionFilter: competition,
		Record:            record,
		RecentForm:        form,
	}
}

// CompareTeams shapes a two-sided team comparison. Match counts come from
// each side's raw match listing.
func CompareTeams(row1, row2 graph.Row, matches1, matches2 int) types.TeamComparisonResult {
	t1 := TeamSummaryFromRow(row1)
	t2 := TeamSummaryFromRow(row2)
	return types.TeamComparisonResult{
		Team1:           types.ComparedTeam{Name: t1.Name, SquadSize: t1.SquadSize, Matches: int64(matches1)},
		Team2:           types.ComparedTeam{Name: t2.Name, SquadSize: t2.SquadSize, Matches: int64(matches2)},
		SquadDifference: t1.SquadSize - t2.SquadSize,
	}
}
