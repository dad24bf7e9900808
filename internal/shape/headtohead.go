package shape

import (
	"fmt"

	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/normalize"
	"futebol-mcp/pkg/types"
)

// recentWindow bounds the recent-match excerpts in pair results.
const recentWindow = 5

// pairTally accumulates the record between two teams from team1's
// perspective. team1 is identified by folded-name comparison so the tally
// is insensitive to which home/away slot a team occupies.
type pairTally struct {
	team1Folded string

	matches       []types.MatchSummary
	team1Wins     int
	team2Wins     int
	draws         int
	team1Goals    int64
	team2Goals    int64
	team1HomeWins int
	team1AwayWins int
	team2HomeWins int
	team2AwayWins int
	byCompetition map[string]*types.CompetitionSplit
	byYear        map[string]*types.YearSplit
	team1Display  string
	team2Display  string
}

func newPairTally(team1 string) *pairTally {
	return &pairTally{
		team1Folded:   normalize.Fold(team1),
		byCompetition: map[string]*types.CompetitionSplit{},
		byYear:        map[string]*types.YearSplit{},
	}
}

func (t *pairTally) add(r graph.Row) {
	m := MatchFromRow(r)
	t.matches = append(t.matches, m)

	team1Home := normalize.Fold(m.HomeTeam) == t.team1Folded
	if team1Home {
		t.team1Display, t.team2Display = m.HomeTeam, m.AwayTeam
	} else {
		t.team1Display, t.team2Display = m.AwayTeam, m.HomeTeam
	}

	if m.HomeScore == nil || m.AwayScore == nil {
		return
	}

	var g1, g2 int64
	if team1Home {
		g1, g2 = *m.HomeScore, *m.AwayScore
	} else {
		g1, g2 = *m.AwayScore, *m.HomeScore
	}
	t.team1Goals += g1
	t.team2Goals += g2

	outcome := 0 // -1 team2 win, 0 draw, 1 team1 win
	switch {
	case g1 > g2:
		outcome = 1
		t.team1Wins++
		if team1Home {
			t.team1HomeWins++
		} else {
			t.team1AwayWins++
		}
	case g2 > g1:
		outcome = -1
		t.team2Wins++
		if team1Home {
			t.team2AwayWins++
		} else {
			t.team2HomeWins++
		}
	default:
		t.draws++
	}

	comp := "unknown"
	if m.Competition != nil {
		comp = *m.Competition
	}
	split, ok := t.byCompetition[comp]
	if !ok {
		split = &types.CompetitionSplit{}
		t.byCompetition[comp] = split
	}
	split.Matches++

	if m.Date != nil && len(*m.Date) >= 4 {
		year := (*m.Date)[:4]
		ys, ok := t.byYear[year]
		if !ok {
			ys = &types.YearSplit{}
			t.byYear[year] = ys
		}
		switch outcome {
		case 1:
			ys.Team1Wins++
		case -1:
			ys.Team2Wins++
		default:
			ys.Draws++
		}
	}

	switch outcome {
	case 1:
		split.Team1Wins++
	case -1:
		split.Team2Wins++
	default:
		split.Draws++
	}
}

func (t *pairTally) scored() int {
	return t.team1Wins + t.team2Wins + t.draws
}

func (t *pairTally) record() types.HeadToHeadRecord {
	n := t.scored()
	return types.HeadToHeadRecord{
		TotalMatches: len(t.matches),
		Team1Wins:    t.team1Wins,
		Team2Wins:    t.team2Wins,
		Draws:        t.draws,
		Team1WinPct:  pct1(t.team1Wins, n),
		Team2WinPct:  pct1(t.team2Wins, n),
		DrawPct:      pct1(t.draws, n),
	}
}

func (t *pairTally) goals() types.HeadToHeadGoals {
	g := types.HeadToHeadGoals{Team1Total: t.team1Goals, Team2Total: t.team2Goals}
	if n := t.scored(); n > 0 {
		g.Team1Average = round2(float64(t.team1Goals) / float64(n))
		g.Team2Average = round2(float64(t.team2Goals) / float64(n))
	}
	return g
}

func (t *pairTally) competitionMap() map[string]types.CompetitionSplit {
	out := make(map[string]types.CompetitionSplit, len(t.byCompetition))
	for k, v := range t.byCompetition {
		out[k] = *v
	}
	return out
}

func (t *pairTally) displayNames(team1, team2 string) (string, string) {
	d1, d2 := t.team1Display, t.team2Display
	if d1 == "" {
		d1 = team1
	}
	if d2 == "" {
		d2 = team2
	}
	return d1, d2
}

func (t *pairTally) recent() []types.MatchSummary {
	if len(t.matches) > recentWindow {
		return t.matches[:recentWindow]
	}
	return t.matches
}

// HeadToHead aggregates every meeting of the pair from team1's
// perspective. Swapping the argument order swaps the two sides of the
// result but changes no totals. Rows arrive newest first.
func HeadToHead(team1, team2 string, competition *string, rows []graph.Row) types.HeadToHeadResult {
	tally := newPairTally(team1)
	for _, r := range rows {
		tally.add(r)
	}

	d1, d2 := tally.displayNames(team1, team2)
	return types.HeadToHeadResult{
		Team1:             d1,
		Team2:             d2,
		CompetitionFilter: competition,
		Record:            tally.record(),
		Goals:             tally.goals(),
		ByCompetition:     tally.competitionMap(),
		RecentMatches:     tally.recent(),
		Matches:           tally.matches,
	}
}

// Rivalry extends the head-to-head aggregation with venue and yearly
// splits over a bounded lookback window.
func Rivalry(team1, team2 string, years int, since string, rows []graph.Row) types.RivalryResult {
	tally := newPairTally(team1)
	for _, r := range rows {
		tally.add(r)
	}

	yearly := make(map[string]types.YearSplit, len(tally.byYear))
	for k, v := range tally.byYear {
		yearly[k] = *v
	}

	totalGoals := tally.team1Goals + tally.team2Goals
	var avg float64
	if n := tally.scored(); n > 0 {
		avg = round2(float64(totalGoals) / float64(n))
	}

	d1, d2 := tally.displayNames(team1, team2)
	return types.RivalryResult{
		Team1:         d1,
		Team2:         d2,
		Period:        fmt.Sprintf("%s to present", since),
		YearsAnalyzed: years,
		Record:        tally.record(),
		Goals:         tally.goals(),
		HomeAway: types.HomeAwaySplit{
			Team1HomeWins: tally.team1HomeWins,
			Team1AwayWins: tally.team1AwayWins,
			Team2HomeWins: tally.team2HomeWins,
			Team2AwayWins: tally.team2AwayWins,
		},
		ByCompetition: tally.competitionMap(),
		YearlyTrends:  yearly,
		TotalGoals:    totalGoals,
		AvgGoalsMatch: avg,
		RecentMatches: tally.recent(),
	}
}
