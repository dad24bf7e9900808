package shape

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futebol-mcp/internal/graph"
)

func TestStandingsDerivation(t *testing.T) {
	rows := []graph.Row{
		matchRow("2023-05-01", "Flamengo", "Palmeiras", int64(2), int64(1)),
		matchRow("2023-05-08", "Palmeiras", "Santos", int64(3), int64(0)),
		matchRow("2023-05-15", "Santos", "Flamengo", int64(1), int64(1)),
		matchRow("2023-05-22", "Flamengo", "Santos", nil, nil), // unplayed
	}
	result := Standings("Brasileirão", "2023", rows)

	require.Len(t, result.Table, 3)
	assert.Equal(t, "Flamengo", result.Table[0].Team)
	assert.Equal(t, 1, result.Table[0].Position)
	assert.Equal(t, int64(4), result.Table[0].Points)
	assert.Equal(t, "Palmeiras", result.Table[1].Team)
	assert.Equal(t, int64(3), result.Table[1].Points)
	assert.Equal(t, int64(2), result.Table[1].GoalDifference)
	assert.Equal(t, "Santos", result.Table[2].Team)
	assert.Equal(t, int64(1), result.Table[2].Points)
	assert.Equal(t, int64(2), result.Table[2].MatchesPlayed, "unplayed match contributes nothing")
}

func TestStandingsTieBreakOrder(t *testing.T) {
	// Three winners on 3 points with equal goal difference; goals for
	// separates Ceará, then name separates Avaí from Cruzeiro.
	rows := []graph.Row{
		matchRow("2023-01-01", "Ceará", "Bahia", int64(3), int64(2)),
		matchRow("2023-01-08", "Cruzeiro", "Goiás", int64(1), int64(0)),
		matchRow("2023-01-15", "Avaí", "Sport", int64(1), int64(0)),
	}
	result := Standings("Nordestão", "2023", rows)

	require.Len(t, result.Table, 6)
	assert.Equal(t, "Ceará", result.Table[0].Team, "goals for breaks the tie")
	assert.Equal(t, "Avaí", result.Table[1].Team, "name breaks the full tie")
	assert.Equal(t, "Cruzeiro", result.Table[2].Team)
	assert.Equal(t, "Bahia", result.Table[3].Team, "losers tie broken by goals for")
	assert.Equal(t, "Goiás", result.Table[4].Team)
	assert.Equal(t, "Sport", result.Table[5].Team)
}

func TestStandingsPermutationInvariant(t *testing.T) {
	teams := []string{"Flamengo", "Palmeiras", "Santos", "Grêmio", "Bahia"}

	var fixture []graph.Row
	seed := rand.New(rand.NewSource(42))
	date := 0
	for i, home := range teams {
		for j, away := range teams {
			if i == j {
				continue
			}
			date++
			fixture = append(fixture, matchRow(
				"2023-01-"+twoDigits(date%28+1), home, away,
				int64(seed.Intn(5)), int64(seed.Intn(5)),
			))
		}
	}
	baseline := Standings("Brasileirão", "2023", fixture)

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("standings are row-order independent", prop.ForAll(
		func(shuffleSeed int64) bool {
			shuffled := make([]graph.Row, len(fixture))
			copy(shuffled, fixture)
			r := rand.New(rand.NewSource(shuffleSeed))
			r.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			return assert.ObjectsAreEqual(baseline, Standings("Brasileirão", "2023", shuffled))
		},
		gen.Int64(),
	))
	properties.TestingRun(t)
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}
