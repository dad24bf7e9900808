package dispatch

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futebol-mcp/internal/apperr"
	"futebol-mcp/internal/cache"
	"futebol-mcp/internal/config"
	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/logging"
	"futebol-mcp/internal/metrics"
	"futebol-mcp/pkg/types"
)

// fakeRunner scripts backend responses by query substring and counts how
// often the backend is reached.
type fakeRunner struct {
	calls     int
	responses map[string][]graph.Row
	err       error
}

func (f *fakeRunner) Run(_ context.Context, query string, _ map[string]interface{}) ([]graph.Row, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for marker, rows := range f.responses {
		if strings.Contains(query, marker) {
			return rows, nil
		}
	}
	return nil, nil
}

type fakeSocial struct {
	calls int
	err   error
}

func (f *fakeSocial) Profile(_ context.Context, player, source string) (*types.SocialProfileResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &types.SocialProfileResult{Player: player, Source: source}, nil
}

func newTestDispatcher(runner graph.Runner, social SocialLookup, overlay *config.RegistryOverlay) *Dispatcher {
	return New(
		runner,
		social,
		cache.NewMemory(100),
		config.DefaultConfig(),
		overlay,
		logging.NewWithOutput(logging.ErrorLevel, io.Discard),
		metrics.New(),
	)
}

func TestUnknownToolNeverReachesBackend(t *testing.T) {
	runner := &fakeRunner{}
	d := newTestDispatcher(runner, nil, nil)

	_, err := d.Invoke(context.Background(), "summon_referee", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnknownTool, apperr.CodeOf(err))
	assert.Zero(t, runner.calls)
}

func TestInvalidArgumentNeverReachesBackend(t *testing.T) {
	runner := &fakeRunner{}
	d := newTestDispatcher(runner, nil, nil)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"empty name", "search_player", map[string]interface{}{"name": "   "}},
		{"limit too large", "search_player", map[string]interface{}{"name": "zico", "limit": 101}},
		{"negative limit", "search_team", map[string]interface{}{"name": "santos", "limit": -1}},
		{"bad season", "get_player_stats", map[string]interface{}{"player": "zico", "season": "23"}},
		{"bad date", "search_matches", map[string]interface{}{"start_date": "01/02/2023"}},
		{"inverted range", "search_matches_by_date", map[string]interface{}{"start_date": "2023-06-01", "end_date": "2023-01-01"}},
		{"self comparison", "compare_players", map[string]interface{}{"player1": "Pelé", "player2": " pele "}},
		{"bad source", "get_player_social", map[string]interface{}{"player": "Neymar", "source": "orkut"}},
		{"one teammate", "find_common_teammates", map[string]interface{}{"players": []interface{}{"zico"}}},
		{"missing match identity", "get_match_details", map[string]interface{}{"home_team": "Santos"}},
		{"rivalry years out of range", "get_rivalry_stats", map[string]interface{}{"team1": "a", "team2": "b", "years": 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Invoke(context.Background(), tt.tool, tt.args)
			require.Error(t, err)
			assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))

			var ae *apperr.Error
			require.True(t, errors.As(err, &ae))
			assert.Equal(t, tt.tool, ae.Tool, "error is tagged with the tool name")
		})
	}
	assert.Zero(t, runner.calls, "validation failures must not touch the backend")
}

func TestCacheHitSkipsBackend(t *testing.T) {
	runner := &fakeRunner{responses: map[string][]graph.Row{
		"MATCH (p:Player)": {{"name": "Pelé", "teams": []interface{}{"Santos"}}},
	}}
	d := newTestDispatcher(runner, nil, nil)

	args := map[string]interface{}{"name": "Pelé"}
	first, err := d.Invoke(context.Background(), "search_player", args)
	require.NoError(t, err)
	require.Equal(t, 1, runner.calls)

	second, err := d.Invoke(context.Background(), "search_player", args)
	require.NoError(t, err)
	assert.Equal(t, 1, runner.calls, "repeat call must be served from cache")
	assert.Equal(t, first, second)
}

func TestNormalizedSpellingsShareCacheEntry(t *testing.T) {
	runner := &fakeRunner{responses: map[string][]graph.Row{
		"MATCH (p:Player)": {{"name": "Pelé"}},
	}}
	d := newTestDispatcher(runner, nil, nil)

	_, err := d.Invoke(context.Background(), "search_player", map[string]interface{}{"name": "Pelé"})
	require.NoError(t, err)
	_, err = d.Invoke(context.Background(), "search_player", map[string]interface{}{"name": "  pele "})
	require.NoError(t, err)
	assert.Equal(t, 1, runner.calls, "accent and case variants normalize to one cache key")
}

// foldedBackend stores only the accented spelling and answers solely the
// folded query parameter, the way the folded Cypher templates behave.
type foldedBackend struct {
	calls int
}

func (f *foldedBackend) Run(_ context.Context, query string, params map[string]interface{}) ([]graph.Row, error) {
	f.calls++
	if !strings.Contains(query, "MATCH (p:Player)") {
		return nil, nil
	}
	if name, _ := params["name"].(string); name == "pele" {
		return []graph.Row{{"name": "Pelé", "teams": []interface{}{"Santos"}}}, nil
	}
	return nil, nil
}

func TestAccentVariantsReachTheStoredPlayer(t *testing.T) {
	runner := &foldedBackend{}
	d := newTestDispatcher(runner, nil, nil)

	first, err := d.Invoke(context.Background(), "search_player", map[string]interface{}{"name": "pele"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.(types.PlayerSearchResult).TotalFound, "plain spelling finds the accented player")

	second, err := d.Invoke(context.Background(), "search_player", map[string]interface{}{"name": "Pelé"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.(types.PlayerSearchResult).TotalFound, "accented spelling sees the same result")
	assert.Equal(t, 1, runner.calls, "both spellings resolve to one backend query")
}

func TestPlayerLookupNotFound(t *testing.T) {
	runner := &fakeRunner{responses: map[string][]graph.Row{}}
	d := newTestDispatcher(runner, nil, nil)

	_, err := d.Invoke(context.Background(), "get_player_stats", map[string]interface{}{"player": "Nobody"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "get_player_stats", ae.Tool)
}

func TestEmptySearchIsNotAnError(t *testing.T) {
	runner := &fakeRunner{responses: map[string][]graph.Row{}}
	d := newTestDispatcher(runner, nil, nil)

	result, err := d.Invoke(context.Background(), "search_player", map[string]interface{}{"name": "nobody"})
	require.NoError(t, err, "an empty result set is a valid answer")
	search, ok := result.(types.PlayerSearchResult)
	require.True(t, ok)
	assert.Zero(t, search.TotalFound)
}

func TestBackendErrorsAreNotCached(t *testing.T) {
	runner := &fakeRunner{err: apperr.NewBackendUnavailable(3, errors.New("connection refused"))}
	d := newTestDispatcher(runner, nil, nil)

	args := map[string]interface{}{"name": "zico"}
	_, err := d.Invoke(context.Background(), "search_player", args)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBackendUnavailable, apperr.CodeOf(err))

	runner.err = nil
	runner.responses = map[string][]graph.Row{"MATCH (p:Player)": {{"name": "Zico"}}}
	result, err := d.Invoke(context.Background(), "search_player", args)
	require.NoError(t, err, "a failed call must not poison the cache")
	assert.Equal(t, 1, result.(types.PlayerSearchResult).TotalFound)
}

func TestOverlayDisablesTool(t *testing.T) {
	overlay := &config.RegistryOverlay{Tools: map[string]config.ToolOverlay{
		"get_player_social": {Disabled: true},
	}}
	d := newTestDispatcher(&fakeRunner{}, nil, overlay)

	_, err := d.Invoke(context.Background(), "get_player_social", map[string]interface{}{"player": "Neymar", "source": "twitter"})
	assert.Equal(t, apperr.CodeUnknownTool, apperr.CodeOf(err))

	for _, tool := range d.Tools() {
		assert.NotEqual(t, "get_player_social", tool.Name, "disabled tool must not be listed")
	}
}

func TestOverlayCapsResults(t *testing.T) {
	overlay := &config.RegistryOverlay{Tools: map[string]config.ToolOverlay{
		"search_player": {MaxResults: 3},
	}}
	d := newTestDispatcher(&fakeRunner{}, nil, overlay)
	assert.Equal(t, 3, d.capResults("search_player", 50))
	assert.Equal(t, 2, d.capResults("search_player", 2))
}

func TestOverlayOverridesTTL(t *testing.T) {
	overlay := &config.RegistryOverlay{Tools: map[string]config.ToolOverlay{
		"search_player": {CacheTTL: 42 * time.Second},
	}}
	d := newTestDispatcher(&fakeRunner{}, nil, overlay)
	assert.Equal(t, 42*time.Second, d.ttlFor(d.tools["search_player"]))

	cfg := config.DefaultConfig()
	assert.Equal(t, cfg.Cache.FinalTTL, d.ttlFor(d.tools["get_player_career"]))
	assert.Equal(t, cfg.Cache.StatsTTL, d.ttlFor(d.tools["get_head_to_head"]))
}

func TestSocialToolRoutesThroughClient(t *testing.T) {
	social := &fakeSocial{}
	d := newTestDispatcher(&fakeRunner{}, social, nil)

	result, err := d.Invoke(context.Background(), "get_player_social", map[string]interface{}{
		"player": "Neymar",
		"source": "Twitter",
	})
	require.NoError(t, err)
	profile := result.(*types.SocialProfileResult)
	assert.Equal(t, "twitter", profile.Source, "source is normalized before the lookup")
	assert.Equal(t, 1, social.calls)
}

func TestRateLimitedErrorPropagates(t *testing.T) {
	social := &fakeSocial{err: apperr.NewRateLimited("twitter", 2*time.Second)}
	d := newTestDispatcher(&fakeRunner{}, social, nil)

	_, err := d.Invoke(context.Background(), "get_player_social", map[string]interface{}{
		"player": "Neymar",
		"source": "twitter",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeRateLimited, apperr.CodeOf(err))

	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	detail, ok := ae.Details.(apperr.RateLimitDetail)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, detail.RetryAfter)
}

func TestRegistryIsComplete(t *testing.T) {
	d := newTestDispatcher(&fakeRunner{}, nil, nil)
	tools := d.Tools()
	assert.Len(t, tools, 20)

	names := map[string]bool{}
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Description)
		require.NotNil(t, tool.Schema)
		assert.Equal(t, "object", tool.Schema["type"])
		names[tool.Name] = true
	}
	for _, expected := range []string{
		"search_player", "get_player_stats", "get_player_career",
		"search_players_by_position", "compare_players", "get_player_social",
		"search_team", "search_teams_by_league", "get_team_roster",
		"get_team_stats", "compare_teams",
		"get_match_details", "search_matches", "search_matches_by_date",
		"get_head_to_head", "get_competition_standings",
		"get_competition_top_scorers", "get_competition_info",
		"find_common_teammates", "get_rivalry_stats",
	} {
		assert.True(t, names[expected], "missing tool %s", expected)
	}
}

func TestSearchTeamsByLeague(t *testing.T) {
	runner := &fakeRunner{responses: map[string][]graph.Row{
		"IN [m.home_team, m.away_team]": {
			{"name": "Flamengo", "squad_size": int64(30)},
			{"name": "Santos", "squad_size": int64(28)},
		},
	}}
	d := newTestDispatcher(runner, nil, nil)

	result, err := d.Invoke(context.Background(), "search_teams_by_league", map[string]interface{}{
		"league": "Brasileirão",
	})
	require.NoError(t, err)
	listing := result.(types.TeamsByLeagueResult)
	assert.Equal(t, 2, listing.TotalFound)
	assert.Equal(t, "Flamengo", listing.Teams[0].Name)
	assert.Equal(t, 1, runner.calls)
}

func TestMatchDetailsByTeams(t *testing.T) {
	runner := &fakeRunner{responses: map[string][]graph.Row{
		"= $team1": {{
			"id": "m-1", "date": "2023-05-01",
			"home_team": "Santos", "away_team": "Flamengo",
			"home_score": int64(2), "away_score": int64(1),
		}},
		"OCCURRED_IN": {{"type": "goal", "minute": int64(12), "player": "Marcos Leonardo"}},
	}}
	d := newTestDispatcher(runner, nil, nil)

	result, err := d.Invoke(context.Background(), "get_match_details", map[string]interface{}{
		"home_team": "Santos",
		"away_team": "Flamengo",
	})
	require.NoError(t, err)
	details := result.(types.MatchDetailsResult)
	require.NotNil(t, details.Winner)
	assert.Equal(t, "Santos", *details.Winner)
	require.Len(t, details.Events, 1)
	assert.Equal(t, "goal", details.Events[0].Type)
}
