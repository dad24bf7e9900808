// Package types defines the fixed, tool-specific response schemas. Every
// tool returns exactly one of these shapes; raw graph rows never cross the
// dispatcher boundary. Optional backend fields are pointers so JSON output
// distinguishes "unknown" (explicit null) from a zero value.
package types

// PlayerSummary is a single row of a player search.
type PlayerSummary struct {
	Name        string   `json:"name"`
	Position    *string  `json:"position"`
	BirthDate   *string  `json:"birth_date"`
	Nationality *string  `json:"nationality"`
	Teams       []string `json:"teams"`
}

// PlayerSearchResult is the shape of search_player and
// search_players_by_position.
type PlayerSearchResult struct {
	Query      string          `json:"query"`
	TotalFound int             `json:"total_found"`
	Players    []PlayerSummary `json:"players"`
}

// PlayerBio carries the full biographical properties of a player node.
type PlayerBio struct {
	Name        string  `json:"name"`
	Position    *string `json:"position"`
	BirthDate   *string `json:"birth_date"`
	Nationality *string `json:"nationality"`
	Height      *int64  `json:"height_cm"`
	Weight      *int64  `json:"weight_kg"`
}

// StatLine aggregates per-match stats over a set of matches.
type StatLine struct {
	MatchesPlayed int64    `json:"matches_played"`
	Goals         int64    `json:"goals"`
	Assists       int64    `json:"assists"`
	YellowCards   int64    `json:"yellow_cards"`
	RedCards      int64    `json:"red_cards"`
	Competitions  []string `json:"competitions"`
}

// Stint is one time-bounded spell at a team.
type Stint struct {
	Team         string  `json:"team"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	JerseyNumber *int64  `json:"jersey_number"`
}

// PlayerStatsResult is the shape of get_player_stats.
type PlayerStatsResult struct {
	Player     PlayerBio `json:"player"`
	Season     string    `json:"season"`
	Statistics StatLine  `json:"statistics"`
	Stints     []Stint   `json:"teams"`
}

// CareerEntry is one team spell with aggregate performance.
type CareerEntry struct {
	Team         string   `json:"team"`
	City         *string  `json:"city"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	JerseyNumber *int64   `json:"jersey_number"`
	Matches      int64    `json:"matches"`
	Goals        int64    `json:"goals"`
	Competitions []string `json:"competitions"`
}

// CareerSummary aggregates a whole career.
type CareerSummary struct {
	TotalTeams   int     `json:"total_teams"`
	TotalMatches int64   `json:"total_matches"`
	TotalGoals   int64   `json:"total_goals"`
	CareerStart  *string `json:"career_start"`
	CareerEnd    *string `json:"career_end"`
}

// PlayerCareerResult is the shape of get_player_career.
type PlayerCareerResult struct {
	Player  PlayerBio     `json:"player"`
	Summary CareerSummary `json:"career_summary"`
	History []CareerEntry `json:"career_history"`
}

// ComparedPlayer is one side of a player comparison.
type ComparedPlayer struct {
	Name        string   `json:"name"`
	Position    *string  `json:"position"`
	Nationality *string  `json:"nationality"`
	Goals       int64    `json:"goals"`
	Matches     int64    `json:"matches"`
	Teams       []string `json:"teams"`
}

// PlayerComparisonResult is the shape of compare_players.
type PlayerComparisonResult struct {
	Player1         ComparedPlayer `json:"player1"`
	Player2         ComparedPlayer `json:"player2"`
	GoalsDifference int64          `json:"goals_difference"`
	SamePosition    bool           `json:"same_position"`
	SameNationality bool           `json:"same_nationality"`
}

// TeamSummary is a single row of a team search.
type TeamSummary struct {
	Name      string  `json:"name"`
	City      *string `json:"city"`
	Founded   *string `json:"founded"`
	Stadium   *string `json:"stadium"`
	SquadSize int64   `json:"squad_size"`
}

// TeamSearchResult is the shape of search_team.
type TeamSearchResult struct {
	Query      string        `json:"query"`
	TotalFound int           `json:"total_found"`
	Teams      []TeamSummary `json:"teams"`
}

// TeamsByLeagueResult is the shape of search_teams_by_league.
type TeamsByLeagueResult struct {
	League     string        `json:"league"`
	TotalFound int           `json:"total_found"`
	Teams      []TeamSummary `json:"teams"`
}

// RosterPlayer is one squad member of a roster.
type RosterPlayer struct {
	Name         string  `json:"name"`
	Position     *string `json:"position"`
	BirthDate    *string `json:"birth_date"`
	Nationality  *string `json:"nationality"`
	JerseyNumber *int64  `json:"jersey_number"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
}

// TeamRosterResult is the shape of get_team_roster.
type TeamRosterResult struct {
	Team         TeamSummary    `json:"team"`
	Season       string         `json:"season"`
	TotalPlayers int            `json:"total_players"`
	Roster       []RosterPlayer `json:"roster"`
}

// TeamRecord is a win/draw/loss record with goal totals.
type TeamRecord struct {
	MatchesPlayed  int64 `json:"matches_played"`
	Wins           int64 `json:"wins"`
	Draws          int64 `json:"draws"`
	Losses         int64 `json:"losses"`
	GoalsFor       int64 `json:"goals_for"`
	GoalsAgainst   int64 `json:"goals_against"`
	GoalDifference int64 `json:"goal_difference"`
	Points         int64 `json:"points"`
}

// FormEntry is one recent match from a team's perspective.
type FormEntry struct {
	Date     *string `json:"date"`
	Opponent string  `json:"opponent"`
	Home     bool    `json:"home"`
	Score    string  `json:"score"`
	Outcome  string  `json:"outcome"` // win, draw, loss
}

// TeamStatsResult is the shape of get_team_stats.
type TeamStatsResult struct {
	Team              TeamSummary `json:"team"`
	CompetitionFilter *string     `json:"competition_filter"`
	Record            TeamRecord  `json:"record"`
	RecentForm        []FormEntry `json:"recent_form"`
}

// ComparedTeam is one side of a team comparison.
type ComparedTeam struct {
	Name      string `json:"name"`
	SquadSize int64  `json:"squad_size"`
	Matches   int64  `json:"matches"`
}

// TeamComparisonResult is the shape of compare_teams.
type TeamComparisonResult struct {
	Team1           ComparedTeam `json:"team1"`
	Team2           ComparedTeam `json:"team2"`
	SquadDifference int64        `json:"squad_difference"`
}

// MatchSummary is a single row of a match search.
type MatchSummary struct {
	ID          *string `json:"id"`
	Date        *string `json:"date"`
	HomeTeam    string  `json:"home_team"`
	AwayTeam    string  `json:"away_team"`
	HomeScore   *int64  `json:"home_score"`
	AwayScore   *int64  `json:"away_score"`
	Venue       *string `json:"venue"`
	Competition *string `json:"competition"`
	Season      *string `json:"season"`
	Winner      *string `json:"winner"` // nil when score unknown, "draw" on ties
}

// MatchSearchCriteria echoes the normalized filters of a match search.
type MatchSearchCriteria struct {
	Team        *string `json:"team"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Competition *string `json:"competition"`
}

// MatchSearchResult is the shape of search_matches and
// search_matches_by_date.
type MatchSearchResult struct {
	Criteria   MatchSearchCriteria `json:"search_criteria"`
	TotalFound int                 `json:"total_found"`
	Matches    []MatchSummary      `json:"matches"`
}

// MatchEvent is one ordered event within a match.
type MatchEvent struct {
	Type        string  `json:"type"` // goal, card, substitution
	Minute      int64   `json:"minute"`
	Player      *string `json:"player"`
	Team        *string `json:"team"`
	Description *string `json:"description"`
}

// MatchSide is one team's view of a match.
type MatchSide struct {
	Name  string `json:"name"`
	Score *int64 `json:"score"`
}

// MatchDetailsResult is the shape of get_match_details.
type MatchDetailsResult struct {
	ID          *string      `json:"id"`
	Date        *string      `json:"date"`
	Venue       *string      `json:"venue"`
	Referee     *string      `json:"referee"`
	Attendance  *int64       `json:"attendance"`
	Competition *string      `json:"competition"`
	Season      *string      `json:"season"`
	Home        MatchSide    `json:"home"`
	Away        MatchSide    `json:"away"`
	Winner      *string      `json:"winner"`
	Events      []MatchEvent `json:"events"`
}

// HeadToHeadRecord aggregates the pair's record from team1's perspective.
type HeadToHeadRecord struct {
	TotalMatches int     `json:"total_matches"`
	Team1Wins    int     `json:"team1_wins"`
	Team2Wins    int     `json:"team2_wins"`
	Draws        int     `json:"draws"`
	Team1WinPct  float64 `json:"team1_win_percentage"`
	Team2WinPct  float64 `json:"team2_win_percentage"`
	DrawPct      float64 `json:"draw_percentage"`
}

// HeadToHeadGoals aggregates goals for the pair.
type HeadToHeadGoals struct {
	Team1Total   int64   `json:"team1_total"`
	Team2Total   int64   `json:"team2_total"`
	Team1Average float64 `json:"team1_average"`
	Team2Average float64 `json:"team2_average"`
}

// CompetitionSplit is the pair's record within one competition.
type CompetitionSplit struct {
	Matches   int `json:"matches"`
	Team1Wins int `json:"team1_wins"`
	Team2Wins int `json:"team2_wins"`
	Draws     int `json:"draws"`
}

// HeadToHeadResult is the shape of get_head_to_head.
type HeadToHeadResult struct {
	Team1             string                      `json:"team1"`
	Team2             string                      `json:"team2"`
	CompetitionFilter *string                     `json:"competition_filter"`
	Record            HeadToHeadRecord            `json:"overall_record"`
	Goals             HeadToHeadGoals             `json:"goals"`
	ByCompetition     map[string]CompetitionSplit `json:"by_competition"`
	RecentMatches     []MatchSummary              `json:"recent_matches"`
	Matches           []MatchSummary              `json:"all_matches"`
}

// StandingsRow is one row of a derived league table.
type StandingsRow struct {
	Position int    `json:"position"`
	Team     string `json:"team"`
	TeamRecord
}

// StandingsResult is the shape of get_competition_standings.
type StandingsResult struct {
	Competition string         `json:"competition"`
	Season      string         `json:"season"`
	Table       []StandingsRow `json:"standings"`
}

// ScorerRow is one row of a derived scorer ranking.
type ScorerRow struct {
	Rank          int     `json:"rank"`
	Player        string  `json:"player"`
	Position      *string `json:"player_position"`
	Team          *string `json:"team"`
	Goals         int64   `json:"goals"`
	Assists       int64   `json:"assists"`
	MatchesPlayed int64   `json:"matches_played"`
	GoalsPerMatch float64 `json:"goals_per_match"`
}

// TopScorersResult is the shape of get_competition_top_scorers.
type TopScorersResult struct {
	Competition string      `json:"competition"`
	Season      string      `json:"season"`
	Scorers     []ScorerRow `json:"top_scorers"`
}

// CompetitionInfoResult is the shape of get_competition_info.
type CompetitionInfoResult struct {
	Name         string   `json:"name"`
	Season       *string  `json:"season"`
	Format       *string  `json:"format"` // league or knockout
	TotalMatches int64    `json:"total_matches"`
	TotalTeams   int64    `json:"total_teams"`
	SampleTeams  []string `json:"sample_teams"`
}

// TeammateOverlap names one requested player and the shared date window.
type TeammateOverlap struct {
	Player       string  `json:"player"`
	OverlapStart *string `json:"overlap_start"`
	OverlapEnd   *string `json:"overlap_end"`
}

// CommonTeammate is a player who overlapped with every requested player.
type CommonTeammate struct {
	Name      string            `json:"name"`
	Position  *string           `json:"position"`
	Team      string            `json:"team"`
	StartDate *string           `json:"start_date"`
	EndDate   *string           `json:"end_date"`
	Overlaps  []TeammateOverlap `json:"overlaps_with"`
}

// CommonTeammatesResult is the shape of find_common_teammates.
type CommonTeammatesResult struct {
	Players    []string         `json:"players"`
	TeamFilter *string          `json:"team_filter"`
	TotalFound int              `json:"total_found"`
	Teammates  []CommonTeammate `json:"common_teammates"`
}

// HomeAwaySplit breaks wins down by venue side.
type HomeAwaySplit struct {
	Team1HomeWins int `json:"team1_home_wins"`
	Team1AwayWins int `json:"team1_away_wins"`
	Team2HomeWins int `json:"team2_home_wins"`
	Team2AwayWins int `json:"team2_away_wins"`
}

// YearSplit is the pair's record within one calendar year.
type YearSplit struct {
	Team1Wins int `json:"team1_wins"`
	Team2Wins int `json:"team2_wins"`
	Draws     int `json:"draws"`
}

// RivalryResult is the shape of get_rivalry_stats.
type RivalryResult struct {
	Team1          string                      `json:"team1"`
	Team2          string                      `json:"team2"`
	Period         string                      `json:"period"`
	YearsAnalyzed  int                         `json:"years_analyzed"`
	Record         HeadToHeadRecord            `json:"overall_record"`
	Goals          HeadToHeadGoals             `json:"goals_analysis"`
	HomeAway       HomeAwaySplit               `json:"home_away_analysis"`
	ByCompetition  map[string]CompetitionSplit `json:"competition_breakdown"`
	YearlyTrends   map[string]YearSplit        `json:"yearly_trends"`
	TotalGoals     int64                       `json:"total_goals"`
	AvgGoalsMatch  float64                     `json:"average_goals_per_match"`
	RecentMatches  []MatchSummary              `json:"recent_matches"`
}

// SocialProfileResult is the shape of get_player_social, served from an
// external source through the rate limiter.
type SocialProfileResult struct {
	Player    string  `json:"player"`
	Source    string  `json:"source"`
	Handle    *string `json:"handle"`
	Followers *int64  `json:"followers"`
	Verified  *bool   `json:"verified"`
	FetchedAt string  `json:"fetched_at"`
}
