package graph

import (
	"fmt"
	"strings"
)

// The query library: one parameterized traversal template per tool family.
// Templates stay aggregation-light on purpose: derived rankings and
// percentages are computed by the shaper so the Cypher here remains
// backend-agnostic and order-independent. Name parameters carry the
// diacritic-folded form, and every name comparison folds the stored
// property the same way, so both sides of the match are accent-free.

// cypherFoldList enumerates the precomposed accented letters found in
// Portuguese names as a Cypher list literal. It mirrors normalize.Fold on
// the input side; stored properties are assumed NFC.
var cypherFoldList = buildFoldList()

func buildFoldList() string {
	pairs := [][2]string{
		{"á", "a"}, {"à", "a"}, {"â", "a"}, {"ã", "a"}, {"ä", "a"},
		{"é", "e"}, {"è", "e"}, {"ê", "e"}, {"ë", "e"},
		{"í", "i"}, {"ì", "i"}, {"î", "i"}, {"ï", "i"},
		{"ó", "o"}, {"ò", "o"}, {"ô", "o"}, {"õ", "o"}, {"ö", "o"},
		{"ú", "u"}, {"ù", "u"}, {"û", "u"}, {"ü", "u"},
		{"ç", "c"}, {"ñ", "n"}, {"ý", "y"},
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("['%s','%s']", p[0], p[1])
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// folded builds a Cypher expression that lowercases prop and strips the
// accents in cypherFoldList, matching what normalize.Fold did to the
// parameter it is compared against.
func folded(prop string) string {
	return fmt.Sprintf("reduce(acc = toLower(%s), pr IN %s | replace(acc, pr[0], pr[1]))", prop, cypherFoldList)
}

// SearchPlayersQuery matches players by accent- and case-insensitive
// substring, so "Pelé" and "pele" reach the same candidates.
var SearchPlayersQuery = fmt.Sprintf(`
MATCH (p:Player)
WHERE %s CONTAINS $name
OPTIONAL MATCH (p)-[:PLAYED_FOR]->(t:Team)
RETURN p.name AS name,
       p.position AS position,
       p.birth_date AS birth_date,
       p.nationality AS nationality,
       collect(DISTINCT t.name) AS teams
ORDER BY p.name
LIMIT $limit`, folded("p.name"))

// PlayerBioQuery resolves a single player by exact (folded) name.
var PlayerBioQuery = fmt.Sprintf(`
MATCH (p:Player)
WHERE %s = $name
RETURN p.name AS name,
       p.position AS position,
       p.birth_date AS birth_date,
       p.nationality AS nationality,
       p.height AS height,
       p.weight AS weight
LIMIT 1`, folded("p.name"))

// PlayerStintsQuery lists a player's time-bounded team spells.
var PlayerStintsQuery = fmt.Sprintf(`
MATCH (p:Player)-[r:PLAYED_FOR]->(t:Team)
WHERE %s = $name
RETURN t.name AS team,
       r.start_date AS start_date,
       r.end_date AS end_date,
       r.jersey_number AS jersey_number
ORDER BY coalesce(r.start_date, '') DESC, t.name`, folded("p.name"))

// PlayerParticipationQuery returns raw per-match participation edges for a
// player, optionally bounded to one season.
func PlayerParticipationQuery(withSeason bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `
MATCH (p:Player)-[pa:PARTICIPATED_IN]->(m:Match)
WHERE %s = $name`, folded("p.name"))
	if withSeason {
		b.WriteString(` AND m.season = $season`)
	}
	b.WriteString(`
OPTIONAL MATCH (m)-[:PART_OF]->(c:Competition)
RETURN m.id AS match_id,
       m.home_team AS home_team,
       m.away_team AS away_team,
       pa.goals AS goals,
       pa.assists AS assists,
       pa.yellow_cards AS yellow_cards,
       pa.red_cards AS red_cards,
       c.name AS competition`)
	return b.String()
}

// PlayerCareerQuery aggregates matches and goals per team spell.
var PlayerCareerQuery = fmt.Sprintf(`
MATCH (p:Player)-[r:PLAYED_FOR]->(t:Team)
WHERE %s = $name
OPTIONAL MATCH (p)-[pa:PARTICIPATED_IN]->(m:Match)
WHERE m.home_team = t.name OR m.away_team = t.name
OPTIONAL MATCH (m)-[:PART_OF]->(c:Competition)
RETURN t.name AS team,
       t.city AS city,
       r.start_date AS start_date,
       r.end_date AS end_date,
       r.jersey_number AS jersey_number,
       count(DISTINCT m) AS matches,
       sum(coalesce(pa.goals, 0)) AS goals,
       collect(DISTINCT c.name) AS competitions
ORDER BY coalesce(r.start_date, '') DESC, t.name`, folded("p.name"))

// PlayersByPositionQuery lists players by exact position.
var PlayersByPositionQuery = fmt.Sprintf(`
MATCH (p:Player)
WHERE %s = $position
OPTIONAL MATCH (p)-[:PLAYED_FOR]->(t:Team)
RETURN p.name AS name,
       p.position AS position,
       p.birth_date AS birth_date,
       p.nationality AS nationality,
       collect(DISTINCT t.name) AS teams
ORDER BY p.name
LIMIT $limit`, folded("p.position"))

// PlayerTotalsQuery aggregates one player's career totals. Comparison tools
// run it once per side rather than joining both players in one traversal.
var PlayerTotalsQuery = fmt.Sprintf(`
MATCH (p:Player)
WHERE %s = $name
OPTIONAL MATCH (p)-[pa:PARTICIPATED_IN]->(m:Match)
OPTIONAL MATCH (p)-[:PLAYED_FOR]->(t:Team)
RETURN p.name AS name,
       p.position AS position,
       p.nationality AS nationality,
       sum(coalesce(pa.goals, 0)) AS goals,
       count(DISTINCT m) AS matches,
       collect(DISTINCT t.name) AS teams`, folded("p.name"))

// SearchTeamsQuery matches teams by accent- and case-insensitive substring.
var SearchTeamsQuery = fmt.Sprintf(`
MATCH (t:Team)
WHERE %s CONTAINS $name
OPTIONAL MATCH (t)<-[:PLAYED_FOR]-(p:Player)
RETURN t.name AS name,
       t.city AS city,
       t.founded AS founded,
       t.stadium AS stadium,
       count(DISTINCT p) AS squad_size
ORDER BY t.name
LIMIT $limit`, folded("t.name"))

// TeamsByLeagueQuery lists the teams appearing in a competition's matches.
// Membership is derived from Match nodes, like standings.
var TeamsByLeagueQuery = fmt.Sprintf(`
MATCH (m:Match)-[:PART_OF]->(c:Competition)
WHERE %s = $league OR %s CONTAINS $league
MATCH (t:Team)
WHERE t.name IN [m.home_team, m.away_team]
OPTIONAL MATCH (t)<-[:PLAYED_FOR]-(p:Player)
RETURN t.name AS name,
       t.city AS city,
       t.founded AS founded,
       t.stadium AS stadium,
       count(DISTINCT p) AS squad_size
ORDER BY t.name
LIMIT $limit`, folded("c.name"), folded("c.name"))

// TeamSummaryQuery resolves a single team by exact (folded) name.
var TeamSummaryQuery = fmt.Sprintf(`
MATCH (t:Team)
WHERE %s = $name
OPTIONAL MATCH (t)<-[:PLAYED_FOR]-(p:Player)
RETURN t.name AS name,
       t.city AS city,
       t.founded AS founded,
       t.stadium AS stadium,
       count(DISTINCT p) AS squad_size
LIMIT 1`, folded("t.name"))

// TeamRosterQuery lists squad members; when season-bounded, only stints
// overlapping the season's calendar year qualify.
func TeamRosterQuery(withSeason bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `
MATCH (p:Player)-[r:PLAYED_FOR]->(t:Team)
WHERE %s = $name`, folded("t.name"))
	if withSeason {
		b.WriteString(`
  AND coalesce(r.start_date, '') <= $season_end
  AND (r.end_date IS NULL OR r.end_date >= $season_start)`)
	}
	b.WriteString(`
RETURN p.name AS name,
       p.position AS position,
       p.birth_date AS birth_date,
       p.nationality AS nationality,
       r.jersey_number AS jersey_number,
       r.start_date AS start_date,
       r.end_date AS end_date
ORDER BY coalesce(r.jersey_number, 999), p.name`)
	return b.String()
}

// TeamMatchesQuery returns raw match rows for one team, newest first.
func TeamMatchesQuery(withCompetition bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `
MATCH (m:Match)
WHERE %s = $team OR %s = $team`, folded("m.home_team"), folded("m.away_team"))
	if withCompetition {
		fmt.Fprintf(&b, `
MATCH (m)-[:PART_OF]->(c:Competition)
WHERE %s = $competition`, folded("c.name"))
	} else {
		b.WriteString(`
OPTIONAL MATCH (m)-[:PART_OF]->(c:Competition)`)
	}
	b.WriteString(matchReturn)
	return b.String()
}

// matchReturn is the shared RETURN clause for raw match rows.
const matchReturn = `
RETURN m.id AS id,
       m.date AS date,
       m.home_team AS home_team,
       m.away_team AS away_team,
       m.home_score AS home_score,
       m.away_score AS away_score,
       m.venue AS venue,
       m.attendance AS attendance,
       m.referee AS referee,
       c.name AS competition,
       c.season AS season
ORDER BY coalesce(m.date, '') DESC, m.id
LIMIT $limit`

// HeadToHeadQuery returns every match between the pair in either home/away
// order, optionally bounded by competition or earliest date.
func HeadToHeadQuery(withCompetition, withSince bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `
MATCH (m:Match)
WHERE ((%[1]s = $team1 AND %[2]s = $team2)
    OR (%[1]s = $team2 AND %[2]s = $team1))`, folded("m.home_team"), folded("m.away_team"))
	if withSince {
		b.WriteString(`
  AND m.date >= $since`)
	}
	if withCompetition {
		fmt.Fprintf(&b, `
MATCH (m)-[:PART_OF]->(c:Competition)
WHERE %s = $competition`, folded("c.name"))
	} else {
		b.WriteString(`
OPTIONAL MATCH (m)-[:PART_OF]->(c:Competition)`)
	}
	b.WriteString(matchReturn)
	return b.String()
}

// MatchByIDQuery resolves one match by its stable identifier.
const MatchByIDQuery = `
MATCH (m:Match {id: $id})
OPTIONAL MATCH (m)-[:PART_OF]->(c:Competition)` + matchReturn

// MatchByTeamsQuery resolves the most recent match between a pair,
// optionally pinned to a date.
func MatchByTeamsQuery(withDate bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `
MATCH (m:Match)
WHERE ((%[1]s = $team1 AND %[2]s = $team2)
    OR (%[1]s = $team2 AND %[2]s = $team1))`, folded("m.home_team"), folded("m.away_team"))
	if withDate {
		b.WriteString(`
  AND m.date = $date`)
	}
	b.WriteString(`
OPTIONAL MATCH (m)-[:PART_OF]->(c:Competition)`)
	b.WriteString(matchReturn)
	return b.String()
}

// MatchEventsQuery lists a match's events in timestamp order. The minute
// tiebreak on type keeps the ordering total and deterministic.
const MatchEventsQuery = `
MATCH (e:Event)-[:OCCURRED_IN]->(m:Match {id: $id})
RETURN e.type AS type,
       e.minute AS minute,
       e.player AS player,
       e.team AS team,
       e.description AS description
ORDER BY e.minute, e.type, coalesce(e.player, '')`

// MatchFilters parameterizes the match search builder.
type MatchFilters struct {
	Team        string
	StartDate   string
	EndDate     string
	Competition string
}

// SearchMatchesQuery builds the filtered match search from the normalized
// criteria. Filters compose with AND; an empty filter set returns the most
// recent matches overall.
func SearchMatchesQuery(f MatchFilters) (string, map[string]interface{}) {
	params := map[string]interface{}{}
	conditions := make([]string, 0, 4)

	if f.Team != "" {
		conditions = append(conditions, fmt.Sprintf(`(%s = $team OR %s = $team)`, folded("m.home_team"), folded("m.away_team")))
		params["team"] = f.Team
	}
	if f.StartDate != "" {
		conditions = append(conditions, `m.date >= $start_date`)
		params["start_date"] = f.StartDate
	}
	if f.EndDate != "" {
		conditions = append(conditions, `m.date <= $end_date`)
		params["end_date"] = f.EndDate
	}

	var b strings.Builder
	b.WriteString(`
MATCH (m:Match)`)
	if len(conditions) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(conditions, "\n  AND "))
	}
	if f.Competition != "" {
		fmt.Fprintf(&b, `
MATCH (m)-[:PART_OF]->(c:Competition)
WHERE %s = $competition`, folded("c.name"))
		params["competition"] = f.Competition
	} else {
		b.WriteString(`
OPTIONAL MATCH (m)-[:PART_OF]->(c:Competition)`)
	}
	b.WriteString(matchReturn)
	return b.String(), params
}

// CompetitionMatchesQuery returns every raw match of a competition; the
// shaper derives standings from these rows.
func CompetitionMatchesQuery(withSeason bool) string {
	return fmt.Sprintf(`
MATCH (m:Match)-[:PART_OF]->(c:Competition)
WHERE %s = $competition%s
RETURN m.id AS id,
       m.date AS date,
       m.home_team AS home_team,
       m.away_team AS away_team,
       m.home_score AS home_score,
       m.away_score AS away_score,
       c.name AS competition,
       c.season AS season
ORDER BY coalesce(m.date, ''), m.id`, folded("c.name"), seasonClause(withSeason))
}

// ScorerParticipationQuery returns per-player participation aggregates for
// a competition; ranking order is applied by the shaper.
func ScorerParticipationQuery(withSeason bool) string {
	return fmt.Sprintf(`
MATCH (m:Match)-[:PART_OF]->(c:Competition)
WHERE %s = $competition%s
MATCH (p:Player)-[pa:PARTICIPATED_IN]->(m)
OPTIONAL MATCH (p)-[:PLAYED_FOR]->(t:Team)
RETURN p.name AS player,
       p.position AS position,
       head(collect(DISTINCT t.name)) AS team,
       sum(coalesce(pa.goals, 0)) AS goals,
       sum(coalesce(pa.assists, 0)) AS assists,
       count(DISTINCT m) AS matches_played`, folded("c.name"), seasonClause(withSeason))
}

func seasonClause(withSeason bool) string {
	if withSeason {
		return ` AND c.season = $season`
	}
	return ""
}

// CompetitionInfoQuery resolves one competition with coarse counts.
var CompetitionInfoQuery = fmt.Sprintf(`
MATCH (c:Competition)
WHERE %[1]s = $name OR %[1]s CONTAINS $name
OPTIONAL MATCH (m:Match)-[:PART_OF]->(c)
RETURN c.name AS name,
       c.season AS season,
       c.format AS format,
       count(DISTINCT m) AS total_matches,
       count(DISTINCT m.home_team) + count(DISTINCT m.away_team) AS team_mentions,
       collect(DISTINCT m.home_team)[..5] AS sample_teams
ORDER BY c.name
LIMIT 1`, folded("c.name"))

// CommonTeammatesQuery finds candidates sharing a PLAYED_FOR team edge with
// any of the named players, carrying both stint intervals so the shaper can
// keep only candidates overlapping every named player.
func CommonTeammatesQuery(withTeam bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `
MATCH (target:Player)-[rt:PLAYED_FOR]->(t:Team)<-[rc:PLAYED_FOR]-(candidate:Player)
WHERE %s IN $players
  AND NOT %s IN $players`, folded("target.name"), folded("candidate.name"))
	if withTeam {
		fmt.Fprintf(&b, `
  AND %s = $team`, folded("t.name"))
	}
	b.WriteString(`
RETURN candidate.name AS name,
       candidate.position AS position,
       t.name AS team,
       target.name AS target,
       rt.start_date AS target_start,
       rt.end_date AS target_end,
       rc.start_date AS candidate_start,
       rc.end_date AS candidate_end
ORDER BY candidate.name, t.name, target.name`)
	return b.String()
}

// PingQuery is the trivial statement used by connectivity checks.
const PingQuery = `RETURN 1 AS ok`
