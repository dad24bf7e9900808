package shape

import (
	"sort"

	"futebol-mcp/internal/graph"
	"futebol-mcp/internal/normalize"
	"futebol-mcp/pkg/types"
)

// stintOverlap computes the shared window of two date intervals. A nil
// start is an unknown beginning and a nil end an active stint; both count
// as open. Dates compare lexicographically in YYYY-MM-DD form.
func stintOverlap(aStart, aEnd, bStart, bEnd *string) (start, end *string, ok bool) {
	start = laterStart(aStart, bStart)
	end = earlierEnd(aEnd, bEnd)
	if start != nil && end != nil && *start > *end {
		return nil, nil, false
	}
	return start, end, true
}

func laterStart(a, b *string) *string {
	if a == nil {
		return b
	}
	if b == nil || *a > *b {
		return a
	}
	return b
}

func earlierEnd(a, b *string) *string {
	if a == nil {
		return b
	}
	if b == nil || *a < *b {
		return a
	}
	return b
}

// teammateGroup collects the rows for one (candidate, team) pair.
type teammateGroup struct {
	name     string
	position *string
	team     string
	start    *string
	end      *string
	overlaps map[string]types.TeammateOverlap // folded target name
}

// CommonTeammates keeps only candidates who shared a team AND a time
// window with every requested player. Candidates overlapping some but not
// all of the group are dropped.
func CommonTeammates(players []string, teamFilter *string, rows []graph.Row) types.CommonTeammatesResult {
	groups := map[string]*teammateGroup{}
	order := []string{}

	for _, r := range rows {
		name := r.String("name")
		team := r.String("team")
		key := normalize.Fold(name) + "\x00" + normalize.Fold(team)
		g, seen := groups[key]
		if !seen {
			g = &teammateGroup{
				name:     name,
				position: r.OptString("position"),
				team:     team,
				start:    r.OptString("candidate_start"),
				end:      r.OptString("candidate_end"),
				overlaps: map[string]types.TeammateOverlap{},
			}
			groups[key] = g
			order = append(order, key)
		}

		start, end, ok := stintOverlap(
			r.OptString("candidate_start"), r.OptString("candidate_end"),
			r.OptString("target_start"), r.OptString("target_end"),
		)
		if !ok {
			continue
		}
		target := r.String("target")
		g.overlaps[normalize.Fold(target)] = types.TeammateOverlap{
			Player:       target,
			OverlapStart: start,
			OverlapEnd:   end,
		}
	}

	teammates := make([]types.CommonTeammate, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if len(g.overlaps) < len(players) {
			continue
		}
		overlaps := make([]types.TeammateOverlap, 0, len(g.overlaps))
		for _, o := range g.overlaps {
			overlaps = append(overlaps, o)
		}
		sort.Slice(overlaps, func(i, j int) bool { return overlaps[i].Player < overlaps[j].Player })
		teammates = append(teammates, types.CommonTeammate{
			Name:      g.name,
			Position:  g.position,
			Team:      g.team,
			StartDate: g.start,
			EndDate:   g.end,
			Overlaps:  overlaps,
		})
	}

	return types.CommonTeammatesResult{
		Players:    players,
		TeamFilter: teamFilter,
		TotalFound: len(teammates),
		Teammates:  teammates,
	}
}
