package smc

import (
	"math"
	"sort"

	"SMCSentinel/internal/model"
)

// mergeAreas collapses same-kind areas on the same price band whose spans touch.
// The output is ordered by kind, bottom, top and start.
func mergeAreas(areas []model.Area) []model.Area {
	if len(areas) == 0 {
		return []model.Area{}
	}
	sorted := make([]model.Area, len(areas))
	copy(sorted, areas)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Bottom != b.Bottom {
			return a.Bottom < b.Bottom
		}
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		return a.Start.Before(b.Start)
	})

	out := make([]model.Area, 0, len(sorted))
	cur := sorted[0]
	for _, a := range sorted[1:] {
		sameBand := a.Kind == cur.Kind &&
			math.Abs(a.Top-cur.Top) < equalLevelEpsilon &&
			math.Abs(a.Bottom-cur.Bottom) < equalLevelEpsilon
		if sameBand && !a.Start.After(cur.End) {
			if a.End.After(cur.End) {
				cur.End = a.End
			}
			continue
		}
		out = append(out, cur)
		cur = a
	}
	return append(out, cur)
}
