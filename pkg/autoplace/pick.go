package autoplace

import (
	"cmp"
	"slices"
)

// workList holds the components of a run in their fixed placement order:
// complexity descending, board order on ties.
type workList struct {
	items []*Component
}

func newWorkList(items []*Component) *workList {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b *Component) int {
		return cmp.Compare(b.Complexity(), a.Complexity())
	})
	return &workList{items: sorted}
}

// pending counts components still waiting for placement.
func (w *workList) pending() int {
	n := 0
	for _, c := range w.items {
		if c.NeedsPlacement {
			n++
		}
	}
	return n
}

// pick returns the next component to place, or nil when none is left.
// Pending components are refreshed in conn and the ratsnest recomputed;
// the most connected large component wins, falling back to the first
// pending one when nothing pending has a ratsnest edge.
func (w *workList) pick(conn Connectivity) *Component {
	for _, c := range w.items {
		if c.NeedsPlacement {
			conn.Update(c)
		}
	}
	conn.RecalculateRatsnest()

	edges := make(map[*Component]int, len(w.items))
	for _, c := range w.items {
		edges[c] = conn.RatsnestEdgeCount(c)
	}
	order := slices.Clone(w.items)
	slices.SortStableFunc(order, func(a, b *Component) int {
		return cmp.Compare(b.Area()*float64(edges[b]), a.Area()*float64(edges[a]))
	})

	var fallback *Component
	for _, c := range order {
		if !c.NeedsPlacement {
			continue
		}
		if edges[c] > 0 {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}
