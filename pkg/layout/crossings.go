package layout

import (
	"maps"
	"slices"
)

// countCrossings returns the total number of edge crossings implied by the
// given row orders, summed over each pair of consecutive rows. It is used
// for layout quality statistics and for verifying that the barycenter
// sweeps do not regress.
func countCrossings(outgoing map[string][]string, orders map[int][]string) int {
	rows := slices.Sorted(maps.Keys(orders))
	crossings := 0
	for i := 0; i < len(rows)-1; i++ {
		crossings += countRowCrossings(outgoing, orders[rows[i]], orders[rows[i+1]])
	}
	return crossings
}

// countRowCrossings counts edge crossings between two adjacent rows using a
// Fenwick tree (binary indexed tree) in O(E log V), where E is the number of
// edges between the rows and V the size of the lower row.
//
// Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2), which is equivalent to counting inversions in the
// sequence of target positions when edges are sorted by source position.
func countRowCrossings(outgoing map[string][]string, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := make(map[string]int, len(lower))
	for i, id := range lower {
		lowerPos[id] = i
	}

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range outgoing[id] {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Count edges seen so far whose target is <= e.lower; the rest cross.
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
