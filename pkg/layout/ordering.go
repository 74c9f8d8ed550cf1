package layout

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/erdlayout/pkg/diagram"
)

// orphanOffset keeps nodes without neighbors in the adjacent row near their
// prior relative position during a sweep instead of collapsing them to the
// front of the row.
const orphanOffset = 1000.0

// initialOrders buckets node ids by level and establishes a deterministic
// starting order within each row: ascending by the input position hint, with
// a case-insensitive label tie-break. A diagram with no prior layout (all
// hints zero) still starts from a stable alphabetical order.
func initialOrders(nodes []diagram.Node, levels map[string]int) map[int][]string {
	hintX := make(map[string]float64, len(nodes))
	labels := make(map[string]string, len(nodes))
	orders := make(map[int][]string)

	for _, n := range nodes {
		hintX[n.ID] = n.Position.X
		labels[n.ID] = strings.ToLower(n.DisplayLabel())
		lvl := levels[n.ID]
		orders[lvl] = append(orders[lvl], n.ID)
	}

	for _, row := range orders {
		sort.SliceStable(row, func(i, j int) bool {
			a, b := row[i], row[j]
			if hintX[a] != hintX[b] {
				return hintX[a] < hintX[b]
			}
			return labels[a] < labels[b]
		})
	}

	return orders
}

// optimizeOrders reduces inter-row edge crossings with a fixed number of
// barycenter sweeps, alternating direction each iteration. Downward sweeps
// pull each node toward the average position of its parents in the row
// above; upward sweeps use children in the row below. The sweep count is
// fixed, not convergence-driven, so runtime stays bounded on any input.
//
// Rows are modified in place. Ties are broken by case-insensitive label so
// the result is independent of map iteration order.
func optimizeOrders(orders map[int][]string, nodes []diagram.Node, idx *graphIndex, iterations int) {
	if len(orders) < 2 {
		return
	}

	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = strings.ToLower(n.DisplayLabel())
	}

	rows := slices.Sorted(maps.Keys(orders))
	maxRow := rows[len(rows)-1]

	for it := 0; it < iterations; it++ {
		if it%2 == 0 {
			for lvl := 1; lvl <= maxRow; lvl++ {
				sweepRow(orders[lvl], orders[lvl-1], idx.incoming, labels)
			}
		} else {
			for lvl := maxRow - 1; lvl >= 0; lvl-- {
				sweepRow(orders[lvl], orders[lvl+1], idx.outgoing, labels)
			}
		}
	}
}

// sweepRow resorts one row by the barycenter of each node's neighbors in the
// adjacent row. Nodes with no neighbor there keep their current index plus a
// large constant offset.
func sweepRow(row, adjacent []string, neighbors map[string][]string, labels map[string]string) {
	if len(row) < 2 || len(adjacent) == 0 {
		return
	}

	adjPos := make(map[string]int, len(adjacent))
	for i, id := range adjacent {
		adjPos[id] = i
	}

	scores := make(map[string]float64, len(row))
	for i, id := range row {
		sum, count := 0.0, 0
		for _, nbr := range neighbors[id] {
			if pos, ok := adjPos[nbr]; ok {
				sum += float64(pos)
				count++
			}
		}
		if count == 0 {
			scores[id] = float64(i) + orphanOffset
			continue
		}
		scores[id] = sum / float64(count)
	}

	sort.SliceStable(row, func(i, j int) bool {
		a, b := row[i], row[j]
		if scores[a] != scores[b] {
			return scores[a] < scores[b]
		}
		return labels[a] < labels[b]
	})
}
