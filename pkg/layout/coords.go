package layout

import (
	"maps"
	"slices"
	"sort"

	"github.com/matzehuels/erdlayout/pkg/diagram"
)

// assignCoordinates converts row membership and in-row order into concrete
// pixel positions. Rows are processed top to bottom so junction pull can use
// the final coordinates of the row above:
//
//  1. Even spacing: provisional x spaced by HGap, centered on OriginX.
//  2. Junction pull: a node with two or more parents in the row directly
//     above moves to the arithmetic mean of their x - relationship hubs end
//     up visually centered beneath the entities they connect.
//  3. Collision sweep: nodes sorted by provisional x, then a left-to-right
//     cursor enforces MinHGap between neighbors.
//  4. Row centering: the whole row shifts so the midpoint of its extremes
//     lands back on OriginX.
//
// y is purely a function of the row: OriginY + row*VGap.
func assignCoordinates(orders map[int][]string, idx *graphIndex, cfg Config) map[string]diagram.Position {
	positions := make(map[string]diagram.Position)
	rowOf := make(map[string]int)
	for lvl, row := range orders {
		for _, id := range row {
			rowOf[id] = lvl
		}
	}

	for _, lvl := range slices.Sorted(maps.Keys(orders)) {
		row := orders[lvl]
		y := cfg.OriginY + float64(lvl)*cfg.VGap

		// Even spacing centered on the origin.
		desired := make(map[string]float64, len(row))
		startX := cfg.OriginX - float64(len(row)-1)*cfg.HGap/2
		for i, id := range row {
			desired[id] = startX + float64(i)*cfg.HGap
		}

		// Junction pull toward the parents' centroid.
		for _, id := range row {
			sum, count := 0.0, 0
			for _, parent := range idx.incoming[id] {
				if rowOf[parent] == lvl-1 {
					sum += positions[parent].X
					count++
				}
			}
			if count >= 2 {
				desired[id] = sum / float64(count)
			}
		}

		// Collision sweep: enforce the minimum gap without swapping the
		// left-to-right sequence the pull produced.
		sorted := make([]string, len(row))
		copy(sorted, row)
		sort.SliceStable(sorted, func(i, j int) bool {
			return desired[sorted[i]] < desired[sorted[j]]
		})

		final := make(map[string]float64, len(sorted))
		cursor := 0.0
		for i, id := range sorted {
			x := desired[id]
			if i > 0 && x < cursor+cfg.MinHGap {
				x = cursor + cfg.MinHGap
			}
			final[id] = x
			cursor = x
		}

		// Recenter the row on the origin.
		minX, maxX := final[sorted[0]], final[sorted[len(sorted)-1]]
		shift := cfg.OriginX - (minX+maxX)/2

		for _, id := range row {
			positions[id] = diagram.Position{X: final[id] + shift, Y: y}
		}
	}

	return positions
}
