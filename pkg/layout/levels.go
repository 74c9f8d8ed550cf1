package layout

import "github.com/matzehuels/erdlayout/pkg/diagram"

// assignLevels computes an integer row for every node using longest-path
// leveling via topological sort (Kahn's algorithm). Each node ends up at one
// plus the maximum level of any of its parents, so that:
//   - Source nodes (no valid incoming edges) sit at level 0
//   - For every valid edge u→v in the acyclic portion, level(v) > level(u)
//   - Every node receives a level >= 0, even on cyclic inputs
//
// Cycles are handled with a pragmatic fallback rather than a general
// cycle-breaking algorithm: if no node has in-degree zero, the first node of
// the input order is seeded at level 0, and any node the queue never reaches
// is patched afterwards from its already-leveled parents (or defaults to
// level 0 when it has none). The exact levels inside a cycle therefore
// depend on input order; the guarantee is termination, not canonical
// placement.
//
// Runs in O(V+E) time and never recurses, so deep or cyclic graphs cannot
// grow the call stack.
func assignLevels(nodes []diagram.Node, idx *graphIndex) map[string]int {
	levels := make(map[string]int, len(nodes))
	remaining := make(map[string]int, len(nodes))
	processed := make(map[string]bool, len(nodes))

	queue := make([]string, 0, len(nodes))
	for _, n := range nodes {
		remaining[n.ID] = idx.inDegree[n.ID]
		if remaining[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	// Whole graph is one or more cycles: seed deterministically with the
	// first node of the input order.
	if len(queue) == 0 && len(nodes) > 0 {
		queue = append(queue, nodes[0].ID)
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if processed[curr] {
			continue
		}
		processed[curr] = true

		for _, child := range idx.outgoing[curr] {
			if lvl := levels[curr] + 1; lvl > levels[child] {
				levels[child] = lvl
			}
			remaining[child]--
			if remaining[child] == 0 && !processed[child] {
				queue = append(queue, child)
			}
		}
	}

	// Patch pass: nodes trapped in unresolved cycles. Level them from any
	// parent that already has a level, in input order so the result is
	// reproducible.
	for _, n := range nodes {
		if processed[n.ID] {
			continue
		}
		lvl := 0
		for _, parent := range idx.incoming[n.ID] {
			if processed[parent] && levels[parent]+1 > lvl {
				lvl = levels[parent] + 1
			}
		}
		levels[n.ID] = lvl
		processed[n.ID] = true
	}

	return levels
}
