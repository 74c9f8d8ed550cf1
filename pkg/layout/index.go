package layout

import "github.com/matzehuels/erdlayout/pkg/diagram"

// graphIndex is the request-scoped adjacency view of one layout invocation.
// Every node id is present in all three maps, initialized to empty/zero, so
// lookups never need an existence check. The index is discarded after use
// and never shared across calls.
type graphIndex struct {
	outgoing map[string][]string // node id -> target ids of valid edges
	incoming map[string][]string // node id -> source ids of valid edges
	inDegree map[string]int      // node id -> count of valid incoming edges

	validEdges   int
	skippedEdges int
}

// buildIndex validates edges against the node set and builds the adjacency
// structures. Edges referencing an unknown endpoint and self-loops are
// counted as skipped and otherwise ignored: diagram data routinely carries
// stale ids, and dropping them is tolerated degradation rather than an error.
func buildIndex(nodes []diagram.Node, edges []diagram.Edge) *graphIndex {
	idx := &graphIndex{
		outgoing: make(map[string][]string, len(nodes)),
		incoming: make(map[string][]string, len(nodes)),
		inDegree: make(map[string]int, len(nodes)),
	}

	for _, n := range nodes {
		idx.outgoing[n.ID] = nil
		idx.incoming[n.ID] = nil
		idx.inDegree[n.ID] = 0
	}

	for _, e := range edges {
		if _, ok := idx.inDegree[e.Source]; !ok {
			idx.skippedEdges++
			continue
		}
		if _, ok := idx.inDegree[e.Target]; !ok {
			idx.skippedEdges++
			continue
		}
		if e.Source == e.Target {
			idx.skippedEdges++
			continue
		}
		idx.outgoing[e.Source] = append(idx.outgoing[e.Source], e.Target)
		idx.incoming[e.Target] = append(idx.incoming[e.Target], e.Source)
		idx.inDegree[e.Target]++
		idx.validEdges++
	}

	return idx
}
