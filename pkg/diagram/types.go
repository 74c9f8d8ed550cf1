package diagram

import "encoding/json"

// =============================================================================
// Diagram - Canonical Serialization Format
// =============================================================================

// Diagram is the canonical serialization format for entity-relationship
// diagrams. Used for CLI files, API requests/responses, and caching.
//
// The format is human-readable and designed for round-trip fidelity:
// read → layout → write → re-read preserves every node and its metadata.
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// =============================================================================
// Node
// =============================================================================

// Node is a single entity in the diagram. ID is the only required field and
// must be unique across the diagram; uniqueness is the caller's
// responsibility and is not enforced here.
//
// Position is a hint on input (used as a tie-break by the layout engine) and
// authoritative on output.
type Node struct {
	ID       string         `json:"id"`
	Label    string         `json:"label,omitempty"` // Display label (defaults to ID)
	Position Position       `json:"position"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// Position is a point on the diagram canvas in pixel units.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a directed relationship between two nodes. Source renders above
// Target in the layered layout. Edges whose endpoints are missing from the
// node set, or that point at their own source, are ignored by the layout
// engine rather than rejected.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// UnmarshalDiagram deserializes JSON bytes into a Diagram.
func UnmarshalDiagram(data []byte) (Diagram, error) {
	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return Diagram{}, err
	}
	return d, nil
}
