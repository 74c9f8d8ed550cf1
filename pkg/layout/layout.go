package layout

import (
	"time"

	"github.com/matzehuels/erdlayout/pkg/diagram"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultHGap is the horizontal distance between adjacent nodes in a row.
	DefaultHGap = 390.0

	// DefaultVGap is the vertical distance between consecutive rows.
	DefaultVGap = 320.0

	// DefaultOriginX is the horizontal center every row is balanced around.
	DefaultOriginX = 600.0

	// DefaultOriginY is the y-coordinate of row 0.
	DefaultOriginY = 100.0

	// DefaultMinHGap is the minimum horizontal distance enforced between any
	// two nodes in the same row after junction pull.
	DefaultMinHGap = 350.0

	// DefaultSweepIterations is the number of barycenter ordering sweeps.
	// Four alternating passes converge for typical diagrams of tens of nodes.
	DefaultSweepIterations = 4

	// DefaultMaxNodes is the node ceiling. Inputs larger than this are
	// returned unchanged instead of running the layout passes.
	DefaultMaxNodes = 5000
)

// Config carries the tunable layout constants. The zero value is not useful;
// start from DefaultConfig and override fields as needed so that callers can
// adapt gap sizing to different node dimensions.
type Config struct {
	HGap            float64 // horizontal spacing between row neighbors
	VGap            float64 // vertical spacing between rows
	OriginX         float64 // horizontal centering origin
	OriginY         float64 // y of row 0
	MinHGap         float64 // minimum enforced horizontal gap within a row
	SweepIterations int     // barycenter ordering sweeps
	MaxNodes        int     // input ceiling, 0 disables the check
}

// DefaultConfig returns the configuration observed to work well for
// entity-relationship diagrams with standard-sized node cards.
func DefaultConfig() Config {
	return Config{
		HGap:            DefaultHGap,
		VGap:            DefaultVGap,
		OriginX:         DefaultOriginX,
		OriginY:         DefaultOriginY,
		MinHGap:         DefaultMinHGap,
		SweepIterations: DefaultSweepIterations,
		MaxNodes:        DefaultMaxNodes,
	}
}

// Stats contains execution statistics for a single layout computation.
type Stats struct {
	Nodes           int           // nodes placed
	Edges           int           // valid edges used for layout
	SkippedEdges    int           // edges dropped (dangling endpoint or self-loop)
	Levels          int           // number of rows produced
	CrossingsBefore int           // edge crossings with the initial row order
	CrossingsAfter  int           // edge crossings after barycenter sweeps
	Duration        time.Duration // wall time of the full computation
	Truncated       bool          // input exceeded MaxNodes; positions untouched
}

// Compute returns a copy of nodes with positions replaced by the computed
// layout. The output contains exactly the input nodes (same ids, same order,
// same non-positional data); the engine never adds, removes, or renames
// nodes, and never returns an error. An empty input yields an empty output.
func Compute(nodes []diagram.Node, edges []diagram.Edge, cfg Config) []diagram.Node {
	placed, _ := ComputeWithStats(nodes, edges, cfg)
	return placed
}

// ComputeWithStats is Compute plus execution statistics, for callers that
// log or expose layout quality metrics.
func ComputeWithStats(nodes []diagram.Node, edges []diagram.Edge, cfg Config) ([]diagram.Node, Stats) {
	start := time.Now()

	out := make([]diagram.Node, len(nodes))
	copy(out, nodes)

	if len(nodes) == 0 {
		return out, Stats{Duration: time.Since(start)}
	}
	if cfg.MaxNodes > 0 && len(nodes) > cfg.MaxNodes {
		return out, Stats{
			Nodes:     len(nodes),
			Truncated: true,
			Duration:  time.Since(start),
		}
	}

	idx := buildIndex(nodes, edges)
	levels := assignLevels(nodes, idx)

	orders := initialOrders(nodes, levels)
	before := countCrossings(idx.outgoing, orders)
	optimizeOrders(orders, nodes, idx, cfg.SweepIterations)
	after := countCrossings(idx.outgoing, orders)

	positions := assignCoordinates(orders, idx, cfg)

	for i := range out {
		if p, ok := positions[out[i].ID]; ok {
			out[i].Position = p
		}
	}

	return out, Stats{
		Nodes:           len(nodes),
		Edges:           idx.validEdges,
		SkippedEdges:    idx.skippedEdges,
		Levels:          len(orders),
		CrossingsBefore: before,
		CrossingsAfter:  after,
		Duration:        time.Since(start),
	}
}
