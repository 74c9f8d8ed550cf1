// Package layout computes a layered, non-overlapping two-dimensional layout
// for a directed diagram graph.
//
// Given a list of nodes and directed edges, the engine assigns each node a
// stable (x, y) position following a top-to-bottom visual convention:
// sources render above their targets, nodes within a row are ordered to
// reduce edge crossings, and no two nodes in a row sit closer than a
// configured minimum gap.
//
// # Pipeline
//
// The engine runs four passes in a single synchronous call:
//
//  1. Index: build id-keyed adjacency structures, silently dropping edges
//     with unknown endpoints or identical source and target.
//  2. Level: assign each node an integer row via longest-path topological
//     leveling (Kahn's algorithm), with a deterministic fallback for cycles.
//  3. Order: reorder each row with a fixed number of alternating barycenter
//     sweeps to reduce inter-row edge crossings.
//  4. Coordinates: space rows evenly, pull multi-parent junction nodes under
//     their parents' centroid, resolve collisions left to right, and center
//     each row on the configured origin.
//
// # Purity and Concurrency
//
// Compute never mutates its inputs and allocates all working state fresh per
// call, so it is safe to invoke concurrently from independent callers. For a
// fixed input (including node order, labels, and position hints) the output
// is exactly reproducible.
//
// # Usage
//
//	placed := layout.Compute(d.Nodes, d.Edges, layout.DefaultConfig())
//	for _, n := range placed {
//	    fmt.Printf("%s at (%.0f, %.0f)\n", n.ID, n.Position.X, n.Position.Y)
//	}
package layout
