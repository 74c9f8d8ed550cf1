package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/erdlayout/pkg/diagram"
)

// nodes builds a node slice from ids, with zero position hints.
func testNodes(ids ...string) []diagram.Node {
	out := make([]diagram.Node, len(ids))
	for i, id := range ids {
		out[i] = diagram.Node{ID: id}
	}
	return out
}

func testEdges(pairs ...[2]string) []diagram.Edge {
	out := make([]diagram.Edge, len(pairs))
	for i, p := range pairs {
		out[i] = diagram.Edge{Source: p[0], Target: p[1]}
	}
	return out
}

func positionOf(t *testing.T, placed []diagram.Node, id string) diagram.Position {
	t.Helper()
	for _, n := range placed {
		if n.ID == id {
			return n.Position
		}
	}
	t.Fatalf("node %s missing from output", id)
	return diagram.Position{}
}

func TestComputeTrivialCases(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("Empty", func(t *testing.T) {
		placed := Compute(nil, nil, cfg)
		if len(placed) != 0 {
			t.Errorf("len(placed) = %d, want 0", len(placed))
		}
	})

	t.Run("SingleNode", func(t *testing.T) {
		placed := Compute(testNodes("users"), nil, cfg)
		if len(placed) != 1 {
			t.Fatalf("len(placed) = %d, want 1", len(placed))
		}
		got := placed[0].Position
		if got.X != cfg.OriginX || got.Y != cfg.OriginY {
			t.Errorf("position = (%v, %v), want (%v, %v)", got.X, got.Y, cfg.OriginX, cfg.OriginY)
		}
	})
}

func TestComputeDiamond(t *testing.T) {
	cfg := DefaultConfig()
	nodes := testNodes("a", "b", "c", "d")
	edges := testEdges([2]string{"a", "b"}, [2]string{"a", "c"}, [2]string{"b", "d"}, [2]string{"c", "d"})

	placed := Compute(nodes, edges, cfg)

	wantY := map[string]float64{"a": 100, "b": 420, "c": 420, "d": 740}
	for id, y := range wantY {
		if got := positionOf(t, placed, id).Y; got != y {
			t.Errorf("y(%s) = %v, want %v", id, got, y)
		}
	}

	// d is a junction node: pulled to the mean of b and c.
	bx := positionOf(t, placed, "b").X
	cx := positionOf(t, placed, "c").X
	dx := positionOf(t, placed, "d").X
	if want := (bx + cx) / 2; dx != want {
		t.Errorf("x(d) = %v, want midpoint of b and c = %v", dx, want)
	}

	// a and d sit on the origin; b and c straddle it symmetrically.
	if ax := positionOf(t, placed, "a").X; ax != cfg.OriginX {
		t.Errorf("x(a) = %v, want %v", ax, cfg.OriginX)
	}
	if mid := (bx + cx) / 2; mid != cfg.OriginX {
		t.Errorf("midpoint(b, c) = %v, want %v", mid, cfg.OriginX)
	}
	if gap := math.Abs(bx - cx); gap < cfg.MinHGap {
		t.Errorf("|x(b)-x(c)| = %v, want >= %v", gap, cfg.MinHGap)
	}
}

func TestComputePreservesNodes(t *testing.T) {
	cfg := DefaultConfig()
	nodes := []diagram.Node{
		{ID: "orders", Label: "Orders", Meta: map[string]any{"table": true}},
		{ID: "users", Label: "Users"},
		{ID: "items"},
	}
	edges := testEdges([2]string{"users", "orders"}, [2]string{"orders", "items"})

	placed := Compute(nodes, edges, cfg)

	if len(placed) != len(nodes) {
		t.Fatalf("len(placed) = %d, want %d", len(placed), len(nodes))
	}
	for i, n := range nodes {
		if placed[i].ID != n.ID {
			t.Errorf("placed[%d].ID = %s, want %s", i, placed[i].ID, n.ID)
		}
		if placed[i].Label != n.Label {
			t.Errorf("placed[%d].Label = %s, want %s", i, placed[i].Label, n.Label)
		}
	}
	if placed[0].Meta["table"] != true {
		t.Errorf("meta not preserved: %v", placed[0].Meta)
	}
	// Inputs must not be mutated.
	if nodes[0].Position.Y != 0 {
		t.Errorf("input node mutated: %v", nodes[0].Position)
	}
}

func TestComputeRowGapInvariant(t *testing.T) {
	cfg := DefaultConfig()
	// Two junction children pulled toward the same centroid force the
	// collision sweep to separate them.
	nodes := testNodes("p1", "p2", "j1", "j2")
	edges := testEdges(
		[2]string{"p1", "j1"}, [2]string{"p2", "j1"},
		[2]string{"p1", "j2"}, [2]string{"p2", "j2"},
	)

	placed := Compute(nodes, edges, cfg)

	byRow := make(map[float64][]float64)
	for _, n := range placed {
		byRow[n.Position.Y] = append(byRow[n.Position.Y], n.Position.X)
	}
	for y, xs := range byRow {
		for i := 0; i < len(xs); i++ {
			for j := i + 1; j < len(xs); j++ {
				if gap := math.Abs(xs[i] - xs[j]); gap < cfg.MinHGap {
					t.Errorf("row y=%v: gap %v < %v", y, gap, cfg.MinHGap)
				}
			}
		}
	}
}

func TestComputeLongestPathProperty(t *testing.T) {
	cfg := DefaultConfig()
	nodes := testNodes("a", "b", "c", "d", "e")
	edges := testEdges(
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"a", "c"},
		[2]string{"c", "d"}, [2]string{"b", "e"}, [2]string{"d", "e"},
	)

	placed := Compute(nodes, edges, cfg)

	pos := make(map[string]diagram.Position)
	for _, n := range placed {
		pos[n.ID] = n.Position
	}
	for _, e := range edges {
		if pos[e.Target].Y <= pos[e.Source].Y {
			t.Errorf("edge %s->%s: y(target) = %v, want > y(source) = %v",
				e.Source, e.Target, pos[e.Target].Y, pos[e.Source].Y)
		}
		diff := pos[e.Target].Y - pos[e.Source].Y
		if rem := math.Mod(diff, cfg.VGap); rem != 0 {
			t.Errorf("edge %s->%s: y delta %v not a multiple of %v", e.Source, e.Target, diff, cfg.VGap)
		}
	}
}

func TestComputeDanglingEdgeTolerance(t *testing.T) {
	cfg := DefaultConfig()
	nodes := testNodes("a", "b")
	clean := testEdges([2]string{"a", "b"})
	noisy := testEdges([2]string{"a", "b"}, [2]string{"a", "ghost"}, [2]string{"ghost", "b"}, [2]string{"a", "a"})

	want := Compute(nodes, clean, cfg)
	got, stats := ComputeWithStats(nodes, noisy, cfg)

	for i := range want {
		if want[i].Position != got[i].Position {
			t.Errorf("node %s: position %v, want %v (dangling edges must not affect layout)",
				want[i].ID, got[i].Position, want[i].Position)
		}
	}
	if stats.SkippedEdges != 3 {
		t.Errorf("stats.SkippedEdges = %d, want 3", stats.SkippedEdges)
	}
	if stats.Edges != 1 {
		t.Errorf("stats.Edges = %d, want 1", stats.Edges)
	}
}

func TestComputeDisconnectedComponents(t *testing.T) {
	cfg := DefaultConfig()
	// Two components with no edges between them: both roots land on row 0,
	// and the row as a whole is centered on the origin.
	nodes := testNodes("left", "right")

	placed := Compute(nodes, nil, cfg)

	lp := positionOf(t, placed, "left")
	rp := positionOf(t, placed, "right")
	if lp.Y != cfg.OriginY || rp.Y != cfg.OriginY {
		t.Errorf("y = (%v, %v), want both %v", lp.Y, rp.Y, cfg.OriginY)
	}
	if mid := (lp.X + rp.X) / 2; mid != cfg.OriginX {
		t.Errorf("row midpoint = %v, want %v", mid, cfg.OriginX)
	}
}

func TestComputeCycleTerminates(t *testing.T) {
	cfg := DefaultConfig()
	nodes := testNodes("x", "y", "z")
	edges := testEdges([2]string{"x", "y"}, [2]string{"y", "z"}, [2]string{"z", "x"})

	placed, stats := ComputeWithStats(nodes, edges, cfg)

	if len(placed) != 3 {
		t.Fatalf("len(placed) = %d, want 3", len(placed))
	}
	for _, n := range placed {
		if n.Position.Y < cfg.OriginY {
			t.Errorf("node %s: y = %v, want >= %v (every node needs a defined level)",
				n.ID, n.Position.Y, cfg.OriginY)
		}
	}
	if stats.Levels == 0 {
		t.Errorf("stats.Levels = 0, want > 0")
	}
}

func TestComputeMaxNodesCeiling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxNodes = 2
	nodes := []diagram.Node{
		{ID: "a", Position: diagram.Position{X: 1, Y: 2}},
		{ID: "b", Position: diagram.Position{X: 3, Y: 4}},
		{ID: "c", Position: diagram.Position{X: 5, Y: 6}},
	}

	placed, stats := ComputeWithStats(nodes, nil, cfg)

	if !stats.Truncated {
		t.Fatal("stats.Truncated = false, want true")
	}
	for i := range nodes {
		if placed[i].Position != nodes[i].Position {
			t.Errorf("node %s: position %v, want input hint %v untouched",
				nodes[i].ID, placed[i].Position, nodes[i].Position)
		}
	}
}

func TestComputeDeterminism(t *testing.T) {
	cfg := DefaultConfig()
	nodes := testNodes("a", "b", "c", "d", "e", "f")
	edges := testEdges(
		[2]string{"a", "c"}, [2]string{"b", "c"}, [2]string{"b", "d"},
		[2]string{"c", "e"}, [2]string{"d", "e"}, [2]string{"d", "f"},
	)

	first := Compute(nodes, edges, cfg)
	for i := 0; i < 10; i++ {
		again := Compute(nodes, edges, cfg)
		for j := range first {
			if first[j].Position != again[j].Position {
				t.Fatalf("run %d: node %s moved from %v to %v",
					i, first[j].ID, first[j].Position, again[j].Position)
			}
		}
	}
}
