package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/erdlayout/pkg/diagram"
)

func TestBuildIndex(t *testing.T) {
	tests := []struct {
		name        string
		nodes       []diagram.Node
		edges       []diagram.Edge
		wantOut     map[string][]string
		wantDegree  map[string]int
		wantValid   int
		wantSkipped int
	}{
		{
			name:       "Empty",
			wantOut:    map[string][]string{},
			wantDegree: map[string]int{},
		},
		{
			name:  "Simple",
			nodes: testNodes("a", "b", "c"),
			edges: testEdges([2]string{"a", "b"}, [2]string{"a", "c"}),
			wantOut: map[string][]string{
				"a": {"b", "c"},
				"b": nil,
				"c": nil,
			},
			wantDegree: map[string]int{"a": 0, "b": 1, "c": 1},
			wantValid:  2,
		},
		{
			name:  "SkipsDanglingAndSelfLoops",
			nodes: testNodes("a", "b"),
			edges: testEdges(
				[2]string{"a", "b"},
				[2]string{"a", "missing"},
				[2]string{"missing", "b"},
				[2]string{"b", "b"},
			),
			wantOut: map[string][]string{
				"a": {"b"},
				"b": nil,
			},
			wantDegree:  map[string]int{"a": 0, "b": 1},
			wantValid:   1,
			wantSkipped: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := buildIndex(tt.nodes, tt.edges)
			for id, want := range tt.wantOut {
				if !slices.Equal(idx.outgoing[id], want) {
					t.Errorf("outgoing[%s] = %v, want %v", id, idx.outgoing[id], want)
				}
			}
			for id, want := range tt.wantDegree {
				if idx.inDegree[id] != want {
					t.Errorf("inDegree[%s] = %d, want %d", id, idx.inDegree[id], want)
				}
			}
			if idx.validEdges != tt.wantValid {
				t.Errorf("validEdges = %d, want %d", idx.validEdges, tt.wantValid)
			}
			if idx.skippedEdges != tt.wantSkipped {
				t.Errorf("skippedEdges = %d, want %d", idx.skippedEdges, tt.wantSkipped)
			}
		})
	}
}
