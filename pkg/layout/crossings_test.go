package layout

import "testing"

func TestCountRowCrossings(t *testing.T) {
	tests := []struct {
		name     string
		outgoing map[string][]string
		upper    []string
		lower    []string
		want     int
	}{
		{
			name:     "NoEdges",
			outgoing: map[string][]string{},
			upper:    []string{"a", "b"},
			lower:    []string{"c", "d"},
			want:     0,
		},
		{
			name:     "Parallel",
			outgoing: map[string][]string{"a": {"c"}, "b": {"d"}},
			upper:    []string{"a", "b"},
			lower:    []string{"c", "d"},
			want:     0,
		},
		{
			name:     "SingleCross",
			outgoing: map[string][]string{"a": {"d"}, "b": {"c"}},
			upper:    []string{"a", "b"},
			lower:    []string{"c", "d"},
			want:     1,
		},
		{
			name: "CompleteBipartiteK22",
			outgoing: map[string][]string{
				"a": {"c", "d"},
				"b": {"c", "d"},
			},
			upper: []string{"a", "b"},
			lower: []string{"c", "d"},
			want:  1,
		},
		{
			name:     "EdgeOutsideRowIgnored",
			outgoing: map[string][]string{"a": {"elsewhere", "c"}},
			upper:    []string{"a"},
			lower:    []string{"c"},
			want:     0,
		},
		{
			name:     "EmptyLower",
			outgoing: map[string][]string{"a": {"c"}},
			upper:    []string{"a"},
			lower:    nil,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countRowCrossings(tt.outgoing, tt.upper, tt.lower); got != tt.want {
				t.Errorf("countRowCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountCrossingsSumsConsecutiveRows(t *testing.T) {
	outgoing := map[string][]string{
		"a": {"d"}, "b": {"c"}, // one crossing between rows 0 and 1
		"c": {"f"}, "d": {"e"}, // one crossing between rows 1 and 2
	}
	orders := map[int][]string{
		0: {"a", "b"},
		1: {"c", "d"},
		2: {"e", "f"},
	}

	if got := countCrossings(outgoing, orders); got != 2 {
		t.Errorf("countCrossings() = %d, want 2", got)
	}
}
