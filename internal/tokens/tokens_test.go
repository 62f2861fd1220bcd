package tokens

import "testing"

func TestHeuristicCount(t *testing.T) {
	h := NewHeuristic()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"short word", "hi", 1},
		{"two words", "hello world", 2},
		{"long identifier splits", "reconfiguration", 4},
		{"punctuation counts", "a, b", 3},
		{"code line", "x := 1", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCounterFunc(t *testing.T) {
	c := CounterFunc(func(text string) int { return len(text) })
	if got := c.Count("abc"); got != 3 {
		t.Errorf("CounterFunc adapter returned %d", got)
	}
}
