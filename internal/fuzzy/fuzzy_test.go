package fuzzy

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "hello", "hello", 1},
		{"both_empty", "", "", 1},
		{"one_empty", "hello", "", 0},
		{"disjoint", "abc", "xyz", 0},
		{"colour_color", "colour", "color", 2.0 * 5 / 11},
		{"symmetry_ab", "1 file", "1 files", 2.0 * 6 / 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestClosest(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		candidates []string
		cutoff     float64
		wantIdx    int
		wantOK     bool
	}{
		{"simple_hit", "color", []string{"colour", "flavor"}, 0.85, 0, true},
		{"below_cutoff", "color", []string{"flavor"}, 0.85, -1, false},
		{"empty_pool", "color", nil, 0.85, -1, false},
		{"best_wins", "color", []string{"col", "colour"}, 0.5, 1, true},
		{"first_wins_tie", "ab", []string{"ax", "ay"}, 0.4, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := Closest(tt.target, tt.candidates, tt.cutoff)
			if ok != tt.wantOK || (ok && idx != tt.wantIdx) {
				t.Errorf("Closest(%q) = (%d, %v), want (%d, %v)", tt.target, idx, ok, tt.wantIdx, tt.wantOK)
			}
		})
	}
}
