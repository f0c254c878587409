// Package fuzzy implements the approximate string matching used when
// reconciling a catalog against a template.
package fuzzy

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the similarity of a and b as 2*M/T, where M is the total
// length of the non-overlapping matching blocks between them and T the
// combined length of both strings. The result is in [0, 1].
func Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// Closest returns the index of the candidate most similar to target with a
// ratio at or above cutoff. Earlier candidates win ties. It is a pure
// function; candidates are never mutated.
func Closest(target string, candidates []string, cutoff float64) (int, bool) {
	best := -1
	bestRatio := 0.0
	for i, cand := range candidates {
		r := Ratio(target, cand)
		if r < cutoff {
			continue
		}
		if best < 0 || r > bestRatio {
			best = i
			bestRatio = r
		}
	}
	return best, best >= 0
}

func runes(s string) []string {
	return strings.Split(s, "")
}
