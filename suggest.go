package summary

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to n addresses from candidates whose text address is
// closest to target by edit distance.  Candidates farther than half the
// length of target are not suggested.
func Suggest(target string, candidates []Address, n int) []Address {
	type scored struct {
		addr Address
		dist int
	}
	limit := max(len(target)/2, 1)
	target = strings.ToUpper(target)
	var hits []scored
	for _, a := range candidates {
		d := levenshtein.ComputeDistance(target, strings.ToUpper(a.TextAddress()))
		if d <= limit {
			hits = append(hits, scored{a, d})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return Compare(a.addr, b.addr)
	})
	var out []Address
	for _, h := range hits[:min(n, len(hits))] {
		out = append(out, h.addr)
	}
	return out
}
