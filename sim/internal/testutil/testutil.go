// Package testutil provides shared test infrastructure for the matching
// simulator: exhaustive reference solvers and tolerant float assertions used
// across sim/ and sim/assign/ test packages.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// BruteForceMinCost returns the cheapest way to match every row of costs to
// a distinct column, or every column to a distinct row when there are fewer
// columns. Exponential; keep instances to about 8 on the short side.
// An empty matrix costs 0. Returns +Inf when every matching uses a +Inf entry.
func BruteForceMinCost(costs mat.Matrix) float64 {
	r, c := costs.Dims()
	at := costs.At
	if r > c {
		r, c = c, r
		at = func(i, j int) float64 { return costs.At(j, i) }
	}
	used := make([]bool, c)
	best := math.Inf(1)
	var search func(i int, acc float64)
	search = func(i int, acc float64) {
		if acc >= best {
			return
		}
		if i == r {
			best = acc
			return
		}
		for j := 0; j < c; j++ {
			if used[j] {
				continue
			}
			used[j] = true
			search(i+1, acc+at(i, j))
			used[j] = false
		}
	}
	search(0, 0)
	return best
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
