package assign

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Hungarian solves the assignment problem with the potentials form of the
// Hungarian method (shortest augmenting paths), in O(n³).
type Hungarian struct{}

func (Hungarian) Name() string { return NameHungarian }

func (Hungarian) Solve(costs mat.Matrix) ([]int, error) {
	p, err := prepare(costs)
	if err != nil {
		return nil, err
	}
	perm := hungarianMin(p.cost)
	if err := p.check(perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// hungarianMin returns, for each row of the square matrix a, its assigned column.
// Arrays are 1-based internally; index 0 is the virtual root of each augmenting path.
func hungarianMin(a [][]float64) []int {
	n := len(a)
	u := make([]float64, n+1) // row potentials
	v := make([]float64, n+1) // column potentials
	p := make([]int, n+1)     // p[j]: row matched to column j
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := 0; j <= n; j++ {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := a[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		// augment along the path back to the root
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	perm := make([]int, n)
	for j := 1; j <= n; j++ {
		perm[p[j]-1] = j - 1
	}
	return perm
}
