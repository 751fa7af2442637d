package assign

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// simplexTol is the reduced-cost tolerance handed to lp.Simplex.
const simplexTol = 1e-9

// simplexSolve points to the LP routine. Tests override it to simulate
// solver failures.
var simplexSolve = lp.Simplex

// Simplex solves the assignment problem as a linear program:
//
//	minimize   Σ c_ij x_ij
//	s.t.       Σ_j x_ij = 1   for every row i
//	           Σ_i x_ij = 1   for every column j but the last
//	           x >= 0
//
// The last column constraint is implied by the others and is dropped so the
// constraint matrix has full row rank. The constraint matrix is totally
// unimodular, so a basic optimal solution is integral.
type Simplex struct{}

func (Simplex) Name() string { return NameSimplex }

func (Simplex) Solve(costs mat.Matrix) ([]int, error) {
	p, err := prepare(costs)
	if err != nil {
		return nil, err
	}
	n := p.n
	if n == 0 {
		return []int{}, nil
	}

	c := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c[i*n+j] = p.cost[i][j]
		}
	}

	rows := 2*n - 1
	A := mat.NewDense(rows, n*n, nil)
	b := make([]float64, rows)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			A.Set(i, i*n+j, 1)
			if j < n-1 {
				A.Set(n+j, i*n+j, 1)
			}
		}
	}
	for r := range b {
		b[r] = 1
	}

	_, x, err := simplexSolve(c, A, b, simplexTol, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, fmt.Errorf("%w: %v", ErrInfeasible, err)
		}
		return nil, fmt.Errorf("simplex: %w", err)
	}

	perm, err := roundAssignment(x, n)
	if err != nil {
		return nil, err
	}
	if err := p.check(perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// roundAssignment reads the integral LP solution back into a permutation.
func roundAssignment(x []float64, n int) ([]int, error) {
	if len(x) != n*n {
		return nil, fmt.Errorf("%w: solution has %d variables, want %d", ErrInfeasible, len(x), n*n)
	}
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		perm[i] = -1
		for j := 0; j < n; j++ {
			if x[i*n+j] > 0.5 {
				perm[i] = j
				break
			}
		}
	}
	if !IsPermutation(perm, n) {
		return nil, fmt.Errorf("%w: fractional or conflicting LP solution", ErrInfeasible)
	}
	return perm, nil
}
