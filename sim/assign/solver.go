// Package assign solves balanced min-cost assignment problems.
//
// A problem is a square cost matrix: row i must be assigned to exactly one
// column and every column to exactly one row. Callers that have unequal sides
// pad the smaller side with zero-cost dummy rows or columns before solving.
// A +Inf entry forbids that pairing.
//
// Two solvers implement the Solver interface:
//   - Hungarian: shortest augmenting paths with vertex potentials, O(n³)
//   - Simplex: the assignment linear program solved with gonum's lp.Simplex
package assign

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotSquare is returned when the cost matrix has rows != cols.
	ErrNotSquare = errors.New("assign: cost matrix is not square")

	// ErrInvalidCost is returned for NaN or -Inf entries.
	ErrInvalidCost = errors.New("assign: cost matrix has NaN or -Inf entry")

	// ErrInfeasible is returned when no perfect assignment avoids forbidden
	// (+Inf) entries, or the solver could not produce an integral answer.
	ErrInfeasible = errors.New("assign: no feasible assignment")
)

// Solver computes a minimum-cost perfect assignment.
type Solver interface {
	// Solve returns perm where perm[i] is the column assigned to row i.
	Solve(costs mat.Matrix) ([]int, error)
	// Name identifies the solver in logs and traces.
	Name() string
}

// Solver names accepted by ByName.
const (
	NameHungarian = "hungarian"
	NameSimplex   = "simplex"
)

// ByName returns the solver registered under name. The empty name selects Hungarian.
func ByName(name string) (Solver, error) {
	switch name {
	case "", NameHungarian:
		return Hungarian{}, nil
	case NameSimplex:
		return Simplex{}, nil
	default:
		return nil, fmt.Errorf("unknown solver %q; valid: hungarian, simplex", name)
	}
}

// IsValidName reports whether name selects a solver.
func IsValidName(name string) bool {
	_, err := ByName(name)
	return err == nil
}

// Cost returns the total cost of perm under costs.
func Cost(costs mat.Matrix, perm []int) float64 {
	total := 0.0
	for i, j := range perm {
		total += costs.At(i, j)
	}
	return total
}

// IsPermutation reports whether perm assigns every row of an n×n problem to a
// distinct in-range column.
func IsPermutation(perm []int, n int) bool {
	if len(perm) != n {
		return false
	}
	seen := make([]bool, n)
	for _, j := range perm {
		if j < 0 || j >= n || seen[j] {
			return false
		}
		seen[j] = true
	}
	return true
}

// prepared is a validated copy of the cost matrix in which forbidden entries
// are replaced by a penalty larger than any finite assignment.
type prepared struct {
	n         int
	cost      [][]float64
	forbidden [][]bool
}

func prepare(costs mat.Matrix) (*prepared, error) {
	r, c := costs.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, r, c)
	}
	p := &prepared{n: r, cost: make([][]float64, r), forbidden: make([][]bool, r)}

	finiteSum := 0.0
	anyForbidden := false
	for i := 0; i < r; i++ {
		p.cost[i] = make([]float64, c)
		p.forbidden[i] = make([]bool, c)
		for j := 0; j < c; j++ {
			v := costs.At(i, j)
			switch {
			case math.IsNaN(v) || math.IsInf(v, -1):
				return nil, fmt.Errorf("%w at (%d, %d)", ErrInvalidCost, i, j)
			case math.IsInf(v, 1):
				p.forbidden[i][j] = true
				anyForbidden = true
			default:
				p.cost[i][j] = v
				finiteSum += math.Abs(v)
			}
		}
	}
	if anyForbidden {
		bigM := (finiteSum + 1) * float64(r+1)
		for i := range p.cost {
			for j := range p.cost[i] {
				if p.forbidden[i][j] {
					p.cost[i][j] = bigM
				}
			}
		}
	}
	return p, nil
}

// check rejects answers that use a forbidden pairing.
func (p *prepared) check(perm []int) error {
	for i, j := range perm {
		if p.forbidden[i][j] {
			return fmt.Errorf("%w: row %d can only be covered by a forbidden column", ErrInfeasible, i)
		}
	}
	return nil
}
