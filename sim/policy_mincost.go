package sim

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/matching-sim/matching-sim/sim/assign"
)

// MinCostMatcher commits the minimum total-distance matching between all
// waiting passengers and drivers in one shot.
//
// The instance is padded to a square matrix of side max(|P|, |D|): rows are
// passengers by ascending ID followed by dummy rows, columns are drivers by
// ascending ID followed by dummy columns. Dummy cells cost 0, so the solver
// leaves exactly the surplus side's excess unmatched. Only real-real cells of
// the solver's answer are committed.
type MinCostMatcher struct {
	Solver assign.Solver
}

// NewMinCostMatcher returns a MinCostMatcher backed by solver, or by the
// Hungarian solver when solver is nil.
func NewMinCostMatcher(solver assign.Solver) *MinCostMatcher {
	if solver == nil {
		solver = assign.Hungarian{}
	}
	return &MinCostMatcher{Solver: solver}
}

func (m *MinCostMatcher) Name() string { return "mincost" }

// Apply solves the padded instance and commits the real pairs at now.
func (m *MinCostMatcher) Apply(now float64, state *State, params ProblemParams) error {
	passengers := state.Passengers()
	drivers := state.Drivers()
	if len(passengers) == 0 || len(drivers) == 0 {
		return nil
	}

	costs := buildCostMatrix(passengers, drivers, params.Distance)
	n, _ := costs.Dims()

	perm, err := m.Solver.Solve(costs)
	if err != nil {
		if errors.Is(err, assign.ErrInfeasible) {
			return fmt.Errorf("%w: %s on %dx%d instance: %v", ErrSolverInfeasible, m.Solver.Name(), n, n, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrSolverUnavailable, m.Solver.Name(), err)
	}
	if !assign.IsPermutation(perm, n) {
		return fmt.Errorf("%w: %s returned %v for a %dx%d instance", ErrSolverInfeasible, m.Solver.Name(), perm, n, n)
	}

	for row, col := range perm {
		if row >= len(passengers) || col >= len(drivers) {
			continue
		}
		if _, err := state.CommitAssignment(passengers[row], drivers[col], now); err != nil {
			return err
		}
	}
	return nil
}

// buildCostMatrix returns the zero-padded square distance matrix.
func buildCostMatrix(passengers, drivers []Agent, dist DistanceFunc) *mat.Dense {
	n := max(len(passengers), len(drivers))
	costs := mat.NewDense(n, n, nil)
	for i, p := range passengers {
		for j, d := range drivers {
			costs.Set(i, j, dist(d.Location, p.Location))
		}
	}
	return costs
}
