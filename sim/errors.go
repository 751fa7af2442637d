package sim

import "errors"

var (
	// ErrInvalidAssignment is returned when a policy commits a pair whose
	// passenger or driver is not waiting, or whose time precedes an arrival.
	// It signals a policy bug and aborts the run.
	ErrInvalidAssignment = errors.New("sim: invalid assignment")

	// ErrSolverInfeasible is returned when the assignment solver reports no
	// feasible solution for a balanced instance, or answers with something
	// that is not a permutation.
	ErrSolverInfeasible = errors.New("sim: assignment solver infeasible")

	// ErrSolverUnavailable wraps any other solver failure.
	ErrSolverUnavailable = errors.New("sim: assignment solver failed")

	// ErrInvalidArrival is returned when an arrival stream yields a negative
	// or NaN interarrival time.
	ErrInvalidArrival = errors.New("sim: invalid arrival")

	// ErrInvalidSchedule is returned when a policy schedule yields a negative
	// or NaN wait, or a nil policy.
	ErrInvalidSchedule = errors.New("sim: invalid policy tick")

	// ErrNotIdle is returned when Run is called on a simulator that already ran.
	ErrNotIdle = errors.New("sim: simulator is not idle")
)
