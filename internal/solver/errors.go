package solver

import "errors"

var (
	// ErrNoFeasibleBatch is returned by SolveBatch whenever no batch was produced.
	// It always wraps ErrInfeasible or ErrSolverFailure.
	ErrNoFeasibleBatch = errors.New("no feasible batch")

	// ErrInfeasible means the search proved that no integer assignment exists.
	ErrInfeasible = errors.New("problem is infeasible")

	// ErrSolverFailure covers node limits, cancellation, unboundedness and numerical breakdowns.
	ErrSolverFailure = errors.New("solver failure")

	// ErrInvalidModel is returned for malformed variables, constraints or weights.
	ErrInvalidModel = errors.New("invalid model")
)
