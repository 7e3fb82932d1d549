package epi

import (
	"errors"
	"fmt"
)

// Domain errors for scenario runs.
var (
	// ErrInvalidConfig indicates a configuration rejected at construction.
	ErrInvalidConfig = errors.New("epi: invalid configuration")

	// ErrIntegration indicates the solver could not meet tolerance within
	// its step budget.
	ErrIntegration = errors.New("epi: integration failed to converge")

	// ErrStepTooSmall indicates step refinement fell below the minimum size.
	ErrStepTooSmall = errors.New("epi: refined step below minimum")

	// ErrDataIntegrity indicates a produced sample violates conservation,
	// signalling a defect in the system or integrator rather than an
	// expected runtime condition.
	ErrDataIntegrity = errors.New("epi: compartments no longer sum to one")

	// ErrUnknownScenario indicates an unrecognized scenario kind.
	ErrUnknownScenario = errors.New("epi: unknown scenario kind")
)

// SimulationError wraps an error with the simulation context it arose in.
type SimulationError struct {
	Time    float64
	Step    int
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
