package policy

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
)

// Scheduled applies predetermined interventions regardless of epidemic
// state: an initial high-transmission phase, an intervention-reduced
// phase, and a partial-rebound phase. The rate changes only at the two
// breakpoints, never interpolated.
type Scheduled struct {
	Beta0                 float64
	InterventionTime      float64
	InterventionReduction float64
	ReboundTime           float64
	ReboundFactor         float64

	betaIntervention float64
	betaRebound      float64
}

func NewScheduled(beta0, interventionTime, interventionReduction, reboundTime, reboundFactor float64) (*Scheduled, error) {
	if beta0 <= 0 {
		return nil, fmt.Errorf("%w: beta0 must be positive, got %f", epi.ErrInvalidConfig, beta0)
	}
	if interventionReduction < 0 || interventionReduction >= 1 {
		return nil, fmt.Errorf("%w: intervention reduction must be in [0,1), got %f", epi.ErrInvalidConfig, interventionReduction)
	}
	if reboundFactor < 0 || reboundFactor > 1 {
		return nil, fmt.Errorf("%w: rebound factor must be in [0,1], got %f", epi.ErrInvalidConfig, reboundFactor)
	}
	if interventionTime <= 0 || reboundTime <= interventionTime {
		return nil, fmt.Errorf("%w: breakpoints must satisfy 0 < intervention < rebound, got %f and %f",
			epi.ErrInvalidConfig, interventionTime, reboundTime)
	}

	p := &Scheduled{
		Beta0:                 beta0,
		InterventionTime:      interventionTime,
		InterventionReduction: interventionReduction,
		ReboundTime:           reboundTime,
		ReboundFactor:         reboundFactor,
	}
	p.betaIntervention = beta0 * (1 - interventionReduction)
	// Rebound is a partial recovery from the intervention level toward beta0.
	p.betaRebound = p.betaIntervention + (beta0-p.betaIntervention)*reboundFactor
	return p, nil
}

func (p *Scheduled) Rate(t, infected float64) float64 {
	switch {
	case t < p.InterventionTime:
		return p.Beta0
	case t < p.ReboundTime:
		return p.betaIntervention
	default:
		return p.betaRebound
	}
}

// Phases returns the rate in force during each of the three phases.
func (p *Scheduled) Phases() (initial, intervention, rebound float64) {
	return p.Beta0, p.betaIntervention, p.betaRebound
}

// Breakpoints returns the two instants at which the rate changes.
func (p *Scheduled) Breakpoints() (float64, float64) {
	return p.InterventionTime, p.ReboundTime
}
