package policy

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
)

// AdaptiveParams configures the feedback controller.
type AdaptiveParams struct {
	Beta0           float64
	BetaMin         float64
	BetaMax         float64
	IHigh           float64
	ILow            float64
	ReductionFactor float64
	IncreaseFactor  float64
	UpdateInterval  float64
}

// Adaptive adjusts the transmission rate from observed prevalence, the
// way capacity-based public health responses react to sustained rather
// than instantaneous strain. Decisions fire at fixed intervals; between
// the two thresholds the rate is held, a hysteresis band that prevents
// the oscillation a single-threshold rule would produce near the
// boundary.
//
// The tighten/relax step is proportional: tightening multiplies the rate
// by (1 - ReductionFactor), relaxing by (1 + IncreaseFactor), clamped to
// [BetaMin, BetaMax].
type Adaptive struct {
	params AdaptiveParams

	current    float64
	lastUpdate float64
}

func NewAdaptive(p AdaptiveParams) (*Adaptive, error) {
	if p.Beta0 <= 0 {
		return nil, fmt.Errorf("%w: beta0 must be positive, got %f", epi.ErrInvalidConfig, p.Beta0)
	}
	if p.BetaMin > p.BetaMax {
		return nil, fmt.Errorf("%w: beta_min %f exceeds beta_max %f", epi.ErrInvalidConfig, p.BetaMin, p.BetaMax)
	}
	if p.BetaMin <= 0 {
		return nil, fmt.Errorf("%w: beta_min must be positive, got %f", epi.ErrInvalidConfig, p.BetaMin)
	}
	if p.ILow >= p.IHigh {
		return nil, fmt.Errorf("%w: thresholds inverted (i_low %f >= i_high %f)", epi.ErrInvalidConfig, p.ILow, p.IHigh)
	}
	if p.ReductionFactor <= 0 || p.ReductionFactor >= 1 {
		return nil, fmt.Errorf("%w: reduction factor must be in (0,1), got %f", epi.ErrInvalidConfig, p.ReductionFactor)
	}
	if p.IncreaseFactor <= 0 {
		return nil, fmt.Errorf("%w: increase factor must be positive, got %f", epi.ErrInvalidConfig, p.IncreaseFactor)
	}
	if p.UpdateInterval <= 0 {
		return nil, fmt.Errorf("%w: update interval must be positive, got %f", epi.ErrInvalidConfig, p.UpdateInterval)
	}

	a := &Adaptive{params: p}
	a.Reset()
	return a, nil
}

func (a *Adaptive) Rate(t, infected float64) float64 {
	return a.current
}

// Decide re-evaluates the rate from observed prevalence. It is a no-op
// between decision points; when one fires, the last-update time advances
// regardless of whether the rate was tightened, relaxed or held.
func (a *Adaptive) Decide(infected, t float64) (float64, bool) {
	if t-a.lastUpdate < a.params.UpdateInterval {
		return a.current, false
	}

	switch {
	case infected > a.params.IHigh:
		a.current *= 1 - a.params.ReductionFactor
	case infected < a.params.ILow:
		a.current *= 1 + a.params.IncreaseFactor
	}
	a.current = clamp(a.current, a.params.BetaMin, a.params.BetaMax)
	a.lastUpdate = t

	return a.current, true
}

func (a *Adaptive) Interval() float64 {
	return a.params.UpdateInterval
}

// Reset restores the initial rate for reuse across runs.
func (a *Adaptive) Reset() {
	a.current = clamp(a.params.Beta0, a.params.BetaMin, a.params.BetaMax)
	a.lastUpdate = 0
}

// Bounds returns the safety bounds on the rate.
func (a *Adaptive) Bounds() (float64, float64) {
	return a.params.BetaMin, a.params.BetaMax
}

// Thresholds returns the hysteresis band (low, high).
func (a *Adaptive) Thresholds() (float64, float64) {
	return a.params.ILow, a.params.IHigh
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
