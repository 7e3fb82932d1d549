package epi

import "math"

// Compartment indices into a State vector.
const (
	S = 0
	I = 1
	R = 2

	Compartments = 3
)

type State []float64

func NewState(s0, i0, r0 float64) State {
	return State{s0, i0, r0}
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum returns the total population fraction across compartments.
func (s State) Sum() float64 {
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total
}

// InBounds reports whether every compartment lies in [0, 1] within tol.
func (s State) InBounds(tol float64) bool {
	for _, v := range s {
		if v < -tol || v > 1+tol {
			return false
		}
	}
	return true
}

// Conserved reports whether the compartments sum to one within tol.
func (s State) Conserved(tol float64) bool {
	return math.Abs(s.Sum()-1) <= tol
}

// System is the compartmental ODE: dX/dt = f(X, beta, t) for a
// transmission rate beta valid at time t.
type System interface {
	Derive(x State, beta, t float64) State
	Dim() int
}

type Integrator interface {
	Step(sys System, x State, beta, t, dt float64) State
}

// AdaptiveIntegrator steps with an embedded error estimate. StepAdaptive
// returns the candidate state, a suggested next step size, and whether the
// step met tol; on rejection the caller retries with the suggested size.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, beta, t, dt, tol float64) (State, float64, bool)
}

// RatePolicy produces the transmission rate applicable to the next
// span of the simulation given current time and observed prevalence.
// Static and scheduled policies ignore the prevalence argument.
type RatePolicy interface {
	Rate(t, infected float64) float64
}

// FeedbackPolicy is a RatePolicy that re-decides its rate from observed
// prevalence at fixed decision intervals. Decide returns the rate in
// force after the decision and whether the decision point fired (a fired
// decision may still hold the rate unchanged).
type FeedbackPolicy interface {
	RatePolicy
	Decide(infected, t float64) (float64, bool)
	Interval() float64
	Reset()
}

type Metric interface {
	Name() string
	Observe(t float64, x State, beta float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnSample(t float64, x State, beta float64)
}

// BetaEvent records a transmission rate taking effect at time T.
type BetaEvent struct {
	T    float64 `json:"t"`
	Beta float64 `json:"beta"`
}

// Trajectory is the time-ordered sampled solution of one scenario run.
// Betas holds the rate in force at each sample, for per-segment
// attribution in plots and exports.
type Trajectory struct {
	Times  []float64
	States []State
	Betas  []float64
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

func (tr *Trajectory) Final() (float64, State) {
	n := len(tr.Times)
	if n == 0 {
		return 0, nil
	}
	return tr.Times[n-1], tr.States[n-1]
}

// Infected returns the I(t) series.
func (tr *Trajectory) Infected() []float64 {
	out := make([]float64, len(tr.States))
	for i, x := range tr.States {
		out[i] = x[I]
	}
	return out
}

// Compartment returns the series for one compartment index.
func (tr *Trajectory) Compartment(idx int) []float64 {
	out := make([]float64, len(tr.States))
	for i, x := range tr.States {
		out[i] = x[idx]
	}
	return out
}

// RunConfig holds the numerical parameters of a single scenario run.
type RunConfig struct {
	Horizon         float64
	Resolution      float64
	Tolerance       float64
	MinStep         float64
	StepBudget      int
	ConservationTol float64
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Horizon:         200.0,
		Resolution:      1.0,
		Tolerance:       1e-8,
		MinStep:         1e-8,
		StepBudget:      10000,
		ConservationTol: 1e-6,
	}
}

type Result struct {
	Trajectory Trajectory
	Events     []BetaEvent
	Metrics    map[string]float64
	StepsTaken int
}
