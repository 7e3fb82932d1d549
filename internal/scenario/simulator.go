package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/epi"
)

// timeEps absorbs floating-point accumulation when comparing simulation
// times against span boundaries.
const timeEps = 1e-9

// Simulator advances one scenario: a compartmental system under a
// transmission-rate policy. Policies implementing [epi.FeedbackPolicy]
// run segmented — integrate one decision interval at a constant rate,
// observe prevalence, re-decide — while static and scheduled policies
// run in a single pass over the horizon.
type Simulator struct {
	sys       epi.System
	integ     epi.Integrator
	pol       epi.RatePolicy
	metrics   []epi.Metric
	observers []epi.Observer
}

func New(sys epi.System, integ epi.Integrator, pol epi.RatePolicy) *Simulator {
	return &Simulator{
		sys:       sys,
		integ:     integ,
		pol:       pol,
		metrics:   make([]epi.Metric, 0),
		observers: make([]epi.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m epi.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o epi.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, x0 epi.State, cfg epi.RunConfig) (*epi.Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	samples := int(cfg.Horizon/cfg.Resolution) + 2
	result := &epi.Result{
		Trajectory: epi.Trajectory{
			Times:  make([]float64, 0, samples),
			States: make([]epi.State, 0, samples),
			Betas:  make([]float64, 0, samples),
		},
		Metrics: make(map[string]float64),
	}

	x := x0.Clone()

	var err error
	if fb, ok := s.pol.(epi.FeedbackPolicy); ok {
		err = s.runSegmented(ctx, fb, x, cfg, result)
	} else {
		err = s.runDirect(ctx, x, cfg, result)
	}
	if err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// runSegmented alternates integration and policy decisions: advance
// exactly one update interval holding the rate constant, read the
// segment's final prevalence, let the policy re-decide. The final
// segment is truncated so total time equals the horizon exactly.
func (s *Simulator) runSegmented(ctx context.Context, fb epi.FeedbackPolicy, x epi.State, cfg epi.RunConfig, result *epi.Result) error {
	fb.Reset()

	beta := fb.Rate(0, x[epi.I])
	result.Events = append(result.Events, epi.BetaEvent{T: 0, Beta: beta})
	if err := s.record(result, cfg, 0, x, beta); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Horizon-timeEps {
		tEnd := math.Min(t+fb.Interval(), cfg.Horizon)

		var err error
		x, err = s.solveSpan(ctx, result, x, beta, t, tEnd, cfg)
		if err != nil {
			return err
		}
		t = tEnd

		if t >= cfg.Horizon-timeEps {
			break
		}

		next, fired := fb.Decide(x[epi.I], t)
		if fired && next != beta {
			result.Events = append(result.Events, epi.BetaEvent{T: t, Beta: next})
		}
		beta = next
	}

	return nil
}

// runDirect integrates the full horizon in one pass, re-reading the
// policy's rate at each sample boundary so piecewise-constant schedules
// take effect at their breakpoints.
func (s *Simulator) runDirect(ctx context.Context, x epi.State, cfg epi.RunConfig, result *epi.Result) error {
	beta := s.pol.Rate(0, x[epi.I])
	result.Events = append(result.Events, epi.BetaEvent{T: 0, Beta: beta})
	if err := s.record(result, cfg, 0, x, beta); err != nil {
		return err
	}

	t := 0.0
	for t < cfg.Horizon-timeEps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		b := s.pol.Rate(t, x[epi.I])
		if b != beta {
			result.Events = append(result.Events, epi.BetaEvent{T: t, Beta: b})
			beta = b
		}

		tNext := math.Min(t+cfg.Resolution, cfg.Horizon)
		var err error
		x, err = s.advance(x, beta, t, tNext, cfg, result)
		if err != nil {
			return err
		}
		t = tNext

		if err := s.record(result, cfg, t, x, beta); err != nil {
			return err
		}
	}

	return nil
}

// solveSpan advances [t0, t1] at a constant rate, sampling at the run
// resolution. Segment seams produce no duplicate samples: each span
// records only the samples strictly after its start.
func (s *Simulator) solveSpan(ctx context.Context, result *epi.Result, x epi.State, beta, t0, t1 float64, cfg epi.RunConfig) (epi.State, error) {
	t := t0
	for t < t1-timeEps {
		select {
		case <-ctx.Done():
			return x, ctx.Err()
		default:
		}

		tNext := math.Min(t+cfg.Resolution, t1)
		var err error
		x, err = s.advance(x, beta, t, tNext, cfg, result)
		if err != nil {
			return x, err
		}
		t = tNext

		if err := s.record(result, cfg, t, x, beta); err != nil {
			return x, err
		}
	}
	return x, nil
}

// advance integrates from t to target under a bounded step budget,
// refining the step whenever the error estimate rejects it or a
// compartment would leave [0, 1]. Violations are never clamped away.
func (s *Simulator) advance(x epi.State, beta, t, target float64, cfg epi.RunConfig, result *epi.Result) (epi.State, error) {
	ai, adaptive := s.integ.(epi.AdaptiveIntegrator)

	h := target - t
	steps := 0
	for t < target-timeEps {
		if steps >= cfg.StepBudget {
			return nil, &epi.SimulationError{
				Time: t, Step: result.StepsTaken, State: x.Clone(),
				Wrapped: fmt.Errorf("%w: step budget %d exhausted", epi.ErrIntegration, cfg.StepBudget),
			}
		}
		if h < cfg.MinStep {
			return nil, &epi.SimulationError{
				Time: t, Step: result.StepsTaken, State: x.Clone(),
				Wrapped: fmt.Errorf("%w (%e)", epi.ErrStepTooSmall, h),
			}
		}
		if h > target-t {
			h = target - t
		}

		var next epi.State
		hNext := h
		accepted := true
		if adaptive {
			next, hNext, accepted = ai.StepAdaptive(s.sys, x, beta, t, h, cfg.Tolerance)
		} else {
			next = s.integ.Step(s.sys, x, beta, t, h)
		}
		steps++
		result.StepsTaken++

		if !accepted {
			h = math.Min(hNext, 0.5*h)
			continue
		}
		if !next.IsValid() || !next.InBounds(cfg.ConservationTol) {
			h = 0.5 * h
			continue
		}

		x = next
		t += h
		h = hNext
	}

	return x, nil
}

// record appends a sample, fans it out to metrics and observers, and
// verifies conservation. A violation is reported, not renormalized: it
// signals a defect in the system or integrator.
func (s *Simulator) record(result *epi.Result, cfg epi.RunConfig, t float64, x epi.State, beta float64) error {
	if !x.Conserved(cfg.ConservationTol) {
		return &epi.SimulationError{
			Time: t, Step: result.StepsTaken, State: x.Clone(),
			Wrapped: epi.ErrDataIntegrity,
		}
	}

	result.Trajectory.Times = append(result.Trajectory.Times, t)
	result.Trajectory.States = append(result.Trajectory.States, x.Clone())
	result.Trajectory.Betas = append(result.Trajectory.Betas, beta)

	for _, m := range s.metrics {
		m.Observe(t, x, beta)
	}
	for _, o := range s.observers {
		o.OnSample(t, x, beta)
	}
	return nil
}

func (s *Simulator) validate(x0 epi.State, cfg epi.RunConfig) error {
	if cfg.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %f", epi.ErrInvalidConfig, cfg.Horizon)
	}
	if cfg.Resolution <= 0 {
		return fmt.Errorf("%w: resolution must be positive, got %f", epi.ErrInvalidConfig, cfg.Resolution)
	}
	if cfg.Tolerance <= 0 || cfg.ConservationTol <= 0 {
		return fmt.Errorf("%w: tolerances must be positive", epi.ErrInvalidConfig)
	}
	if cfg.StepBudget <= 0 || cfg.MinStep <= 0 {
		return fmt.Errorf("%w: step budget and minimum step must be positive", epi.ErrInvalidConfig)
	}
	if len(x0) != s.sys.Dim() {
		return fmt.Errorf("%w: state has %d compartments, system expects %d", epi.ErrInvalidConfig, len(x0), s.sys.Dim())
	}
	if !x0.IsValid() || !x0.InBounds(0) {
		return fmt.Errorf("%w: initial compartments must lie in [0,1]", epi.ErrInvalidConfig)
	}
	if !x0.Conserved(cfg.ConservationTol) {
		return fmt.Errorf("%w: initial compartments sum to %f, want 1", epi.ErrInvalidConfig, x0.Sum())
	}
	return nil
}
