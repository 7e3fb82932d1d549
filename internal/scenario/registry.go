package scenario

import (
	"fmt"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/metrics"
	"github.com/san-kum/episim/internal/policy"
)

type Registry struct {
	integrators map[string]func() epi.Integrator
	policies    map[string]func(cfg *config.Config) (epi.RatePolicy, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() epi.Integrator),
		policies:    make(map[string]func(cfg *config.Config) (epi.RatePolicy, error)),
	}

	r.integrators["euler"] = func() epi.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() epi.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() epi.Integrator { return integrators.NewRK45() }

	r.policies[config.ScenarioStatic] = func(cfg *config.Config) (epi.RatePolicy, error) {
		return policy.NewStatic(cfg.Static.Beta0)
	}
	r.policies[config.ScenarioScheduled] = func(cfg *config.Config) (epi.RatePolicy, error) {
		sc := cfg.Scheduled
		return policy.NewScheduled(sc.Beta0, sc.InterventionTime, sc.InterventionReduction, sc.ReboundTime, sc.ReboundFactor)
	}
	r.policies[config.ScenarioAdaptive] = func(cfg *config.Config) (epi.RatePolicy, error) {
		ac := cfg.Adaptive
		return policy.NewAdaptive(policy.AdaptiveParams{
			Beta0:           ac.Beta0,
			BetaMin:         ac.BetaMin,
			BetaMax:         ac.BetaMax,
			IHigh:           ac.IHigh,
			ILow:            ac.ILow,
			ReductionFactor: ac.ReductionFactor,
			IncreaseFactor:  ac.IncreaseFactor,
			UpdateInterval:  ac.UpdateInterval,
		})
	}

	return r
}

func (r *Registry) Integrator(name string) (epi.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) Policy(kind string, cfg *config.Config) (epi.RatePolicy, error) {
	fn, ok := r.policies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", epi.ErrUnknownScenario, kind)
	}
	return fn(cfg)
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	return names
}

func (r *Registry) ListScenarios() []string {
	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics returns the streaming metrics attached to every run.
func DefaultMetrics() []epi.Metric {
	return []epi.Metric{
		metrics.NewPeakPrevalence(),
		metrics.NewInfectionBurden(),
		metrics.NewPolicyChurn(),
	}
}
