package scenario

import (
	"context"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/model"
)

// Run wires a complete scenario from configuration and executes it:
// validation, SIR system, integrator, rate policy, default metrics.
func Run(ctx context.Context, cfg *config.Config) (*epi.Result, error) {
	sim, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	return sim.Run(ctx, cfg.InitialState(), cfg.RunConfig())
}

// Build assembles a simulator from configuration without running it,
// for callers that attach their own observers first.
func Build(cfg *config.Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := NewRegistry()

	sys := model.NewSIR()
	if err := sys.SetParam("gamma", cfg.Gamma); err != nil {
		return nil, err
	}

	integ, err := registry.Integrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	pol, err := registry.Policy(cfg.Scenario, cfg)
	if err != nil {
		return nil, err
	}

	sim := New(sys, integ, pol)
	for _, m := range DefaultMetrics() {
		sim.AddMetric(m)
	}
	return sim, nil
}
