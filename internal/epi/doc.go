// Package epi provides core simulation primitives for compartmental
// epidemic models.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of epidemic trajectories under transmission-rate control:
//
//   - [State]: compartment vector (S, I, R fractions of the population)
//   - [System]: interface for the compartmental ODE (dX/dt = f(X, beta, t))
//   - [Integrator]: numerical integrator interface
//   - [RatePolicy]: transmission-rate strategy interface
//   - [FeedbackPolicy]: stateful policies that re-decide the rate at
//     fixed intervals from observed prevalence
//
// # Example
//
//	sys := model.NewSIR()
//	integ := integrators.NewRK45()
//	pol, _ := policy.NewStatic(0.3)
//	sim := scenario.New(sys, integ, pol)
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Policies and simulators are NOT thread-safe. Each scenario run owns its
// own state, policy and trajectory; parallel comparison creates one
// simulator per scenario with no shared mutable data.
package epi
