// Package policy provides transmission-rate strategies for scenario runs.
//
// Three variants implement [epi.RatePolicy]:
//
//   - [Static]: constant rate, the no-intervention baseline
//   - [Scheduled]: three-phase piecewise-constant rate with fixed
//     intervention and rebound breakpoints
//   - [Adaptive]: feedback controller that tightens or relaxes the rate
//     from observed prevalence at fixed decision intervals
//
// Adaptive additionally implements [epi.FeedbackPolicy], which the
// scenario driver detects to switch into segmented integration.
package policy
