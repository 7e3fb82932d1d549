package model

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
)

// SIR is the closed-population compartmental model
//
//	dS/dt = -beta * S * I
//	dI/dt =  beta * S * I - gamma * I
//	dR/dt =  gamma * I
//
// with compartments expressed as population fractions. The derivative
// components sum to zero, so S+I+R is conserved by construction.
type SIR struct {
	Gamma float64
}

func NewSIR() *SIR {
	return &SIR{Gamma: 0.1}
}

func (m *SIR) Dim() int {
	return epi.Compartments
}

func (m *SIR) Derive(x epi.State, beta, t float64) epi.State {
	s := x[epi.S]
	i := x[epi.I]

	newInfections := beta * s * i
	recoveries := m.Gamma * i

	return epi.State{-newInfections, newInfections - recoveries, recoveries}
}

// ReproductionNumber returns the basic reproduction number beta/gamma.
func (m *SIR) ReproductionNumber(beta float64) float64 {
	return beta / m.Gamma
}

func (m *SIR) GetParams() map[string]float64 {
	return map[string]float64{
		"gamma": m.Gamma,
	}
}

func (m *SIR) SetParam(name string, value float64) error {
	switch name {
	case "gamma":
		if value <= 0 {
			return fmt.Errorf("%w: gamma must be positive, got %f", epi.ErrInvalidConfig, value)
		}
		m.Gamma = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
