package policy

import (
	"fmt"

	"github.com/san-kum/episim/internal/epi"
)

// Static holds the transmission rate constant for the full horizon.
type Static struct {
	Beta0 float64
}

func NewStatic(beta0 float64) (*Static, error) {
	if beta0 <= 0 {
		return nil, fmt.Errorf("%w: beta0 must be positive, got %f", epi.ErrInvalidConfig, beta0)
	}
	return &Static{Beta0: beta0}, nil
}

func (p *Static) Rate(t, infected float64) float64 {
	return p.Beta0
}
