package metrics

import (
	"math"

	"github.com/san-kum/episim/internal/epi"
)

// PolicyChurn accumulates the total variation of the transmission rate,
// a measure of how much intervention strength moved over the run. Zero
// for static scenarios.
type PolicyChurn struct {
	name     string
	total    float64
	prevBeta float64
	samples  int
}

func NewPolicyChurn() *PolicyChurn {
	return &PolicyChurn{name: "policy_churn"}
}

func (c *PolicyChurn) Name() string { return c.name }

func (c *PolicyChurn) Observe(t float64, x epi.State, beta float64) {
	if c.samples > 0 {
		c.total += math.Abs(beta - c.prevBeta)
	}
	c.prevBeta = beta
	c.samples++
}

func (c *PolicyChurn) Value() float64 {
	return c.total
}

func (c *PolicyChurn) Reset() {
	c.total = 0
	c.prevBeta = 0
	c.samples = 0
}
