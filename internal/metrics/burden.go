package metrics

import "github.com/san-kum/episim/internal/epi"

// InfectionBurden accumulates the time integral of prevalence
// (person-days of infection per capita) by trapezoid rule.
type InfectionBurden struct {
	name    string
	total   float64
	prevT   float64
	prevI   float64
	samples int
}

func NewInfectionBurden() *InfectionBurden {
	return &InfectionBurden{name: "infection_burden"}
}

func (b *InfectionBurden) Name() string { return b.name }

func (b *InfectionBurden) Observe(t float64, x epi.State, beta float64) {
	infected := x[epi.I]
	if b.samples > 0 {
		b.total += 0.5 * (infected + b.prevI) * (t - b.prevT)
	}
	b.prevT = t
	b.prevI = infected
	b.samples++
}

func (b *InfectionBurden) Value() float64 {
	return b.total
}

func (b *InfectionBurden) Reset() {
	b.total = 0
	b.prevT = 0
	b.prevI = 0
	b.samples = 0
}
