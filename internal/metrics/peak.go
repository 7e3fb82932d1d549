package metrics

import "github.com/san-kum/episim/internal/epi"

// PeakPrevalence tracks the running maximum of I(t).
type PeakPrevalence struct {
	name string
	peak float64
}

func NewPeakPrevalence() *PeakPrevalence {
	return &PeakPrevalence{name: "peak_prevalence"}
}

func (p *PeakPrevalence) Name() string { return p.name }

func (p *PeakPrevalence) Observe(t float64, x epi.State, beta float64) {
	if x[epi.I] > p.peak {
		p.peak = x[epi.I]
	}
}

func (p *PeakPrevalence) Value() float64 {
	return p.peak
}

func (p *PeakPrevalence) Reset() {
	p.peak = 0
}
