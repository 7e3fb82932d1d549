package policy

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/episim/internal/epi"
)

func TestStatic(t *testing.T) {
	p, err := NewStatic(0.3)
	if err != nil {
		t.Fatalf("NewStatic failed: %v", err)
	}

	for _, tt := range []float64{0, 10, 199.5} {
		if got := p.Rate(tt, 0.5); got != 0.3 {
			t.Errorf("Rate(%f) = %f, want 0.3", tt, got)
		}
	}
}

func TestStatic_Invalid(t *testing.T) {
	if _, err := NewStatic(0); !errors.Is(err, epi.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestScheduled_Phases(t *testing.T) {
	p, err := NewScheduled(0.5, 50, 0.6, 100, 0.5)
	if err != nil {
		t.Fatalf("NewScheduled failed: %v", err)
	}

	initial, intervention, rebound := p.Phases()
	if initial != 0.5 {
		t.Errorf("initial phase = %f, want 0.5", initial)
	}
	if math.Abs(intervention-0.2) > 1e-12 {
		t.Errorf("intervention phase = %f, want 0.2", intervention)
	}
	if math.Abs(rebound-0.35) > 1e-12 {
		t.Errorf("rebound phase = %f, want 0.35", rebound)
	}
}

func TestScheduled_BreakpointExactness(t *testing.T) {
	p, _ := NewScheduled(0.5, 50, 0.6, 100, 0.5)
	_, intervention, rebound := p.Phases()

	tests := []struct {
		t    float64
		want float64
	}{
		{0, 0.5},
		{49.999, 0.5},
		{50, intervention},
		{99.999, intervention},
		{100, rebound},
		{200, rebound},
	}

	for _, tt := range tests {
		if got := p.Rate(tt.t, 0); got != tt.want {
			t.Errorf("Rate(%f) = %f, want %f", tt.t, got, tt.want)
		}
	}
}

func TestScheduled_Invalid(t *testing.T) {
	cases := []struct {
		name                         string
		beta0, ti, reduction, tr, rf float64
	}{
		{"non-positive beta", 0, 50, 0.6, 100, 0.5},
		{"reduction of one", 0.5, 50, 1.0, 100, 0.5},
		{"rebound before intervention", 0.5, 100, 0.6, 50, 0.5},
		{"zero intervention time", 0.5, 0, 0.6, 100, 0.5},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewScheduled(tt.beta0, tt.ti, tt.reduction, tt.tr, tt.rf); !errors.Is(err, epi.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func defaultAdaptiveParams() AdaptiveParams {
	return AdaptiveParams{
		Beta0:           0.3,
		BetaMin:         0.1,
		BetaMax:         0.3,
		IHigh:           0.05,
		ILow:            0.02,
		ReductionFactor: 0.4,
		IncreaseFactor:  0.2,
		UpdateInterval:  7,
	}
}

func TestAdaptive_NoOpBetweenDecisions(t *testing.T) {
	a, err := NewAdaptive(defaultAdaptiveParams())
	if err != nil {
		t.Fatalf("NewAdaptive failed: %v", err)
	}

	rate, fired := a.Decide(0.9, 3)
	if fired {
		t.Error("decision fired before interval elapsed")
	}
	if rate != 0.3 {
		t.Errorf("rate changed mid-interval: %f", rate)
	}
}

func TestAdaptive_Tighten(t *testing.T) {
	a, _ := NewAdaptive(defaultAdaptiveParams())

	rate, fired := a.Decide(0.10, 7)
	if !fired {
		t.Fatal("decision should fire at the interval boundary")
	}
	if math.Abs(rate-0.18) > 1e-12 {
		t.Errorf("tighten: rate = %f, want 0.18", rate)
	}
}

func TestAdaptive_Relax(t *testing.T) {
	p := defaultAdaptiveParams()
	p.Beta0 = 0.2
	a, _ := NewAdaptive(p)

	rate, fired := a.Decide(0.01, 7)
	if !fired {
		t.Fatal("decision should fire at the interval boundary")
	}
	if math.Abs(rate-0.24) > 1e-12 {
		t.Errorf("relax: rate = %f, want 0.24", rate)
	}
}

func TestAdaptive_HysteresisHold(t *testing.T) {
	a, _ := NewAdaptive(defaultAdaptiveParams())

	rate, fired := a.Decide(0.03, 7)
	if !fired {
		t.Fatal("decision should fire even when holding")
	}
	if rate != 0.3 {
		t.Errorf("hold: rate = %f, want 0.3", rate)
	}

	// Holding still advances the decision clock.
	if _, fired := a.Decide(0.9, 13); fired {
		t.Error("decision clock did not advance on hold")
	}
	if _, fired := a.Decide(0.9, 14); !fired {
		t.Error("next decision should fire one interval after the hold")
	}
}

func TestAdaptive_Clamping(t *testing.T) {
	a, _ := NewAdaptive(defaultAdaptiveParams())

	// Repeated tightening saturates at the lower bound.
	tm := 7.0
	for i := 0; i < 10; i++ {
		a.Decide(0.9, tm)
		tm += 7
	}
	if rate := a.Rate(tm, 0.9); rate != 0.1 {
		t.Errorf("tightening should clamp at beta_min: %f", rate)
	}

	// Repeated relaxing saturates at the upper bound.
	for i := 0; i < 20; i++ {
		a.Decide(0.001, tm)
		tm += 7
	}
	if rate := a.Rate(tm, 0.001); rate != 0.3 {
		t.Errorf("relaxing should clamp at beta_max: %f", rate)
	}
}

func TestAdaptive_Reset(t *testing.T) {
	a, _ := NewAdaptive(defaultAdaptiveParams())
	a.Decide(0.9, 7)
	a.Reset()

	if a.Rate(0, 0) != 0.3 {
		t.Errorf("Reset did not restore initial rate: %f", a.Rate(0, 0))
	}
	if _, fired := a.Decide(0.9, 7); !fired {
		t.Error("Reset did not restore the decision clock")
	}
}

func TestAdaptive_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AdaptiveParams)
	}{
		{"inverted bounds", func(p *AdaptiveParams) { p.BetaMin = 0.5; p.BetaMax = 0.2 }},
		{"inverted thresholds", func(p *AdaptiveParams) { p.ILow = 0.1; p.IHigh = 0.05 }},
		{"equal thresholds", func(p *AdaptiveParams) { p.ILow = 0.05; p.IHigh = 0.05 }},
		{"non-positive beta0", func(p *AdaptiveParams) { p.Beta0 = 0 }},
		{"non-positive beta_min", func(p *AdaptiveParams) { p.BetaMin = 0 }},
		{"non-positive interval", func(p *AdaptiveParams) { p.UpdateInterval = 0 }},
		{"reduction factor of one", func(p *AdaptiveParams) { p.ReductionFactor = 1 }},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			p := defaultAdaptiveParams()
			tt.mutate(&p)
			if _, err := NewAdaptive(p); !errors.Is(err, epi.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
