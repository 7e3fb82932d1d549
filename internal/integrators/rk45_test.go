package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/episim/internal/epi"
)

func TestRK45_Step(t *testing.T) {
	integ := NewRK45()
	sys := &recoveryOnly{gamma: 0.1}

	x := epi.NewState(0.0, 1.0, 0.0)
	dt := 0.5

	for i := 0; i < 400; i++ {
		x = integ.Step(sys, x, 0, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}

	expected := math.Exp(-0.1 * 400 * dt)
	if math.Abs(x[epi.I]-expected) > 1e-8 {
		t.Errorf("I error too large: got %.10f, expected %.10f", x[epi.I], expected)
	}
}

func TestRK45_StepAdaptive(t *testing.T) {
	integ := NewRK45()
	sys := &recoveryOnly{gamma: 0.1}
	x0 := epi.NewState(0.0, 1.0, 0.0)

	x, dtNext, accepted := integ.StepAdaptive(sys, x0, 0, 0, 0.1, 1e-8)

	if !accepted {
		t.Error("expected smooth decay step to be accepted")
	}
	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}
	if dtNext <= 0 {
		t.Errorf("StepAdaptive returned invalid next dt: %f", dtNext)
	}
}

func TestRK45_RejectsCoarseStep(t *testing.T) {
	integ := NewRK45()
	sys := &recoveryOnly{gamma: 2.0}
	x0 := epi.NewState(0.0, 1.0, 0.0)

	_, dtNext, accepted := integ.StepAdaptive(sys, x0, 0, 0, 5.0, 1e-12)

	if accepted {
		t.Error("expected coarse step against tight tolerance to be rejected")
	}
	if dtNext >= 5.0 {
		t.Errorf("rejected step should suggest a smaller dt, got %f", dtNext)
	}
}

func TestRK45_GrowsStepWhenSmooth(t *testing.T) {
	integ := NewRK45()
	sys := &recoveryOnly{gamma: 0.01}
	x0 := epi.NewState(0.0, 1.0, 0.0)

	_, dtNext, accepted := integ.StepAdaptive(sys, x0, 0, 0, 0.001, 1e-6)

	if !accepted {
		t.Fatal("expected tiny step to be accepted")
	}
	if dtNext < 0.001 {
		t.Errorf("accepted smooth step should not shrink dt, got %f", dtNext)
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rk45 := NewRK45()
	sys := &recoveryOnly{gamma: 0.1}

	x4 := epi.NewState(0.0, 1.0, 0.0)
	x45 := epi.NewState(0.0, 1.0, 0.0)
	dt := 1.0

	for i := 0; i < 100; i++ {
		x4 = rk4.Step(sys, x4, 0, float64(i)*dt, dt)
		x45 = rk45.Step(sys, x45, 0, float64(i)*dt, dt)
	}

	expected := math.Exp(-0.1 * 100 * dt)
	t.Logf("RK4 error: %e", math.Abs(x4[epi.I]-expected))
	t.Logf("RK45 error: %e", math.Abs(x45[epi.I]-expected))

	if math.Abs(x45[epi.I]-expected) > 1e-6 {
		t.Errorf("RK45 error too large: %e", math.Abs(x45[epi.I]-expected))
	}
}
