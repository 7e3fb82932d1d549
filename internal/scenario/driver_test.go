package scenario

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/metrics"
)

func runScenario(t *testing.T, cfg *config.Config) *epi.Result {
	t.Helper()
	result, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return result
}

func TestRun_AllScenariosWellFormed(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"static", config.GetPreset(config.ScenarioStatic, "baseline")},
		{"scheduled", config.GetPreset(config.ScenarioScheduled, "lockdown")},
		{"adaptive", config.GetPreset(config.ScenarioAdaptive, "capacity")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runScenario(t, tt.cfg)
			tr := result.Trajectory

			wantSamples := int(tt.cfg.Horizon/tt.cfg.Resolution) + 1
			if tr.Len() != wantSamples {
				t.Errorf("got %d samples, want %d", tr.Len(), wantSamples)
			}

			for i := 1; i < tr.Len(); i++ {
				if tr.Times[i] <= tr.Times[i-1] {
					t.Fatalf("times not strictly increasing at sample %d: %f <= %f",
						i, tr.Times[i], tr.Times[i-1])
				}
			}

			tFinal, _ := tr.Final()
			if math.Abs(tFinal-tt.cfg.Horizon) > 1e-9 {
				t.Errorf("final time = %f, want %f", tFinal, tt.cfg.Horizon)
			}

			for i, x := range tr.States {
				if !x.InBounds(1e-6) {
					t.Errorf("sample %d (t=%f) leaves [0,1]: %v", i, tr.Times[i], x)
				}
				if !x.Conserved(1e-6) {
					t.Errorf("sample %d (t=%f) breaks conservation: sum=%v", i, tr.Times[i], x.Sum())
				}
			}

			if len(result.Events) == 0 {
				t.Error("expected at least the initial rate event")
			}
			if result.Events[0].T != 0 {
				t.Errorf("first event at t=%f, want 0", result.Events[0].T)
			}
		})
	}
}

func TestRun_StaticOutbreakShape(t *testing.T) {
	cfg := config.GetPreset(config.ScenarioStatic, "mild")
	result := runScenario(t, cfg)

	if len(result.Events) != 1 {
		t.Errorf("static run emitted %d rate events, want 1", len(result.Events))
	}

	summary := metrics.Extract(result.Trajectory)
	if summary.PeakTime <= 0 || summary.PeakTime >= cfg.Horizon {
		t.Errorf("peak at t=%f, want interior to (0, %f)", summary.PeakTime, cfg.Horizon)
	}
	if summary.PeakPrevalence <= cfg.InitState.I0 {
		t.Errorf("peak prevalence %f never exceeded initial %f",
			summary.PeakPrevalence, cfg.InitState.I0)
	}
	if summary.AttackRate <= cfg.InitState.I0 || summary.AttackRate >= 1 {
		t.Errorf("attack rate = %f, want in (%f, 1)", summary.AttackRate, cfg.InitState.I0)
	}
	if !summary.Resolved {
		t.Error("outbreak should resolve within the horizon")
	}
}

func TestRun_AttackRateMonotoneInBeta(t *testing.T) {
	betas := []float64{0.2, 0.3, 0.5}
	prev := 0.0
	for _, beta := range betas {
		cfg := config.DefaultConfig()
		cfg.Static.Beta0 = beta
		result := runScenario(t, cfg)

		ar := metrics.Extract(result.Trajectory).AttackRate
		if ar <= prev {
			t.Errorf("attack rate %f at beta=%f not above %f", ar, beta, prev)
		}
		prev = ar
	}
}

func TestRun_ScheduledPhaseEvents(t *testing.T) {
	cfg := config.GetPreset(config.ScenarioScheduled, "lockdown")
	result := runScenario(t, cfg)

	want := []epi.BetaEvent{
		{T: 0, Beta: 0.5},
		{T: 50, Beta: 0.2},
		{T: 100, Beta: 0.35},
	}
	if len(result.Events) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(result.Events), len(want), result.Events)
	}
	for i, ev := range result.Events {
		if math.Abs(ev.T-want[i].T) > 1e-9 || math.Abs(ev.Beta-want[i].Beta) > 1e-12 {
			t.Errorf("event %d = {t=%f beta=%f}, want {t=%f beta=%f}",
				i, ev.T, ev.Beta, want[i].T, want[i].Beta)
		}
	}
}

func TestRun_AdaptiveRespectsBoundsAndClock(t *testing.T) {
	cfg := config.GetPreset(config.ScenarioAdaptive, "cautious")
	result := runScenario(t, cfg)

	ac := cfg.Adaptive
	for i, beta := range result.Trajectory.Betas {
		if beta < ac.BetaMin-1e-12 || beta > ac.BetaMax+1e-12 {
			t.Errorf("sample %d: beta=%f outside [%f, %f]", i, beta, ac.BetaMin, ac.BetaMax)
		}
	}

	for _, ev := range result.Events[1:] {
		rem := math.Mod(ev.T, ac.UpdateInterval)
		if rem > 1e-9 && ac.UpdateInterval-rem > 1e-9 {
			t.Errorf("rate change at t=%f, want multiples of %f", ev.T, ac.UpdateInterval)
		}
	}
}

func TestRun_AdaptiveDecisionsMatchPrevalence(t *testing.T) {
	cfg := config.GetPreset(config.ScenarioAdaptive, "capacity")
	result := runScenario(t, cfg)

	tr := result.Trajectory
	prevalenceAt := func(tm float64) float64 {
		for i, t0 := range tr.Times {
			if math.Abs(t0-tm) < 1e-9 {
				return tr.States[i][epi.I]
			}
		}
		t.Fatalf("no sample at t=%f", tm)
		return 0
	}

	ac := cfg.Adaptive
	for i := 1; i < len(result.Events); i++ {
		prev, cur := result.Events[i-1], result.Events[i]
		infected := prevalenceAt(cur.T)
		switch {
		case cur.Beta < prev.Beta && infected <= ac.IHigh:
			t.Errorf("tightened at t=%f with prevalence %f <= %f", cur.T, infected, ac.IHigh)
		case cur.Beta > prev.Beta && infected >= ac.ILow:
			t.Errorf("relaxed at t=%f with prevalence %f >= %f", cur.T, infected, ac.ILow)
		}
	}
}

func TestRun_AdaptiveFlattensPeak(t *testing.T) {
	static := config.GetPreset(config.ScenarioStatic, "baseline")
	adaptive := config.GetPreset(config.ScenarioAdaptive, "capacity")

	staticPeak := metrics.Extract(runScenario(t, static).Trajectory).PeakPrevalence
	adaptivePeak := metrics.Extract(runScenario(t, adaptive).Trajectory).PeakPrevalence

	if adaptivePeak > staticPeak+1e-9 {
		t.Errorf("adaptive peak %f exceeds uncontrolled peak %f", adaptivePeak, staticPeak)
	}
}

func TestRun_Deterministic(t *testing.T) {
	cfg := config.GetPreset(config.ScenarioAdaptive, "capacity")

	a := runScenario(t, cfg)
	b := runScenario(t, cfg)

	if a.Trajectory.Len() != b.Trajectory.Len() {
		t.Fatalf("sample counts differ: %d vs %d", a.Trajectory.Len(), b.Trajectory.Len())
	}
	for i := range a.Trajectory.Times {
		if a.Trajectory.Times[i] != b.Trajectory.Times[i] {
			t.Fatalf("sample %d: times differ", i)
		}
		for j := range a.Trajectory.States[i] {
			if a.Trajectory.States[i][j] != b.Trajectory.States[i][j] {
				t.Fatalf("sample %d compartment %d: %v vs %v",
					i, j, a.Trajectory.States[i][j], b.Trajectory.States[i][j])
			}
		}
	}
	for name, v := range a.Metrics {
		if b.Metrics[name] != v {
			t.Errorf("metric %s differs between identical runs: %v vs %v", name, v, b.Metrics[name])
		}
	}
}

func TestRun_DefaultMetricsAttached(t *testing.T) {
	result := runScenario(t, config.DefaultConfig())

	for _, name := range []string{"peak_prevalence", "infection_burden", "policy_churn"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %q missing from result", name)
		}
	}
	if result.Metrics["policy_churn"] != 0 {
		t.Errorf("static run has churn %f, want 0", result.Metrics["policy_churn"])
	}
}

type countingObserver struct {
	samples int
	lastT   float64
}

func (o *countingObserver) OnSample(t float64, x epi.State, beta float64) {
	o.samples++
	o.lastT = t
}

func TestRun_ObserverFanOut(t *testing.T) {
	cfg := config.DefaultConfig()
	sim, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	obs := &countingObserver{}
	sim.AddObserver(obs)

	result, err := sim.Run(context.Background(), cfg.InitialState(), cfg.RunConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if obs.samples != result.Trajectory.Len() {
		t.Errorf("observer saw %d samples, trajectory has %d", obs.samples, result.Trajectory.Len())
	}
	if obs.lastT != cfg.Horizon {
		t.Errorf("observer last sample at t=%f, want %f", obs.lastT, cfg.Horizon)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, config.DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestRun_RejectsBadConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		mut    func(*config.Config)
		target error
	}{
		{"unknown scenario", func(c *config.Config) { c.Scenario = "oracle" }, epi.ErrUnknownScenario},
		{"negative gamma", func(c *config.Config) { c.Gamma = -0.1 }, epi.ErrInvalidConfig},
		{"unnormalized state", func(c *config.Config) { c.InitState.S0 = 0.5 }, epi.ErrInvalidConfig},
		{"zero horizon", func(c *config.Config) { c.Horizon = 0 }, epi.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mut(cfg)
			if _, err := Run(context.Background(), cfg); !errors.Is(err, tt.target) {
				t.Errorf("got %v, want %v", err, tt.target)
			}
		})
	}

	t.Run("unknown integrator", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Integrator = "verlet"
		if _, err := Run(context.Background(), cfg); err == nil {
			t.Error("expected error for unknown integrator")
		}
	})
}

func TestRegistry_Listings(t *testing.T) {
	r := NewRegistry()

	if got := len(r.ListIntegrators()); got != 3 {
		t.Errorf("got %d integrators, want 3", got)
	}
	if got := len(r.ListScenarios()); got != 3 {
		t.Errorf("got %d scenarios, want 3", got)
	}

	if _, err := r.Integrator("rk45"); err != nil {
		t.Errorf("rk45 lookup failed: %v", err)
	}
	if _, err := r.Policy("adaptive", config.DefaultConfig()); err != nil {
		t.Errorf("adaptive policy lookup failed: %v", err)
	}
}

func TestComparison_RunsAllScenarios(t *testing.T) {
	cmp := NewComparison()
	cmp.Add("static", config.GetPreset(config.ScenarioStatic, "baseline"))
	cmp.Add("scheduled", config.GetPreset(config.ScenarioScheduled, "lockdown"))
	cmp.Add("adaptive", config.GetPreset(config.ScenarioAdaptive, "capacity"))

	results, err := cmp.Run(context.Background())
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for name, result := range results {
		if result.Trajectory.Len() == 0 {
			t.Errorf("%s: empty trajectory", name)
		}
	}
}

func TestComparison_PropagatesError(t *testing.T) {
	bad := config.DefaultConfig()
	bad.Gamma = -1

	cmp := NewComparison()
	cmp.Add("good", config.DefaultConfig())
	cmp.Add("bad", bad)

	if _, err := cmp.Run(context.Background()); !errors.Is(err, epi.ErrInvalidConfig) {
		t.Errorf("got %v, want invalid configuration", err)
	}
}
