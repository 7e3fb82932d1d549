package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/episim/internal/epi"
)

// Scenario kinds.
const (
	ScenarioStatic    = "static"
	ScenarioScheduled = "scheduled"
	ScenarioAdaptive  = "adaptive"
)

const (
	DefaultGamma      = 0.1
	DefaultBeta0      = 0.5
	DefaultHorizon    = 200.0
	DefaultResolution = 1.0
	DefaultTolerance  = 1e-8

	// initSumTol bounds how far S0+I0+R0 may sit from one before the
	// configuration is rejected.
	initSumTol = 1e-9
)

type Config struct {
	Scenario   string  `yaml:"scenario"`
	Integrator string  `yaml:"integrator"`
	Gamma      float64 `yaml:"gamma"`
	Horizon    float64 `yaml:"horizon"`
	Resolution float64 `yaml:"resolution"`
	Tolerance  float64 `yaml:"tolerance"`

	InitState InitStateConfig `yaml:"init_state"`
	Static    StaticConfig    `yaml:"static"`
	Scheduled ScheduledConfig `yaml:"scheduled"`
	Adaptive  AdaptiveConfig  `yaml:"adaptive"`
}

type InitStateConfig struct {
	S0 float64 `yaml:"s0"`
	I0 float64 `yaml:"i0"`
	R0 float64 `yaml:"r0"`
}

type StaticConfig struct {
	Beta0 float64 `yaml:"beta0"`
}

type ScheduledConfig struct {
	Beta0                 float64 `yaml:"beta0"`
	InterventionTime      float64 `yaml:"intervention_time"`
	InterventionReduction float64 `yaml:"intervention_reduction"`
	ReboundTime           float64 `yaml:"rebound_time"`
	ReboundFactor         float64 `yaml:"rebound_factor"`
}

type AdaptiveConfig struct {
	Beta0           float64 `yaml:"beta0"`
	BetaMin         float64 `yaml:"beta_min"`
	BetaMax         float64 `yaml:"beta_max"`
	IHigh           float64 `yaml:"i_high"`
	ILow            float64 `yaml:"i_low"`
	ReductionFactor float64 `yaml:"reduction_factor"`
	IncreaseFactor  float64 `yaml:"increase_factor"`
	UpdateInterval  float64 `yaml:"update_interval"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:   ScenarioStatic,
		Integrator: "rk45",
		Gamma:      DefaultGamma,
		Horizon:    DefaultHorizon,
		Resolution: DefaultResolution,
		Tolerance:  DefaultTolerance,
		InitState: InitStateConfig{
			S0: 0.99,
			I0: 0.01,
			R0: 0.0,
		},
		Static: StaticConfig{
			Beta0: DefaultBeta0,
		},
		Scheduled: ScheduledConfig{
			Beta0:                 DefaultBeta0,
			InterventionTime:      50,
			InterventionReduction: 0.6,
			ReboundTime:           100,
			ReboundFactor:         0.5,
		},
		Adaptive: AdaptiveConfig{
			Beta0:           DefaultBeta0,
			BetaMin:         0.1,
			BetaMax:         0.7,
			IHigh:           0.15,
			ILow:            0.05,
			ReductionFactor: 0.4,
			IncreaseFactor:  0.2,
			UpdateInterval:  5,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects malformed configurations eagerly; nothing is silently
// corrected.
func (c *Config) Validate() error {
	switch c.Scenario {
	case ScenarioStatic, ScenarioScheduled, ScenarioAdaptive:
	default:
		return fmt.Errorf("%w: %q", epi.ErrUnknownScenario, c.Scenario)
	}

	if c.Gamma <= 0 {
		return fmt.Errorf("%w: gamma must be positive, got %f", epi.ErrInvalidConfig, c.Gamma)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("%w: horizon must be positive, got %f", epi.ErrInvalidConfig, c.Horizon)
	}
	if c.Resolution <= 0 || c.Resolution > c.Horizon {
		return fmt.Errorf("%w: resolution must be in (0, horizon], got %f", epi.ErrInvalidConfig, c.Resolution)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %f", epi.ErrInvalidConfig, c.Tolerance)
	}

	init := c.InitState
	if init.S0 < 0 || init.I0 < 0 || init.R0 < 0 {
		return fmt.Errorf("%w: initial compartments must be non-negative", epi.ErrInvalidConfig)
	}
	if sum := init.S0 + init.I0 + init.R0; math.Abs(sum-1) > initSumTol {
		return fmt.Errorf("%w: initial compartments sum to %f, want 1", epi.ErrInvalidConfig, sum)
	}

	return nil
}

// InitialState returns the initial compartment vector.
func (c *Config) InitialState() epi.State {
	return epi.NewState(c.InitState.S0, c.InitState.I0, c.InitState.R0)
}

// RunConfig derives the numerical run parameters.
func (c *Config) RunConfig() epi.RunConfig {
	rc := epi.DefaultRunConfig()
	rc.Horizon = c.Horizon
	rc.Resolution = c.Resolution
	rc.Tolerance = c.Tolerance
	return rc
}
