package config

// Presets are named parameterizations per scenario kind.
var Presets = map[string]map[string]*Config{
	ScenarioStatic: {
		"baseline": withStatic(0.5),
		"mild":     withStatic(0.3),
		"severe":   withStatic(0.9),
	},
	ScenarioScheduled: {
		"lockdown": withScheduled(ScheduledConfig{
			Beta0: 0.5, InterventionTime: 50, InterventionReduction: 0.6,
			ReboundTime: 100, ReboundFactor: 0.5,
		}),
		"early": withScheduled(ScheduledConfig{
			Beta0: 0.5, InterventionTime: 20, InterventionReduction: 0.6,
			ReboundTime: 80, ReboundFactor: 0.5,
		}),
		"weak": withScheduled(ScheduledConfig{
			Beta0: 0.5, InterventionTime: 50, InterventionReduction: 0.3,
			ReboundTime: 100, ReboundFactor: 0.8,
		}),
	},
	ScenarioAdaptive: {
		"capacity": withAdaptive(AdaptiveConfig{
			Beta0: 0.5, BetaMin: 0.1, BetaMax: 0.7, IHigh: 0.15, ILow: 0.05,
			ReductionFactor: 0.4, IncreaseFactor: 0.2, UpdateInterval: 5,
		}),
		"cautious": withAdaptive(AdaptiveConfig{
			Beta0: 0.3, BetaMin: 0.1, BetaMax: 0.3, IHigh: 0.05, ILow: 0.02,
			ReductionFactor: 0.4, IncreaseFactor: 0.2, UpdateInterval: 7,
		}),
		"sluggish": withAdaptive(AdaptiveConfig{
			Beta0: 0.5, BetaMin: 0.1, BetaMax: 0.7, IHigh: 0.15, ILow: 0.05,
			ReductionFactor: 0.4, IncreaseFactor: 0.2, UpdateInterval: 21,
		}),
	},
}

func withStatic(beta0 float64) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = ScenarioStatic
	cfg.Static.Beta0 = beta0
	return cfg
}

func withScheduled(sc ScheduledConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = ScenarioScheduled
	cfg.Scheduled = sc
	return cfg
}

func withAdaptive(ac AdaptiveConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = ScenarioAdaptive
	cfg.Adaptive = ac
	return cfg
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}
