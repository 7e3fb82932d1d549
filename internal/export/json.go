package export

import (
	"encoding/json"
	"os"

	"github.com/san-kum/episim/internal/epi"
)

type ExportData struct {
	Scenario   string             `json:"scenario"`
	Integrator string             `json:"integrator"`
	Gamma      float64            `json:"gamma"`
	Horizon    float64            `json:"horizon"`
	Samples    int                `json:"samples"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Betas      []float64          `json:"betas"`
	Events     []epi.BetaEvent    `json:"events"`
	Metrics    map[string]float64 `json:"metrics"`
}

func buildExportData(scenario, integrator string, gamma, horizon float64, result *epi.Result) ExportData {
	data := ExportData{
		Scenario:   scenario,
		Integrator: integrator,
		Gamma:      gamma,
		Horizon:    horizon,
		Samples:    result.Trajectory.Len(),
		Times:      result.Trajectory.Times,
		States:     make([][]float64, len(result.Trajectory.States)),
		Betas:      result.Trajectory.Betas,
		Events:     result.Events,
		Metrics:    result.Metrics,
	}
	for i, s := range result.Trajectory.States {
		data.States[i] = s
	}
	return data
}

func ExportJSON(path string, scenario, integrator string, gamma, horizon float64, result *epi.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExportData(scenario, integrator, gamma, horizon, result))
}

func ExportJSONStdout(scenario, integrator string, gamma, horizon float64, result *epi.Result) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildExportData(scenario, integrator, gamma, horizon, result))
}
