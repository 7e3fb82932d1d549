package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/episim/internal/epi"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	Gamma      float64            `json:"gamma"`
	Horizon    float64            `json:"horizon"`
	Resolution float64            `json:"resolution"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(scenario string, gamma, horizon, resolution float64, integrator string, result *epi.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Scenario:   scenario,
		Timestamp:  time.Now(),
		Gamma:      gamma,
		Horizon:    horizon,
		Resolution: resolution,
		Integrator: integrator,
		Metrics:    result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := s.writeTrajectory(runDir, &result.Trajectory); err != nil {
		return "", err
	}
	if err := s.writeEvents(runDir, result.Events); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) writeTrajectory(runDir string, tr *epi.Trajectory) error {
	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "susceptible", "infected", "recovered", "beta"}); err != nil {
		return err
	}

	for i := range tr.States {
		row := []string{strconv.FormatFloat(tr.Times[i], 'f', 6, 64)}
		for _, val := range tr.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		row = append(row, strconv.FormatFloat(tr.Betas[i], 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func (s *Store) writeEvents(runDir string, events []epi.BetaEvent) error {
	csvPath := filepath.Join(runDir, "beta.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "beta"}); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{
			strconv.FormatFloat(ev.T, 'f', 6, 64),
			strconv.FormatFloat(ev.Beta, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*epi.Trajectory, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &epi.Trajectory{}
	if len(records) < 2 {
		return tr, nil
	}

	for _, record := range records[1:] {
		if len(record) != epi.Compartments+2 {
			return nil, fmt.Errorf("%w: trajectory row has %d fields, want %d",
				epi.ErrDataIntegrity, len(record), epi.Compartments+2)
		}

		tm, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad time %q", epi.ErrDataIntegrity, record[0])
		}

		x := make(epi.State, epi.Compartments)
		for i := 0; i < epi.Compartments; i++ {
			val, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad compartment %q", epi.ErrDataIntegrity, record[i+1])
			}
			x[i] = val
		}

		beta, err := strconv.ParseFloat(record[epi.Compartments+1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad rate %q", epi.ErrDataIntegrity, record[epi.Compartments+1])
		}

		tr.Times = append(tr.Times, tm)
		tr.States = append(tr.States, x)
		tr.Betas = append(tr.Betas, beta)
	}

	return tr, nil
}

func (s *Store) LoadEvents(runID string) ([]epi.BetaEvent, error) {
	csvPath := filepath.Join(s.baseDir, runID, "beta.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	events := make([]epi.BetaEvent, 0)
	for i, record := range records {
		if i == 0 {
			continue
		}
		tm, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad event time %q", epi.ErrDataIntegrity, record[0])
		}
		beta, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad event rate %q", epi.ErrDataIntegrity, record[1])
		}
		events = append(events, epi.BetaEvent{T: tm, Beta: beta})
	}

	return events, nil
}
