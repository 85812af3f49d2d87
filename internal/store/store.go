// Package store persists simulation runs as a metadata.json plus a
// series.csv per run directory.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/hailcloud-um/logistic-map/internal/engine"
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

// RunMetadata describes one saved simulation.
type RunMetadata struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Seed          int64     `json:"seed"`
	RTrue         float64   `json:"r_true"`
	X0True        float64   `json:"x0_true"`
	RModel        float64   `json:"r_model"`
	X0Model       float64   `json:"x0_model"`
	Steps         int       `json:"steps"`
	Threshold     float64   `json:"threshold"`
	Ensemble      bool      `json:"ensemble"`
	EnsembleSize  int       `json:"ensemble_size,omitempty"`
	Statistic     string    `json:"statistic"`
	CrossingIndex int       `json:"crossing_index"`
}

// Save writes one simulation bundle under a fresh run directory and returns
// the run ID.
func (s *Store) Save(req engine.Request, seed int64, b *engine.Bundle) (string, error) {
	runID := fmt.Sprintf("logistic_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     time.Now(),
		Seed:          seed,
		RTrue:         req.RTrue,
		X0True:        req.X0True,
		RModel:        req.RModel,
		X0Model:       req.X0Model,
		Steps:         req.Steps,
		Threshold:     req.Threshold,
		Ensemble:      req.Ensemble,
		EnsembleSize:  req.EnsembleSize,
		Statistic:     req.Statistic.String(),
		CrossingIndex: b.CrossingIndex,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeSeries(filepath.Join(runDir, "series.csv"), b); err != nil {
		return "", err
	}
	return runID, nil
}

func writeSeries(path string, b *engine.Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"step", "truth", "model", "selected", "abs_error"}
	if b.Ensemble != nil {
		header = append(header, "mean", "median", "mode", "std", "p10", "p90", "min", "max")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for t := range b.Truth {
		row := []string{
			strconv.Itoa(t),
			formatFloat(b.Truth[t]),
			formatFloat(b.ModelDet[t]),
			formatFloat(b.Selected[t]),
			formatFloat(b.AbsError[t]),
		}
		if b.Ensemble != nil {
			sr := b.Ensemble.Series
			row = append(row,
				formatFloat(sr.Mean[t]), formatFloat(sr.Median[t]), formatFloat(sr.Mode[t]),
				formatFloat(sr.Std[t]), formatFloat(sr.P10[t]), formatFloat(sr.P90[t]),
				formatFloat(sr.Min[t]), formatFloat(sr.Max[t]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every saved run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// LoadMetadata reads one run's metadata.json.
func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadSeries reads a run's series.csv back as named columns.
func (s *Store) LoadSeries(runID string) (map[string][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "series.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("run %s: empty series file", runID)
	}

	header := records[0]
	columns := make(map[string][]float64, len(header))
	for _, name := range header {
		columns[name] = make([]float64, 0, len(records)-1)
	}
	for _, rec := range records[1:] {
		for i, name := range header {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: bad value %q in column %s: %w", runID, rec[i], name, err)
			}
			columns[name] = append(columns[name], v)
		}
	}
	return columns, nil
}
