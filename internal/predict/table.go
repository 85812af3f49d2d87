package predict

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed precalc.yaml
var precalcData []byte

// Table is a precomputed predictability-limit surface: for each metric, a
// crossing index per (r value, model bias, initial-condition bias). It is
// consumed read-only; regeneration goes through Generate.
type Table struct {
	RValues         []float64 `yaml:"r_values"`
	ModelBiasValues []float64 `yaml:"model_bias_values"`
	ICBiasValues    []float64 `yaml:"ic_bias_values"`

	// Surface maps metric name to [r index][model-bias index] rows of
	// crossing indices, one per initial-condition-bias level.
	Surface map[string][][][]int `yaml:"surface"`
}

// LoadTable parses the embedded precomputed surface.
func LoadTable() (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(precalcData, &t); err != nil {
		return nil, fmt.Errorf("parse precalc table: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadTableFile parses a surface previously written by Save.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse table %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Save writes the table as YAML.
func (t *Table) Save(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (t *Table) validate() error {
	for metric, surface := range t.Surface {
		if len(surface) != len(t.RValues) {
			return fmt.Errorf("metric %s: %d r rows, want %d", metric, len(surface), len(t.RValues))
		}
		for i, biasRows := range surface {
			if len(biasRows) != len(t.ModelBiasValues) {
				return fmt.Errorf("metric %s r=%v: %d bias rows, want %d",
					metric, t.RValues[i], len(biasRows), len(t.ModelBiasValues))
			}
			for j, row := range biasRows {
				if len(row) != len(t.ICBiasValues) {
					return fmt.Errorf("metric %s r=%v bias=%v: %d entries, want %d",
						metric, t.RValues[i], t.ModelBiasValues[j], len(row), len(t.ICBiasValues))
				}
			}
		}
	}
	return nil
}

// Row returns the crossing indices across all initial-condition-bias levels
// for one (metric, r, model bias) cell.
func (t *Table) Row(metric string, rIdx, biasIdx int) ([]int, error) {
	surface, ok := t.Surface[metric]
	if !ok {
		return nil, fmt.Errorf("no surface for metric %s", metric)
	}
	if rIdx < 0 || rIdx >= len(surface) {
		return nil, fmt.Errorf("r index %d out of range [0,%d)", rIdx, len(surface))
	}
	if biasIdx < 0 || biasIdx >= len(surface[rIdx]) {
		return nil, fmt.Errorf("model-bias index %d out of range [0,%d)", biasIdx, len(surface[rIdx]))
	}
	return surface[rIdx][biasIdx], nil
}

// NearestRIndex returns the index of the tabulated r value closest to r.
func (t *Table) NearestRIndex(r float64) int {
	best := 0
	for i, v := range t.RValues {
		if math.Abs(v-r) < math.Abs(t.RValues[best]-r) {
			best = i
		}
	}
	return best
}

// GenerateConfig describes the scenario grid a table is built over.
type GenerateConfig struct {
	RValues         []float64
	ModelBiasValues []float64
	ICBiasValues    []float64
	Trials          int
	Iterations      int
	Threshold       float64
}

// DefaultGenerateConfig matches the grid of the shipped table.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		RValues:         []float64{3.7, 3.75, 3.8, 3.85, 3.9},
		ModelBiasValues: []float64{0, 1e-10, math.Pow(10, -7.5), 1e-5},
		ICBiasValues: []float64{
			1e-13, 1e-12, 1e-11, 1e-10, 1e-9, 1e-8,
			1e-7, 1e-6, 1e-5, 1e-4, 1e-3,
		},
		Trials:     50,
		Iterations: 1000,
		Threshold:  0.1,
	}
}

// Generate rebuilds a predictability-limit table by running the scan over
// the full scenario grid. The "mode" surface is the documented median
// approximation re-run with a fresh stream of trials. A crossing index equal
// to cfg.Iterations marks "never crossed within the horizon".
func Generate(cfg GenerateConfig, seed int64, log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}
	rng := rand.New(rand.NewSource(seed))

	t := &Table{
		RValues:         cfg.RValues,
		ModelBiasValues: cfg.ModelBiasValues,
		ICBiasValues:    cfg.ICBiasValues,
		Surface:         make(map[string][][][]int, 3),
	}

	metrics := []struct {
		name   string
		metric ScanMetric
	}{
		{"mean", ScanMean},
		{"median", ScanMedian},
		{"mode", ScanMedian},
	}

	for _, m := range metrics {
		surface := make([][][]int, len(cfg.RValues))
		for i, r := range cfg.RValues {
			surface[i] = make([][]int, len(cfg.ModelBiasValues))
			for j, bias := range cfg.ModelBiasValues {
				row := make([]int, len(cfg.ICBiasValues))
				for k, icBias := range cfg.ICBiasValues {
					row[k] = ScanLimit(ScanConfig{
						R:          r,
						ModelBias:  bias,
						ICBias:     icBias,
						Trials:     cfg.Trials,
						Iterations: cfg.Iterations,
						Threshold:  cfg.Threshold,
						Metric:     m.metric,
					}, rng)
				}
				surface[i][j] = row
				log.Info("table cell computed",
					zap.String("metric", m.name),
					zap.Float64("r", r),
					zap.Float64("model_bias", bias))
			}
		}
		t.Surface[m.name] = surface
	}

	return t
}
