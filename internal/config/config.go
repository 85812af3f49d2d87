// Package config holds the yaml-backed run configuration and the named
// dynamical-regime defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSteps        = 100
	DefaultThreshold    = 0.1
	DefaultEnsembleSize = 50
	DefaultInitSD       = 1e-4
	DefaultParamSD      = 0.0

	DefaultBifRMin    = 2.5
	DefaultBifRMax    = 4.0
	DefaultBifRCount  = 1000
	DefaultBifDiscard = 200
	DefaultBifRecord  = 1000

	DefaultScanTrials     = 50
	DefaultScanIterations = 1000
	DefaultScanThreshold  = 0.1
)

type Config struct {
	Seed        int64             `yaml:"seed"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Bifurcation BifurcationConfig `yaml:"bifurcation"`
	Scan        ScanConfig        `yaml:"scan"`
}

type SimulationConfig struct {
	RTrue     float64 `yaml:"r_true"`
	X0True    float64 `yaml:"x0_true"`
	RModel    float64 `yaml:"r_model"`
	X0Model   float64 `yaml:"x0_model"`
	Steps     int     `yaml:"steps"`
	Threshold float64 `yaml:"threshold"`

	Ensemble     bool    `yaml:"ensemble"`
	EnsembleSize int     `yaml:"ensemble_size"`
	InitSD       float64 `yaml:"init_perturbation_sd"`
	ParamSD      float64 `yaml:"param_perturbation_sd"`
	Statistic    string  `yaml:"statistic"`
}

type BifurcationConfig struct {
	RMin    float64 `yaml:"r_min"`
	RMax    float64 `yaml:"r_max"`
	RCount  int     `yaml:"r_count"`
	XMin    float64 `yaml:"x_min"`
	XMax    float64 `yaml:"x_max"`
	XBins   int     `yaml:"x_bins"`
	Discard int     `yaml:"discard"`
	Record  int     `yaml:"record"`
}

type ScanConfig struct {
	R          float64 `yaml:"r"`
	ModelBias  float64 `yaml:"model_bias"`
	ICBias     float64 `yaml:"ic_bias"`
	Trials     int     `yaml:"trials"`
	Iterations int     `yaml:"iterations"`
	Threshold  float64 `yaml:"threshold"`
	Metric     string  `yaml:"metric"`
}

func DefaultConfig() *Config {
	chaotic := Regimes[RegimeChaotic]
	return &Config{
		Simulation: SimulationConfig{
			RTrue:        chaotic.ParamValue,
			X0True:       chaotic.InitValue,
			RModel:       chaotic.ParamValue,
			X0Model:      chaotic.InitValue,
			Steps:        DefaultSteps,
			Threshold:    DefaultThreshold,
			EnsembleSize: DefaultEnsembleSize,
			InitSD:       DefaultInitSD,
			ParamSD:      DefaultParamSD,
			Statistic:    "mean",
		},
		Bifurcation: BifurcationConfig{
			RMin:    DefaultBifRMin,
			RMax:    DefaultBifRMax,
			RCount:  DefaultBifRCount,
			XMin:    0.0,
			XMax:    1.0,
			XBins:   DefaultBifRCount,
			Discard: DefaultBifDiscard,
			Record:  DefaultBifRecord,
		},
		Scan: ScanConfig{
			R:          3.7,
			ModelBias:  0,
			ICBias:     1e-10,
			Trials:     DefaultScanTrials,
			Iterations: DefaultScanIterations,
			Threshold:  DefaultScanThreshold,
			Metric:     "median",
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
	if err := cfg.Validate(); err != nil {
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

func (c *Config) Validate() error {
	if c.Simulation.Steps <= 0 {
		return fmt.Errorf("simulation steps must be positive, got %d", c.Simulation.Steps)
	}
	if c.Simulation.Ensemble && c.Simulation.EnsembleSize <= 0 {
		return fmt.Errorf("ensemble size must be positive, got %d", c.Simulation.EnsembleSize)
	}
	if c.Bifurcation.RCount <= 0 {
		return fmt.Errorf("bifurcation r count must be positive, got %d", c.Bifurcation.RCount)
	}
	if c.Bifurcation.RMin >= c.Bifurcation.RMax {
		return fmt.Errorf("bifurcation r range [%f,%f] is empty", c.Bifurcation.RMin, c.Bifurcation.RMax)
	}
	if c.Scan.Iterations <= 0 {
		return fmt.Errorf("scan iterations must be positive, got %d", c.Scan.Iterations)
	}
	return nil
}
