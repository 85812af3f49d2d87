// Package engine is the simulation facade: it runs the truth and model
// trajectories, the optional perturbed ensemble, and the predictability
// analysis, returning one complete result bundle per call.
package engine

import (
	"fmt"
	"math/rand"

	"github.com/hailcloud-um/logistic-map/internal/ensemble"
	"github.com/hailcloud-um/logistic-map/internal/logistic"
	"github.com/hailcloud-um/logistic-map/internal/predict"
	"github.com/hailcloud-um/logistic-map/internal/stats"
)

// Request carries every parameter of one simulation call.
type Request struct {
	RTrue   float64
	X0True  float64
	RModel  float64
	X0Model float64
	Steps   int

	Threshold float64

	Ensemble       bool
	EnsembleSize   int
	InitPerturbSD  float64
	ParamPerturbSD float64
	Statistic      stats.Statistic
}

// Bundle is the complete result of one simulation call. Every series has
// length Request.Steps. Ensemble and Bounds are nil when the ensemble path
// is disabled.
type Bundle struct {
	Truth    logistic.Trajectory
	ModelDet logistic.Trajectory

	Ensemble *ensemble.Run
	Bounds   *predict.Bounds

	// Selected is the series representing the model under the requested
	// statistic: an ensemble central-tendency series, or the deterministic
	// model when the ensemble is off.
	Selected []float64

	predict.Result
}

// RunSimulation executes one complete simulation. All randomness comes from
// the supplied generator; pass a fixed seed for reproducible runs.
func RunSimulation(req Request, rng *rand.Rand) (*Bundle, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	b := &Bundle{
		Truth:    logistic.Run(req.X0True, req.RTrue, req.Steps),
		ModelDet: logistic.Run(req.X0Model, req.RModel, req.Steps),
	}

	if req.Ensemble {
		run := ensemble.Simulate(ensemble.Params{
			X0:        req.X0Model,
			R:         req.RModel,
			Steps:     req.Steps,
			Members:   req.EnsembleSize,
			InitSD:    req.InitPerturbSD,
			ParamSD:   req.ParamPerturbSD,
			TrackMode: true,
		}, rng)
		b.Ensemble = run

		bounds := predict.ErrorBounds(run.Matrix, b.Truth)
		b.Bounds = &bounds
		b.Selected = run.Series.Get(req.Statistic)
	} else {
		b.Selected = b.ModelDet
	}

	b.Result = predict.Analyze(b.Truth, b.Selected, req.Threshold)
	return b, nil
}

// Reanalyze evaluates an already-computed bundle under a different statistic
// or threshold without re-simulating. The bundle is not mutated.
func (b *Bundle) Reanalyze(statistic stats.Statistic, threshold float64) ([]float64, predict.Result, error) {
	selected := b.ModelDet
	if b.Ensemble != nil {
		selected = b.Ensemble.Series.Get(statistic)
		if selected == nil {
			return nil, predict.Result{}, fmt.Errorf("statistic %s not available in this run", statistic)
		}
	}
	return selected, predict.Analyze(b.Truth, selected, threshold), nil
}

func validate(req Request) error {
	if req.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", req.Steps)
	}
	if req.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %f", req.Threshold)
	}
	if req.Ensemble {
		if req.EnsembleSize <= 0 {
			return fmt.Errorf("ensemble size must be positive, got %d", req.EnsembleSize)
		}
		if req.InitPerturbSD < 0 || req.ParamPerturbSD < 0 {
			return fmt.Errorf("perturbation stddevs must be non-negative")
		}
	}
	return nil
}
