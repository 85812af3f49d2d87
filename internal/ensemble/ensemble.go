// Package ensemble evolves a batch of perturbed logistic-map realizations in
// lock-step and derives per-step aggregate statistics.
package ensemble

import (
	"math/rand"

	"github.com/hailcloud-um/logistic-map/internal/logistic"
	"github.com/hailcloud-um/logistic-map/internal/stats"
)

// Params configures one ensemble run. Perturbations are drawn once per
// member and held fixed for the whole run.
type Params struct {
	X0      float64 // nominal model initial condition
	R       float64 // nominal model parameter
	Steps   int
	Members int
	InitSD  float64 // stddev of initial-condition perturbation
	ParamSD float64 // stddev of parameter perturbation

	// TrackMode enables the per-step kernel-density mode series; it
	// dominates the run's cost when on.
	TrackMode bool
}

// Series holds the per-step aggregate statistics, each of length Steps.
type Series struct {
	Mean   []float64
	Median []float64
	Mode   []float64 // nil when mode tracking is off
	Std    []float64
	P10    []float64
	P90    []float64
	Min    []float64
	Max    []float64
}

// Get returns the central-tendency series selected by the statistic.
// Requesting Mode with tracking off returns nil.
func (s *Series) Get(st stats.Statistic) []float64 {
	switch st {
	case stats.Median:
		return s.Median
	case stats.Mode:
		return s.Mode
	default:
		return s.Mean
	}
}

// Companions are deterministic trajectories launched from the initial
// ensemble mean, median, and mode, evolved under the nominal parameter.
type Companions struct {
	FromMean   logistic.Trajectory
	FromMedian logistic.Trajectory
	FromMode   logistic.Trajectory
}

// Run is the complete output of one ensemble simulation. The matrix is
// immutable once the time loop finishes.
type Run struct {
	// Matrix is indexed (member, step) and always has exactly
	// Members rows and Steps columns.
	Matrix [][]float64

	Series     Series
	Companions Companions

	// Initial holds the central tendency of the initial-condition sample;
	// it seeds the companion trajectories.
	Initial stats.Central
}

// Simulate draws the perturbed members, evolves them in lock-step for
// p.Steps iterations, and derives all per-step statistics. Every member is
// kept regardless of divergence.
func Simulate(p Params, rng *rand.Rand) *Run {
	members := make([]float64, p.Members)
	rs := make([]float64, p.Members)
	for i := range members {
		members[i] = p.X0 + rng.NormFloat64()*p.InitSD
		rs[i] = p.R + rng.NormFloat64()*p.ParamSD
	}

	initial := stats.EstimateCentral(members)

	run := &Run{
		Matrix: make([][]float64, p.Members),
		Series: Series{
			Mean:   make([]float64, p.Steps),
			Median: make([]float64, p.Steps),
			Std:    make([]float64, p.Steps),
			P10:    make([]float64, p.Steps),
			P90:    make([]float64, p.Steps),
			Min:    make([]float64, p.Steps),
			Max:    make([]float64, p.Steps),
		},
		Companions: Companions{
			FromMean:   make(logistic.Trajectory, p.Steps),
			FromMedian: make(logistic.Trajectory, p.Steps),
			FromMode:   make(logistic.Trajectory, p.Steps),
		},
		Initial: initial,
	}
	for m := range run.Matrix {
		run.Matrix[m] = make([]float64, p.Steps)
	}
	if p.TrackMode {
		run.Series.Mode = make([]float64, p.Steps)
	}

	xm := initial.Mean
	xmed := initial.Median
	xmod := initial.Mode

	for t := 0; t < p.Steps; t++ {
		for m, x := range members {
			run.Matrix[m][t] = x
		}
		run.Companions.FromMean[t] = xm
		run.Companions.FromMedian[t] = xmed
		run.Companions.FromMode[t] = xmod

		// One simultaneous application across all members; companions
		// evolve under the nominal parameter only.
		logistic.StepEach(members, rs)
		xm = logistic.Step(xm, p.R)
		xmed = logistic.Step(xmed, p.R)
		xmod = logistic.Step(xmod, p.R)
	}

	run.deriveSeries(p)
	return run
}

func (r *Run) deriveSeries(p Params) {
	column := make([]float64, p.Members)
	for t := 0; t < p.Steps; t++ {
		for m := range r.Matrix {
			column[m] = r.Matrix[m][t]
		}

		r.Series.Mean[t] = stats.MeanOf(column)
		r.Series.Median[t] = stats.MedianOf(column)
		r.Series.Std[t] = stats.StdDevOf(column)
		r.Series.P10[t] = stats.Percentile(column, 10)
		r.Series.P90[t] = stats.Percentile(column, 90)
		r.Series.Min[t], r.Series.Max[t] = stats.MinMax(column)

		if p.TrackMode {
			r.Series.Mode[t] = stats.EstimateCentral(column).Mode
		}
	}
}
