// Package predict measures how quickly a forecast diverges from truth: the
// absolute-error series, its first threshold crossing, and the precomputed
// predictability-limit surfaces.
package predict

import (
	"github.com/hailcloud-um/logistic-map/internal/stats"
)

// LogFloor is the smallest value error series are clamped to before any
// logarithmic display.
const LogFloor = 1e-16

// Result pairs an absolute-error series with its first threshold crossing.
// CrossingIndex equals len(AbsError) when the threshold is never exceeded
// within the simulated horizon.
type Result struct {
	AbsError      []float64
	CrossingIndex int
}

// Exceeded reports whether the threshold was crossed within the horizon.
func (r Result) Exceeded() bool {
	return r.CrossingIndex < len(r.AbsError)
}

// Analyze computes |model[t]-truth[t]| and the first index strictly
// exceeding the threshold. It operates on already-simulated series, so a
// change of statistic or threshold never costs a re-simulation.
func Analyze(truth, model []float64, threshold float64) Result {
	abs := AbsError(truth, model)
	return Result{AbsError: abs, CrossingIndex: FirstCrossing(abs, threshold)}
}

// AbsError returns the element-wise absolute difference of two same-length
// series.
func AbsError(truth, model []float64) []float64 {
	diff := make([]float64, len(truth))
	for i := range truth {
		d := model[i] - truth[i]
		if d < 0 {
			d = -d
		}
		diff[i] = d
	}
	return diff
}

// FirstCrossing returns the smallest index whose value strictly exceeds the
// threshold, or len(series) when none does.
func FirstCrossing(series []float64, threshold float64) int {
	for i, v := range series {
		if v > threshold {
			return i
		}
	}
	return len(series)
}

// Bounds carries per-step error envelopes of an ensemble against truth.
type Bounds struct {
	P10 []float64
	P90 []float64
	Min []float64
	Max []float64
}

// ErrorBounds computes per-step percentile and extreme envelopes of
// |member[t]-truth[t]| across the ensemble matrix (member, step).
func ErrorBounds(matrix [][]float64, truth []float64) Bounds {
	steps := len(truth)
	b := Bounds{
		P10: make([]float64, steps),
		P90: make([]float64, steps),
		Min: make([]float64, steps),
		Max: make([]float64, steps),
	}
	column := make([]float64, len(matrix))
	for t := 0; t < steps; t++ {
		for m, row := range matrix {
			d := row[t] - truth[t]
			if d < 0 {
				d = -d
			}
			column[m] = d
		}
		b.P10[t] = stats.Percentile(column, 10)
		b.P90[t] = stats.Percentile(column, 90)
		b.Min[t], b.Max[t] = stats.MinMax(column)
	}
	return b
}

// ClampFloor returns a copy of the series with every value raised to at
// least floor, for use on logarithmic axes.
func ClampFloor(series []float64, floor float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		if v < floor {
			v = floor
		}
		out[i] = v
	}
	return out
}
