// Package stats provides the cross-sectional statistics used to summarize
// ensemble snapshots: mean, median, percentiles, and a kernel-density mode.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistic selects which central-tendency series represents the ensemble.
type Statistic int

const (
	Mean Statistic = iota
	Median
	Mode
)

func (s Statistic) String() string {
	switch s {
	case Mean:
		return "mean"
	case Median:
		return "median"
	case Mode:
		return "mode"
	default:
		return fmt.Sprintf("Statistic(%d)", int(s))
	}
}

// ParseStatistic maps a name to its Statistic.
func ParseStatistic(name string) (Statistic, error) {
	switch name {
	case "mean":
		return Mean, nil
	case "median":
		return Median, nil
	case "mode":
		return Mode, nil
	default:
		return Mean, fmt.Errorf("unknown statistic: %s", name)
	}
}

// MeanOf returns the arithmetic mean of xs.
func MeanOf(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

// StdDevOf returns the population standard deviation of xs.
func StdDevOf(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := stat.Mean(xs, nil)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// MedianOf returns the order-statistics median: the middle element for odd
// lengths, the midpoint of the two middle elements for even lengths.
func MedianOf(xs []float64) float64 {
	sorted := sortedCopy(xs)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile returns the p-th percentile (p in [0,100]) with linear
// interpolation between order statistics.
func Percentile(xs []float64, p float64) float64 {
	sorted := sortedCopy(xs)
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(p/100, stat.LinInterp, sorted, nil)
}

// MinMax returns the extremes of xs.
func MinMax(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	return floats.Min(xs), floats.Max(xs)
}

// Linspace returns count evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, count int) []float64 {
	if count < 2 {
		return []float64{start}
	}
	return floats.Span(make([]float64, count), start, stop)
}

func sortedCopy(xs []float64) []float64 {
	c := make([]float64, len(xs))
	copy(c, xs)
	sort.Float64s(c)
	return c
}
