package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	// ErrEmptySample is returned when a density estimate is requested for
	// fewer than two points.
	ErrEmptySample = errors.New("stats: sample too small for density estimate")
	// ErrDegenerateSample is returned when the sample spread yields an
	// unusable bandwidth.
	ErrDegenerateSample = errors.New("stats: degenerate sample bandwidth")
)

// Gaussian kernel normal-reference constant; together with
// min(sigma, IQR/1.349) and n^-1/5 this gives the usual rule-of-thumb
// bandwidth.
const normalReferenceConstant = 1.0592

const gaussNorm = 0.3989422804014327 // 1/sqrt(2*pi)

// modeGridSize is the number of evaluation points used to locate the mode.
const modeGridSize = 200

// KDE is a univariate Gaussian kernel density estimate.
type KDE struct {
	sample    []float64
	bandwidth float64
}

// NewKDE fits a Gaussian KDE with a normal-reference bandwidth.
func NewKDE(sample []float64) (*KDE, error) {
	if len(sample) < 2 {
		return nil, ErrEmptySample
	}
	bw := referenceBandwidth(sample)
	if bw <= 0 || math.IsNaN(bw) || math.IsInf(bw, 0) {
		return nil, ErrDegenerateSample
	}
	return &KDE{sample: sample, bandwidth: bw}, nil
}

// Bandwidth reports the fitted kernel bandwidth.
func (k *KDE) Bandwidth() float64 { return k.bandwidth }

// Density evaluates the estimate at x.
func (k *KDE) Density(x float64) float64 {
	var sum float64
	for _, xi := range k.sample {
		u := (xi - x) / k.bandwidth
		sum += gaussNorm * math.Exp(-u*u/2)
	}
	return sum / (k.bandwidth * float64(len(k.sample)))
}

// Evaluate computes the density on every grid point.
func (k *KDE) Evaluate(grid []float64) []float64 {
	dens := make([]float64, len(grid))
	for i, g := range grid {
		dens[i] = k.Density(g)
	}
	return dens
}

// ModeOf locates the sample mode by evaluating a KDE on an evenly spaced
// grid spanning [min(sample), max(sample)] and returning the grid point of
// maximum density.
func ModeOf(sample []float64) (float64, error) {
	kde, err := NewKDE(sample)
	if err != nil {
		return 0, err
	}
	lo, hi := MinMax(sample)
	grid := Linspace(lo, hi, modeGridSize)
	dens := kde.Evaluate(grid)

	best := 0
	for i, d := range dens {
		if d > dens[best] {
			best = i
		}
	}
	return grid[best], nil
}

// referenceBandwidth follows the normal-reference rule with the robust
// spread estimate min(stddev, IQR/1.349).
func referenceBandwidth(sample []float64) float64 {
	sorted := sortedCopy(sample)
	q75 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	q25 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	iqr := (q75 - q25) / 1.349

	sigma := StdDevOf(sample)
	spread := sigma
	if iqr > 0 && iqr < sigma {
		spread = iqr
	}
	return normalReferenceConstant * spread * math.Pow(float64(len(sample)), -0.2)
}
