// Package bifurcation sweeps the logistic map over a parameter grid and
// collects the post-transient attractor samples, optionally binned into a
// two-dimensional density histogram.
package bifurcation

import (
	"time"

	"github.com/hailcloud-um/logistic-map/internal/logistic"
	"github.com/hailcloud-um/logistic-map/internal/stats"
)

// Window is a closed state-value interval.
type Window struct {
	Min float64
	Max float64
}

// Contains reports whether x lies inside the window.
func (w Window) Contains(x float64) bool {
	return x >= w.Min && x <= w.Max
}

// SweepConfig describes one bifurcation sweep.
type SweepConfig struct {
	RMin    float64
	RMax    float64
	RCount  int // grid points along r, also the r-bin count for density
	XWindow Window
	Discard int // transient iterations before recording
	Record  int // recording iterations
}

// Cloud is the flattened set of (r, x) samples collected during the
// recording phase. R and X are always the same length; both are empty when
// the window excludes every sample.
type Cloud struct {
	R []float64
	X []float64

	Elapsed time.Duration
	Points  int
}

// DensityGrid bins a cloud over (r, x). Counts is stored transposed, x as
// the first axis, so row-major display reads (x row, r column).
type DensityGrid struct {
	Counts [][]int

	// REdges and XEdges are the bin boundaries, one more than the bin
	// counts along each axis.
	REdges []float64
	XEdges []float64

	Cloud *Cloud
}

// Sweep runs the vectorized parameter sweep: every grid member starts at
// x=0.5, the transient phase discards Discard iterations across the whole
// grid simultaneously, then each of the Record iterations appends the
// samples falling inside the x-window.
func Sweep(cfg SweepConfig) *Cloud {
	start := time.Now()

	rGrid := stats.Linspace(cfg.RMin, cfg.RMax, cfg.RCount)
	xs := make([]float64, len(rGrid))
	for i := range xs {
		xs[i] = 0.5
	}

	for i := 0; i < cfg.Discard; i++ {
		logistic.StepEach(xs, rGrid)
	}

	cloud := &Cloud{R: []float64{}, X: []float64{}}
	for i := 0; i < cfg.Record; i++ {
		logistic.StepEach(xs, rGrid)
		for j, x := range xs {
			if cfg.XWindow.Contains(x) {
				cloud.R = append(cloud.R, rGrid[j])
				cloud.X = append(cloud.X, x)
			}
		}
	}

	cloud.Points = len(cloud.R)
	cloud.Elapsed = time.Since(start)
	return cloud
}

// SweepDensity runs Sweep and bins the resulting cloud into an
// xBins-by-RCount count matrix over the same r range and x window.
func SweepDensity(cfg SweepConfig, xBins int) *DensityGrid {
	cloud := Sweep(cfg)
	start := time.Now()

	grid := &DensityGrid{
		REdges: stats.Linspace(cfg.RMin, cfg.RMax, cfg.RCount+1),
		XEdges: stats.Linspace(cfg.XWindow.Min, cfg.XWindow.Max, xBins+1),
		Cloud:  cloud,
	}
	grid.Counts = make([][]int, xBins)
	for i := range grid.Counts {
		grid.Counts[i] = make([]int, cfg.RCount)
	}

	rWidth := (cfg.RMax - cfg.RMin) / float64(cfg.RCount)
	xWidth := (cfg.XWindow.Max - cfg.XWindow.Min) / float64(xBins)

	for i := range cloud.R {
		ri := binIndex(cloud.R[i], cfg.RMin, rWidth, cfg.RCount)
		xi := binIndex(cloud.X[i], cfg.XWindow.Min, xWidth, xBins)
		if ri >= 0 && xi >= 0 {
			grid.Counts[xi][ri]++
		}
	}

	cloud.Elapsed += time.Since(start)
	return grid
}

// Total returns the number of binned samples.
func (g *DensityGrid) Total() int {
	var n int
	for _, row := range g.Counts {
		for _, c := range row {
			n += c
		}
	}
	return n
}

// MaxCount returns the largest bin count, 0 for an empty grid.
func (g *DensityGrid) MaxCount() int {
	var max int
	for _, row := range g.Counts {
		for _, c := range row {
			if c > max {
				max = c
			}
		}
	}
	return max
}

// binIndex places v on a uniform grid; the closing edge belongs to the last
// bin. Returns -1 for values outside the axis or a degenerate bin width.
func binIndex(v, lo, width float64, bins int) int {
	if width <= 0 {
		return -1
	}
	idx := int((v - lo) / width)
	if idx == bins && v <= lo+width*float64(bins) {
		idx = bins - 1
	}
	if idx < 0 || idx >= bins {
		return -1
	}
	return idx
}
