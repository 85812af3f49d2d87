package predict

import (
	"fmt"
	"math/rand"

	"github.com/hailcloud-um/logistic-map/internal/logistic"
	"github.com/hailcloud-um/logistic-map/internal/stats"
)

// ScanMetric selects how per-trial error curves aggregate across trials.
// There is no true mode variant: the shipped lookup table was generated with
// the median standing in for the mode, and that simplification is kept.
type ScanMetric int

const (
	ScanMean ScanMetric = iota
	ScanMedian
)

func (m ScanMetric) String() string {
	if m == ScanMean {
		return "mean"
	}
	return "median"
}

// ParseScanMetric maps a name to its ScanMetric. "mode" resolves to the
// median approximation.
func ParseScanMetric(name string) (ScanMetric, error) {
	switch name {
	case "mean":
		return ScanMean, nil
	case "median", "mode":
		return ScanMedian, nil
	default:
		return ScanMedian, fmt.Errorf("unknown scan metric: %s", name)
	}
}

// ScanConfig describes one predictability-limit scenario.
type ScanConfig struct {
	R          float64 // nominal map parameter
	ModelBias  float64 // additive parameter bias Δr
	ICBias     float64 // truth initial-condition perturbation stddev
	Trials     int
	Iterations int
	Threshold  float64
	Metric     ScanMetric
}

// Initial conditions are clipped inside the open unit interval to avoid the
// exact boundary fixed points.
const (
	clipLo = 1e-10
	clipHi = 1 - 1e-10
)

// ScanLimit estimates the predictability limit of one scenario. Each trial
// draws its base state uniformly in [0.1, 0.9], perturbs truth by
// N(0, ICBias) and the model by N(0, 0.1*ICBias) (the model underestimates
// its own initial uncertainty tenfold), and biases the model
// parameter as r*(1+Δr/r), leaving r=0 unbiased. The per-step absolute
// differences are aggregated across trials by the metric, and the first
// threshold crossing is returned, or Iterations when none occurs.
func ScanLimit(cfg ScanConfig, rng *rand.Rand) int {
	diffs := make([][]float64, cfg.Trials)

	rModel := cfg.R
	if cfg.R != 0 {
		rModel = cfg.R * (1 + cfg.ModelBias/cfg.R)
	}

	for m := 0; m < cfg.Trials; m++ {
		base := 0.1 + 0.8*rng.Float64()
		x0Truth := clip(base+rng.NormFloat64()*cfg.ICBias, clipLo, clipHi)
		x0Model := clip(base+rng.NormFloat64()*cfg.ICBias*0.1, clipLo, clipHi)

		row := make([]float64, cfg.Iterations)
		xt, xm := x0Truth, x0Model
		for t := 0; t < cfg.Iterations; t++ {
			d := xm - xt
			if d < 0 {
				d = -d
			}
			row[t] = d
			xt = logistic.Step(xt, cfg.R)
			xm = logistic.Step(xm, rModel)
		}
		diffs[m] = row
	}

	curve := make([]float64, cfg.Iterations)
	column := make([]float64, cfg.Trials)
	for t := 0; t < cfg.Iterations; t++ {
		for m := range diffs {
			column[m] = diffs[m][t]
		}
		if cfg.Metric == ScanMean {
			curve[t] = stats.MeanOf(column)
		} else {
			curve[t] = stats.MedianOf(column)
		}
	}

	return FirstCrossing(curve, cfg.Threshold)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
