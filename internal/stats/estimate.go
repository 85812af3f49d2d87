package stats

// degenerateSpread is the standard-deviation floor below which density
// estimation is ill-conditioned and the mode falls back to the mean.
const degenerateSpread = 1e-9

// Central bundles the three central-tendency values of one cross-sectional
// sample.
type Central struct {
	Mean   float64
	Median float64
	Mode   float64
}

// Get returns the value selected by the statistic.
func (c Central) Get(s Statistic) float64 {
	switch s {
	case Median:
		return c.Median
	case Mode:
		return c.Mode
	default:
		return c.Mean
	}
}

// EstimateCentral computes mean, median, and density-based mode of a sample.
//
// The mode resolves through three explicit branches: a near-zero-variance
// sample takes the mean, a failed density fit takes the median, and the
// nominal path takes the KDE grid maximum.
func EstimateCentral(sample []float64) Central {
	c := Central{
		Mean:   MeanOf(sample),
		Median: MedianOf(sample),
	}
	switch {
	case StdDevOf(sample) < degenerateSpread:
		c.Mode = c.Mean
	default:
		mode, err := ModeOf(sample)
		if err != nil {
			c.Mode = c.Median
		} else {
			c.Mode = mode
		}
	}
	return c
}
