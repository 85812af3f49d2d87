package stats

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestModeOfUnimodalSample(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sample := make([]float64, 500)
	for i := range sample {
		sample[i] = 0.4 + 0.05*rng.NormFloat64()
	}
	mode, err := ModeOf(sample)
	if err != nil {
		t.Fatalf("mode failed: %v", err)
	}
	if math.Abs(mode-0.4) > 0.05 {
		t.Errorf("expected mode near 0.4, got %v", mode)
	}
}

func TestModeOfPicksHeavierCluster(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	sample := make([]float64, 0, 300)
	for i := 0; i < 250; i++ {
		sample = append(sample, 0.2+0.02*rng.NormFloat64())
	}
	for i := 0; i < 50; i++ {
		sample = append(sample, 0.8+0.02*rng.NormFloat64())
	}
	mode, err := ModeOf(sample)
	if err != nil {
		t.Fatalf("mode failed: %v", err)
	}
	if math.Abs(mode-0.2) > 0.1 {
		t.Errorf("expected mode near dominant cluster 0.2, got %v", mode)
	}
}

func TestNewKDETooSmall(t *testing.T) {
	if _, err := NewKDE([]float64{0.5}); !errors.Is(err, ErrEmptySample) {
		t.Errorf("expected ErrEmptySample, got %v", err)
	}
}

func TestNewKDEDegenerate(t *testing.T) {
	if _, err := NewKDE([]float64{0.3, 0.3, 0.3, 0.3}); !errors.Is(err, ErrDegenerateSample) {
		t.Errorf("expected ErrDegenerateSample, got %v", err)
	}
}

func TestDensityIntegratesToRoughlyOne(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sample := make([]float64, 200)
	for i := range sample {
		sample[i] = rng.NormFloat64()
	}
	kde, err := NewKDE(sample)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	// Trapezoid over a wide window.
	grid := Linspace(-6, 6, 1000)
	dens := kde.Evaluate(grid)
	var area float64
	for i := 1; i < len(grid); i++ {
		area += (dens[i] + dens[i-1]) / 2 * (grid[i] - grid[i-1])
	}
	if math.Abs(area-1) > 0.05 {
		t.Errorf("density should integrate to ~1, got %v", area)
	}
}

func TestEstimateCentralFallbacks(t *testing.T) {
	t.Run("degenerate variance uses mean", func(t *testing.T) {
		c := EstimateCentral([]float64{0.25, 0.25, 0.25})
		if c.Mode != c.Mean {
			t.Errorf("mode should equal mean for degenerate sample, got %v vs %v", c.Mode, c.Mean)
		}
	})

	t.Run("nominal path uses density", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5))
		sample := make([]float64, 400)
		for i := range sample {
			sample[i] = 0.6 + 0.03*rng.NormFloat64()
		}
		c := EstimateCentral(sample)
		if math.Abs(c.Mode-0.6) > 0.05 {
			t.Errorf("expected density mode near 0.6, got %v", c.Mode)
		}
	})
}

func TestCentralGet(t *testing.T) {
	c := Central{Mean: 1, Median: 2, Mode: 3}
	if c.Get(Mean) != 1 || c.Get(Median) != 2 || c.Get(Mode) != 3 {
		t.Errorf("Get returned wrong values: %v %v %v", c.Get(Mean), c.Get(Median), c.Get(Mode))
	}
}
