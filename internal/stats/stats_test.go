package stats

import (
	"math"
	"testing"
)

func TestMedianOf(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MedianOf(tt.xs); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPercentileBounds(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	p10 := Percentile(xs, 10)
	p90 := Percentile(xs, 90)
	if p10 >= p90 {
		t.Fatalf("p10=%v should be below p90=%v", p10, p90)
	}
	if p10 < 1 || p90 > 10 {
		t.Errorf("percentiles outside data range: p10=%v p90=%v", p10, p90)
	}
}

func TestLinspace(t *testing.T) {
	grid := Linspace(0, 1, 5)
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	if len(grid) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(grid))
	}
	for i := range want {
		if math.Abs(grid[i]-want[i]) > 1e-12 {
			t.Errorf("point %d: got %v, want %v", i, grid[i], want[i])
		}
	}
}

func TestStdDevOf(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := StdDevOf(xs); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected population stddev 2, got %v", got)
	}
	if StdDevOf([]float64{1}) != 0 {
		t.Error("single-element stddev should be 0")
	}
}

func TestParseStatistic(t *testing.T) {
	for _, name := range []string{"mean", "median", "mode"} {
		s, err := ParseStatistic(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if s.String() != name {
			t.Errorf("round trip %q gave %q", name, s.String())
		}
	}
	if _, err := ParseStatistic("p50"); err == nil {
		t.Error("expected error for unknown statistic")
	}
}
