package bifurcation

import (
	"math"
	"testing"
)

func fullWindow() Window { return Window{Min: 0, Max: 1} }

func TestSweepCloudInvariants(t *testing.T) {
	cfg := SweepConfig{
		RMin: 2.5, RMax: 4.0, RCount: 200,
		XWindow: fullWindow(),
		Discard: 100, Record: 50,
	}
	cloud := Sweep(cfg)

	if len(cloud.R) != len(cloud.X) {
		t.Fatalf("parallel arrays differ: %d r values, %d x values", len(cloud.R), len(cloud.X))
	}
	if cloud.Points != len(cloud.R) {
		t.Errorf("point count %d disagrees with array length %d", cloud.Points, len(cloud.R))
	}
	if cloud.Points == 0 {
		t.Fatal("full-window sweep over [2.5,4] should collect samples")
	}
	for i, x := range cloud.X {
		if !cfg.XWindow.Contains(x) {
			t.Fatalf("sample %d: x=%v outside window", i, x)
		}
	}
	for _, r := range cloud.R {
		if r < cfg.RMin || r > cfg.RMax {
			t.Fatalf("r=%v outside sweep range", r)
		}
	}
}

func TestSweepFixedPointRegion(t *testing.T) {
	// For r in (1,3) the attractor is the single point (r-1)/r, so after
	// the transient every recorded x must sit on it.
	cfg := SweepConfig{
		RMin: 1.5, RMax: 2.8, RCount: 50,
		XWindow: fullWindow(),
		Discard: 500, Record: 5,
	}
	cloud := Sweep(cfg)
	if cloud.Points != cfg.RCount*cfg.Record {
		t.Fatalf("expected %d samples, got %d", cfg.RCount*cfg.Record, cloud.Points)
	}
	for i := range cloud.R {
		want := (cloud.R[i] - 1) / cloud.R[i]
		if math.Abs(cloud.X[i]-want) > 1e-6 {
			t.Fatalf("sample %d: x=%v, fixed point %v", i, cloud.X[i], want)
		}
	}
}

func TestSweepEmptyWindow(t *testing.T) {
	// A window no trajectory visits yields empty arrays, not an error.
	cfg := SweepConfig{
		RMin: 1.5, RMax: 2.8, RCount: 50,
		XWindow: Window{Min: 0.95, Max: 1.0},
		Discard: 300, Record: 20,
	}
	cloud := Sweep(cfg)
	if len(cloud.R) != 0 || len(cloud.X) != 0 || cloud.Points != 0 {
		t.Errorf("expected empty cloud, got %d points", cloud.Points)
	}
}

func TestDensityGridAccounting(t *testing.T) {
	cfg := SweepConfig{
		RMin: 2.5, RMax: 4.0, RCount: 120,
		XWindow: fullWindow(),
		Discard: 200, Record: 100,
	}
	grid := SweepDensity(cfg, 80)

	if len(grid.Counts) != 80 {
		t.Fatalf("expected 80 x rows, got %d", len(grid.Counts))
	}
	for _, row := range grid.Counts {
		if len(row) != cfg.RCount {
			t.Fatalf("expected %d r columns, got %d", cfg.RCount, len(row))
		}
		for _, c := range row {
			if c < 0 {
				t.Fatal("negative bin count")
			}
		}
	}
	if len(grid.REdges) != cfg.RCount+1 {
		t.Errorf("expected %d r edges, got %d", cfg.RCount+1, len(grid.REdges))
	}
	if len(grid.XEdges) != 81 {
		t.Errorf("expected 81 x edges, got %d", len(grid.XEdges))
	}
	if total := grid.Total(); total != grid.Cloud.Points {
		t.Errorf("grid total %d must equal cloud point count %d", total, grid.Cloud.Points)
	}
}

func TestDensityBinPlacement(t *testing.T) {
	// Narrow fixed-point sweep: all mass lands in the bin containing
	// (r-1)/r for each column.
	cfg := SweepConfig{
		RMin: 2.0, RMax: 2.0000001, RCount: 1,
		XWindow: fullWindow(),
		Discard: 500, Record: 10,
	}
	grid := SweepDensity(cfg, 10)

	// Fixed point at x=0.5 falls in bin 5 of 10.
	for xi, row := range grid.Counts {
		want := 0
		if xi == 5 {
			want = 10
		}
		if row[0] != want {
			t.Errorf("x bin %d: count %d, want %d", xi, row[0], want)
		}
	}
}

func TestBinIndexClosingEdge(t *testing.T) {
	if idx := binIndex(1.0, 0, 0.1, 10); idx != 9 {
		t.Errorf("closing edge should land in the last bin, got %d", idx)
	}
	if idx := binIndex(-0.1, 0, 0.1, 10); idx != -1 {
		t.Errorf("below-range value should be rejected, got %d", idx)
	}
}
