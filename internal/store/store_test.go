package store

import (
	"math/rand"
	"testing"
	"time"

	"github.com/hailcloud-um/logistic-map/internal/engine"
	"github.com/hailcloud-um/logistic-map/internal/stats"
)

func testBundle(t *testing.T, ensemble bool) (engine.Request, *engine.Bundle) {
	t.Helper()
	req := engine.Request{
		RTrue: 3.9, X0True: 0.5,
		RModel: 3.9, X0Model: 0.50001,
		Steps: 25, Threshold: 0.01,
		Statistic: stats.Mean,
	}
	if ensemble {
		req.Ensemble = true
		req.EnsembleSize = 10
		req.InitPerturbSD = 1e-4
	}
	b, err := engine.RunSimulation(req, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("simulation failed: %v", err)
	}
	return req, b
}

func TestSaveAndLoadMetadata(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	req, b := testBundle(t, false)
	runID, err := s.Save(req, 5, b)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := s.LoadMetadata(runID)
	if err != nil {
		t.Fatalf("load metadata failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("id mismatch: %s vs %s", meta.ID, runID)
	}
	if meta.RTrue != 3.9 || meta.X0Model != 0.50001 {
		t.Error("scenario parameters not preserved")
	}
	if meta.CrossingIndex != b.CrossingIndex {
		t.Errorf("crossing index not preserved: %d vs %d", meta.CrossingIndex, b.CrossingIndex)
	}
}

func TestSeriesRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	req, b := testBundle(t, true)

	runID, err := s.Save(req, 5, b)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cols, err := s.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	for _, name := range []string{"step", "truth", "model", "selected", "abs_error", "mean", "p90"} {
		if len(cols[name]) != req.Steps {
			t.Fatalf("column %s: got %d rows, want %d", name, len(cols[name]), req.Steps)
		}
	}
	for i := range b.Truth {
		if cols["truth"][i] != b.Truth[i] {
			t.Fatalf("truth value at step %d not preserved", i)
		}
		if cols["abs_error"][i] != b.AbsError[i] {
			t.Fatalf("abs error at step %d not preserved", i)
		}
	}
}

func TestDeterministicRunOmitsEnsembleColumns(t *testing.T) {
	s := New(t.TempDir())
	req, b := testBundle(t, false)

	runID, err := s.Save(req, 5, b)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	cols, err := s.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if _, ok := cols["mean"]; ok {
		t.Error("deterministic run should not carry ensemble columns")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := New(t.TempDir())
	req, b := testBundle(t, false)

	first, err := s.Save(req, 1, b)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := s.Save(req, 2, b)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("runs not ordered newest first: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestListEmptyStore(t *testing.T) {
	s := New(t.TempDir() + "/missing")
	runs, err := s.List()
	if err != nil {
		t.Fatalf("list on missing dir should not error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
