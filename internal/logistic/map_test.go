package logistic

import (
	"math"
	"testing"
)

func TestRunLengthAndStart(t *testing.T) {
	tests := []struct {
		name  string
		x0    float64
		r     float64
		steps int
	}{
		{"chaotic", 0.25, 3.9, 100},
		{"single step", 0.5, 2.0, 1},
		{"boundary x0", 1.0, 3.5, 10},
		{"zero r", 0.7, 0.0, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traj := Run(tt.x0, tt.r, tt.steps)
			if len(traj) != tt.steps {
				t.Fatalf("expected %d states, got %d", tt.steps, len(traj))
			}
			if traj[0] != tt.x0 {
				t.Errorf("first state should be x0=%v, got %v", tt.x0, traj[0])
			}
		})
	}
}

func TestZeroParameterFixedPoint(t *testing.T) {
	traj := Run(0.7, 0.0, 20)
	for i := 1; i < len(traj); i++ {
		if traj[i] != 0 {
			t.Fatalf("state at step %d should be 0 for r=0, got %v", i, traj[i])
		}
	}
}

func TestConvergenceToFixedPoint(t *testing.T) {
	// For r in (1,3) the map converges to (r-1)/r.
	for _, r := range []float64{1.5, 2.0, 2.8} {
		traj := Run(0.3, r, 500)
		want := (r - 1) / r
		got := traj[len(traj)-1]
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("r=%.1f: expected convergence to %.6f, got %.6f", r, want, got)
		}
	}
}

func TestStepAllMatchesScalar(t *testing.T) {
	xs := []float64{0.1, 0.4, 0.9}
	want := make([]float64, len(xs))
	for i, x := range xs {
		want[i] = Step(x, 3.7)
	}
	StepAll(xs, 3.7)
	for i := range xs {
		if xs[i] != want[i] {
			t.Errorf("member %d: got %v, want %v", i, xs[i], want[i])
		}
	}
}

func TestStepEachUsesPerMemberParameter(t *testing.T) {
	xs := []float64{0.5, 0.5}
	rs := []float64{2.0, 4.0}
	StepEach(xs, rs)
	if xs[0] != 0.5 {
		t.Errorf("r=2 at x=0.5 is the fixed point, got %v", xs[0])
	}
	if xs[1] != 1.0 {
		t.Errorf("r=4 at x=0.5 should map to 1, got %v", xs[1])
	}
}

func TestUnboundedOutsideValidRange(t *testing.T) {
	// r>4 escapes [0,1]; accepted, not guarded.
	traj := Run(0.5, 4.5, 30)
	escaped := false
	for _, x := range traj {
		if x < 0 || x > 1 {
			escaped = true
			break
		}
	}
	if !escaped {
		t.Error("expected trajectory to leave [0,1] for r=4.5")
	}
}
