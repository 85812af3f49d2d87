// Package logistic implements the logistic map recurrence and trajectory
// generation. The map is x[t+1] = r*x[t]*(1-x[t]); no parameter range is
// enforced, and r outside [0,4] can diverge.
package logistic

// Trajectory is an ordered sequence of map states, one per iteration.
type Trajectory []float64

func (t Trajectory) Clone() Trajectory {
	c := make(Trajectory, len(t))
	copy(c, t)
	return c
}

// Step applies one iteration of the logistic map.
func Step(x, r float64) float64 {
	return r * x * (1 - x)
}

// StepAll advances every state in xs by one iteration in place, all under
// the same parameter r.
func StepAll(xs []float64, r float64) {
	for i, x := range xs {
		xs[i] = r * x * (1 - x)
	}
}

// StepEach advances every state in xs by one iteration in place, using the
// matching entry of rs for each state. Lengths must agree.
func StepEach(xs, rs []float64) {
	for i, x := range xs {
		xs[i] = rs[i] * x * (1 - x)
	}
}

// Run iterates the map from x0 for the given number of steps, recording the
// state before each application. Index 0 holds x0; the final entry is the
// state after steps-1 applications.
func Run(x0, r float64, steps int) Trajectory {
	traj := make(Trajectory, steps)
	x := x0
	for t := 0; t < steps; t++ {
		traj[t] = x
		x = Step(x, r)
	}
	return traj
}
