package config

// Regime names a qualitative behavior class of the logistic map.
type Regime string

const (
	RegimeChaotic      Regime = "chaotic"
	RegimeSingleValued Regime = "single-valued"
	RegimePeriodic     Regime = "periodic"
)

// RegimeDefaults are the parameter bounds and starting values suggested for
// exploring one regime. Read-only configuration, not derived from any
// simulation.
type RegimeDefaults struct {
	ParamLimits [2]float64
	ParamValue  float64
	InitLimits  [2]float64
	InitValue   float64
}

var Regimes = map[Regime]RegimeDefaults{
	RegimeChaotic: {
		ParamLimits: [2]float64{3.6, 4.0},
		ParamValue:  3.75,
		InitLimits:  [2]float64{0, 1},
		InitValue:   0.25,
	},
	RegimeSingleValued: {
		ParamLimits: [2]float64{0, 3},
		ParamValue:  1.5,
		InitLimits:  [2]float64{0, 1},
		InitValue:   0.5,
	},
	RegimePeriodic: {
		ParamLimits: [2]float64{3, 3.56},
		ParamValue:  3.1,
		InitLimits:  [2]float64{0, 1},
		InitValue:   0.5,
	},
}

// RegimeNames lists the regimes in display order.
func RegimeNames() []Regime {
	return []Regime{RegimeChaotic, RegimeSingleValued, RegimePeriodic}
}

// ClassifyRegime places a parameter value into its qualitative regime.
// The period-doubling cascade completes near r=3.56995.
func ClassifyRegime(r float64) Regime {
	switch {
	case r < 3:
		return RegimeSingleValued
	case r < 3.56995:
		return RegimePeriodic
	default:
		return RegimeChaotic
	}
}
