package plus

// Params holds the tolerances and iteration limits shared by the position and
// impact resolvers.
type Params struct {
	TolProjectQ           float64 // accuracy handed to Model.ProjectQ
	TolPositionFuzziness  float64 // expected position tolerance
	TolVelocityFuzziness  float64 // expected velocity tolerance
	TolReliableDirection  float64 // below this tangential speed the direction is unknown
	TolMaxDifDirIteration float64 // slip direction convergence, radians
	MinMeaningfulImpulse  float64 // smallest acceptable impulse
	MaxStickingTangVel    float64 // cannot stick above this tangential speed
	MaxSlidingDirChange   float64 // allowed slip direction change per interval, radians
	MinIntervalStepLength float64 // smallest permitted step length

	MaxIterSlipDirection int
	MaxIterStepLength    int
	MinIntervalsPerPhase int
	MaxIntervalsPerPhase int

	// Singular values below SolverRcond times the largest are treated as zero
	// by SolveMinNorm.
	SolverRcond float64
}

func DefaultParams() Params {
	return Params{
		TolProjectQ:           1.0e-6,
		TolPositionFuzziness:  1.0e-4,
		TolVelocityFuzziness:  1.0e-5,
		TolReliableDirection:  1.0e-4,
		TolMaxDifDirIteration: 0.05, // 2.86 degrees
		MinMeaningfulImpulse:  1.0e-6,
		MaxStickingTangVel:    1.0e-1,
		MaxSlidingDirChange:   0.5, // 28.6 degrees
		MinIntervalStepLength: 1.0e-3,

		MaxIterSlipDirection: 5,
		MaxIterStepLength:    5,
		MinIntervalsPerPhase: 2,
		MaxIntervalsPerPhase: 10000,

		SolverRcond: 1.0e-12,
	}
}
