package plus

import "github.com/pkg/errors"

// Fatal resolution errors. The resolvers wrap these with context; test for
// them with errors.Is.
var (
	// ErrNoValidProjection means no subset of the proximal plane constraints
	// removes the interpenetration.
	ErrNoValidProjection = errors.New("plus: no valid position projection found")

	// ErrProjectionFailed is returned by a Model when ProjectQ cannot reach the
	// requested accuracy. The position search treats it as an infeasible subset.
	ErrProjectionFailed = errors.New("plus: position projection did not converge")

	// ErrNoActiveSet means no active set candidate landed in a tolerable
	// solution category.
	ErrNoActiveSet = errors.New("plus: no suitable active set found")

	// ErrNoStepLength means the step length search ran out of iterations.
	ErrNoStepLength = errors.New("plus: no suitable interval step length found")

	// ErrIntervalLimit means a phase did not finish within
	// Params.MaxIntervalsPerPhase sub-intervals.
	ErrIntervalLimit = errors.New("plus: impact phase exceeded interval limit")

	ErrNoProximalPoints = errors.New("plus: no proximal points")
	ErrReboundMismatch  = errors.New("plus: rebound flags do not match proximal points")
	ErrNotImpacting     = errors.New("plus: no proximal point is impacting")
)
