package plus

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// slidingStepToOrigin returns the fraction of the step from tangential
// velocity a to b that ends closest to zero velocity. A point that was barely
// slipping at a takes the full step.
func slidingStepToOrigin(a, b Vector, maxStickingTangVel float64) float64 {
	if a.Length() < maxStickingTangVel {
		return 1
	}
	return a.ClosestT(b)
}

// limitSlidingStep returns the fraction of c's velocity change that may be
// applied in the given 1-based interval without rotating the slip direction
// of any Sliding point by more than MaxSlidingDirChange. vels are the
// proximal velocities at s.
func (imp *Impacter) limitSlidingStep(s *State, vels []mgl64.Vec3, c *Candidate, interval int) (float64, error) {
	p := imp.params
	step := 1.0

	prop := s.Clone()
	prop.AddScaledU(c.VelocityChange, step)
	propose := func() {
		prop.CopyFrom(s)
		prop.AddScaledU(c.VelocityChange, step)
	}

	for i, st := range c.States {
		if st != Sliding {
			continue
		}
		start := Tangential(vels[i])
		ang0, _ := TangentialAngle(vels[i], p.TolReliableDirection)

	refine:
		for iter := 1; ; iter++ {
			if iter > p.MaxIterStepLength {
				return math.NaN(), errors.Wrapf(ErrNoStepLength, "proximal point %d after %d iterations", i, p.MaxIterStepLength)
			}

			propVel := imp.model.PointVelocity(prop, imp.proximal[i])
			ang1, ok := TangentialAngle(propVel, p.TolReliableDirection)

			// The point is coming to rest and will roll.
			if !ok || Tangential(propVel).Length() < p.MaxStickingTangVel {
				break
			}

			dif := AngleDiff(ang0, ang1)
			switch {
			case dif <= p.MaxSlidingDirChange:
				break refine

			case dif <= 0.5*math.Pi:
				// Scale to the allowed turn, strictly decreasing.
				step = math.Min(step*p.MaxSlidingDirChange/dif, step-p.MinIntervalStepLength)
				imp.debugf("  -- limiting steplength to %g to limit change in sliding direction", step)

			default:
				// Reversing or stopping: end the interval nearest zero velocity.
				factor := slidingStepToOrigin(start, Tangential(propVel), p.MaxStickingTangVel)
				step *= factor
				imp.debugf("  -- limiting steplength to %g to detect sliding direction reversal", step)
				if factor == 1 {
					break refine
				}
			}

			propose()
			if step <= p.MinIntervalStepLength {
				break
			}
		}
	}

	if interval < p.MinIntervalsPerPhase {
		limit := 1 / float64(p.MinIntervalsPerPhase-interval+1)
		if step > limit {
			imp.debugf("  ** reducing steplength from %g to %g to ensure %d intervals", step, limit, p.MinIntervalsPerPhase)
			step = limit
		}
	}

	if step < p.MinIntervalStepLength {
		step = p.MinIntervalStepLength
	}
	return step, nil
}
