package plus

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Impacter resolves one impact event at a time for a fixed set of proximal
// points: a compression phase removes the closing velocities, then an
// optional restitution phase returns the stored impulse.
type Impacter struct {
	model    Model
	params   Params
	proximal []int

	// Debug, when set, receives a trace of every sub-interval.
	Debug *log.Logger
}

// NewImpacter anchors the ball constraint of every proximal point at its
// current position in s.
func NewImpacter(model Model, params Params, s *State, proximal []int) *Impacter {
	for _, point := range proximal {
		model.SetBallAnchor(s, point, model.PointPosition(s, point))
	}
	return &Impacter{
		model:    model,
		params:   params,
		proximal: append([]int(nil), proximal...),
	}
}

func (imp *Impacter) Proximal() []int {
	return imp.proximal
}

func (imp *Impacter) debugf(format string, args ...interface{}) {
	if imp.Debug != nil {
		imp.Debug.Printf(format, args...)
	}
}

// Interval records one sub-interval of an impact event.
type Interval struct {
	Phase      Phase
	Index      int // 1-based within the phase
	States     []TangentialState
	Ranking    Ranking
	StepLength float64
	// Impulses of the active points at full step, x, y, z each.
	Impulses []float64
	// Velocities of the proximal points at the start of the interval.
	Velocities []mgl64.Vec3
}

func (iv Interval) String() string {
	return fmt.Sprintf("%v %d: %v %v step %g", iv.Phase, iv.Index,
		FormatStates(iv.Phase.prefix(), iv.States), iv.Ranking, iv.StepLength)
}

// Report describes a resolved impact event.
type Report struct {
	Proximal   []int
	CORs       []float64
	Intervals  []Interval
	Restituted bool

	// CandidatesEvaluated counts every active set solved during the event.
	CandidatesEvaluated int
}

// NumIntervals counts the sub-intervals spent in phase.
func (r Report) NumIntervals(phase Phase) int {
	var n int
	for _, iv := range r.Intervals {
		if iv.Phase == phase {
			n++
		}
	}
	return n
}

// Resolve applies a sequence of impulsive velocity changes at s until no
// proximal point closes on the ground, then applies restitution. At least
// one proximal point must be impacting on entry.
//
// rebounded holds one flag per proximal point and is carried by the caller
// across the events of a multi-impact sequence: a point that has already
// rebounded gets no restitution in later compressions. On success s.U and
// rebounded are updated; on error neither is touched.
func (imp *Impacter) Resolve(s *State, rebounded []bool) (Report, error) {
	p := imp.params
	n := len(imp.proximal)
	if n == 0 {
		return Report{}, errors.WithStack(ErrNoProximalPoints)
	}
	if len(rebounded) != n {
		return Report{}, errors.Wrapf(ErrReboundMismatch, "%d flags for %d points", len(rebounded), n)
	}

	work := s.Clone()
	work.DisableAll()
	flags := append([]bool(nil), rebounded...)
	vels := PointVelocities(imp.model, work, imp.proximal)
	if !IsImpacting(vels, p) {
		return Report{}, errors.WithStack(ErrNotImpacting)
	}

	material := imp.model.Material()
	cors := make([]float64, n)
	for i := range cors {
		if !flags[i] {
			cors[i] = material.COR(-vels[i][2])
		}
	}

	report := Report{
		Proximal: append([]int(nil), imp.proximal...),
		CORs:     cors,
	}
	budget := make([]float64, n)
	phase := Compression
	interval := 0

	for {
		interval++
		if interval > p.MaxIntervalsPerPhase {
			return report, errors.Wrapf(ErrIntervalLimit, "%v phase", phase)
		}
		imp.debugf("# %v interval %d", phase, interval)

		candidates := EnumerateCandidates(n)
		for _, c := range candidates {
			imp.evaluate(work, phase, budget, vels, c)
		}
		report.CandidatesEvaluated += len(candidates)

		if imp.Debug != nil {
			counts := CategoryCounts(candidates)
			for cat, count := range counts {
				if count > 0 {
					imp.debugf("   %2d  %v", count, SolutionCategory(cat))
				}
			}
		}

		best := SelectCandidate(candidates)
		if best < 0 {
			return report, errors.Wrapf(ErrNoActiveSet, "%v interval %d", phase, interval)
		}
		c := candidates[best]

		step, err := imp.limitSlidingStep(work, vels, c, interval)
		if err != nil {
			return report, errors.WithMessagef(err, "%v interval %d", phase, interval)
		}
		report.Intervals = append(report.Intervals, Interval{
			Phase:      phase,
			Index:      interval,
			States:     c.States,
			Ranking:    c.Ranking,
			StepLength: step,
			Impulses:   c.Impulses,
			Velocities: vels,
		})
		imp.debugf("  ** selected %v %v, steplength %g",
			FormatStates(phase.prefix(), c.States), c.Ranking, step)

		work.AddScaledU(c.VelocityChange, step)
		vels = PointVelocities(imp.model, work, imp.proximal)

		done := false
		k := -1
		switch phase {
		case Compression:
			for i, st := range c.States {
				if st == Observing {
					continue
				}
				k++
				_, _, z := c.PointImpulse(k)
				budget[i] += -z * cors[i] * step
			}

			if !IsImpacting(vels, p) {
				if sum(budget) < p.MinMeaningfulImpulse {
					imp.debugf("  ** compression complete, no restitution")
					done = true
				} else {
					imp.debugf("  ** compression complete")
					phase = Restitution
					interval = 0
					report.Restituted = true
				}
			}

		case Restitution:
			for i, st := range c.States {
				if st == Observing {
					continue
				}
				k++
				_, _, z := c.PointImpulse(k)
				budget[i] -= -z * step
				if math.Abs(z) > p.MinMeaningfulImpulse {
					flags[i] = true
				}
			}
			if sum(budget) < p.MinMeaningfulImpulse {
				imp.debugf("  ** restitution complete")
				done = true
			}
		}
		imp.debugf("     budget = %v, rebounded = %v", budget, flags)

		if done {
			break
		}
	}

	copy(s.U, work.U)
	copy(rebounded, flags)
	return report, nil
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
