package plus

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Phase of an impact event.
type Phase int

const (
	Compression Phase = iota
	Restitution
)

func (p Phase) String() string {
	if p == Compression {
		return "compression"
	}
	return "restitution"
}

// prefix is the one-letter tag used when logging active sets.
func (p Phase) prefix() string {
	if p == Compression {
		return "c"
	}
	return "r"
}

// slidingRow tracks the slip direction of one Sliding point while its
// friction rows are iterated.
type slidingRow struct {
	point int // model point index
	row   int // row of the x multiplier in the augmented system
	angle float64
}

// setFriction points the friction impulse of the row against the slip
// direction. An undefined direction applies no friction.
func (r *slidingRow) setFriction(a *mat.Dense, mu float64) {
	rz := r.row + 2
	if math.IsNaN(r.angle) {
		a.Set(r.row, rz, 0)
		a.Set(r.row+1, rz, 0)
		return
	}
	dir := ForAngle(r.angle + math.Pi)
	a.Set(r.row, rz, -mu*dir.X)
	a.Set(r.row+1, rz, -mu*dir.Y)
}

// solveCandidate assembles [[M, G'], [G, 0]] [du; lambda] = [0; b] for the
// candidate at s, resolves the slip directions of its Sliding points and
// stores the solution in c.
func (imp *Impacter) solveCandidate(s0 *State, phase Phase, budget []float64, c *Candidate) {
	s := s0.Clone()
	s.DisableAll()
	for i, st := range c.States {
		if st != Observing {
			s.EnableBall(imp.proximal[i])
		}
	}

	mass := imp.model.MassMatrix(s)
	g := imp.model.Jacobian(s)
	n, _ := mass.Dims()
	m, _ := g.Dims()
	assert(m == 3*c.NumActive(), "Jacobian rows do not match active points")

	a := mat.NewDense(n+m, n+m, nil)
	a.Slice(0, n, 0, n).(*mat.Dense).Copy(mass)
	a.Slice(0, n, n, n+m).(*mat.Dense).Copy(g.T())
	a.Slice(n, n+m, 0, n).(*mat.Dense).Copy(g)
	b := make([]float64, n+m)

	mu := imp.model.Material().MuDyn
	zeroRow := func(row int) {
		for col := 0; col < n; col++ {
			a.Set(row, col, 0)
		}
	}

	var sliding []slidingRow
	for idx, st := range c.States {
		if st == Observing {
			continue
		}
		point := imp.proximal[idx]
		vel := imp.model.PointVelocity(s, point)
		rx := n + imp.model.RowOffset(s, point)
		ry, rz := rx+1, rx+2

		switch st {
		case Rolling:
			b[rx] = -vel[0]
			b[ry] = -vel[1]
		case Sliding:
			zeroRow(rx)
			zeroRow(ry)
			a.Set(rx, rx, 1)
			a.Set(ry, ry, 1)

			angle, _ := TangentialAngle(vel, imp.params.TolReliableDirection)
			row := slidingRow{point: point, row: rx, angle: angle}
			row.setFriction(a, mu)
			sliding = append(sliding, row)
		}

		if phase == Compression {
			b[rz] = -vel[2]
		} else {
			zeroRow(rz)
			a.Set(rz, rz, 1)
			b[rz] = -budget[idx]
		}
	}

	if len(sliding) > 0 {
		c.Ranking.Category = imp.resolveSlipDirections(s, a, b, n, sliding)
	}

	// One more solve reconciles the friction rows with the newest directions.
	sol, err := SolveMinNorm(a, b, imp.params.SolverRcond)
	if err != nil {
		imp.debugf("  ** %v: %v", FormatStates(phase.prefix(), c.States), err)
		sol = make([]float64, n+m)
		c.Ranking = Ranking{Category: NoImpulsesApplied, Fitness: math.Inf(1)}
	}
	c.VelocityChange = sol[:n]
	c.Impulses = sol[n:]
}

// resolveSlipDirections iterates the sliding friction directions to a fixed
// point: each pass solves the system, advances a copy of s by the minimum
// step, and re-aims the friction rows along the new tangential velocities.
// It returns NotEvaluated when the directions converged, or the terminal
// category otherwise.
func (imp *Impacter) resolveSlipDirections(s *State, a *mat.Dense, b []float64, n int, sliding []slidingRow) SolutionCategory {
	p := imp.params
	mu := imp.model.Material().MuDyn
	trial := s.Clone()

	for iter := 1; ; iter++ {
		if iter > p.MaxIterSlipDirection {
			imp.debugf("  ** slip directions unresolved after %d iterations", p.MaxIterSlipDirection)
			return UnableToResolveUnknownSlipDirection
		}

		sol, err := SolveMinNorm(a, b, p.SolverRcond)
		if err != nil {
			return NoImpulsesApplied
		}
		trial.CopyFrom(s)
		trial.AddScaledU(sol[:n], p.MinIntervalStepLength)

		var maxDif float64
		for k := range sliding {
			vel := imp.model.PointVelocity(trial, sliding[k].point)
			angle, _ := TangentialAngle(vel, p.TolReliableDirection)

			old := sliding[k].angle
			sliding[k].angle = angle
			if math.IsNaN(old) || math.IsNaN(angle) {
				maxDif = math.Inf(1)
			} else {
				maxDif = math.Max(maxDif, AngleDiff(old, angle))
			}
			sliding[k].setFriction(a, mu)
		}

		if maxDif < p.TolMaxDifDirIteration {
			return NotEvaluated
		}
		// A reversal under the minimum step means the point should stick.
		if math.Abs(maxDif-math.Pi) < p.TolMaxDifDirIteration {
			imp.debugf("  ** slip direction reverses; point will stick")
			return MinStepCausesSlipDirectionReversal
		}
	}
}

// classify ranks a solved candidate. The first matching violation decides the
// category.
func (imp *Impacter) classify(s *State, phase Phase, budget []float64, vels []mgl64.Vec3, c *Candidate) {
	if c.Ranking.Category < NotEvaluated {
		return
	}
	p := imp.params
	minImpulse := p.MinMeaningfulImpulse
	numActive := len(c.Impulses) / 3
	assert(len(c.Impulses)%3 == 0, "invalid number of impulses")

	norm := c.ImpulseNorm()
	if norm < minImpulse {
		c.Ranking = Ranking{NoImpulsesApplied, math.Inf(1)}
		return
	}

	if phase == Compression {
		full := s.Clone()
		full.AddScaledU(c.VelocityChange, 1)
		minVz := math.Inf(1)
		for _, point := range imp.proximal {
			minVz = math.Min(minVz, imp.model.PointVelocity(full, point)[2])
		}
		if minVz < -p.TolVelocityFuzziness {
			c.Ranking = Ranking{NegativePostCompressionNormalVelocity, -minVz}
			return
		}
	}

	var maxNormal float64
	for k := 0; k < numActive; k++ {
		_, _, z := c.PointImpulse(k)
		maxNormal = math.Max(maxNormal, z)
	}
	if maxNormal > minImpulse {
		c.Ranking = Ranking{GroundAppliesAttractiveImpulse, maxNormal}
		return
	}

	mu := imp.model.Material().MuDyn
	var maxExcess, maxTangVel float64
	k := -1
	for i, st := range c.States {
		if st == Observing {
			continue
		}
		k++
		if st != Rolling {
			continue
		}
		x, y, z := c.PointImpulse(k)
		if excess := math.Hypot(x, y) - mu*(-z); excess > minImpulse {
			maxExcess = math.Max(maxExcess, excess)
		}
		maxTangVel = math.Max(maxTangVel, Tangential(vels[i]).Length())
	}
	if maxExcess > minImpulse {
		c.Ranking = Ranking{StickingImpulseExceedsStictionLimit, maxExcess}
		return
	}
	if maxTangVel > p.MaxStickingTangVel {
		c.Ranking = Ranking{TangentialVelocityTooLargeToStick, maxTangVel}
		return
	}

	if phase == Restitution {
		var ignored float64
		for _, owed := range budget {
			ignored += owed
		}
		for k := 0; k < numActive; k++ {
			_, _, z := c.PointImpulse(k)
			ignored -= -z
		}
		if ignored > minImpulse*float64(len(budget)) {
			c.Ranking = Ranking{RestitutionImpulsesIgnored, ignored}
			return
		}
	}

	for k := 0; k < numActive; k++ {
		x, y, z := c.PointImpulse(k)
		if math.Sqrt(x*x+y*y+z*z) < minImpulse {
			c.Ranking = Ranking{ActiveConstraintDoesNothing, norm}
			return
		}
	}

	c.Ranking = Ranking{NoViolations, norm}
}

// evaluate solves and ranks one candidate for the sub-interval starting at s.
func (imp *Impacter) evaluate(s *State, phase Phase, budget []float64, vels []mgl64.Vec3, c *Candidate) {
	c.Ranking = Ranking{Category: NotEvaluated, Fitness: math.Inf(1)}
	imp.solveCandidate(s, phase, budget, c)
	imp.classify(s, phase, budget, vels, c)
	imp.debugf("  -> %v %v", FormatStates(phase.prefix(), c.States), c.Ranking)
}
