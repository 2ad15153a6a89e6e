package plus

import (
	"fmt"
	"math"
	"strings"
)

// TangentialState is the tangential behavior assumed for a proximal point.
type TangentialState int

const (
	Observing TangentialState = iota // no constraint enforced at the point
	Rolling                          // tangential velocity driven to zero
	Sliding                          // friction opposes the slip direction
)

func (t TangentialState) String() string {
	switch t {
	case Observing:
		return "O"
	case Rolling:
		return "R"
	case Sliding:
		return "S"
	}
	return "?"
}

// FormatStates renders an assignment the way the debug log prints it, e.g. "c[R O S]".
func FormatStates(prefix string, states []TangentialState) string {
	parts := make([]string, len(states))
	for i, st := range states {
		parts[i] = st.String()
	}
	return prefix + "[" + strings.Join(parts, " ") + "]"
}

// SolutionCategory classifies a solved candidate. Lower is better.
type SolutionCategory int

const (
	NoViolations SolutionCategory = iota
	ActiveConstraintDoesNothing
	RestitutionImpulsesIgnored
	TangentialVelocityTooLargeToStick
	StickingImpulseExceedsStictionLimit
	GroundAppliesAttractiveImpulse
	NegativePostCompressionNormalVelocity
	NoImpulsesApplied
	UnableToResolveUnknownSlipDirection
	MinStepCausesSlipDirectionReversal
	NotEvaluated

	numSolutionCategories = int(NotEvaluated) + 1
)

// WorstTolerableCategory is the worst category a selected candidate may have.
const WorstTolerableCategory = GroundAppliesAttractiveImpulse

var solutionCategoryNames = [...]string{
	NoViolations:                          "no violations",
	ActiveConstraintDoesNothing:           "active constraint does nothing",
	RestitutionImpulsesIgnored:            "restitution impulses ignored",
	TangentialVelocityTooLargeToStick:     "tangential velocity too large to stick",
	StickingImpulseExceedsStictionLimit:   "sticking impulse exceeds stiction limit",
	GroundAppliesAttractiveImpulse:        "ground applies attractive impulse",
	NegativePostCompressionNormalVelocity: "negative post-compression normal velocity",
	NoImpulsesApplied:                     "no impulses applied",
	UnableToResolveUnknownSlipDirection:   "unable to resolve unknown slip direction",
	MinStepCausesSlipDirectionReversal:    "minimum step causes slip direction reversal",
	NotEvaluated:                          "not evaluated",
}

func (c SolutionCategory) String() string {
	if c < 0 || int(c) >= len(solutionCategoryNames) {
		return fmt.Sprintf("SolutionCategory(%d)", int(c))
	}
	return solutionCategoryNames[c]
}

// Ranking orders candidates by category, then by fitness.
type Ranking struct {
	Category SolutionCategory
	Fitness  float64
}

func (r Ranking) Less(other Ranking) bool {
	if r.Category != other.Category {
		return r.Category < other.Category
	}
	return r.Fitness < other.Fitness
}

// Usable reports whether a candidate with this ranking may be selected.
func (r Ranking) Usable() bool {
	return r.Category <= WorstTolerableCategory && !math.IsInf(r.Fitness, 1) && !math.IsNaN(r.Fitness)
}

func (r Ranking) String() string {
	return fmt.Sprintf("%v (fitness %g)", r.Category, r.Fitness)
}

// Candidate is one tangential state assignment over the proximal points,
// together with its solution for the current sub-interval.
type Candidate struct {
	States []TangentialState

	// VelocityChange is the full-step change of the generalized speeds.
	VelocityChange []float64
	// Impulses holds x, y, z per active point, in proximal order.
	Impulses []float64

	Ranking Ranking
}

// NumActive returns the number of points that are not Observing.
func (c *Candidate) NumActive() int {
	var n int
	for _, st := range c.States {
		if st != Observing {
			n++
		}
	}
	return n
}

// PointImpulse returns the impulse on the k-th active point.
func (c *Candidate) PointImpulse(k int) (x, y, z float64) {
	return c.Impulses[3*k], c.Impulses[3*k+1], c.Impulses[3*k+2]
}

// ImpulseNorm is the 2-norm of all impulses.
func (c *Candidate) ImpulseNorm() float64 {
	var sum float64
	for _, v := range c.Impulses {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// NumCandidates returns 3^n - 1.
func NumCandidates(n int) int {
	total := 1
	for i := 0; i < n; i++ {
		total *= 3
	}
	return total - 1
}

// DecodeStates returns the k-th tangential state assignment of n points; digit
// i of k in base 3 is the state of point i.
func DecodeStates(k, n int) []TangentialState {
	states := make([]TangentialState, n)
	for i := range states {
		states[i] = TangentialState(k % 3)
		k /= 3
	}
	return states
}

// EnumerateCandidates returns every assignment of n points except the one in
// which every point is Observing. Each candidate starts NotEvaluated.
func EnumerateCandidates(n int) []*Candidate {
	total := NumCandidates(n)
	candidates := make([]*Candidate, 0, total)
	for k := 1; k <= total; k++ {
		candidates = append(candidates, &Candidate{
			States:  DecodeStates(k, n),
			Ranking: Ranking{Category: NotEvaluated, Fitness: math.Inf(1)},
		})
	}
	return candidates
}

// SelectCandidate returns the usable candidate with the best ranking, or -1.
// Earlier candidates win ties.
func SelectCandidate(candidates []*Candidate) int {
	best := -1
	for i, c := range candidates {
		if !c.Ranking.Usable() {
			continue
		}
		if best < 0 || c.Ranking.Less(candidates[best].Ranking) {
			best = i
		}
	}
	return best
}

// CategoryCounts tallies the candidates in each category.
func CategoryCounts(candidates []*Candidate) [numSolutionCategories]int {
	var counts [numSolutionCategories]int
	for _, c := range candidates {
		counts[c.Ranking.Category]++
	}
	return counts
}
