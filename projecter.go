package plus

import (
	"log"
	"math"

	"github.com/pkg/errors"
)

// Projecter removes interpenetration by projecting the configuration onto a
// subset of the proximal points' plane constraints.
type Projecter struct {
	model    Model
	params   Params
	proximal []int
	heights  []float64

	// Evaluated counts the projections attempted by the last search.
	Evaluated int

	Debug *log.Logger
}

// NewProjecter finds the points proximal in s and anchors each one's plane
// constraint at its current position.
func NewProjecter(model Model, params Params, s *State) *Projecter {
	proximal := FindProximal(model, s, params)
	heights := make([]float64, len(proximal))
	for i, point := range proximal {
		pos := model.PointPosition(s, point)
		model.SetPlaneAnchor(s, point, pos)
		heights[i] = pos[2]
	}
	return &Projecter{
		model:    model,
		params:   params,
		proximal: proximal,
		heights:  heights,
	}
}

func (pr *Projecter) Proximal() []int {
	return pr.proximal
}

func (pr *Projecter) debugf(format string, args ...interface{}) {
	if pr.Debug != nil {
		pr.Debug.Printf(format, args...)
	}
}

// project enables the plane constraints of the given proximal positions on a
// copy of s and projects it. It returns the projected copy and its distance
// from s, or nil and +Inf when the projection fails or leaves any point below
// the ground.
func (pr *Projecter) project(s *State, subset []int) (*State, float64) {
	tmp := s.Clone()
	tmp.DisableAll()
	for _, idx := range subset {
		tmp.EnablePlane(pr.proximal[idx])
	}

	pr.Evaluated++
	if err := pr.model.ProjectQ(tmp, pr.params.TolProjectQ); err != nil {
		pr.debugf("     %v: %v", subset, err)
		return nil, math.Inf(1)
	}
	if IsInterpenetrating(pr.model, tmp, pr.params) {
		pr.debugf("     %v: still interpenetrating", subset)
		return nil, math.Inf(1)
	}

	var d float64
	for i := range s.Q {
		d += (tmp.Q[i] - s.Q[i]) * (tmp.Q[i] - s.Q[i])
	}
	return tmp, math.Sqrt(d)
}

// subsetFromBits lists the positions of the set bits of k.
func subsetFromBits(k, n int) []int {
	var subset []int
	for i := 0; i < n; i++ {
		if k&(1<<uint(i)) != 0 {
			subset = append(subset, i)
		}
	}
	return subset
}

// ProjectExhaustive tries every non-empty subset of the proximal plane
// constraints and commits the projection that moves Q the least. Near-ties
// go to the subset with more constraints. It returns the chosen positions in
// the proximal set.
func (pr *Projecter) ProjectExhaustive(s *State) ([]int, error) {
	n := len(pr.proximal)
	if n == 0 {
		return nil, errors.WithStack(ErrNoProximalPoints)
	}
	pr.Evaluated = 0
	pr.debugf("  -> %d proximal point(s), %d combination(s)", n, (1<<uint(n))-1)

	var best []int
	var bestState *State
	bestDist := math.Inf(1)
	for k := 1; k < 1<<uint(n); k++ {
		subset := subsetFromBits(k, n)
		tmp, d := pr.project(s, subset)
		pr.debugf("     d=%10.6g  %v", d, subset)

		if d < bestDist-pr.params.TolProjectQ ||
			(math.Abs(d-bestDist) < pr.params.TolProjectQ && len(subset) > len(best)) {
			best, bestState, bestDist = subset, tmp, d
		}
	}

	if bestState == nil {
		return nil, errors.Wrapf(ErrNoValidProjection, "exhaustive search over %d subsets", (1<<uint(n))-1)
	}
	s.SetQ(bestState.Q)
	pr.debugf("  -> exhaustive search selected %v", best)
	return best, nil
}

// ProjectPruning starts with every proximal plane constraint and, while the
// projection fails, drops the one whose point started highest. It returns the
// surviving positions in the proximal set.
func (pr *Projecter) ProjectPruning(s *State) ([]int, error) {
	n := len(pr.proximal)
	if n == 0 {
		return nil, errors.WithStack(ErrNoProximalPoints)
	}
	pr.Evaluated = 0

	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	for len(active) > 0 {
		tmp, d := pr.project(s, active)
		pr.debugf("     %v d=%g", active, d)
		if tmp != nil {
			s.SetQ(tmp.Q)
			pr.debugf("  -> pruning search selected %v", active)
			return active, nil
		}

		drop := 0
		for j := range active {
			if pr.heights[active[j]] > pr.heights[active[drop]] {
				drop = j
			}
		}
		active = append(active[:drop:drop], active[drop+1:]...)
	}
	return nil, errors.Wrapf(ErrNoValidProjection, "pruning search over %d points", n)
}
