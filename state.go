package plus

// State is a snapshot of a model's generalized coordinates and speeds together
// with the set of temporary constraints currently enforced. States are plain
// values: Clone gives an independent copy for trial computations.
type State struct {
	Q []float64
	U []float64

	planes []bool
	balls  []bool
}

func NewState(nq, nu, points int) *State {
	return &State{
		Q:      make([]float64, nq),
		U:      make([]float64, nu),
		planes: make([]bool, points),
		balls:  make([]bool, points),
	}
}

func (s *State) Clone() *State {
	return &State{
		Q:      append([]float64(nil), s.Q...),
		U:      append([]float64(nil), s.U...),
		planes: append([]bool(nil), s.planes...),
		balls:  append([]bool(nil), s.balls...),
	}
}

// CopyFrom overwrites s with the coordinates, speeds and constraint flags of
// other.
func (s *State) CopyFrom(other *State) {
	copy(s.Q, other.Q)
	copy(s.U, other.U)
	copy(s.planes, other.planes)
	copy(s.balls, other.balls)
}

func (s *State) SetQ(q []float64) {
	assert(len(q) == len(s.Q), "Q size mismatch")
	copy(s.Q, q)
}

func (s *State) SetU(u []float64) {
	assert(len(u) == len(s.U), "U size mismatch")
	copy(s.U, u)
}

// AddScaledU advances the speeds by step*du.
func (s *State) AddScaledU(du []float64, step float64) {
	assert(len(du) == len(s.U), "U size mismatch")
	for i := range s.U {
		s.U[i] += step * du[i]
	}
}

func (s *State) EnablePlane(i int) {
	s.planes[i] = true
}

func (s *State) EnableBall(i int) {
	s.balls[i] = true
}

func (s *State) PlaneEnabled(i int) bool {
	return s.planes[i]
}

func (s *State) BallEnabled(i int) bool {
	return s.balls[i]
}

func (s *State) DisableAll() {
	for i := range s.planes {
		s.planes[i] = false
		s.balls[i] = false
	}
}

// NumConstraintRows is the number of multiplier rows of the enabled
// constraints: one per plane, three per ball.
func (s *State) NumConstraintRows() int {
	var n int
	for i := range s.planes {
		if s.planes[i] {
			n++
		}
		if s.balls[i] {
			n += 3
		}
	}
	return n
}

// BallRowOffset returns the first multiplier row of point i's ball
// constraint. Plane rows come first in point order, then ball rows.
func (s *State) BallRowOffset(i int) int {
	assert(s.balls[i], "ball constraint not enabled")
	var row int
	for j := range s.planes {
		if s.planes[j] {
			row++
		}
	}
	for j := 0; j < i; j++ {
		if s.balls[j] {
			row += 3
		}
	}
	return row
}
