package plus

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const maxProjectIterations = 20

// Brick is a free rigid brick with a sphere attached at each of its eight
// vertices. The contact point of a sphere is its lowest point, and each point
// owns a plane constraint and a ball constraint that start disabled.
// All spheres share the same radius and material.
type Brick struct {
	*Body

	radius   float64
	material Material

	vertices []mgl64.Vec3
	planes   []*PlaneConstraint
	balls    []*BallConstraint
}

func NewBrick(mass float64, halfLengths mgl64.Vec3, sphereRadius float64, material Material) *Brick {
	brick := &Brick{
		Body:     NewBody(mass, MomentForBox(mass, halfLengths)),
		radius:   math.Max(0, sphereRadius),
		material: material,
	}

	for i := -1; i <= 1; i += 2 {
		for j := -1; j <= 1; j += 2 {
			for k := -1; k <= 1; k += 2 {
				vertex := mgl64.Vec3{
					float64(i) * halfLengths[0],
					float64(j) * halfLengths[1],
					float64(k) * halfLengths[2],
				}
				brick.vertices = append(brick.vertices, vertex)
				brick.planes = append(brick.planes, NewPlaneConstraint(brick.Body))
				brick.balls = append(brick.balls, NewBallConstraint(brick.Body))
			}
		}
	}
	return brick
}

func (b *Brick) NewState() *State {
	return b.Body.NewState(len(b.vertices))
}

func (b *Brick) SphereRadius() float64 {
	return b.radius
}

// Vertex returns the body-frame location of sphere center i.
func (b *Brick) Vertex(i int) mgl64.Vec3 {
	return b.vertices[i]
}

func (b *Brick) NumPoints() int {
	return len(b.vertices)
}

func (b *Brick) Material() Material {
	return b.material
}

// PointPosition returns the lowest point of sphere i in the ground frame.
func (b *Brick) PointPosition(s *State, i int) mgl64.Vec3 {
	return b.LocalToWorld(s, b.vertices[i]).Add(mgl64.Vec3{0, 0, -b.radius})
}

// PointVelocity returns the velocity of the body-fixed station at the lowest
// point of sphere i.
func (b *Brick) PointVelocity(s *State, i int) mgl64.Vec3 {
	return b.VelocityAtWorldPoint(s, b.PointPosition(s, i))
}

func (b *Brick) SetPlaneAnchor(s *State, i int, p mgl64.Vec3) {
	b.planes[i].SetLocation(s, p)
}

func (b *Brick) SetBallAnchor(s *State, i int, p mgl64.Vec3) {
	b.balls[i].SetLocation(s, p)
}

// PlaneHeight returns the height of point i's plane constraint follower.
func (b *Brick) PlaneHeight(s *State, i int) float64 {
	return b.planes[i].Height(s)
}

func (b *Brick) RowOffset(s *State, i int) int {
	return s.BallRowOffset(i)
}

// enabled lists the enabled constraints in multiplier row order: all planes in
// point order, then all balls in point order.
func (b *Brick) enabled(s *State) []Constrainer {
	var cons []Constrainer
	for i, c := range b.planes {
		if s.PlaneEnabled(i) {
			cons = append(cons, c)
		}
	}
	for i, c := range b.balls {
		if s.BallEnabled(i) {
			cons = append(cons, c)
		}
	}
	return cons
}

// Jacobian returns the rows of the enabled constraints, or an empty matrix
// when nothing is enabled.
func (b *Brick) Jacobian(s *State) *mat.Dense {
	rows := s.NumConstraintRows()
	if rows == 0 {
		return &mat.Dense{}
	}
	g := mat.NewDense(rows, BodyNumU, nil)
	row := 0
	for _, c := range b.enabled(s) {
		c.SetJacobianRows(s, g, row)
		row += c.Rows()
	}
	return g
}

func (b *Brick) constraintErrors(s *State) []float64 {
	errs := make([]float64, s.NumConstraintRows())
	row := 0
	for _, c := range b.enabled(s) {
		c.PositionErrors(s, errs[row:row+c.Rows()])
		row += c.Rows()
	}
	return errs
}

// ProjectQ runs Gauss-Newton on the enabled constraint errors, taking
// minimum-norm steps in rotation-vector/translation coordinates.
func (b *Brick) ProjectQ(s *State, tol float64) error {
	for iter := 0; ; iter++ {
		errs := b.constraintErrors(s)

		var worst float64
		for _, e := range errs {
			worst = math.Max(worst, math.Abs(e))
		}
		if worst <= tol {
			return nil
		}
		if iter == maxProjectIterations {
			return errors.Wrapf(ErrProjectionFailed, "residual %g after %d iterations", worst, iter)
		}

		rhs := make([]float64, len(errs))
		for i, e := range errs {
			rhs[i] = -e
		}
		d, err := SolveMinNorm(b.Jacobian(s), rhs, 1e-12)
		if err != nil {
			return errors.Wrap(ErrProjectionFailed, err.Error())
		}
		b.Displace(s, mgl64.Vec3{d[0], d[1], d[2]}, mgl64.Vec3{d[3], d[4], d[5]})
	}
}
