package plus

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Constrainer is implemented by the temporary constraints a Brick places at
// its contact points.
type Constrainer interface {
	// Rows is the number of scalar constraint equations.
	Rows() int
	// PositionErrors writes the constraint violations at s into dst.
	PositionErrors(s *State, dst []float64)
	// SetJacobianRows writes the velocity Jacobian rows into dst at row.
	SetJacobianRows(s *State, dst *mat.Dense, row int)
}

// PlaneConstraint keeps a body-fixed follower point in the ground plane Z=0.
type PlaneConstraint struct {
	body     *Body
	Follower mgl64.Vec3 // body frame
}

func NewPlaneConstraint(body *Body) *PlaneConstraint {
	return &PlaneConstraint{body: body}
}

// SetLocation fixes the follower at the body point currently at p.
func (c *PlaneConstraint) SetLocation(s *State, p mgl64.Vec3) {
	c.Follower = c.body.WorldToLocal(s, p)
}

// Height returns the follower's height above the ground at s.
func (c *PlaneConstraint) Height(s *State) float64 {
	return c.body.LocalToWorld(s, c.Follower)[2]
}

func (c *PlaneConstraint) Rows() int {
	return 1
}

func (c *PlaneConstraint) PositionErrors(s *State, dst []float64) {
	dst[0] = c.Height(s)
}

func (c *PlaneConstraint) SetJacobianRows(s *State, dst *mat.Dense, row int) {
	r := c.body.Transform(s).Vect(c.Follower)
	setStationRows(dst, row, r, 2)
}

// BallConstraint ties a body-fixed station to a point fixed in the ground.
// Its three rows are ordered X, Y (tangential) then Z (normal).
type BallConstraint struct {
	body    *Body
	AnchorA mgl64.Vec3 // ground frame
	AnchorB mgl64.Vec3 // body frame
}

func NewBallConstraint(body *Body) *BallConstraint {
	return &BallConstraint{body: body}
}

// SetLocation places both anchors at p for configuration s.
func (c *BallConstraint) SetLocation(s *State, p mgl64.Vec3) {
	c.AnchorA = p
	c.AnchorB = c.body.WorldToLocal(s, p)
}

func (c *BallConstraint) Rows() int {
	return 3
}

func (c *BallConstraint) PositionErrors(s *State, dst []float64) {
	d := c.body.LocalToWorld(s, c.AnchorB).Sub(c.AnchorA)
	copy(dst, d[:])
}

func (c *BallConstraint) SetJacobianRows(s *State, dst *mat.Dense, row int) {
	r := c.body.Transform(s).Vect(c.AnchorB)
	setStationRows(dst, row, r, 0, 1, 2)
}
