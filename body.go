package plus

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Generalized coordinate layout of a free body:
// Q = [qw qx qy qz px py pz], U = [wx wy wz vx vy vz], all in the ground frame.
const (
	BodyNumQ = 7
	BodyNumU = 6
)

// Body is a free rigid body whose origin is its center of mass. Its
// configuration and velocity live in a State, so the same Body can be
// evaluated at many trial states.
type Body struct {
	m float64 // mass

	// principal moments of inertia about the center of mass
	i     mgl64.Vec3
	i_inv mgl64.Vec3
}

func NewBody(mass float64, moment mgl64.Vec3) *Body {
	body := &Body{}
	body.SetMass(mass)
	body.SetMoment(moment)
	return body
}

// MomentForBox returns the principal moments of a solid box of the given mass
// and half lengths.
func MomentForBox(mass float64, halfLengths mgl64.Vec3) mgl64.Vec3 {
	x2 := halfLengths[0] * halfLengths[0]
	y2 := halfLengths[1] * halfLengths[1]
	z2 := halfLengths[2] * halfLengths[2]
	return mgl64.Vec3{y2 + z2, x2 + z2, x2 + y2}.Mul(mass / 3)
}

func (body *Body) Mass() float64 {
	return body.m
}

func (body *Body) SetMass(mass float64) {
	assert(mass > 0, "Mass must be positive")
	body.m = mass
}

func (body *Body) Moment() mgl64.Vec3 {
	return body.i
}

func (body *Body) SetMoment(moment mgl64.Vec3) {
	assert(moment[0] > 0 && moment[1] > 0 && moment[2] > 0, "Moments must be positive")
	body.i = moment
	body.i_inv = mgl64.Vec3{1 / moment[0], 1 / moment[1], 1 / moment[2]}
}

func (body *Body) NewState(points int) *State {
	s := NewState(BodyNumQ, BodyNumU, points)
	body.SetTransform(s, mgl64.Vec3{}, mgl64.QuatIdent())
	return s
}

func (body *Body) Transform(s *State) Transform {
	q := mgl64.Quat{W: s.Q[0], V: mgl64.Vec3{s.Q[1], s.Q[2], s.Q[3]}}
	return NewTransformRigid(mgl64.Vec3{s.Q[4], s.Q[5], s.Q[6]}, q)
}

func (body *Body) SetTransform(s *State, p mgl64.Vec3, q mgl64.Quat) {
	q = q.Normalize()
	s.Q[0], s.Q[1], s.Q[2], s.Q[3] = q.W, q.V[0], q.V[1], q.V[2]
	s.Q[4], s.Q[5], s.Q[6] = p[0], p[1], p[2]
}

func (body *Body) Position(s *State) mgl64.Vec3 {
	return mgl64.Vec3{s.Q[4], s.Q[5], s.Q[6]}
}

func (body *Body) SetPosition(s *State, p mgl64.Vec3) {
	s.Q[4], s.Q[5], s.Q[6] = p[0], p[1], p[2]
}

func (body *Body) AngularVelocity(s *State) mgl64.Vec3 {
	return mgl64.Vec3{s.U[0], s.U[1], s.U[2]}
}

func (body *Body) SetAngularVelocity(s *State, w mgl64.Vec3) {
	s.U[0], s.U[1], s.U[2] = w[0], w[1], w[2]
}

func (body *Body) Velocity(s *State) mgl64.Vec3 {
	return mgl64.Vec3{s.U[3], s.U[4], s.U[5]}
}

func (body *Body) SetVelocity(s *State, v mgl64.Vec3) {
	s.U[3], s.U[4], s.U[5] = v[0], v[1], v[2]
}

func (body *Body) LocalToWorld(s *State, point mgl64.Vec3) mgl64.Vec3 {
	return body.Transform(s).Point(point)
}

func (body *Body) WorldToLocal(s *State, point mgl64.Vec3) mgl64.Vec3 {
	return NewTransformRigidInverse(body.Transform(s)).Point(point)
}

// VelocityAtWorldPoint is the velocity of the body-fixed station currently at
// point.
func (body *Body) VelocityAtWorldPoint(s *State, point mgl64.Vec3) mgl64.Vec3 {
	r := point.Sub(body.Position(s))
	return body.Velocity(s).Add(body.AngularVelocity(s).Cross(r))
}

// InertiaWorld returns the inertia tensor about the center of mass, expressed
// in the ground frame.
func (body *Body) InertiaWorld(s *State) mgl64.Mat3 {
	r := body.Transform(s).Matrix()
	return r.Mul3(mgl64.Diag3(body.i)).Mul3(r.Transpose())
}

func (body *Body) inverseInertiaWorld(s *State) mgl64.Mat3 {
	r := body.Transform(s).Matrix()
	return r.Mul3(mgl64.Diag3(body.i_inv)).Mul3(r.Transpose())
}

// MassMatrix is diag(I_world, m*1) in the U layout.
func (body *Body) MassMatrix(s *State) *mat.Dense {
	m := mat.NewDense(BodyNumU, BodyNumU, nil)
	iw := body.InertiaWorld(s)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, iw.At(r, c))
		}
		m.Set(3+r, 3+r, body.m)
	}
	return m
}

func (body *Body) KineticEnergy(s *State) float64 {
	v := body.Velocity(s)
	w := body.AngularVelocity(s)
	return 0.5 * (body.m*v.Dot(v) + w.Dot(body.InertiaWorld(s).Mul3x1(w)))
}

// Displace rotates the body by the rotation vector dtheta about its center of
// mass and translates it by dx.
func (body *Body) Displace(s *State, dtheta, dx mgl64.Vec3) {
	t := body.Transform(s)
	body.SetTransform(s, t.Translation().Add(dx), rotationVector(dtheta).Mul(t.Rotation()))
}

// setStationRows writes the rows of the station Jacobian [-skew(r) | 1] for
// the requested world axes into dst starting at row. r is the station's offset
// from the center of mass.
func setStationRows(dst *mat.Dense, row int, r mgl64.Vec3, axes ...int) {
	skew := [3][3]float64{
		{0, -r[2], r[1]},
		{r[2], 0, -r[0]},
		{-r[1], r[0], 0},
	}
	for k, axis := range axes {
		for c := 0; c < 3; c++ {
			dst.Set(row+k, c, -skew[axis][c])
		}
		dst.Set(row+k, 3+axis, 1)
	}
}

func BodyUpdateVelocity(body *Body, s *State, gravity mgl64.Vec3, dt float64) {
	body.SetVelocity(s, body.Velocity(s).Add(gravity.Mul(dt)))
}

// BodyUpdatePosition advances the configuration by dt, keeping the angular
// momentum about the center of mass constant as the inertia tensor rotates.
func BodyUpdatePosition(body *Body, s *State, dt float64) {
	w := body.AngularVelocity(s)
	l := body.InertiaWorld(s).Mul3x1(w)

	body.Displace(s, w.Mul(dt), body.Velocity(s).Mul(dt))
	body.SetAngularVelocity(s, body.inverseInertiaWorld(s).Mul3x1(l))
}
