package plus

import "github.com/go-gl/mathgl/mgl64"

// Transform is a rigid transform: a rotation followed by a translation.
type Transform struct {
	q mgl64.Quat
	p mgl64.Vec3
}

func NewTransformRigid(translate mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{q: rotation.Normalize(), p: translate}
}

func NewTransformRigidInverse(t Transform) Transform {
	inv := t.q.Conjugate()
	return Transform{q: inv, p: inv.Rotate(t.p).Mul(-1)}
}

// Point transforms a location.
func (t Transform) Point(p mgl64.Vec3) mgl64.Vec3 {
	return t.q.Rotate(p).Add(t.p)
}

// Vect transforms a direction (rotation only).
func (t Transform) Vect(v mgl64.Vec3) mgl64.Vec3 {
	return t.q.Rotate(v)
}

func (t Transform) Translation() mgl64.Vec3 {
	return t.p
}

func (t Transform) Rotation() mgl64.Quat {
	return t.q
}

// Matrix returns the rotation as a 3x3 matrix.
func (t Transform) Matrix() mgl64.Mat3 {
	return mgl64.Mat3FromCols(
		t.q.Rotate(mgl64.Vec3{1, 0, 0}),
		t.q.Rotate(mgl64.Vec3{0, 1, 0}),
		t.q.Rotate(mgl64.Vec3{0, 0, 1}),
	)
}

// rotationVector returns the unit quaternion rotating by |v| radians about v.
func rotationVector(v mgl64.Vec3) mgl64.Quat {
	angle := v.Len()
	if angle < 1e-12 {
		return mgl64.Quat{W: 1, V: v.Mul(0.5)}.Normalize()
	}
	return mgl64.QuatRotate(angle, v.Mul(1/angle))
}
