package plus

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// vecNear compares by distance; mgl64's ApproxEqual family switches to an
// eps squared bound when either operand is zero.
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestMomentForBox(t *testing.T) {
	i := MomentForBox(3, mgl64.Vec3{1, 2, 3})
	if !vecNear(i, mgl64.Vec3{13, 10, 5}, 1e-12) {
		t.Errorf("Unexpected moments %v", i)
	}

	body := NewBody(3, i)
	if body.Mass() != 3 || body.Moment() != i {
		t.Errorf("Unexpected mass properties %v %v", body.Mass(), body.Moment())
	}
}

func TestBodyTransformRoundTrip(t *testing.T) {
	body := NewBody(1, mgl64.Vec3{1, 2, 3})
	s := body.NewState(0)
	body.SetTransform(s, mgl64.Vec3{1, -2, 3}, mgl64.QuatRotate(0.9, mgl64.Vec3{1, 1, 0}.Normalize()))

	p := mgl64.Vec3{0.3, 0.2, -0.1}
	if got := body.WorldToLocal(s, body.LocalToWorld(s, p)); !vecNear(got, p, 1e-12) {
		t.Errorf("Expected %v, got %v", p, got)
	}
}

func TestBodyDisplace(t *testing.T) {
	body := NewBody(1, mgl64.Vec3{1, 1, 1})
	s := body.NewState(0)
	body.Displace(s, mgl64.Vec3{0, 0, math.Pi / 2}, mgl64.Vec3{0, 0, 1})

	if got := body.LocalToWorld(s, mgl64.Vec3{1, 0, 0}); !vecNear(got, mgl64.Vec3{0, 1, 1}, 1e-12) {
		t.Errorf("Expected (0, 1, 1), got %v", got)
	}
}

func TestBodyUpdatePosition(t *testing.T) {
	body := NewBody(1, mgl64.Vec3{1, 2, 3})
	s := body.NewState(0)
	body.SetAngularVelocity(s, mgl64.Vec3{0.1, 1, 0.2})
	body.SetVelocity(s, mgl64.Vec3{1, 0, 0})

	momentum := body.InertiaWorld(s).Mul3x1(body.AngularVelocity(s))
	for i := 0; i < 100; i++ {
		BodyUpdateVelocity(body, s, mgl64.Vec3{0, 0, -9.81}, 0.01)
		BodyUpdatePosition(body, s, 0.01)
	}

	if got := body.InertiaWorld(s).Mul3x1(body.AngularVelocity(s)); !vecNear(got, momentum, 1e-9*momentum.Len()) {
		t.Errorf("Angular momentum drifted from %v to %v", momentum, got)
	}
	if p := body.Position(s); math.Abs(p[0]-1) > 1e-9 || p[2] >= 0 {
		t.Errorf("Unexpected position %v", p)
	}
}
