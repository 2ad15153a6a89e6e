package plus

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

func testBrick() *Brick {
	return NewBrick(2, mgl64.Vec3{0.2, 0.3, 0.4}, 0.1, NewMaterial(0.6, 1e-6, 0.1, 0.5))
}

func TestBrickVertices(t *testing.T) {
	brick := testBrick()
	if brick.NumPoints() != 8 {
		t.Fatalf("Expected 8 points, got %v", brick.NumPoints())
	}
	if v := brick.Vertex(0); v != (mgl64.Vec3{-0.2, -0.3, -0.4}) {
		t.Errorf("Unexpected vertex 0: %v", v)
	}
	if v := brick.Vertex(1); v != (mgl64.Vec3{-0.2, -0.3, 0.4}) {
		t.Errorf("Unexpected vertex 1: %v", v)
	}
	if v := brick.Vertex(7); v != (mgl64.Vec3{0.2, 0.3, 0.4}) {
		t.Errorf("Unexpected vertex 7: %v", v)
	}
}

func TestBrickClampsParameters(t *testing.T) {
	brick := NewBrick(1, mgl64.Vec3{1, 1, 1}, -1, NewMaterial(-1, 2, 1, 3))
	if brick.SphereRadius() != 0 {
		t.Errorf("Expected radius clamped to 0, got %v", brick.SphereRadius())
	}
	m := brick.Material()
	if m.MuDyn != 0 || m.VMinRebound != 1 || m.MinCOR != 1 {
		t.Errorf("Unexpected clamped material %+v", m)
	}
}

func TestBrickPointKinematics(t *testing.T) {
	brick := testBrick()
	s := brick.NewState()
	brick.SetPosition(s, mgl64.Vec3{0, 0, 1})
	brick.SetAngularVelocity(s, mgl64.Vec3{0, 0, 1})

	if p := brick.PointPosition(s, 0); !vecNear(p, mgl64.Vec3{-0.2, -0.3, 0.5}, 1e-12) {
		t.Errorf("Unexpected position %v", p)
	}
	if v := brick.PointVelocity(s, 0); !vecNear(v, mgl64.Vec3{0.3, -0.2, 0}, 1e-12) {
		t.Errorf("Unexpected velocity %v", v)
	}
}

func TestBrickJacobianMatchesPointVelocity(t *testing.T) {
	brick := testBrick()
	s := brick.NewState()
	brick.SetTransform(s, mgl64.Vec3{0.1, -0.2, 0.7}, mgl64.QuatRotate(0.7, mgl64.Vec3{1, 2, 3}.Normalize()))
	s.SetU([]float64{0.3, -0.5, 1.1, 0.4, 0.2, -0.9})

	brick.SetPlaneAnchor(s, 5, brick.PointPosition(s, 5))
	brick.SetBallAnchor(s, 3, brick.PointPosition(s, 3))
	s.EnablePlane(5)
	s.EnableBall(3)

	g := brick.Jacobian(s)
	var v mat.VecDense
	v.MulVec(g, mat.NewVecDense(BodyNumU, s.U))

	if got, want := v.AtVec(0), brick.PointVelocity(s, 5)[2]; math.Abs(got-want) > 1e-12 {
		t.Errorf("Plane row: expected %v, got %v", want, got)
	}
	row := brick.RowOffset(s, 3)
	want := brick.PointVelocity(s, 3)
	for axis := 0; axis < 3; axis++ {
		if got := v.AtVec(row + axis); math.Abs(got-want[axis]) > 1e-12 {
			t.Errorf("Ball row %v: expected %v, got %v", axis, want[axis], got)
		}
	}
}

func TestBrickKineticEnergy(t *testing.T) {
	brick := testBrick()
	s := brick.NewState()
	brick.SetTransform(s, mgl64.Vec3{}, mgl64.QuatRotate(1.2, mgl64.Vec3{0, 1, 1}.Normalize()))
	s.SetU([]float64{0.5, -1, 2, 1, 0, -3})

	m := brick.MassMatrix(s)
	u := mat.NewVecDense(BodyNumU, s.U)
	want := 0.5 * mat.Inner(u, m, u)
	if got := brick.KineticEnergy(s); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected kinetic energy %v, got %v", want, got)
	}
	if !mat.EqualApprox(m, m.T(), 1e-12) {
		t.Error("Mass matrix must be symmetric")
	}
}

func TestBrickProjectQ(t *testing.T) {
	brick := testBrick()
	s := brick.NewState()
	brick.SetTransform(s, mgl64.Vec3{0, 0, 0.45}, mgl64.QuatRotate(0.05, mgl64.Vec3{1, 0, 0}))

	for _, i := range []int{0, 2, 4, 6} {
		brick.SetPlaneAnchor(s, i, brick.PointPosition(s, i))
		s.EnablePlane(i)
	}
	if err := brick.ProjectQ(s, 1e-9); err != nil {
		t.Fatal(err)
	}
	for _, i := range []int{0, 2, 4, 6} {
		if h := brick.PlaneHeight(s, i); math.Abs(h) > 1e-9 {
			t.Errorf("Plane %v left at height %v", i, h)
		}
	}
}
