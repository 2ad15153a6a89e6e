package plus

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

func particlesAt(heights ...float64) (*particles, *State) {
	model := newParticles(len(heights))
	s := model.NewState()
	for i, h := range heights {
		model.set(s, i, mgl64.Vec3{float64(i), 0, h}, mgl64.Vec3{})
	}
	return model, s
}

func expectAboveGround(t *testing.T, model Model, s *State, params Params) {
	t.Helper()
	for i := 0; i < model.NumPoints(); i++ {
		if h := model.PointPosition(s, i)[2]; h < -params.TolPositionFuzziness {
			t.Errorf("Point %v still below ground at %v", i, h)
		}
	}
}

func TestProjectExhaustive(t *testing.T) {
	params := DefaultParams()
	model, s := particlesAt(-0.01, -0.02, -0.03, -0.04)

	pr := NewProjecter(model, params, s)
	selected, err := pr.ProjectExhaustive(s)
	if err != nil {
		t.Fatal(err)
	}
	if pr.Evaluated != 15 || model.projectCalls != 15 {
		t.Errorf("Expected 15 subsets evaluated, got %v", pr.Evaluated)
	}
	if !reflect.DeepEqual(selected, []int{0, 1, 2, 3}) {
		t.Errorf("Expected all points selected, got %v", selected)
	}
	expectAboveGround(t, model, s, params)
}

func TestProjectExhaustiveTieGoesToLargerSet(t *testing.T) {
	params := DefaultParams()
	// Point 1 is proximal but within tolerance, so projecting it costs less
	// than the tie tolerance.
	model, s := particlesAt(-0.01, -5e-5, 1)

	selected, err := NewProjecter(model, params, s).ProjectExhaustive(s)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(selected, []int{0, 1}) {
		t.Errorf("Expected both proximal points, got %v", selected)
	}
	if z := s.Q[5]; z != 0 {
		t.Errorf("Expected point 1 projected to the ground, got %v", z)
	}
}

func TestProjectPruning(t *testing.T) {
	params := DefaultParams()
	model, s := particlesAt(-5e-5, -2e-5, -0.03, -0.04)
	model.maxPlanes = 2

	pr := NewProjecter(model, params, s)
	selected, err := pr.ProjectPruning(s)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(selected, []int{2, 3}) {
		t.Errorf("Expected the two deepest points, got %v", selected)
	}
	if pr.Evaluated != 3 {
		t.Errorf("Expected 3 attempts, got %v", pr.Evaluated)
	}
	expectAboveGround(t, model, s, params)
}

func TestProjectNoValidProjection(t *testing.T) {
	params := DefaultParams()
	model, s := particlesAt(-0.01, -0.02)
	model.failProject = true
	q := append([]float64(nil), s.Q...)

	pr := NewProjecter(model, params, s)
	if _, err := pr.ProjectExhaustive(s); !errors.Is(err, ErrNoValidProjection) {
		t.Errorf("Expected ErrNoValidProjection, got %v", err)
	}
	if _, err := pr.ProjectPruning(s); !errors.Is(err, ErrNoValidProjection) {
		t.Errorf("Expected ErrNoValidProjection, got %v", err)
	}
	if !reflect.DeepEqual(q, s.Q) {
		t.Error("A failed projection must not change Q")
	}
}

func TestProjectBrickFlat(t *testing.T) {
	params := DefaultParams()
	brick := NewBrick(2, mgl64.Vec3{0.2, 0.3, 0.4}, 0.1, NewMaterial(0.6, 1e-6, 0.1, 0.5))
	s := brick.NewState()
	brick.SetPosition(s, mgl64.Vec3{0, 0, 0.49})

	pr := NewProjecter(brick, params, s)
	if !reflect.DeepEqual(pr.Proximal(), []int{0, 2, 4, 6}) {
		t.Fatalf("Expected the bottom vertices proximal, got %v", pr.Proximal())
	}

	selected, err := pr.ProjectExhaustive(s)
	if err != nil {
		t.Fatal(err)
	}
	if pr.Evaluated != 15 {
		t.Errorf("Expected 15 subsets evaluated, got %v", pr.Evaluated)
	}
	if len(selected) != 4 {
		t.Errorf("Expected all four constraints, got %v", selected)
	}
	if z := brick.Position(s)[2]; z < 0.5-1e-6 || z > 0.5+1e-6 {
		t.Errorf("Expected the brick lifted to 0.5, got %v", z)
	}
	expectAboveGround(t, brick, s, params)
}
