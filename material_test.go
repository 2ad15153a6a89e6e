package plus

import (
	"math"
	"testing"
)

func TestMaterialCOR(t *testing.T) {
	m := NewMaterial(0.6, 1e-6, 0.1, 0.5)
	for _, test := range []struct {
		speed, want float64
	}{
		{2.0, 0.5},
		{0.1, 0.5},
		{0.05, 0.75},
		{1e-7, 0},
		{0, 0},
	} {
		if got := m.COR(test.speed); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("COR(%v): expected %v, got %v", test.speed, test.want, got)
		}
	}

	// Just above the rebound threshold the response is nearly elastic.
	if got := m.COR(2e-6); got < 0.9999 {
		t.Errorf("Expected COR near 1, got %v", got)
	}
}

func TestMaterialRigidPlastic(t *testing.T) {
	m := NewMaterial(0.6, 0, 0, 0.3)
	if got := m.COR(1); got != 0.3 {
		t.Errorf("Expected MinCOR, got %v", got)
	}
}
