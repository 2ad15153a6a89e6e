package plus

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

// Model is the rigid-body system the resolvers operate on. Points are
// addressed by a stable index in [0, NumPoints()).
type Model interface {
	NumPoints() int
	Material() Material

	// World-frame position and velocity of point i.
	PointPosition(s *State, i int) mgl64.Vec3
	PointVelocity(s *State, i int) mgl64.Vec3

	// Place the plane (one row) or ball (three rows) constraint of point i at
	// the world location p for configuration s.
	SetPlaneAnchor(s *State, i int, p mgl64.Vec3)
	SetBallAnchor(s *State, i int, p mgl64.Vec3)

	// RowOffset locates the first multiplier row of point i's ball
	// constraint among the constraints enabled in s.
	RowOffset(s *State, i int) int

	// MassMatrix and Jacobian of the constraints enabled in s. The Jacobian
	// maps generalized speeds to constraint velocities.
	MassMatrix(s *State) *mat.Dense
	Jacobian(s *State) *mat.Dense

	// ProjectQ moves s.Q to satisfy the enabled position constraints to
	// within tol. It returns an error wrapping ErrProjectionFailed otherwise.
	ProjectQ(s *State, tol float64) error
}

// IsProximal reports whether a point at p is close enough to the ground to
// take part in contact resolution.
func IsProximal(p mgl64.Vec3, params Params) bool {
	return p[2] < params.TolPositionFuzziness
}

// FindProximal returns the indices of the points of m that are proximal in s.
func FindProximal(m Model, s *State, params Params) []int {
	var proximal []int
	for i := 0; i < m.NumPoints(); i++ {
		if IsProximal(m.PointPosition(s, i), params) {
			proximal = append(proximal, i)
		}
	}
	return proximal
}

// IsInterpenetrating reports whether any point of m is below the ground by
// more than the position tolerance.
func IsInterpenetrating(m Model, s *State, params Params) bool {
	for i := 0; i < m.NumPoints(); i++ {
		if m.PointPosition(s, i)[2] < -params.TolPositionFuzziness {
			return true
		}
	}
	return false
}

// IsImpacting reports whether any of the given velocities closes on the
// ground faster than the velocity tolerance.
func IsImpacting(vels []mgl64.Vec3, params Params) bool {
	for _, v := range vels {
		if v[2] < -params.TolVelocityFuzziness {
			return true
		}
	}
	return false
}

// PointVelocities returns the velocities of the listed points.
func PointVelocities(m Model, s *State, points []int) []mgl64.Vec3 {
	vels := make([]mgl64.Vec3, len(points))
	for i, p := range points {
		vels[i] = m.PointVelocity(s, p)
	}
	return vels
}
