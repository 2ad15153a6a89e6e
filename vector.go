package plus

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector is a velocity in the tangent plane of the ground (world X and Y).
type Vector struct {
	X, Y float64
}

// Tangential drops the normal component of a world-frame vector.
func Tangential(v mgl64.Vec3) Vector {
	return Vector{v[0], v[1]}
}

func (v Vector) String() string {
	return fmt.Sprintf("%f,%f", v.X, v.Y)
}

func (v Vector) Add(other Vector) Vector {
	return Vector{v.X + other.X, v.Y + other.Y}
}

func (v Vector) Sub(other Vector) Vector {
	return Vector{v.X - other.X, v.Y - other.Y}
}

func (v Vector) Neg() Vector {
	return Vector{-v.X, -v.Y}
}

func (v Vector) Mult(s float64) Vector {
	return Vector{v.X * s, v.Y * s}
}

func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y
}

func (v Vector) LengthSq() float64 {
	return v.Dot(v)
}

func (v Vector) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// ForAngle returns the unit length vector for the given angle (in radians).
func ForAngle(a float64) Vector {
	return Vector{math.Cos(a), math.Sin(a)}
}

func (v Vector) ToAngle() float64 {
	return math.Atan2(v.Y, v.X)
}

// ClosestT returns t in [0, 1] such that v + t*(b-v) is the point of segment
// v-b closest to the origin.
func (v Vector) ClosestT(b Vector) float64 {
	delta := b.Sub(v)
	lsq := delta.LengthSq()
	if lsq < significantReal {
		return 1
	}
	return Clamp01(v.Neg().Dot(delta) / lsq)
}

func Clamp(f, min, max float64) float64 {
	return math.Min(math.Max(f, min), max)
}

func Clamp01(f float64) float64 {
	return math.Max(0, math.Min(f, 1))
}

// significantReal is the smallest squared length treated as a real segment.
const significantReal = 1.0e-14

// TangentialAngle returns the angle between world X and the tangential part of
// vel, in [-pi, pi]. ok is false when the tangential speed is below tol and the
// direction cannot be trusted.
func TangentialAngle(vel mgl64.Vec3, tol float64) (angle float64, ok bool) {
	t := Tangential(vel)
	if t.Length() < tol {
		return math.NaN(), false
	}
	return t.ToAngle(), true
}

// AngleDiff returns the absolute difference of two angles in [-pi, pi],
// accounting for periodicity. The result is in [0, pi].
func AngleDiff(a, b float64) float64 {
	const twopi = 2 * math.Pi
	if a < 0 {
		a += twopi
	}
	if b < 0 {
		b += twopi
	}
	d := math.Abs(a - b)
	if d < math.Pi {
		return d
	}
	return twopi - d
}
