package plus

import "math"

// Material holds the contact parameters shared by every point of a body.
type Material struct {
	MuDyn          float64 // dynamic friction coefficient
	VMinRebound    float64 // impacts slower than this do not rebound
	VPlasticDeform float64 // impacts at or above this use MinCOR
	MinCOR         float64
}

// NewMaterial clamps its arguments to physically reasonable values.
func NewMaterial(muDyn, vMinRebound, vPlasticDeform, minCOR float64) Material {
	m := Material{
		MuDyn:          math.Max(0, muDyn),
		VPlasticDeform: math.Max(0, vPlasticDeform),
		MinCOR:         Clamp(minCOR, 0, 1),
	}
	m.VMinRebound = Clamp(vMinRebound, 0, m.VPlasticDeform)
	return m
}

// COR returns the coefficient of restitution for an impact with the given
// closing speed: zero below VMinRebound, then falling linearly from 1 to
// MinCOR at VPlasticDeform.
func (m Material) COR(speed float64) float64 {
	if speed < m.VMinRebound {
		return 0
	}
	if m.VPlasticDeform == 0 {
		return m.MinCOR
	}
	line := 1 - speed*(1-m.MinCOR)/m.VPlasticDeform
	return math.Max(line, m.MinCOR)
}
