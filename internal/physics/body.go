package physics

import "gonum.org/v1/gonum/spatial/r2"

// Vec is a 2D vector in domain units.
type Vec = r2.Vec

// Body is a point mass. Bodies are referenced by address: two bodies may
// share a position and still be distinct.
type Body struct {
	Position Vec
	Velocity Vec
	Mass     float64
}

// NewBody returns a body at pos moving with vel. A non-positive mass is
// replaced by 1.
func NewBody(pos, vel Vec, mass float64) Body {
	if mass <= 0 {
		mass = 1
	}
	return Body{Position: pos, Velocity: vel, Mass: mass}
}

// Refs returns one pointer per element of bodies, in order.
func Refs(bodies []Body) []*Body {
	refs := make([]*Body, len(bodies))
	for i := range bodies {
		refs[i] = &bodies[i]
	}
	return refs
}
