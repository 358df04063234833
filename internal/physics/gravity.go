package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PairForce is the softened attraction felt at from towards a mass at to,
// per unit of mass at from: unit(dir) * g*mass / (d² + eps²). Coincident
// points contribute nothing.
func PairForce(from, to Vec, mass, g, eps, l float64) Vec {
	dir := Delta(to, from, l)
	d2 := r2.Norm2(dir)
	if d2 == 0 {
		return Vec{}
	}
	mag := g * mass / (d2 + eps*eps)
	return r2.Scale(mag/math.Sqrt(d2), dir)
}

// DirectForce sums the softened force on target from every other body,
// O(n). It is the exact reference the tree approximates.
func DirectForce(target *Body, bodies []*Body, g, eps, l float64) Vec {
	var f Vec
	for _, b := range bodies {
		if b == target {
			continue
		}
		f = r2.Add(f, PairForce(target.Position, b.Position, b.Mass, g, eps, l))
	}
	return r2.Scale(target.Mass, f)
}
