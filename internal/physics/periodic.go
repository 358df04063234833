package physics

import "gonum.org/v1/gonum/spatial/r2"

// shortest folds one signed component difference onto [-l/2, l/2].
func shortest(d, l float64) float64 {
	if d < -l/2 {
		d += l
	} else if d > l/2 {
		d -= l
	}
	return d
}

// Delta returns a-b taking the shortest way around a torus of side l.
func Delta(a, b Vec, l float64) Vec {
	return Vec{X: shortest(a.X-b.X, l), Y: shortest(a.Y-b.Y, l)}
}

// Distance is the length of Delta(a, b, l).
func Distance(a, b Vec, l float64) float64 {
	return r2.Norm(Delta(a, b, l))
}

// wrap moves x into [0, l) with at most one period of correction.
func wrap(x, l float64) float64 {
	if x < 0 {
		x += l
	} else if x >= l {
		x -= l
	}
	// -tiny + l rounds to l
	if x >= l || x < 0 {
		return 0
	}
	return x
}

// Wrap maps p into [0, l) on both axes. Displacements larger than one
// period are not corrected.
func Wrap(p Vec, l float64) Vec {
	return Vec{X: wrap(p.X, l), Y: wrap(p.Y, l)}
}

// InDomain reports whether p lies in [0, l) on both axes. NaN never does.
func InDomain(p Vec, l float64) bool {
	return p.X >= 0 && p.X < l && p.Y >= 0 && p.Y < l
}
