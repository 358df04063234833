package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestPairForceCoincidentIsZero(t *testing.T) {
	p := Vec{X: 3, Y: 4}
	f := PairForce(p, p, 10, 2, 0, 100)
	if f != (Vec{}) {
		t.Errorf("expected zero force for coincident points, got %v", f)
	}
}

func TestPairForceMagnitudeAndDirection(t *testing.T) {
	from := Vec{X: 0, Y: 0}
	to := Vec{X: 3, Y: 4}
	f := PairForce(from, to, 5, 2, 1, 1000)
	want := 2 * 5 / (25.0 + 1)
	if !scalar.EqualWithinAbs(r2.Norm(f), want, 1e-12) {
		t.Errorf("magnitude = %v, want %v", r2.Norm(f), want)
	}
	if !scalar.EqualWithinAbs(f.X/want, 0.6, 1e-12) || !scalar.EqualWithinAbs(f.Y/want, 0.8, 1e-12) {
		t.Errorf("direction = %v, want (0.6, 0.8)", r2.Scale(1/want, f))
	}
}

func TestPairForceAcrossBoundary(t *testing.T) {
	f := PairForce(Vec{X: 1, Y: 500}, Vec{X: 999, Y: 500}, 1, 1, 0, 1000)
	if f.X >= 0 {
		t.Errorf("expected pull towards -x across the seam, got %v", f)
	}
	if !scalar.EqualWithinAbs(f.X, -0.25, 1e-12) {
		t.Errorf("f.X = %v, want -0.25", f.X)
	}
}

func TestDirectForceExcludesSelf(t *testing.T) {
	bodies := []Body{
		NewBody(Vec{X: 10, Y: 10}, Vec{}, 1),
		NewBody(Vec{X: 10, Y: 10}, Vec{}, 1),
		NewBody(Vec{X: 20, Y: 10}, Vec{}, 2),
	}
	refs := Refs(bodies)
	f := DirectForce(refs[0], refs, 1, 0, 1000)
	want := 2.0 / 100
	if !scalar.EqualWithinAbs(f.X, want, 1e-12) || f.Y != 0 {
		t.Errorf("DirectForce = %v, want (%v, 0)", f, want)
	}
	if math.IsNaN(f.X) || math.IsNaN(f.Y) {
		t.Error("coincident neighbour produced NaN")
	}
}
