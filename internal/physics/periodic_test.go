package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestDistanceWrapsAround(t *testing.T) {
	d := Distance(Vec{X: 0, Y: 0}, Vec{X: 999, Y: 0}, 1000)
	if !scalar.EqualWithinAbs(d, 1, 1e-12) {
		t.Errorf("expected wrapped distance 1, got %v", d)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pts := []Vec{
		{X: 0, Y: 0}, {X: 999, Y: 0}, {X: 500, Y: 500}, {X: 1, Y: 998},
		{X: 250, Y: 750}, {X: 499.5, Y: 0.5}, {X: 999.9, Y: 999.9},
	}
	for _, a := range pts {
		for _, b := range pts {
			ab := Distance(a, b, 1000)
			ba := Distance(b, a, 1000)
			if !scalar.EqualWithinAbs(ab, ba, 1e-9) {
				t.Errorf("Distance(%v,%v)=%v but Distance(%v,%v)=%v", a, b, ab, b, a, ba)
			}
			if ab > math.Sqrt2*500+1e-9 {
				t.Errorf("Distance(%v,%v)=%v exceeds half-diagonal", a, b, ab)
			}
		}
	}
}

func TestDeltaPicksShortestSide(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec
		want Vec
	}{
		{"direct", Vec{X: 10, Y: 10}, Vec{X: 5, Y: 2}, Vec{X: 5, Y: 8}},
		{"wrap x", Vec{X: 999, Y: 0}, Vec{X: 0, Y: 0}, Vec{X: -1, Y: 0}},
		{"wrap y", Vec{X: 0, Y: 2}, Vec{X: 0, Y: 998}, Vec{X: 0, Y: 4}},
		{"half period kept", Vec{X: 500, Y: 0}, Vec{X: 0, Y: 0}, Vec{X: 500, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Delta(tt.a, tt.b, 1000)
			if got != tt.want {
				t.Errorf("Delta(%v,%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in, want Vec
	}{
		{Vec{X: -1, Y: 5}, Vec{X: 999, Y: 5}},
		{Vec{X: 1000, Y: 1003}, Vec{X: 0, Y: 3}},
		{Vec{X: 0, Y: 999.5}, Vec{X: 0, Y: 999.5}},
		{Vec{X: -1e-18, Y: 0}, Vec{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		got := Wrap(tt.in, 1000)
		if got != tt.want {
			t.Errorf("Wrap(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if !InDomain(got, 1000) {
			t.Errorf("Wrap(%v) = %v is outside the domain", tt.in, got)
		}
	}
}
