package physics

// Quadrant indexes the four children of a square. The order is also the
// order in which children are offered a body.
type Quadrant int

const (
	NW Quadrant = iota
	NE
	SW
	SE
)

func (q Quadrant) String() string {
	switch q {
	case NW:
		return "NW"
	case NE:
		return "NE"
	case SW:
		return "SW"
	case SE:
		return "SE"
	}
	return "?"
}

// Square is an axis-aligned square region, y growing downward.
type Square struct {
	Origin Vec
	Size   float64
}

// Contains reports whether p lies in the square, edges included. A point on
// an edge shared by two siblings is contained by both.
func (s Square) Contains(p Vec) bool {
	return p.X >= s.Origin.X && p.X <= s.Origin.X+s.Size &&
		p.Y >= s.Origin.Y && p.Y <= s.Origin.Y+s.Size
}

// Center returns the midpoint of the square.
func (s Square) Center() Vec {
	h := s.Size / 2
	return Vec{X: s.Origin.X + h, Y: s.Origin.Y + h}
}

// Quadrant returns one quarter of the square.
func (s Square) Quadrant(q Quadrant) Square {
	h := s.Size / 2
	o := s.Origin
	switch q {
	case NE:
		o.X += h
	case SW:
		o.Y += h
	case SE:
		o.X += h
		o.Y += h
	}
	return Square{Origin: o, Size: h}
}

// QuadrantOf picks the quarter holding p by comparing with the centre.
// Points on the centre lines go to the lower quadrant, matching the
// NW, NE, SW, SE preference of Contains ties.
func (s Square) QuadrantOf(p Vec) Quadrant {
	c := s.Center()
	q := NW
	if p.X > c.X {
		q |= NE
	}
	if p.Y > c.Y {
		q |= SW
	}
	return q
}
