package quadtree

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/barnes-hut-go/internal/physics"
)

// node is one square of the tree. It either holds bodies directly or owns
// exactly four children, never both.
type node struct {
	bounds   physics.Square
	depth    int
	children *[4]node
	bodies   []*physics.Body

	centerOfMass physics.Vec
	totalMass    float64
}

func (n *node) leaf() bool {
	return n.children == nil
}

// insert places b in the subtree. It is a no-op returning false when b is
// outside the node's square and checked is set.
func (n *node) insert(b *physics.Body, cfg *Config, checked bool) bool {
	if checked && !n.bounds.Contains(b.Position) {
		return false
	}
	if n.leaf() && (len(n.bodies) < cfg.LeafCapacity || n.depth >= cfg.MaxDepth) {
		n.bodies = append(n.bodies, b)
		n.aggregate()
		return true
	}
	if n.leaf() {
		n.subdivide()
		held := n.bodies
		n.bodies = nil
		for _, h := range held {
			n.place(h, cfg)
		}
	}
	n.place(b, cfg)
	n.aggregate()
	return true
}

// place hands b to the first child that contains it, in NW, NE, SW, SE
// order. Rounding at the far edge can leave b contained by the parent but
// by no child; it then goes to the child picked against the centre.
func (n *node) place(b *physics.Body, cfg *Config) {
	for i := range n.children {
		if n.children[i].insert(b, cfg, true) {
			return
		}
	}
	n.children[n.bounds.QuadrantOf(b.Position)].insert(b, cfg, false)
}

func (n *node) subdivide() {
	n.children = new([4]node)
	for q := physics.NW; q <= physics.SE; q++ {
		n.children[q] = node{
			bounds: n.bounds.Quadrant(q),
			depth:  n.depth + 1,
		}
	}
}

// aggregate recomputes mass and centre of mass from the direct bodies and
// the children's (already current) aggregates.
func (n *node) aggregate() {
	var mass float64
	var moment physics.Vec
	for _, b := range n.bodies {
		mass += b.Mass
		moment = r2.Add(moment, r2.Scale(b.Mass, b.Position))
	}
	if n.children != nil {
		for i := range n.children {
			c := &n.children[i]
			if c.totalMass == 0 {
				continue
			}
			mass += c.totalMass
			moment = r2.Add(moment, r2.Scale(c.totalMass, c.centerOfMass))
		}
	}
	n.totalMass = mass
	if mass > 0 {
		n.centerOfMass = r2.Scale(1/mass, moment)
	} else {
		n.centerOfMass = physics.Vec{}
	}
}

// clear drops the subtree and the direct bodies, keeping the bodies slice's
// capacity for the next rebuild.
func (n *node) clear() {
	n.children = nil
	for i := range n.bodies {
		n.bodies[i] = nil
	}
	n.bodies = n.bodies[:0]
	n.centerOfMass = physics.Vec{}
	n.totalMass = 0
}
