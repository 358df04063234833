package quadtree

import (
	"github.com/olivierh59500/barnes-hut-go/internal/physics"
)

// NodeInfo is a read-only view of one node handed to Traverse visitors.
// CenterOfMass is meaningless when TotalMass is 0.
type NodeInfo struct {
	Bounds       physics.Square
	Depth        int
	TotalMass    float64
	CenterOfMass physics.Vec
	Bodies       int // held directly
	Leaf         bool
}

func (n *node) info() NodeInfo {
	return NodeInfo{
		Bounds:       n.bounds,
		Depth:        n.depth,
		TotalMass:    n.totalMass,
		CenterOfMass: n.centerOfMass,
		Bodies:       len(n.bodies),
		Leaf:         n.leaf(),
	}
}

func (n *node) walk(visit func(NodeInfo) bool) {
	if !visit(n.info()) || n.leaf() {
		return
	}
	for i := range n.children {
		n.children[i].walk(visit)
	}
}

// Traverse visits the nodes in pre-order (NW, NE, SW, SE). Returning false
// from visit skips that node's children.
func (t *Tree) Traverse(visit func(NodeInfo) bool) {
	t.root.walk(visit)
}

// Root returns the root node's view.
func (t *Tree) Root() NodeInfo {
	return t.root.info()
}

// Stats summarises the shape of the tree.
type Stats struct {
	Nodes    int
	Leaves   int
	MaxDepth int
	Bodies   int
}

// Stats walks the whole tree.
func (t *Tree) Stats() Stats {
	var s Stats
	t.Traverse(func(n NodeInfo) bool {
		s.Nodes++
		if n.Leaf {
			s.Leaves++
			s.Bodies += n.Bodies
		}
		if n.Depth > s.MaxDepth {
			s.MaxDepth = n.Depth
		}
		return true
	})
	return s
}
