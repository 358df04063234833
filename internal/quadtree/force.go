package quadtree

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/barnes-hut-go/internal/physics"
)

// field returns the softened acceleration at target from the subtree, per
// unit of target mass.
func (n *node) field(target *physics.Body, theta, eps float64, cfg *Config) physics.Vec {
	if n.totalMass == 0 {
		return physics.Vec{}
	}
	l, g := cfg.DomainSize, cfg.GravityConstant

	if n.leaf() {
		var f physics.Vec
		for _, b := range n.bodies {
			if b == target {
				continue
			}
			f = r2.Add(f, physics.PairForce(target.Position, b.Position, b.Mass, g, eps, l))
		}
		return f
	}

	// size/d < theta, written without dividing so d == 0 always opens the
	// node. A node around the target is always opened so its own mass never
	// leaks back in through the aggregate.
	d := physics.Distance(target.Position, n.centerOfMass, l)
	if d > 0 && n.bounds.Size < theta*d && !n.bounds.Contains(target.Position) {
		return physics.PairForce(target.Position, n.centerOfMass, n.totalMass, g, eps, l)
	}

	var f physics.Vec
	for i := range n.children {
		f = r2.Add(f, n.children[i].field(target, theta, eps, cfg))
	}
	return f
}
