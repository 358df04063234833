// Package quadtree implements a Barnes-Hut quadtree over a square periodic
// domain.
//
// The tree is rebuilt from scratch every step on one goroutine. Once Rebuild
// returns, ComputeForce and Traverse only read the tree and may be called
// from any number of goroutines until the next Rebuild or Clear.
package quadtree

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/barnes-hut-go/internal/physics"
)

// Config holds the parameters fixed for the lifetime of a tree.
type Config struct {
	DomainSize      float64 // side of the periodic square, L
	LeafCapacity    int     // bodies a node holds before it splits
	MaxDepth        int     // nodes at this depth never split
	GravityConstant float64 // G
}

// Tree owns the root node spanning [0, DomainSize]². It only references
// bodies; the caller owns them and must not move them while the tree is in
// use.
type Tree struct {
	cfg  Config
	root node
}

// New returns an empty tree. Capacity and depth below 1 are raised to 1.
func New(cfg Config) *Tree {
	if cfg.LeafCapacity < 1 {
		cfg.LeafCapacity = 1
	}
	if cfg.MaxDepth < 1 {
		cfg.MaxDepth = 1
	}
	return &Tree{
		cfg: cfg,
		root: node{
			bounds: physics.Square{Size: cfg.DomainSize},
		},
	}
}

// Config returns the tree parameters.
func (t *Tree) Config() Config {
	return t.cfg
}

// Clear empties the tree.
func (t *Tree) Clear() {
	t.root.clear()
}

// Insert adds b to the tree. It returns false, leaving the tree unchanged,
// when b lies outside the domain square.
func (t *Tree) Insert(b *physics.Body) bool {
	return t.root.insert(b, &t.cfg, true)
}

// Rebuild clears the tree and inserts every body. It returns the number of
// bodies that were outside the domain and therefore left out.
func (t *Tree) Rebuild(bodies []*physics.Body) (dropped int) {
	t.Clear()
	for _, b := range bodies {
		if !t.Insert(b) {
			dropped++
		}
	}
	return dropped
}

// ComputeForce approximates the gravitational force on target from every
// other body in the tree. Nodes whose size over periodic distance falls
// below theta are taken as a single mass at their centre of mass; theta 0
// visits every body. eps softens the pair potential.
func (t *Tree) ComputeForce(target *physics.Body, theta, eps float64) physics.Vec {
	return r2.Scale(target.Mass, t.root.field(target, theta, eps, &t.cfg))
}
