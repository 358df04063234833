// Package sim drives the simulation: it rebuilds the tree, computes forces
// across a worker pool and integrates bodies on the torus.
package sim

import (
	"errors"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/barnes-hut-go/internal/config"
	"github.com/olivierh59500/barnes-hut-go/internal/physics"
	"github.com/olivierh59500/barnes-hut-go/internal/quadtree"
)

var (
	// ErrOutOfDomain is returned in strict mode when bodies fall outside
	// [0, L) and would be missing from the tree.
	ErrOutOfDomain = errors.New("bodies outside the domain")
	// ErrNonFinite is returned when a force comes out NaN or infinite.
	ErrNonFinite = errors.New("non-finite force")
)

// World owns the bodies and advances them one step at a time. It is not
// safe for concurrent use; parallelism lives inside Step.
type World struct {
	cfg    config.Config
	bodies []physics.Body
	refs   []*physics.Body
	tree   *quadtree.Tree
	pool   *Pool
	force  func(b *physics.Body) physics.Vec
	steps  uint64

	// scratch, committed only when every phase succeeds
	forces     []physics.Vec
	velocities []physics.Vec
	positions  []physics.Vec
}

// NewWorld validates cfg and takes a copy of bodies.
func NewWorld(cfg config.Config, bodies []physics.Body) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		cfg:  cfg,
		tree: quadtree.New(cfg.Tree()),
		pool: NewPool(cfg.ThreadCount),
	}
	switch cfg.Solver {
	case config.SolverDirect:
		w.force = func(b *physics.Body) physics.Vec {
			return physics.DirectForce(b, w.refs, cfg.GravityConstant, cfg.Softening, cfg.DomainSize)
		}
	default:
		w.force = func(b *physics.Body) physics.Vec {
			return w.tree.ComputeForce(b, cfg.OpeningAngle, cfg.Softening)
		}
	}
	w.Reset(bodies)
	return w, nil
}

// Reset replaces every body and the step counter.
func (w *World) Reset(bodies []physics.Body) {
	w.bodies = append(w.bodies[:0], bodies...)
	w.refs = physics.Refs(w.bodies)
	w.steps = 0
	w.tree.Clear()
}

// Spawn adds a body between steps, wrapping its position into the domain.
func (w *World) Spawn(b physics.Body) {
	b.Position = physics.Wrap(b.Position, w.cfg.DomainSize)
	w.bodies = append(w.bodies, b)
	// append may have moved the backing array
	w.refs = physics.Refs(w.bodies)
}

// Bodies returns the bodies. The slice is owned by the world and is only
// stable between steps.
func (w *World) Bodies() []physics.Body {
	return w.bodies
}

// Config returns the configuration the world was built with.
func (w *World) Config() config.Config {
	return w.cfg
}

// StepCount returns the number of completed steps.
func (w *World) StepCount() uint64 {
	return w.steps
}

// Workers returns the width of the worker pool.
func (w *World) Workers() int {
	return w.pool.Workers()
}

// Traverse walks the tree built by the last step.
func (w *World) Traverse(visit func(quadtree.NodeInfo) bool) {
	w.tree.Traverse(visit)
}

// Stats describes the tree built by the last step.
func (w *World) Stats() quadtree.Stats {
	return w.tree.Stats()
}

// Step advances every body once. The tree is rebuilt on the calling
// goroutine, then forces, velocities and positions are each computed across
// the pool with a barrier between phases. Bodies are only written once all
// phases succeed, so a failed step leaves them untouched.
func (w *World) Step() error {
	if dropped := w.tree.Rebuild(w.refs); dropped > 0 {
		if w.cfg.StrictDomain {
			return fmt.Errorf("step %d: %w: %d", w.steps, ErrOutOfDomain, dropped)
		}
		log.Printf("step %d: %d bodies outside the domain left out of the tree", w.steps, dropped)
	}

	n := len(w.bodies)
	w.grow(n)
	l := w.cfg.DomainSize

	err := w.pool.Range(n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			f := w.force(w.refs[i])
			if math.IsNaN(f.X) || math.IsNaN(f.Y) || math.IsInf(f.X, 0) || math.IsInf(f.Y, 0) {
				return fmt.Errorf("%w: body %d", ErrNonFinite, i)
			}
			w.forces[i] = f
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("step %d: force pass: %w", w.steps, err)
	}

	err = w.pool.Range(n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			b := &w.bodies[i]
			w.velocities[i] = r2.Add(b.Velocity, r2.Scale(1/b.Mass, w.forces[i]))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("step %d: velocity pass: %w", w.steps, err)
	}

	err = w.pool.Range(n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			w.positions[i] = physics.Wrap(r2.Add(w.bodies[i].Position, w.velocities[i]), l)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("step %d: position pass: %w", w.steps, err)
	}

	for i := range w.bodies {
		w.bodies[i].Velocity = w.velocities[i]
		w.bodies[i].Position = w.positions[i]
	}
	w.steps++
	return nil
}

func (w *World) grow(n int) {
	if cap(w.forces) < n {
		w.forces = make([]physics.Vec, n)
		w.velocities = make([]physics.Vec, n)
		w.positions = make([]physics.Vec, n)
	}
	w.forces = w.forces[:n]
	w.velocities = w.velocities[:n]
	w.positions = w.positions[:n]
}
