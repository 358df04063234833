package sim

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/barnes-hut-go/internal/config"
	"github.com/olivierh59500/barnes-hut-go/internal/physics"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ThreadCount = 4
	return cfg
}

func body(x, y, vx, vy, m float64) physics.Body {
	return physics.NewBody(physics.Vec{X: x, Y: y}, physics.Vec{X: vx, Y: vy}, m)
}

func mustWorld(t *testing.T, cfg config.Config, bodies []physics.Body) *World {
	t.Helper()
	w, err := NewWorld(cfg, bodies)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestLoneBodyAtRestStays(t *testing.T) {
	w := mustWorld(t, testConfig(), []physics.Body{body(500, 500, 0, 0, 1)})
	if err := w.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	b := w.Bodies()[0]
	if b.Position != (physics.Vec{X: 500, Y: 500}) || b.Velocity != (physics.Vec{}) {
		t.Errorf("lone body moved: %+v", b)
	}
	if w.StepCount() != 1 {
		t.Errorf("step count %d, want 1", w.StepCount())
	}
}

func TestStepWrapsPositions(t *testing.T) {
	w := mustWorld(t, testConfig(), []physics.Body{body(999, 0.5, 2, -1, 1)})
	if err := w.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	got := w.Bodies()[0].Position
	if !scalar.EqualWithinAbs(got.X, 1, 1e-9) || !scalar.EqualWithinAbs(got.Y, 999.5, 1e-9) {
		t.Errorf("wrapped position %v, want (1, 999.5)", got)
	}
}

func TestStepIntegratesForceOverMass(t *testing.T) {
	cfg := testConfig()
	cfg.OpeningAngle = 0
	bodies := []physics.Body{body(400, 500, 0, 0.1, 2), body(450, 520, -0.2, 0, 5)}

	refs := physics.Refs(append([]physics.Body(nil), bodies...))
	want := make([]physics.Body, len(refs))
	for i, b := range refs {
		f := physics.DirectForce(b, refs, cfg.GravityConstant, cfg.Softening, cfg.DomainSize)
		v := r2.Add(b.Velocity, r2.Scale(1/b.Mass, f))
		want[i] = physics.Body{Position: r2.Add(b.Position, v), Velocity: v, Mass: b.Mass}
	}

	w := mustWorld(t, cfg, bodies)
	if err := w.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	for i, got := range w.Bodies() {
		if !scalar.EqualWithinAbs(got.Position.X, want[i].Position.X, 1e-9) ||
			!scalar.EqualWithinAbs(got.Position.Y, want[i].Position.Y, 1e-9) ||
			!scalar.EqualWithinAbs(got.Velocity.X, want[i].Velocity.X, 1e-9) ||
			!scalar.EqualWithinAbs(got.Velocity.Y, want[i].Velocity.Y, 1e-9) {
			t.Errorf("body %d: got %+v, want %+v", i, got, want[i])
		}
	}
}

func TestSolversAgreeAtThetaZero(t *testing.T) {
	cfg := testConfig()
	cfg.OpeningAngle = 0
	cfg.Scenario.Bodies = 150
	bodies, err := Seed(cfg)
	if err != nil {
		t.Fatal(err)
	}
	tree := mustWorld(t, cfg, bodies)
	cfg.Solver = config.SolverDirect
	direct := mustWorld(t, cfg, bodies)

	for s := 0; s < 5; s++ {
		if err := tree.Step(); err != nil {
			t.Fatalf("tree step: %v", err)
		}
		if err := direct.Step(); err != nil {
			t.Fatalf("direct step: %v", err)
		}
	}
	for i := range bodies {
		a, b := tree.Bodies()[i].Position, direct.Bodies()[i].Position
		if physics.Distance(a, b, cfg.DomainSize) > 1e-6 {
			t.Errorf("body %d: tree %v, direct %v", i, a, b)
		}
	}
}

func TestThreadCountDoesNotChangeResult(t *testing.T) {
	cfg := testConfig()
	cfg.Scenario.Bodies = 300
	bodies, err := Seed(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.ThreadCount = 1
	serial := mustWorld(t, cfg, bodies)
	cfg.ThreadCount = 7
	parallel := mustWorld(t, cfg, bodies)
	for s := 0; s < 3; s++ {
		serial.Step()
		parallel.Step()
	}
	for i := range bodies {
		if serial.Bodies()[i] != parallel.Bodies()[i] {
			t.Fatalf("body %d differs: %+v vs %+v", i, serial.Bodies()[i], parallel.Bodies()[i])
		}
	}
}

func TestStrictDomainAbortsStep(t *testing.T) {
	cfg := testConfig()
	cfg.StrictDomain = true
	bodies := []physics.Body{body(10, 10, 1, 1, 1), body(-5, 10, 0, 0, 1)}
	w := mustWorld(t, cfg, bodies)

	err := w.Step()
	if !errors.Is(err, ErrOutOfDomain) {
		t.Fatalf("expected ErrOutOfDomain, got %v", err)
	}
	for i, b := range w.Bodies() {
		if b != bodies[i] {
			t.Errorf("body %d mutated by aborted step: %+v", i, b)
		}
	}
	if w.StepCount() != 0 {
		t.Errorf("aborted step counted")
	}
}

func TestLenientDomainWrapsStrayBody(t *testing.T) {
	w := mustWorld(t, testConfig(), []physics.Body{body(-5, 10, 0, 0, 1)})
	if err := w.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if p := w.Bodies()[0].Position; !physics.InDomain(p, 1000) {
		t.Errorf("stray body not wrapped back: %v", p)
	}
}

func TestFailedWorkerLeavesBodiesUntouched(t *testing.T) {
	cfg := testConfig()
	cfg.Scenario.Bodies = 64
	bodies, err := Seed(cfg)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want error
		bad  func() physics.Vec
	}{
		{"nan", ErrNonFinite, func() physics.Vec { return physics.Vec{X: math.NaN()} }},
		{"panic", ErrWorkerPanic, func() physics.Vec { panic("lost body") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := mustWorld(t, cfg, bodies)
			victim := w.refs[40]
			healthy := w.force
			w.force = func(b *physics.Body) physics.Vec {
				if b == victim {
					return tt.bad()
				}
				return healthy(b)
			}

			err := w.Step()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			for i, b := range w.Bodies() {
				if b != bodies[i] {
					t.Fatalf("body %d partially updated: %+v", i, b)
				}
			}
		})
	}
}

func TestSpawnWrapsAndJoinsNextStep(t *testing.T) {
	w := mustWorld(t, testConfig(), []physics.Body{body(500, 500, 0, 0, 1)})
	w.Spawn(body(1010, -10, 0, 0, 1))

	if got := w.Bodies()[1].Position; got != (physics.Vec{X: 10, Y: 990}) {
		t.Errorf("spawned at %v, want (10, 990)", got)
	}
	if err := w.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if s := w.Stats(); s.Bodies != 2 {
		t.Errorf("tree holds %d bodies, want 2", s.Bodies)
	}
	if w.Bodies()[0].Velocity == (physics.Vec{}) {
		t.Error("spawned body exerted no pull")
	}
}

func TestDefaultSpiralStaysBounded(t *testing.T) {
	cfg := testConfig()
	bodies, err := Seed(cfg)
	if err != nil {
		t.Fatal(err)
	}
	w := mustWorld(t, cfg, bodies)
	limit := cfg.DomainSize / 10
	for s := 1; s <= 100; s++ {
		if err := w.Step(); err != nil {
			t.Fatalf("step %d: %v", s, err)
		}
		for i, b := range w.Bodies() {
			if v := r2.Norm(b.Velocity); v > limit {
				t.Fatalf("step %d: body %d moving at %.1f, limit %.1f", s, i, v, limit)
			}
		}
	}
}

func TestNewWorldRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.OpeningAngle = -1
	if _, err := NewWorld(cfg, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func BenchmarkStep(b *testing.B) {
	for _, threads := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("Bodies-10000-Threads-%d", threads), func(b *testing.B) {
			cfg := config.Default()
			cfg.ThreadCount = threads
			cfg.Scenario.Layout = config.LayoutUniform
			cfg.Scenario.Bodies = 10000
			bodies, _ := Seed(cfg)
			w, _ := NewWorld(cfg, bodies)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w.Step()
			}
		})
	}
}
