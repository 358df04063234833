package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/olivierh59500/barnes-hut-go/internal/quadtree"
)

// DefaultPath is where the viewer saves its configuration, relative to the
// working directory.
const DefaultPath = "config/simulation.json"

// Solvers
const (
	SolverBarnesHut = "barnes-hut"
	SolverDirect    = "direct"
)

// Scenario layouts
const (
	LayoutSpiral  = "spiral"
	LayoutUniform = "uniform"
	LayoutPerlin  = "perlin"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Scenario describes the initial body distribution.
type Scenario struct {
	Layout string  `json:"layout"`
	Bodies int     `json:"bodies"`
	Mass   float64 `json:"mass"`
	Seed   int64   `json:"seed"`
	Spin   float64 `json:"spin"` // tangential speed factor for the spiral
}

// Config is the simulation configuration value shared by the tree and the
// step driver.
type Config struct {
	GravityConstant float64  `json:"gravity_constant"`
	Softening       float64  `json:"softening"`
	OpeningAngle    float64  `json:"opening_angle"`
	DomainSize      float64  `json:"domain_size"`
	LeafCapacity    int      `json:"leaf_capacity"`
	MaxDepth        int      `json:"max_depth"`
	ThreadCount     int      `json:"thread_count"` // 0 = one per CPU
	Solver          string   `json:"solver"`
	StrictDomain    bool     `json:"strict_domain"`
	TickRate        int      `json:"tick_rate"`
	Scenario        Scenario `json:"scenario"`
}

// Default returns the parameters of the reference spiral: 800 bodies of mass
// 500 with softening 3 on a 1000 unit torus. G is chosen so G*mass is 2, the
// per-body pull of the reference run.
func Default() Config {
	return Config{
		GravityConstant: 0.004,
		Softening:       3,
		OpeningAngle:    0.5,
		DomainSize:      1000,
		LeafCapacity:    1,
		MaxDepth:        24,
		ThreadCount:     0,
		Solver:          SolverBarnesHut,
		TickRate:        30,
		Scenario: Scenario{
			Layout: LayoutSpiral,
			Bodies: 800,
			Mass:   500,
			Seed:   1,
			Spin:   0.1,
		},
	}
}

// Tree projects the parameters the quadtree needs.
func (c Config) Tree() quadtree.Config {
	return quadtree.Config{
		DomainSize:      c.DomainSize,
		LeafCapacity:    c.LeafCapacity,
		MaxDepth:        c.MaxDepth,
		GravityConstant: c.GravityConstant,
	}
}

// Validate reports the first out-of-range parameter.
func (c Config) Validate() error {
	switch {
	case !(c.DomainSize > 0):
		return fmt.Errorf("%w: domain_size must be positive, got %v", ErrInvalid, c.DomainSize)
	case c.OpeningAngle < 0:
		return fmt.Errorf("%w: opening_angle must not be negative, got %v", ErrInvalid, c.OpeningAngle)
	case c.Softening < 0:
		return fmt.Errorf("%w: softening must not be negative, got %v", ErrInvalid, c.Softening)
	case c.LeafCapacity < 1:
		return fmt.Errorf("%w: leaf_capacity must be at least 1, got %d", ErrInvalid, c.LeafCapacity)
	case c.MaxDepth < 1:
		return fmt.Errorf("%w: max_depth must be at least 1, got %d", ErrInvalid, c.MaxDepth)
	case c.ThreadCount < 0:
		return fmt.Errorf("%w: thread_count must not be negative, got %d", ErrInvalid, c.ThreadCount)
	case c.TickRate < 1:
		return fmt.Errorf("%w: tick_rate must be at least 1, got %d", ErrInvalid, c.TickRate)
	case c.Solver != SolverBarnesHut && c.Solver != SolverDirect:
		return fmt.Errorf("%w: unknown solver %q", ErrInvalid, c.Solver)
	}
	switch c.Scenario.Layout {
	case LayoutSpiral, LayoutUniform, LayoutPerlin:
	default:
		return fmt.Errorf("%w: unknown layout %q", ErrInvalid, c.Scenario.Layout)
	}
	if c.Scenario.Bodies < 0 {
		return fmt.Errorf("%w: bodies must not be negative, got %d", ErrInvalid, c.Scenario.Bodies)
	}
	if !(c.Scenario.Mass > 0) {
		return fmt.Errorf("%w: mass must be positive, got %v", ErrInvalid, c.Scenario.Mass)
	}
	return nil
}

// Load reads a config file over Default(), so missing fields keep their
// defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg as indented JSON, creating the directory if needed.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
