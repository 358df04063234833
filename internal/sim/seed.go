package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/barnes-hut-go/internal/config"
	"github.com/olivierh59500/barnes-hut-go/internal/physics"
)

// Spiral layout constants
const (
	spiralInnerRadius   = 65.0
	spiralArmSeparation = 26.0
	spiralAngleStep     = 0.004
	spiralRadiusJitter  = 15.0
	spiralAngleJitter   = 0.5
)

// Perlin layout constants
const (
	perlinAlpha    = 2.0
	perlinBeta     = 2.0
	perlinOctaves  = 3
	perlinScale    = 4.0 // noise periods across the domain
	perlinAttempts = 64
)

// Seed generates the initial bodies for cfg.Scenario. The result is the same
// for the same seed and always lies inside [0, L). An invalid cfg is rejected
// with config.ErrInvalid.
func Seed(cfg config.Config) ([]physics.Body, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sc := cfg.Scenario
	rng := rand.New(rand.NewSource(sc.Seed))
	switch sc.Layout {
	case config.LayoutSpiral:
		return seedSpiral(rng, sc, cfg.DomainSize), nil
	case config.LayoutUniform:
		return seedUniform(rng, sc, cfg.DomainSize), nil
	case config.LayoutPerlin:
		return seedPerlin(rng, sc, cfg.DomainSize), nil
	}
	return nil, fmt.Errorf("%w: unknown layout %q", config.ErrInvalid, sc.Layout)
}

// modWrap folds any finite coordinate into [0, l).
func modWrap(p physics.Vec, l float64) physics.Vec {
	x := math.Mod(p.X, l)
	if x < 0 {
		x += l
	}
	y := math.Mod(p.Y, l)
	if y < 0 {
		y += l
	}
	return physics.Wrap(physics.Vec{X: x, Y: y}, l)
}

func jitter(rng *rand.Rand, amp float64) float64 {
	return (rng.Float64()*2 - 1) * amp
}

// seedSpiral lays bodies along an Archimedean spiral around the centre of
// the domain, each moving tangentially with speed sqrt(r)*spin so the outer
// arms turn slower.
func seedSpiral(rng *rand.Rand, sc config.Scenario, l float64) []physics.Body {
	center := physics.Vec{X: l / 2, Y: l / 2}
	bodies := make([]physics.Body, sc.Bodies)
	angle := 0.0
	for i := range bodies {
		r := spiralInnerRadius + spiralArmSeparation*angle + jitter(rng, spiralRadiusJitter)
		theta := angle + jitter(rng, spiralAngleJitter)
		sin, cos := math.Sincos(theta)

		pos := r2.Add(center, physics.Vec{X: r * cos, Y: r * sin})
		vel := r2.Scale(math.Sqrt(math.Abs(r))*sc.Spin, physics.Vec{X: -sin, Y: cos})
		bodies[i] = physics.NewBody(modWrap(pos, l), vel, sc.Mass)

		angle += spiralAngleStep
	}
	return bodies
}

func seedUniform(rng *rand.Rand, sc config.Scenario, l float64) []physics.Body {
	bodies := make([]physics.Body, sc.Bodies)
	for i := range bodies {
		pos := physics.Vec{X: rng.Float64() * l, Y: rng.Float64() * l}
		bodies[i] = physics.NewBody(physics.Wrap(pos, l), physics.Vec{}, sc.Mass)
	}
	return bodies
}

// seedPerlin rejection-samples positions against a noise density so bodies
// start in filaments and voids instead of a flat field.
func seedPerlin(rng *rand.Rand, sc config.Scenario, l float64) []physics.Body {
	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, sc.Seed)
	bodies := make([]physics.Body, sc.Bodies)
	for i := range bodies {
		var pos physics.Vec
		for try := 0; try < perlinAttempts; try++ {
			pos = physics.Vec{X: rng.Float64() * l, Y: rng.Float64() * l}
			density := (noise.Noise2D(pos.X/l*perlinScale, pos.Y/l*perlinScale) + 1) / 2
			if rng.Float64() < density*density {
				break
			}
		}
		bodies[i] = physics.NewBody(physics.Wrap(pos, l), physics.Vec{}, sc.Mass)
	}
	return bodies
}
