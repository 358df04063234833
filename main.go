package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/barnes-hut-go/internal/config"
	"github.com/olivierh59500/barnes-hut-go/internal/sim"
	"github.com/olivierh59500/barnes-hut-go/internal/stream"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "Path to the simulation config (JSON)")
	bodies := flag.Int("bodies", 0, "Number of bodies (overrides config)")
	layout := flag.String("layout", "", "Initial layout: spiral, uniform or perlin")
	theta := flag.Float64("theta", 0, "Barnes-Hut opening angle")
	threads := flag.Int("threads", 0, "Worker count (0 = one per CPU)")
	solver := flag.String("solver", "", "Force solver: barnes-hut or direct")
	seed := flag.Int64("seed", 0, "Scenario random seed")
	serve := flag.String("serve", "", "Run headless and stream frames on this address (e.g. :8080)")
	withTree := flag.Bool("tree", false, "Include quadtree nodes in streamed frames")
	steps := flag.Int("steps", 0, "Run this many steps headless, log timings and exit")
	save := flag.String("save", "", "Write the effective config to this path and exit")
	width := flag.Int("width", 1000, "Window width")
	height := flag.Int("height", 1000, "Window height")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Only flags given on the command line override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bodies":
			cfg.Scenario.Bodies = *bodies
		case "layout":
			cfg.Scenario.Layout = *layout
		case "theta":
			cfg.OpeningAngle = *theta
		case "threads":
			cfg.ThreadCount = *threads
		case "solver":
			cfg.Solver = *solver
		case "seed":
			cfg.Scenario.Seed = *seed
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	if *save != "" {
		if err := config.Save(*save, cfg); err != nil {
			log.Fatalf("save config: %v", err)
		}
		log.Printf("config written to %s", *save)
		return
	}

	switch {
	case *steps > 0:
		if err := runBatch(cfg, *steps); err != nil {
			log.Fatalf("batch: %v", err)
		}

	case *serve != "":
		world, err := newWorld(cfg)
		if err != nil {
			log.Fatalf("world: %v", err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		opts := stream.Options{Addr: *serve, TickRate: cfg.TickRate, WithTree: *withTree}
		if err := stream.Serve(ctx, world, opts); err != nil {
			log.Fatalf("serve: %v", err)
		}
		log.Println("Shutting down...")

	default:
		game, err := NewSimulation(cfg, *configPath, *width, *height)
		if err != nil {
			log.Fatalf("simulation: %v", err)
		}
		ebiten.SetWindowSize(*width, *height)
		ebiten.SetWindowTitle("N-Body simulation")
		ebiten.SetTPS(cfg.TickRate)
		if err := ebiten.RunGame(game); err != nil {
			log.Fatal(err)
		}
	}
}

func newWorld(cfg config.Config) (*sim.World, error) {
	bodies, err := sim.Seed(cfg)
	if err != nil {
		return nil, err
	}
	return sim.NewWorld(cfg, bodies)
}

// runBatch steps the world without a window and logs throughput
func runBatch(cfg config.Config, steps int) error {
	world, err := newWorld(cfg)
	if err != nil {
		return err
	}
	log.Printf("running %d steps: %d bodies, %d workers, solver %s, theta %.2f",
		steps, len(world.Bodies()), world.Workers(), cfg.Solver, cfg.OpeningAngle)

	every := max(steps/10, 1)
	start := time.Now()
	lap := start
	for i := 1; i <= steps; i++ {
		if err := world.Step(); err != nil {
			return err
		}
		if i%every == 0 {
			st := world.Stats()
			log.Printf("step %d: %v/step, %d nodes, depth %d",
				i, time.Since(lap)/time.Duration(every), st.Nodes, st.MaxDepth)
			lap = time.Now()
		}
	}
	log.Printf("done in %v (%v/step)", time.Since(start), time.Since(start)/time.Duration(steps))
	return nil
}
