package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/barnes-hut-go/internal/config"
	"github.com/olivierh59500/barnes-hut-go/internal/quadtree"
	"github.com/olivierh59500/barnes-hut-go/internal/sim"
)

// Viewer constants
const (
	BodyRadius = 3.0
	MinZoom    = 0.1 // Limit zoom out to prevent excessive tiling
	MaxZoom    = 20.0
)

var (
	bodyColor = color.RGBA{255, 255, 255, 80}
	nodeColor = color.RGBA{80, 160, 255, 60}
)

// Simulation is the ebiten game wrapping a World
type Simulation struct {
	world      *sim.World
	cfg        config.Config
	configPath string

	Width, Height  int
	Paused         bool
	ShowTree       bool
	stepOnce       bool
	Zoom           float64
	CamX, CamY     float64 // Camera pan
	PrevMX, PrevMY float64 // Previous mouse position for drag
}

// NewSimulation builds a world from cfg and centres the camera on it
func NewSimulation(cfg config.Config, configPath string, width, height int) (*Simulation, error) {
	s := &Simulation{
		configPath: configPath,
		Width:      width,
		Height:     height,
		Zoom:       1.0,
	}
	if err := s.reset(cfg); err != nil {
		return nil, err
	}
	s.CamX = cfg.DomainSize/2 - float64(width)/2
	s.CamY = cfg.DomainSize/2 - float64(height)/2
	return s, nil
}

func (s *Simulation) reset(cfg config.Config) error {
	bodies, err := sim.Seed(cfg)
	if err != nil {
		return err
	}
	w, err := sim.NewWorld(cfg, bodies)
	if err != nil {
		return err
	}
	s.world = w
	s.cfg = cfg
	return nil
}

// Update is called each tick by Ebitengine. A failed step ends the game loop.
func (s *Simulation) Update() error {
	s.handleInput()

	if s.Paused && !s.stepOnce {
		return nil
	}
	s.stepOnce = false
	return s.world.Step()
}

// Draw is called each frame by Ebitengine
func (s *Simulation) Draw(screen *ebiten.Image) {
	screenWidth := float64(screen.Bounds().Dx())
	screenHeight := float64(screen.Bounds().Dy())
	l := s.cfg.DomainSize

	// Tile the torus over the visible world range
	dxFrom := math.Floor(s.CamX / l)
	dxTo := math.Ceil((s.CamX + screenWidth/s.Zoom) / l)
	dyFrom := math.Floor(s.CamY / l)
	dyTo := math.Ceil((s.CamY + screenHeight/s.Zoom) / l)

	r := BodyRadius * s.Zoom
	for dx := dxFrom; dx < dxTo; dx++ {
		for dy := dyFrom; dy < dyTo; dy++ {
			offsetX := dx * l
			offsetY := dy * l
			if s.ShowTree {
				s.drawTree(screen, offsetX, offsetY)
			}
			for _, b := range s.world.Bodies() {
				sx := s.worldToScreenX(b.Position.X + offsetX)
				sy := s.worldToScreenY(b.Position.Y + offsetY)
				if sx >= -r && sx <= screenWidth+r && sy >= -r && sy <= screenHeight+r {
					vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(r), bodyColor, true)
				}
			}
		}
	}

	st := s.world.Stats()
	status := ""
	if s.Paused {
		status = " [paused]"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"step %d%s\nbodies %d  workers %d  solver %s  theta %.2f\nnodes %d  leaves %d  depth %d\nFPS %.0f  TPS %.0f",
		s.world.StepCount(), status,
		len(s.world.Bodies()), s.world.Workers(), s.cfg.Solver, s.cfg.OpeningAngle,
		st.Nodes, st.Leaves, st.MaxDepth,
		ebiten.ActualFPS(), ebiten.ActualTPS(),
	))
}

// drawTree outlines every non-empty quadtree node
func (s *Simulation) drawTree(screen *ebiten.Image, offsetX, offsetY float64) {
	s.world.Traverse(func(n quadtree.NodeInfo) bool {
		if n.TotalMass == 0 {
			return false
		}
		size := n.Bounds.Size * s.Zoom
		if size < 2 {
			return false
		}
		x := s.worldToScreenX(n.Bounds.Origin.X + offsetX)
		y := s.worldToScreenY(n.Bounds.Origin.Y + offsetY)
		vector.StrokeRect(screen, float32(x), float32(y), float32(size), float32(size), 1, nodeColor, false)
		return true
	})
}

// Layout returns the screen size
func (s *Simulation) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.Width, s.Height
}

// handleInput processes keyboard and mouse input
func (s *Simulation) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.Paused = !s.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && s.Paused {
		s.stepOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		s.ShowTree = !s.ShowTree
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		cfg := s.cfg
		cfg.Scenario.Seed++
		if err := s.reset(cfg); err != nil {
			log.Printf("reseed: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := config.Save(s.configPath, s.cfg); err != nil {
			log.Printf("save config: %v", err)
		} else {
			log.Printf("config saved to %s", s.configPath)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		cfg, err := config.Load(s.configPath)
		if err == nil {
			err = s.reset(cfg)
		}
		if err != nil {
			log.Printf("load config: %v", err)
		}
	}

	// Zoom
	_, wheelY := ebiten.Wheel()
	s.Zoom = math.Min(math.Max(s.Zoom+wheelY*0.1, MinZoom), MaxZoom)

	// Pan (drag)
	mx, my := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.CamX -= (float64(mx) - s.PrevMX) / s.Zoom
		s.CamY -= (float64(my) - s.PrevMY) / s.Zoom
	}
	s.PrevMX = float64(mx)
	s.PrevMY = float64(my)
}

// worldToScreenX/Y for camera
func (s *Simulation) worldToScreenX(wx float64) float64 {
	return (wx - s.CamX) * s.Zoom
}
func (s *Simulation) worldToScreenY(wy float64) float64 {
	return (wy - s.CamY) * s.Zoom
}
