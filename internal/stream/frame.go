package stream

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/olivierh59500/barnes-hut-go/internal/quadtree"
	"github.com/olivierh59500/barnes-hut-go/internal/sim"
)

// BodyState is one body as sent to observers
type BodyState struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	M float64 `msgpack:"m"`
}

// NodeState is one non-empty quadtree node: origin, size and mass
type NodeState struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	S float64 `msgpack:"s"`
	M float64 `msgpack:"m"`
}

// Frame is the full state broadcast after each step
type Frame struct {
	Step       uint64      `msgpack:"step"`
	DomainSize float64     `msgpack:"l"`
	Bodies     []BodyState `msgpack:"b"`
	Nodes      []NodeState `msgpack:"n,omitempty"`
}

// NewFrame snapshots w. Empty tree nodes are skipped.
func NewFrame(w *sim.World, withTree bool) Frame {
	bodies := w.Bodies()
	f := Frame{
		Step:       w.StepCount(),
		DomainSize: w.Config().DomainSize,
		Bodies:     make([]BodyState, len(bodies)),
	}
	for i, b := range bodies {
		f.Bodies[i] = BodyState{X: b.Position.X, Y: b.Position.Y, M: b.Mass}
	}
	if withTree {
		w.Traverse(func(n quadtree.NodeInfo) bool {
			if n.TotalMass == 0 {
				return false
			}
			f.Nodes = append(f.Nodes, NodeState{
				X: n.Bounds.Origin.X,
				Y: n.Bounds.Origin.Y,
				S: n.Bounds.Size,
				M: n.TotalMass,
			})
			return true
		})
	}
	return f
}

// Encode marshals the frame with msgpack
func (f Frame) Encode() ([]byte, error) {
	return msgpack.Marshal(f)
}

// DecodeFrame is the inverse of Encode
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	err := msgpack.Unmarshal(data, &f)
	return f, err
}
