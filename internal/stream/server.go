// Package stream publishes simulation frames to remote observers over
// websockets, encoded with msgpack.
package stream

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/olivierh59500/barnes-hut-go/internal/sim"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Routes configures the observer endpoint
func Routes(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}
		client := NewClient(hub, conn)
		if !hub.Register(client) {
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Options controls Serve
type Options struct {
	Addr     string
	TickRate int  // steps per second
	WithTree bool // include quadtree nodes in frames
}

// Serve steps w at opts.TickRate and broadcasts a frame after every step
// until ctx is cancelled or a step fails. The HTTP server and hub are shut
// down before it returns.
func Serve(ctx context.Context, w *sim.World, opts Options) error {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := &http.Server{Addr: opts.Addr, Handler: Routes(hub)}
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("streaming on %s", opts.Addr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer server.Close()

	return Loop(ctx, w, hub, opts, serveErr)
}

// Loop is the tick loop behind Serve
func Loop(ctx context.Context, w *sim.World, hub *Hub, opts Options, fatal <-chan error) error {
	rate := opts.TickRate
	if rate < 1 {
		rate = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-fatal:
			return err
		case <-ticker.C:
			if err := w.Step(); err != nil {
				return err
			}
			if hub.ClientCount() == 0 {
				continue
			}
			data, err := NewFrame(w, opts.WithTree).Encode()
			if err != nil {
				return err
			}
			hub.Broadcast(data)
		}
	}
}
