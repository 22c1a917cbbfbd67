// Package web provides a display driver that streams frames to
// browsers over websockets and takes button input back.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/pocketboy/internal/joypad"
	"github.com/thelolagemann/pocketboy/internal/ppu"
	"github.com/thelolagemann/pocketboy/pkg/display"
	"github.com/thelolagemann/pocketboy/pkg/log"
)

var (
	listenAddr    = ":8090"
	compression   = true
	framePatching = true
	frameSkipping = true
)

func init() {
	display.Install("web", NewHub(), []display.DriverOption{
		{
			Name:        "addr",
			Default:     ":8090",
			Value:       &listenAddr,
			Description: "address to serve websocket clients on",
			Type:        "string",
		},
		{
			Name:        "compression",
			Default:     true,
			Value:       &compression,
			Description: "brotli compress frames",
			Type:        "bool",
		},
		{
			Name:        "patching",
			Default:     true,
			Value:       &framePatching,
			Description: "send frames with few changes as patches",
			Type:        "bool",
		},
		{
			Name:        "skipping",
			Default:     true,
			Value:       &frameSkipping,
			Description: "skip frames identical to the last",
			Type:        "bool",
		},
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans frames out to every connected client and forwards
// their input to the emulator.
type Hub struct {
	Logger log.Logger

	enc        *encoder
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	events     chan<- joypad.Event
}

// NewHub returns a Hub with every encoder feature enabled. The
// package level options are applied when it is started.
func NewHub() *Hub {
	return &Hub{
		Logger:     log.NewNullLogger(),
		enc:        newEncoder(),
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
	}
}

// DrawFrame implements platform.FrameSink. Messages are dropped
// when the hub cannot keep up.
func (h *Hub) DrawFrame(frame *ppu.Frame) error {
	messages, err := h.enc.encode(frame)
	if err != nil {
		return fmt.Errorf("web: encoding frame: %w", err)
	}
	for _, m := range messages {
		select {
		case h.broadcast <- m:
		default:
			// a dropped message leaves clients out of step
			h.enc.requestReset()
		}
	}
	return nil
}

// Start serves clients on the configured address until ctx is
// cancelled.
func (h *Hub) Start(ctx context.Context, _ display.Config, events chan<- joypad.Event) error {
	h.events = events
	h.enc.configure(compression, framePatching, frameSkipping)

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.serveWS)
	srv := &http.Server{Addr: listenAddr, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		h.Logger.Infof("web: listening on %s", listenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	err := h.run(ctx, errc)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil && err == nil {
		err = serr
	}
	return err
}

// run owns the client set until ctx is done or the server fails.
func (h *Hub) run(ctx context.Context, errc <-chan error) error {
	defer func() {
		close(h.done)
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return fmt.Errorf("web: serving: %w", err)
		case c := <-h.register:
			h.clients[c] = struct{}{}
			c.send <- []byte{ClientInfo, h.enc.info()}
			h.enc.requestReset()
			h.Logger.Debugf("web: client %s connected", c.conn.RemoteAddr())
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.Logger.Debugf("web: client %s disconnected", c.conn.RemoteAddr())
			}
		case m := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- m:
				default:
					// slow client
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warnf("web: upgrading connection: %v", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 64)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// input forwards e to the emulator without blocking.
func (h *Hub) input(e joypad.Event) {
	if h.events == nil {
		return
	}
	select {
	case h.events <- e:
	default:
	}
}

// Stop implements display.Driver. Start releases everything when
// it returns.
func (h *Hub) Stop() error {
	return nil
}
