package inspect

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/keystate-dev/keystate"
)

const (
	// writeWait is the deadline for a single frame write.
	writeWait = 10 * time.Second

	// pongWait is how long the connection may stay silent.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// frameBuffer is the per-connection event queue. Events beyond the
	// buffer are dropped rather than blocking the store's emit loop.
	frameBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The inspector is a local development tool.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Frame is one streamed store event.
type Frame struct {
	// Type is "change" (Store write), "update" (Update write), or
	// "config" (configuration change).
	Type string `json:"type"`

	// Channel is the event channel name.
	Channel string `json:"channel"`

	// Prev is the previous value for change frames.
	Prev any `json:"prev,omitempty"`

	// Next is the new value for change and update frames.
	Next any `json:"next,omitempty"`

	// At is the server-side emission time.
	At time.Time `json:"at"`
}

// handleEvents upgrades the request and streams the instance's events until
// the client disconnects. Listeners are attached for every key present at
// connect time plus the configuration channel; keys created later are
// picked up by reconnecting.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.lookup(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	frames := make(chan Frame, frameBuffer)
	push := func(f Frame) {
		f.At = time.Now()
		select {
		case frames <- f:
		default:
			// Slow consumer: drop rather than stall dispatch.
		}
	}

	var unsubs []func()
	for key := range inst.ReadAll() {
		key := key
		unsubs = append(unsubs,
			inst.On(keystate.Key(key), func(args ...any) {
				push(Frame{
					Type:    "change",
					Channel: key,
					Prev:    sanitizeValue(args[0]),
					Next:    sanitizeValue(args[1]),
				})
			}),
			inst.On(keystate.KeyUpdate(key), func(args ...any) {
				push(Frame{
					Type:    "update",
					Channel: key + "-update",
					Next:    sanitizeValue(args[0]),
				})
			}),
		)
	}
	unsubs = append(unsubs, inst.On(keystate.ChannelConfig, func(args ...any) {
		push(Frame{Type: "config", Channel: "config"})
	}))

	// First frame on the wire: confirms all subscriptions are in place, so
	// clients can trigger writes as soon as they have read it.
	push(Frame{Type: "hello", Channel: inst.Name()})

	done := make(chan struct{})

	// Reader: consume control frames, detect disconnect.
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Writer: pump frames and keepalive pings.
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		for _, unsub := range unsubs {
			unsub()
		}
		conn.Close()
	}()

	for {
		select {
		case frame := <-frames:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
