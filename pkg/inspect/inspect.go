// Package inspect serves a development-time HTTP inspector over a keystate
// registry: instance listings, state snapshots, write injection, live event
// streaming over WebSocket, and stats.
//
// The inspector reads the in-process registry only; it persists nothing and
// shares nothing across processes.
//
//	srv := inspect.New(reg,
//	    inspect.WithAddr(":7070"),
//	    inspect.WithMiddleware(middleware.Prometheus()),
//	)
//	if err := srv.Serve(ctx); err != nil {
//	    log.Fatal(err)
//	}
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/keystate-dev/keystate"
)

// Server is the inspector HTTP/WebSocket server.
type Server struct {
	reg        *keystate.Registry
	addr       string
	logger     *slog.Logger
	middleware []func(http.Handler) http.Handler

	httpServer *http.Server
}

// Option configures the inspector.
type Option func(*Server)

// WithAddr sets the listen address. Default: "127.0.0.1:7070".
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMiddleware appends HTTP middleware applied to every route.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(s *Server) {
		s.middleware = append(s.middleware, mw...)
	}
}

// New creates an inspector for the given registry.
func New(reg *keystate.Registry, opts ...Option) *Server {
	s := &Server{
		reg:    reg,
		addr:   "127.0.0.1:7070",
		logger: slog.Default().With("component", "inspect"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the inspector's routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	for _, mw := range s.middleware {
		r.Use(mw)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Get("/instances", s.handleListInstances)
	r.Get("/instances/{name}", s.handleGetInstance)
	r.Post("/instances/{name}", s.handleStoreInstance)
	r.Get("/instances/{name}/events", s.handleEvents)

	return r
}

// Serve runs the inspector until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // WebSocket streams manage their own deadlines
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", s.addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.Stats().Snapshot())
}

func (s *Server) handleListInstances(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"instances": s.reg.Names()})
}

func (s *Server) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":  inst.Name(),
		"state": sanitize(inst.ReadAll()),
	})
}

// handleStoreInstance feeds the posted key/value body through the normal
// write path, so validators and emission apply exactly as for in-process
// writes.
func (s *Server) handleStoreInstance(w http.ResponseWriter, r *http.Request) {
	inst, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be a JSON object"})
		return
	}

	inst.Store(keystate.Values(body))
	writeJSON(w, http.StatusOK, map[string]any{
		"name":  inst.Name(),
		"state": sanitize(inst.ReadAll()),
	})
}

// lookup resolves the route's instance, answering 404 for unknown names
// instead of the store's fail-soft placeholder.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*keystate.Instance, bool) {
	name := chi.URLParam(r, "name")
	inst := s.reg.Use(name)
	if inst.Placeholder() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown instance: " + name})
		return nil, false
	}
	return inst, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sanitize replaces values the JSON encoder cannot represent (functions,
// channels, cycles) with their string rendering, so snapshots never fail to
// serialize.
func sanitize(state map[string]any) map[string]any {
	out := make(map[string]any, len(state))
	for key, value := range state {
		out[key] = sanitizeValue(value)
	}
	return out
}

func sanitizeValue(v any) any {
	if _, err := json.Marshal(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return v
}
