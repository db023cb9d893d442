package keystate

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/keystate-dev/keystate/internal/errors"
)

// Registry is a namespace of independently named instances. It is an
// explicit context object: libraries and tests create their own registries
// for isolation, while applications typically use the package-level default.
type Registry struct {
	mu        sync.Mutex
	names     []string
	instances map[string]*Instance

	logger *slog.Logger
	strict bool
	stats  *Stats
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		instances: make(map[string]*Instance),
		logger:    slog.Default().With("component", "keystate"),
		stats:     NewStats(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register creates one instance per definition and feeds the resolved
// initial state through the normal write path. Initializer entries receive
// the newly created, not-yet-populated instance, so they may register
// listeners before the initial state lands. Names that already exist are
// skipped with a warning; the existing instance is kept.
//
// Definitions are processed in lexical name order. Returns the registry for
// chaining.
func (r *Registry) Register(defs map[string]Entry) *Registry {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r.register(name, defs[name])
	}
	return r
}

func (r *Registry) register(name string, entry Entry) {
	r.mu.Lock()
	if _, exists := r.instances[name]; exists {
		r.mu.Unlock()
		r.warn(errors.New("K001").WithDetail("instance %q is already registered; keeping the existing one", name))
		return
	}

	inst := newInstance(name, r)
	r.instances[name] = inst
	r.names = append(r.names, name)
	r.mu.Unlock()
	r.stats.instances.Add(1)

	// The write path resolves the entry, so Init functions see the live
	// instance and can attach listeners that observe the initial writes.
	inst.Store(entry)
}

// Use returns the instance registered under name. Lookups of unknown names
// degrade to a placeholder instance whose reads return nothing and whose
// writes are dropped, so callers never need nil checks; the miss is reported
// on the warning channel together with the known names.
func (r *Registry) Use(name string) *Instance {
	r.mu.Lock()
	inst, ok := r.instances[name]
	known := make([]string, len(r.names))
	copy(known, r.names)
	r.mu.Unlock()

	if !ok {
		r.warn(errors.New("K002").WithDetail("no instance named %q; registered: [%s]", name, strings.Join(known, ", ")))
		return newPlaceholder(name, r)
	}
	return inst
}

// Names returns all registered instance names in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Stats returns the registry's stats collector.
func (r *Registry) Stats() *Stats {
	return r.stats
}

// Logger returns the logger used for the warning channel.
func (r *Registry) Logger() *slog.Logger {
	return r.logger
}

// warn reports a recoverable misuse. Lenient registries log and move on;
// strict registries panic with the coded error.
func (r *Registry) warn(err *errors.Error) {
	r.stats.warnings.Add(1)
	if r.strict {
		panic(err)
	}
	r.logger.Warn(err.Message, "code", err.Code, "detail", err.Detail)
}

// defaultRegistry backs the package-level convenience functions.
var defaultRegistry = NewRegistry()

// Default returns the package-level registry.
func Default() *Registry {
	return defaultRegistry
}

// Register registers definitions on the default registry.
func Register(defs map[string]Entry) *Registry {
	return defaultRegistry.Register(defs)
}

// Use looks up an instance on the default registry.
func Use(name string) *Instance {
	return defaultRegistry.Use(name)
}

// Names lists instance names on the default registry.
func Names() []string {
	return defaultRegistry.Names()
}
