package keystate

import "log/slog"

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for the warning channel.
// Default: slog.Default() with a "component" attribute.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithStrict makes the registry panic with the coded error on any condition
// that would otherwise only be warned about. Intended for tests and
// development builds, where silent degradation hides bugs.
func WithStrict() Option {
	return func(r *Registry) {
		r.strict = true
	}
}

// WithStats sets the stats collector shared by all instances of the
// registry. Default: a fresh collector per registry.
func WithStats(stats *Stats) Option {
	return func(r *Registry) {
		if stats != nil {
			r.stats = stats
		}
	}
}

// storeConfig holds per-call Store behavior.
type storeConfig struct {
	silent bool
}

// StoreOption configures a single Store call.
type StoreOption func(*storeConfig)

// Silent suppresses per-key emissions for this Store call. An instance
// configured with EmitOnStateSet still emits.
func Silent() StoreOption {
	return func(c *storeConfig) {
		c.silent = true
	}
}

// onConfig holds per-call On behavior.
type onConfig struct {
	overwrite bool
}

// OnOption configures a single On call.
type OnOption func(*onConfig)

// Overwrite replaces every existing listener on the channel with the new
// one, instead of appending.
func Overwrite() OnOption {
	return func(c *onConfig) {
		c.overwrite = true
	}
}
