package keystate

import (
	"sort"
	"sync"

	"github.com/keystate-dev/keystate/internal/errors"
)

// property is the per-key storage variant: every key is either a plain
// stored value or a computed binding whose accessors mediate reads and
// writes of the same raw value.
type property struct {
	value any
	comp  *Computed
}

// Instance is one isolated, named store of keyed values, listeners, and
// configuration. Instances are created only through registry registration
// and live for the registry's lifetime.
type Instance struct {
	name        string
	reg         *Registry
	placeholder bool

	mu    sync.Mutex
	props map[string]property
	subs  map[Channel][]subscription
	cfg   *Config
}

func newInstance(name string, reg *Registry) *Instance {
	return &Instance{
		name:  name,
		reg:   reg,
		props: make(map[string]property),
		subs:  make(map[Channel][]subscription),
	}
}

// newPlaceholder builds the fail-soft stand-in returned for unknown names.
// Every read on it yields nothing and every write is dropped.
func newPlaceholder(name string, reg *Registry) *Instance {
	inst := newInstance(name, reg)
	inst.placeholder = true
	return inst
}

// Name returns the instance's registered name.
func (in *Instance) Name() string {
	return in.name
}

// Registry returns the registry that owns this instance.
func (in *Instance) Registry() *Registry {
	return in.reg
}

// Placeholder reports whether this instance was produced by a failed lookup.
func (in *Instance) Placeholder() bool {
	return in.placeholder
}

// Store resolves the entry and applies each key/value pair independently
// through the validation pipeline. Keys a validator refuses are dropped
// without affecting the other keys in the same call, so a batched write may
// partially apply.
//
// Accepted keys emit on their Key channel with (previous, new, instance)
// unless the call is Silent; an instance configured with EmitOnStateSet
// emits regardless. Returns the instance for chaining.
func (in *Instance) Store(entry Entry, opts ...StoreOption) *Instance {
	if in.dropIfPlaceholder() {
		return in
	}

	var cfg storeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	values, ok := entry.resolve(in)
	if !ok {
		in.reg.warn(errors.New("K040").WithDetail("Store on %q received an empty entry", in.name))
		return in
	}

	for _, key := range sortedKeys(values) {
		in.storeKey(key, values[key], !cfg.silent)
	}
	return in
}

// storeKey runs one key through the write pipeline: computed setter first,
// then the key's validator, then commit and emission.
func (in *Instance) storeKey(key string, value any, emit bool) {
	in.mu.Lock()
	prop := in.props[key]
	var validator Validator
	emitOnSet := false
	if in.cfg != nil {
		validator = in.cfg.Validators[key]
		emitOnSet = in.cfg.EmitOnStateSet
	}
	comp := prop.comp
	prevRaw := prop.value
	in.mu.Unlock()

	// Accessor and validator run without the lock held; both are user code
	// and may re-enter the instance.
	if comp != nil && comp.Set != nil {
		result := comp.Set(key, value, prevRaw)
		if !result.Safe {
			in.reg.stats.writesDropped.Add(1)
			return
		}
		value = result.State
	}

	if validator != nil && !validator(value) {
		in.reg.stats.writesRejected.Add(1)
		return
	}

	in.mu.Lock()
	prop = in.props[key]
	prev := prop.value
	prop.value = value
	in.props[key] = prop
	in.mu.Unlock()

	in.reg.stats.writesApplied.Add(1)
	if emit || emitOnSet {
		in.Emit(Key(key), prev, value, in)
	}
}

// Read returns the current value for key, or nil if the key is unset.
// Computed keys are resolved through their getter.
func (in *Instance) Read(key string) any {
	in.mu.Lock()
	prop := in.props[key]
	in.mu.Unlock()

	if prop.comp != nil && prop.comp.Get != nil {
		return prop.comp.Get(in, key, prop.value)
	}
	return prop.value
}

// ReadAll returns a snapshot of the stored mapping. Computed keys are
// resolved through their getters; keys defined Hidden are omitted.
// The returned map is a copy and may be mutated freely by the caller.
func (in *Instance) ReadAll() map[string]any {
	in.mu.Lock()
	props := make(map[string]property, len(in.props))
	for key, prop := range in.props {
		props[key] = prop
	}
	in.mu.Unlock()

	out := make(map[string]any, len(props))
	for key, prop := range props {
		if prop.comp != nil {
			if prop.comp.Hidden {
				continue
			}
			if prop.comp.Get != nil {
				out[key] = prop.comp.Get(in, key, prop.value)
				continue
			}
		}
		out[key] = prop.value
	}
	return out
}

// Update bulk-assigns states, bypassing validators, computed setters, and
// the emission policy entirely. Every key always emits on its KeyUpdate
// channel with only the new value. Intended for high-frequency writes that
// skip validation on purpose.
func (in *Instance) Update(states map[string]any) *Instance {
	if in.dropIfPlaceholder() {
		return in
	}

	for _, key := range sortedKeys(states) {
		value := states[key]
		in.mu.Lock()
		prop := in.props[key]
		prop.value = value
		in.props[key] = prop
		in.mu.Unlock()

		in.reg.stats.updates.Add(1)
		in.Emit(KeyUpdate(key), value)
	}
	return in
}

// SetConfig installs the instance configuration. An already-configured
// instance is left untouched with a warning; use UpdateConfig to merge into
// an existing configuration. On success the configuration channel emits with
// (Config, instance). Returns the instance for chaining.
func (in *Instance) SetConfig(src ConfigSource) *Instance {
	if in.dropIfPlaceholder() {
		return in
	}

	cfg, ok := src.resolve(in)
	if !ok {
		in.reg.warn(errors.New("K021").WithDetail("SetConfig on %q resolved to no configuration", in.name))
		return in
	}

	in.mu.Lock()
	if in.cfg != nil {
		in.mu.Unlock()
		in.reg.warn(errors.New("K020").WithDetail("instance %q is already configured; use UpdateConfig to merge", in.name))
		return in
	}
	in.cfg = &cfg
	in.mu.Unlock()

	in.Emit(ChannelConfig, cfg, in)
	return in
}

// UpdateConfig shallow-merges the resolved configuration into the existing
// one: the emit flag is overwritten and validators merge key-wise. An
// unconfigured instance is configured directly. Emits on the configuration
// channel.
func (in *Instance) UpdateConfig(src ConfigSource) *Instance {
	if in.dropIfPlaceholder() {
		return in
	}

	cfg, ok := src.resolve(in)
	if !ok {
		in.reg.warn(errors.New("K021").WithDetail("UpdateConfig on %q resolved to no configuration", in.name))
		return in
	}

	in.mu.Lock()
	if in.cfg != nil {
		merged := in.cfg.merge(cfg)
		cfg = merged
	}
	in.cfg = &cfg
	in.mu.Unlock()

	in.Emit(ChannelConfig, cfg, in)
	return in
}

// SetValidators merges the given validators into the instance configuration,
// leaving the emit flag as it is. Emits on the configuration channel.
func (in *Instance) SetValidators(validators map[string]Validator) *Instance {
	if in.dropIfPlaceholder() {
		return in
	}

	in.mu.Lock()
	if in.cfg == nil {
		in.cfg = &Config{}
	}
	if in.cfg.Validators == nil {
		in.cfg.Validators = make(map[string]Validator, len(validators))
	}
	for key, v := range validators {
		in.cfg.Validators[key] = v
	}
	cfg := *in.cfg
	in.mu.Unlock()

	in.Emit(ChannelConfig, cfg, in)
	return in
}

// dropIfPlaceholder reports whether the instance is a placeholder, logging
// the dropped operation at debug level.
func (in *Instance) dropIfPlaceholder() bool {
	if !in.placeholder {
		return false
	}
	err := errors.New("K061")
	in.reg.logger.Debug(err.Message, "code", err.Code, "instance", in.name)
	return true
}

// sortedKeys returns the map's keys in lexical order. Entries apply in a
// deterministic order so listener observations are reproducible.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
