package keystate

import (
	"github.com/keystate-dev/keystate/internal/errors"
)

// Getter mediates reads of a computed key. It receives the owning instance,
// the key, and the raw stored value, and returns the value Read should
// report. A nil Getter reads the raw value directly.
type Getter func(in *Instance, key string, raw any) any

// Setter mediates writes of a computed key. It receives the key, the
// incoming value, and the previous raw value. Only results marked Safe are
// committed, and committed state still passes through the normal write path
// (validators and emission). A nil Setter accepts every write unconditionally.
type Setter func(key string, value any, prev any) SetResult

// SetResult is a Setter's verdict on a write.
type SetResult struct {
	// State is the value to commit when Safe is true.
	State any

	// Safe marks the write as accepted. Unsafe results leave stored state
	// untouched.
	Safe bool
}

// Commit marks value as safe to store.
func Commit(value any) SetResult {
	return SetResult{State: value, Safe: true}
}

// Reject discards the write.
func Reject() SetResult {
	return SetResult{}
}

// Computed describes a computed property: an initial value plus optional
// accessors that mediate reads and writes. Hidden keys are excluded from
// ReadAll snapshots.
type Computed struct {
	// State is the key's initial stored value.
	State any

	// Get mediates reads; nil reads the raw stored value.
	Get Getter

	// Set mediates writes; nil accepts writes unconditionally.
	Set Setter

	// Hidden excludes the key from ReadAll snapshots.
	Hidden bool
}

// Define resolves the entry and installs each key as a computed property.
// Every value must be a Computed descriptor (or a pointer to one); other
// values are skipped with a warning. The descriptor's State becomes the
// key's initial stored value, and subsequent Store writes on the key run
// through the descriptor's Set accessor.
//
// Returns the instance for chaining.
func (in *Instance) Define(entry Entry) *Instance {
	if in.dropIfPlaceholder() {
		return in
	}

	values, ok := entry.resolve(in)
	if !ok {
		in.reg.warn(errors.New("K040").WithDetail("Define on %q received an empty entry", in.name))
		return in
	}

	for _, key := range sortedKeys(values) {
		desc, ok := asComputed(values[key])
		if !ok {
			in.reg.warn(errors.New("K041").WithDetail("Define on %q: key %q is not a Computed descriptor", in.name, key))
			continue
		}

		in.mu.Lock()
		in.props[key] = property{value: desc.State, comp: &desc}
		in.mu.Unlock()
	}
	return in
}

func asComputed(v any) (Computed, bool) {
	switch desc := v.(type) {
	case Computed:
		return desc, true
	case *Computed:
		if desc != nil {
			return *desc, true
		}
	}
	return Computed{}, false
}
