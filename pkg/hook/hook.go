// Package hook binds component lifecycles to store instances.
//
// A component subscribes a map of channel listeners when it mounts and
// removes exactly those subscriptions when it unmounts:
//
//	unbind := hook.Bind(counter, map[keystate.Channel]keystate.ListenerFunc{
//	    keystate.Key("count"): onCount,
//	})
//	defer unbind()
//
// For components whose instance or listener map changes over time, Binding
// re-runs the subscribe/unsubscribe cycle whenever either identity changes.
package hook

import (
	"reflect"

	"github.com/keystate-dev/keystate"
)

// Listeners maps channels to their callbacks.
type Listeners map[keystate.Channel]keystate.ListenerFunc

// Bind subscribes every listener on the instance and returns an unbind
// function that removes exactly those subscriptions. Binding to a
// placeholder instance is harmless; the unbind is then a no-op.
func Bind(in *keystate.Instance, listeners Listeners) func() {
	unsubs := make([]func(), 0, len(listeners))
	for ch, fn := range listeners {
		unsubs = append(unsubs, in.On(ch, fn))
	}
	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
	}
}

// Binding tracks a component's current subscription cycle.
type Binding struct {
	inst      *keystate.Instance
	listeners Listeners
	unbind    func()
}

// NewBinding creates an unbound Binding.
func NewBinding() *Binding {
	return &Binding{}
}

// Rebind points the binding at the given instance and listener map. When
// either the instance reference or the listener map identity differs from
// the current cycle, the old subscriptions are removed and the new ones
// installed; otherwise the call is a no-op. Pass a nil instance to unbind.
func (b *Binding) Rebind(in *keystate.Instance, listeners Listeners) {
	if b.inst == in && sameIdentity(b.listeners, listeners) {
		return
	}

	if b.unbind != nil {
		b.unbind()
		b.unbind = nil
	}
	b.inst = in
	b.listeners = listeners

	if in != nil && listeners != nil {
		b.unbind = Bind(in, listeners)
	}
}

// Unbind removes the current subscriptions, if any.
func (b *Binding) Unbind() {
	b.Rebind(nil, nil)
}

// sameIdentity reports whether two listener maps are the same map value.
// Content equality is deliberately not considered: the contract re-runs the
// cycle on identity change, mirroring dependency arrays in UI frameworks.
func sameIdentity(a, b Listeners) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
