package keystate

import (
	"reflect"
	"sync/atomic"

	"github.com/keystate-dev/keystate/internal/errors"
)

// ListenerFunc receives the positional arguments of an emission. Key
// channels deliver (previous, new, *Instance); update channels deliver only
// the new value; the configuration channel delivers (Config, *Instance).
type ListenerFunc func(args ...any)

// subscription is one listener record. The id gives each registration a
// distinct identity for targeted removal; ptr carries the callback's
// function identity so Off can remove every record wrapping the same
// function.
type subscription struct {
	id  uint64
	ptr uintptr
	fn  ListenerFunc
}

var subSeq atomic.Uint64

// On appends the listener to the channel's dispatch sequence and returns an
// unsubscribe function bound to exactly this registration. With the
// Overwrite option, existing listeners on the channel are replaced instead.
//
// A nil listener is rejected with a warning and a no-op unsubscribe.
func (in *Instance) On(ch Channel, fn ListenerFunc, opts ...OnOption) func() {
	if fn == nil {
		in.reg.warn(errors.New("K060").WithDetail("On(%s) called with a nil listener on %q", ch, in.name))
		return func() {}
	}

	var cfg onConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sub := subscription{
		id:  subSeq.Add(1),
		ptr: reflect.ValueOf(fn).Pointer(),
		fn:  fn,
	}

	in.mu.Lock()
	existing := in.subs[ch]
	if cfg.overwrite && len(existing) > 0 {
		in.reg.stats.listeners.Add(int64(1 - len(existing)))
		in.subs[ch] = []subscription{sub}
	} else {
		in.reg.stats.listeners.Add(1)
		in.subs[ch] = append(existing, sub)
	}
	in.mu.Unlock()

	return func() {
		in.removeSub(ch, sub.id)
	}
}

// Off removes every listener record on the channel wrapping the same
// function, by identity. Returns the instance for chaining.
func (in *Instance) Off(ch Channel, fn ListenerFunc) *Instance {
	if fn == nil {
		return in
	}
	ptr := reflect.ValueOf(fn).Pointer()

	in.mu.Lock()
	kept := in.subs[ch][:0:0]
	for _, sub := range in.subs[ch] {
		if sub.ptr != ptr {
			kept = append(kept, sub)
		}
	}
	in.reg.stats.listeners.Add(int64(len(kept) - len(in.subs[ch])))
	if len(kept) == 0 {
		delete(in.subs, ch)
	} else {
		in.subs[ch] = kept
	}
	in.mu.Unlock()
	return in
}

// Clear removes the channel's entire listener sequence.
func (in *Instance) Clear(ch Channel) *Instance {
	in.mu.Lock()
	in.reg.stats.listeners.Add(int64(-len(in.subs[ch])))
	delete(in.subs, ch)
	in.mu.Unlock()
	return in
}

// Emit invokes every listener currently registered on the channel, in
// registration order, synchronously. Dispatch iterates a snapshot of the
// listener sequence, so listeners added or removed during dispatch do not
// affect the in-flight emission. Panics in a listener propagate to the
// caller; the bus provides no isolation between listeners.
func (in *Instance) Emit(ch Channel, args ...any) *Instance {
	in.mu.Lock()
	subs := make([]subscription, len(in.subs[ch]))
	copy(subs, in.subs[ch])
	in.mu.Unlock()

	for _, sub := range subs {
		in.reg.stats.emissions.Add(1)
		sub.fn(args...)
	}
	return in
}

// removeSub drops the single record carrying id.
func (in *Instance) removeSub(ch Channel, id uint64) {
	in.mu.Lock()
	defer in.mu.Unlock()

	subs := in.subs[ch]
	for i, sub := range subs {
		if sub.id == id {
			in.subs[ch] = append(subs[:i:i], subs[i+1:]...)
			in.reg.stats.listeners.Add(-1)
			if len(in.subs[ch]) == 0 {
				delete(in.subs, ch)
			}
			return
		}
	}
}
