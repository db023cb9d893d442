package keystate

import (
	"testing"
)

func TestEmitOrder(t *testing.T) {
	in := testInstance(t, map[string]any{})

	var order []int
	in.On(Key("x"), func(args ...any) { order = append(order, 1) })
	in.On(Key("x"), func(args ...any) { order = append(order, 2) })
	in.On(Key("x"), func(args ...any) { order = append(order, 3) })

	in.Emit(Key("x"))

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("expected registration order [1 2 3], got %v", order)
	}
}

func TestUnsubscribeFunc(t *testing.T) {
	in := testInstance(t, map[string]any{})

	calls := 0
	unsub := in.On(Key("x"), func(args ...any) { calls++ })

	in.Emit(Key("x"))
	unsub()
	in.Emit(Key("x"))

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}

	// Unsubscribing twice is harmless.
	unsub()
}

func TestOffRemovesAllByIdentity(t *testing.T) {
	in := testInstance(t, map[string]any{})

	calls := 0
	listener := ListenerFunc(func(args ...any) { calls++ })
	other := 0
	in.On(Key("x"), listener)
	in.On(Key("x"), listener)
	in.On(Key("x"), func(args ...any) { other++ })

	in.Off(Key("x"), listener)
	in.Emit(Key("x"))

	if calls != 0 {
		t.Errorf("Off should remove every record of the listener, got %d calls", calls)
	}
	if other != 1 {
		t.Errorf("other listeners should survive, got %d calls", other)
	}
}

func TestOnOverwrite(t *testing.T) {
	in := testInstance(t, map[string]any{})

	var first, second int
	in.On(Key("x"), func(args ...any) { first++ })
	in.On(Key("x"), func(args ...any) { second++ }, Overwrite())

	in.Emit(Key("x"))

	if first != 0 {
		t.Errorf("overwritten listener should not fire, got %d", first)
	}
	if second != 1 {
		t.Errorf("overwriting listener should fire once, got %d", second)
	}
}

func TestClearChannel(t *testing.T) {
	in := testInstance(t, map[string]any{})

	calls := 0
	in.On(Key("x"), func(args ...any) { calls++ })
	in.On(Key("x"), func(args ...any) { calls++ })

	in.Clear(Key("x"))
	in.Emit(Key("x"))

	if calls != 0 {
		t.Errorf("cleared channel should have no listeners, got %d calls", calls)
	}
}

func TestOnNilListenerRejected(t *testing.T) {
	in := testInstance(t, map[string]any{})
	before := in.Registry().Stats().Snapshot().Warnings

	unsub := in.On(Key("x"), nil)

	if unsub == nil {
		t.Fatal("On should return a usable no-op unsubscribe")
	}
	unsub()
	if got := in.Registry().Stats().Snapshot().Warnings; got != before+1 {
		t.Error("nil listener should warn")
	}
}

func TestListenerSelfRemovalDuringEmit(t *testing.T) {
	in := testInstance(t, map[string]any{})

	var selfCalls, afterCalls int
	var self ListenerFunc
	self = func(args ...any) {
		selfCalls++
		in.Off(Key("x"), self)
	}
	in.On(Key("x"), self)
	in.On(Key("x"), func(args ...any) { afterCalls++ })

	in.Emit(Key("x"))

	if selfCalls != 1 {
		t.Errorf("self-removing listener should run once, got %d", selfCalls)
	}
	if afterCalls != 1 {
		t.Errorf("later listeners in the same emit must still run, got %d", afterCalls)
	}

	// The removal takes effect for the next emission.
	in.Emit(Key("x"))
	if selfCalls != 1 {
		t.Errorf("removed listener fired again, got %d calls", selfCalls)
	}
	if afterCalls != 2 {
		t.Errorf("surviving listener should keep firing, got %d", afterCalls)
	}
}

func TestListenerReentrantStore(t *testing.T) {
	in := testInstance(t, map[string]any{"count": 0, "echo": 0})

	// A listener that writes another key on the same instance mid-dispatch.
	in.On(Key("count"), func(args ...any) {
		next := args[1].(int)
		in.Store(Values(map[string]any{"echo": next * 10}))
	})

	in.Store(Values(map[string]any{"count": 3}))

	if got := in.Read("echo"); got != 30 {
		t.Errorf("re-entrant store should apply, got %v", got)
	}
}

func TestListenerAddedDuringEmitNotInvoked(t *testing.T) {
	in := testInstance(t, map[string]any{})

	var lateCalls int
	in.On(Key("x"), func(args ...any) {
		in.On(Key("x"), func(args ...any) { lateCalls++ })
	})

	in.Emit(Key("x"))
	if lateCalls != 0 {
		t.Errorf("listener added during dispatch must not join the in-flight emit, got %d", lateCalls)
	}

	in.Emit(Key("x"))
	if lateCalls != 1 {
		t.Errorf("listener added during dispatch should fire on the next emit, got %d", lateCalls)
	}
}

func TestChannelStrings(t *testing.T) {
	tests := []struct {
		ch   Channel
		want string
	}{
		{Key("count"), "count"},
		{KeyUpdate("count"), "count-update"},
		{ChannelConfig, "config"},
	}
	for _, tt := range tests {
		if got := tt.ch.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestChannelsDoNotCollide(t *testing.T) {
	in := testInstance(t, map[string]any{})

	var keyCalls, configCalls int
	in.On(Key("config"), func(args ...any) { keyCalls++ })
	in.On(ChannelConfig, func(args ...any) { configCalls++ })

	// A user key literally named "config" stays separate from the reserved
	// configuration channel.
	in.Store(Values(map[string]any{"config": 1}))
	if keyCalls != 1 || configCalls != 0 {
		t.Errorf("key write should only hit the key channel, got key=%d config=%d", keyCalls, configCalls)
	}

	in.SetConfig(Configure(Config{}))
	if configCalls != 1 {
		t.Errorf("configuration change should hit the config channel, got %d", configCalls)
	}
	if keyCalls != 1 {
		t.Errorf("configuration change must not hit the key channel, got %d", keyCalls)
	}
}

func TestStatsCounters(t *testing.T) {
	reg := quietRegistry()
	reg.Register(map[string]Entry{
		"s": Values(map[string]any{"a": 0}),
	})
	in := reg.Use("s")
	in.SetValidators(map[string]Validator{
		"a": func(v any) bool { return v.(int) >= 0 },
	})

	unsub := in.On(Key("a"), func(args ...any) {})
	in.Store(Values(map[string]any{"a": 1}))
	in.Store(Values(map[string]any{"a": -1}))
	in.Update(map[string]any{"a": 2})

	snap := reg.Stats().Snapshot()
	if snap.Instances != 1 {
		t.Errorf("instances = %d, want 1", snap.Instances)
	}
	// Initial registration write plus the accepted store.
	if snap.WritesApplied != 2 {
		t.Errorf("writesApplied = %d, want 2", snap.WritesApplied)
	}
	if snap.WritesRejected != 1 {
		t.Errorf("writesRejected = %d, want 1", snap.WritesRejected)
	}
	if snap.Updates != 1 {
		t.Errorf("updates = %d, want 1", snap.Updates)
	}
	if snap.Listeners != 1 {
		t.Errorf("listeners = %d, want 1", snap.Listeners)
	}
	unsub()
	if got := reg.Stats().Snapshot().Listeners; got != 0 {
		t.Errorf("listeners after unsub = %d, want 0", got)
	}
}
