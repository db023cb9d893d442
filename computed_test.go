package keystate

import (
	"strings"
	"testing"
)

func TestComputedRoundTrip(t *testing.T) {
	in := testInstance(t, map[string]any{})

	in.Define(Values(map[string]any{
		"name": Computed{
			State: "initial",
			Set: func(key string, value, prev any) SetResult {
				return Commit(value)
			},
		},
	}))

	if got := in.Read("name"); got != "initial" {
		t.Errorf("expected initial state, got %v", got)
	}

	in.Store(Values(map[string]any{"name": "updated"}))

	if got := in.Read("name"); got != "updated" {
		t.Errorf("expected updated, got %v", got)
	}
	if got := in.ReadAll()["name"]; got != "updated" {
		t.Errorf("bulk read should reflect the committed value, got %v", got)
	}
}

func TestComputedGetter(t *testing.T) {
	in := testInstance(t, map[string]any{})

	in.Define(Values(map[string]any{
		"shout": Computed{
			State: "quiet",
			Get: func(target *Instance, key string, raw any) any {
				return strings.ToUpper(raw.(string))
			},
		},
	}))

	if got := in.Read("shout"); got != "QUIET" {
		t.Errorf("getter should mediate reads, got %v", got)
	}
	if got := in.ReadAll()["shout"]; got != "QUIET" {
		t.Errorf("getter should mediate bulk reads, got %v", got)
	}
}

func TestComputedSetterRejects(t *testing.T) {
	in := testInstance(t, map[string]any{})

	in.Define(Values(map[string]any{
		"age": Computed{
			State: 30,
			Set: func(key string, value, prev any) SetResult {
				if n, ok := value.(int); ok && n >= 0 {
					return Commit(n)
				}
				return Reject()
			},
		},
	}))

	events := 0
	in.On(Key("age"), func(args ...any) { events++ })

	in.Store(Values(map[string]any{"age": -5}))

	if got := in.Read("age"); got != 30 {
		t.Errorf("rejected write should leave state untouched, got %v", got)
	}
	if events != 0 {
		t.Errorf("rejected write must not emit, got %d events", events)
	}

	in.Store(Values(map[string]any{"age": 31}))
	if got := in.Read("age"); got != 31 {
		t.Errorf("accepted write should commit, got %v", got)
	}
	if events != 1 {
		t.Errorf("accepted write should emit once, got %d", events)
	}
}

func TestComputedSetterTransforms(t *testing.T) {
	in := testInstance(t, map[string]any{})

	in.Define(Values(map[string]any{
		"trimmed": Computed{
			State: "",
			Set: func(key string, value, prev any) SetResult {
				return Commit(strings.TrimSpace(value.(string)))
			},
		},
	}))

	in.Store(Values(map[string]any{"trimmed": "  hello  "}))

	if got := in.Read("trimmed"); got != "hello" {
		t.Errorf("setter should transform the committed value, got %v", got)
	}
}

func TestComputedCommittedValueFacesValidator(t *testing.T) {
	in := testInstance(t, map[string]any{})
	in.SetValidators(map[string]Validator{
		"n": func(v any) bool { return v.(int) < 100 },
	})

	in.Define(Values(map[string]any{
		"n": Computed{
			State: 0,
			Set: func(key string, value, prev any) SetResult {
				return Commit(value.(int) * 10)
			},
		},
	}))

	in.Store(Values(map[string]any{"n": 5}))
	if got := in.Read("n"); got != 50 {
		t.Errorf("expected 50, got %v", got)
	}

	// 20*10 = 200 fails the validator, so the commit is dropped.
	in.Store(Values(map[string]any{"n": 20}))
	if got := in.Read("n"); got != 50 {
		t.Errorf("validator should see the setter's output, got %v", got)
	}
}

func TestComputedHidden(t *testing.T) {
	in := testInstance(t, map[string]any{"visible": 1})

	in.Define(Values(map[string]any{
		"secret": Computed{State: "s3cret", Hidden: true},
	}))

	all := in.ReadAll()
	if _, ok := all["secret"]; ok {
		t.Error("hidden key should not appear in ReadAll")
	}
	if got := in.Read("secret"); got != "s3cret" {
		t.Errorf("hidden key should still be readable directly, got %v", got)
	}
}

func TestDefineRejectsNonDescriptor(t *testing.T) {
	in := testInstance(t, map[string]any{})
	before := in.Registry().Stats().Snapshot().Warnings

	in.Define(Values(map[string]any{
		"bad":  42,
		"good": Computed{State: 1},
	}))

	if got := in.Registry().Stats().Snapshot().Warnings; got != before+1 {
		t.Errorf("expected one warning for the non-descriptor key, got %d", got-before)
	}
	if got := in.Read("bad"); got != nil {
		t.Errorf("non-descriptor key must not be installed, got %v", got)
	}
	if got := in.Read("good"); got != 1 {
		t.Errorf("valid keys in the same call should install, got %v", got)
	}
}
