package render

import (
	"reflect"
	"testing"
)

func TestIfAndFriends(t *testing.T) {
	if got := If(true, "yes"); got != "yes" {
		t.Errorf("If(true) = %q", got)
	}
	if got := If(false, "yes"); got != "" {
		t.Errorf("If(false) = %q, want zero", got)
	}
	if got := IfElse(false, "a", "b"); got != "b" {
		t.Errorf("IfElse(false) = %q", got)
	}
	if got := Unless(false, "shown"); got != "shown" {
		t.Errorf("Unless(false) = %q", got)
	}
}

func TestWhenIsLazy(t *testing.T) {
	called := false
	When(false, func() string {
		called = true
		return "never"
	})
	if called {
		t.Error("When(false) must not call the builder")
	}
	if got := When(true, func() string { return "built" }); got != "built" {
		t.Errorf("When(true) = %q", got)
	}
}

func TestSwitch(t *testing.T) {
	node := Switch("b",
		CaseOf("a", 1),
		CaseOf("b", 2),
		Default[string](99),
	)
	if node != 2 {
		t.Errorf("Switch matched %d, want 2", node)
	}

	if got := Switch("zzz", CaseOf("a", 1), Default[string](99)); got != 99 {
		t.Errorf("Switch default = %d, want 99", got)
	}
	if got := Switch("zzz", CaseOf("a", 1)); got != 0 {
		t.Errorf("Switch without default = %d, want zero", got)
	}
}

func TestRange(t *testing.T) {
	items := []string{"a", "bb", "ccc"}
	got := Range(items, func(s string, i int) (int, bool) {
		if s == "bb" {
			return 0, false
		}
		return len(s) + i, true
	})
	want := []int{1, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Range = %v, want %v", got, want)
	}

	all := RangeAll(items, func(s string, i int) int { return len(s) })
	if !reflect.DeepEqual(all, []int{1, 2, 3}) {
		t.Errorf("RangeAll = %v", all)
	}
}

func TestRangeMapDeterministic(t *testing.T) {
	m := map[string]int{"c": 3, "a": 1, "b": 2}
	got := RangeMap(m, func(k string, v int) string {
		return k
	})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("RangeMap should visit sorted keys, got %v", got)
	}
}

func TestRepeat(t *testing.T) {
	got := Repeat(3, func(i int) int { return i * i })
	if !reflect.DeepEqual(got, []int{0, 1, 4}) {
		t.Errorf("Repeat = %v", got)
	}
	if Repeat(0, func(i int) int { return i }) != nil {
		t.Error("Repeat(0) should be nil")
	}
}

func TestEitherCoalesce(t *testing.T) {
	if got := Either("", "fallback"); got != "fallback" {
		t.Errorf("Either = %q", got)
	}
	if got := Either("primary", "fallback"); got != "primary" {
		t.Errorf("Either = %q", got)
	}
	if got := Coalesce(0, 0, 7, 9); got != 7 {
		t.Errorf("Coalesce = %d", got)
	}
}
