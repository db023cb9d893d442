// Package render provides conditional and list rendering helpers.
//
// The helpers consume plain data (slices, maps, numbers) plus a mapping
// function and are generic over the caller's node type, so any UI framework's
// node or component value works. They have no dependency on the store.
package render

import "sort"

// If returns node when condition is true, the zero node otherwise.
func If[N any](condition bool, node N) N {
	if condition {
		return node
	}
	var zero N
	return zero
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse[N any](condition bool, ifTrue, ifFalse N) N {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// Unless returns node when condition is false.
func Unless[N any](condition bool, node N) N {
	return If(!condition, node)
}

// When lazily renders the node only when condition is true. Use this when
// building the node is expensive or only valid under the condition.
func When[N any](condition bool, fn func() N) N {
	if condition {
		return fn()
	}
	var zero N
	return zero
}

// Case pairs a switch value with its node.
type Case[T comparable, N any] struct {
	Value     T
	Node      N
	IsDefault bool
}

// CaseOf builds a Case for the given value.
func CaseOf[T comparable, N any](value T, node N) Case[T, N] {
	return Case[T, N]{Value: value, Node: node}
}

// Default builds the fallback Case.
func Default[T comparable, N any](node N) Case[T, N] {
	return Case[T, N]{Node: node, IsDefault: true}
}

// Switch returns the node of the first case matching value, falling back to
// the default case, then to the zero node.
func Switch[T comparable, N any](value T, cases ...Case[T, N]) N {
	for _, c := range cases {
		if !c.IsDefault && c.Value == value {
			return c.Node
		}
	}
	for _, c := range cases {
		if c.IsDefault {
			return c.Node
		}
	}
	var zero N
	return zero
}

// Range maps each item to a node. Items the mapping function skips (by
// returning false) are omitted.
func Range[T, N any](items []T, fn func(item T, index int) (N, bool)) []N {
	result := make([]N, 0, len(items))
	for i, item := range items {
		if node, ok := fn(item, i); ok {
			result = append(result, node)
		}
	}
	return result
}

// RangeAll maps every item to a node, keeping all of them.
func RangeAll[T, N any](items []T, fn func(item T, index int) N) []N {
	result := make([]N, 0, len(items))
	for i, item := range items {
		result = append(result, fn(item, i))
	}
	return result
}

// RangeMap maps each map entry to a node, visiting keys in sorted order so
// output is deterministic.
func RangeMap[K ordered, V, N any](m map[K]V, fn func(key K, value V) N) []N {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	result := make([]N, 0, len(m))
	for _, k := range keys {
		result = append(result, fn(k, m[k]))
	}
	return result
}

// Repeat calls fn n times and collects the nodes.
func Repeat[N any](n int, fn func(i int) N) []N {
	if n <= 0 {
		return nil
	}
	result := make([]N, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, fn(i))
	}
	return result
}

// Either returns first unless it is the zero node, in which case second.
func Either[N comparable](first, second N) N {
	var zero N
	if first != zero {
		return first
	}
	return second
}

// Coalesce returns the first non-zero node.
func Coalesce[N comparable](nodes ...N) N {
	var zero N
	for _, n := range nodes {
		if n != zero {
			return n
		}
	}
	return zero
}

// ordered covers the key types RangeMap can sort.
type ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}
