// Package util provides the small pure helpers used across keystate
// consumers: slice, map, string, and kind probes. Every function is
// stateless and returns synchronously.
package util

// Map transforms each element with fn.
func Map[T, U any](items []T, fn func(T) U) []U {
	result := make([]U, 0, len(items))
	for _, item := range items {
		result = append(result, fn(item))
	}
	return result
}

// Filter keeps the elements for which fn returns true.
func Filter[T any](items []T, fn func(T) bool) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if fn(item) {
			result = append(result, item)
		}
	}
	return result
}

// Contains reports whether items includes target.
func Contains[T comparable](items []T, target T) bool {
	return IndexOf(items, target) >= 0
}

// IndexOf returns the index of the first occurrence of target, or -1.
func IndexOf[T comparable](items []T, target T) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}

// Uniq removes duplicates, keeping first occurrences in order.
func Uniq[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}

// Chunk splits items into consecutive groups of at most size elements.
// A non-positive size yields nil.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		return nil
	}
	var result [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		result = append(result, items[start:end:end])
	}
	return result
}

// Flatten concatenates nested slices into one.
func Flatten[T any](groups [][]T) []T {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	result := make([]T, 0, total)
	for _, g := range groups {
		result = append(result, g...)
	}
	return result
}

// Reverse returns a reversed copy.
func Reverse[T any](items []T) []T {
	result := make([]T, len(items))
	for i, item := range items {
		result[len(items)-1-i] = item
	}
	return result
}
