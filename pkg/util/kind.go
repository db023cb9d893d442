package util

import "reflect"

// IsNil reports whether v is nil, including typed nils boxed in an
// interface (nil pointers, maps, slices, channels, and funcs).
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// IsZero reports whether v is nil or its type's zero value.
func IsZero(v any) bool {
	if IsNil(v) {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}

// TypeOf returns the dynamic type name of v, or "nil".
func TypeOf(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
