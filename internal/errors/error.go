package errors

import (
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryRegistry   Category = "registry"
	CategoryConfig     Category = "config"
	CategoryValidation Category = "validation"
	CategoryRuntime    Category = "runtime"
)

// Error is a structured error with a stable code, category, and optional
// detail. It is the value logged on the warning channel in lenient mode and
// raised in strict mode.
type Error struct {
	// Code is a unique error identifier (e.g. "K001").
	Code string

	// Category is the error type (registry, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, possibly augmented per call site.
	Detail string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithDetail replaces the detailed explanation.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// Format returns a multi-line human-readable rendering of the error.
func (e *Error) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ERROR %s: %s\n", e.Code, e.Message)
	if e.Detail != "" {
		fmt.Fprintf(&b, "\n  %s\n", e.Detail)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "\n  Caused by: %s\n", e.Wrapped)
	}
	if e.DocURL != "" {
		fmt.Fprintf(&b, "\n  Learn more: %s\n", e.DocURL)
	}
	return b.String()
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error under a registered code.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	return New(code).Wrap(err)
}
