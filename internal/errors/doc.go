// Package errors provides structured, coded error values for keystate.
//
// Every recoverable misuse of the store (duplicate registration, malformed
// entries, re-configuration without the update flag, and so on) maps to a
// registered error code. In lenient mode these errors are logged on the
// registry's warning channel; in strict mode they are raised directly.
//
// # Error Codes
//
// Each error has a unique code (e.g. "K001") that maps to:
//   - A short message describing the misuse
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New("K002").WithDetail("known instances: counter, session")
//	logger.Warn(err.Error(), "code", err.Code)
package errors
