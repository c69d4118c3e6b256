// Package uid provides small ID generators used across the application.
//
// Callers should depend on the StringID interface so the concrete generator
// can be swapped in tests.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	// Generate returns a new unique identifier.
	Generate() string
}
