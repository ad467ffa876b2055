// Package errorcodes defines loader errors using a structured type.
// LoaderError holds the short code and human-readable description.
package errorcodes

// Predefined loader error instances.
var (
	ErrMalformedDocument = LoaderError{"D1", "Malformed plugin document"}
	ErrInvalidDocument   = LoaderError{"D2", "Plugin document top level is not a mapping"}
	ErrActivation        = LoaderError{"A1", "Plugin activation failed"}
	ErrCacheBackend      = LoaderError{"C1", "Cache backend failure"}
	ErrUnknownDriver     = LoaderError{"C2", "Unknown cache driver"}
	ErrInvalidCacheKey   = LoaderError{"C3", "Invalid cache key"}
)

// LoaderError represents a loader error with its code and description.
type LoaderError struct {
	Code        string // short error code
	Description string // human-readable description
}

// Error implements the Go error interface: "<Code>: <Description>".
func (e LoaderError) Error() string {
	return e.Code + ": " + e.Description
}

// CodeOnly returns only the error code (e.g., "D1").
func (e LoaderError) CodeOnly() string {
	return e.Code
}

// Wrap attaches cause to the error. The result matches e with errors.Is and
// unwraps to cause.
func (e LoaderError) Wrap(cause error) error {
	return &Error{Kind: e, Cause: cause}
}

// Error is a LoaderError carrying the underlying cause.
type Error struct {
	Kind  LoaderError
	Cause error
}

// Error renders "<Code>: <Description>: <cause>".
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.Error()
	}

	return e.Kind.Error() + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the same LoaderError kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(LoaderError)

	return ok && t.Code == e.Kind.Code
}
