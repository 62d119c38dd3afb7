package openapi

import (
	"errors"
	"fmt"

	"github.com/vitalvas/routedoc/mux"
)

// Generation errors.
var (
	// ErrUnsupportedPathComponent is returned when a route path contains a
	// segment that has no OpenAPI path template equivalent (wildcard or
	// catch-all).
	ErrUnsupportedPathComponent = errors.New("openapi: unsupported path component")

	// ErrUnsupportedHTTPMethod is returned when a route method has no
	// OpenAPI operation slot (for example CONNECT).
	ErrUnsupportedHTTPMethod = errors.New("openapi: unsupported HTTP method")

	// ErrMissingEncoder is returned when no encoder is configured for
	// rendering examples.
	ErrMissingEncoder = errors.New("openapi: missing encoder configuration")
)

// UnsupportedPathComponentError reports the offending path segment.
// It matches ErrUnsupportedPathComponent with errors.Is.
type UnsupportedPathComponentError struct {
	Segment mux.Segment
}

func (e *UnsupportedPathComponentError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrUnsupportedPathComponent, e.Segment.Kind, e.Segment.String())
}

// Is reports whether target is ErrUnsupportedPathComponent.
func (e *UnsupportedPathComponentError) Is(target error) bool {
	return target == ErrUnsupportedPathComponent
}

// UnsupportedHTTPMethodError reports the offending method.
// It matches ErrUnsupportedHTTPMethod with errors.Is.
type UnsupportedHTTPMethodError struct {
	Method string
}

func (e *UnsupportedHTTPMethodError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedHTTPMethod, e.Method)
}

// Is reports whether target is ErrUnsupportedHTTPMethod.
func (e *UnsupportedHTTPMethodError) Is(target error) bool {
	return target == ErrUnsupportedHTTPMethod
}
