package scene

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned for scene files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported scene format")

// ParseError describes a scene file that could not be decoded.
type ParseError struct {
	// Path is the scene file.
	Path string
	// Layer is the id of the offending layer, if known.
	Layer string
	// Message describes the problem.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Layer != "" {
		return fmt.Sprintf("scene %s: layer %q: %s", e.Path, e.Layer, e.Message)
	}
	return fmt.Sprintf("scene %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
