// Package errs defines the sentinel errors returned by telepack packages.
//
// Callers should match them with errors.Is, since most call sites wrap the
// sentinel with additional context.
package errs

import "errors"

var (
	// ErrEncodeFailed is returned when an event cannot be encoded into a record.
	ErrEncodeFailed = errors.New("event encoding failed")
	// ErrNilEvent is returned when a nil event is passed to the encoder.
	ErrNilEvent = errors.New("nil event")
	// ErrInvalidSizeLimit is returned when a size limit list has the wrong shape.
	ErrInvalidSizeLimit = errors.New("invalid size limit")
	// ErrInvalidConfig is returned when a configuration document cannot be parsed.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrUnsupportedCompression is returned for an unknown payload compression type.
	ErrUnsupportedCompression = errors.New("unsupported compression type")
	// ErrNilSanitizer is returned when a nil sanitizer is configured.
	ErrNilSanitizer = errors.New("nil sanitizer")
	// ErrNestingTooDeep is returned when an object nests deeper than metadata.MaxDepth,
	// which includes objects that contain themselves.
	ErrNestingTooDeep = errors.New("object nesting too deep")
)
