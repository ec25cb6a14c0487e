package feed

import (
	"errors"
	"fmt"
)

// TransportError means the read of the feed resource did not complete:
// a non-success HTTP status, a network failure, or an unreadable file.
type TransportError struct {
	Source     string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("load %s: HTTP error! status: %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ShapeError means the payload was read but is not a JSON array.
type ShapeError struct {
	Source string
	Got    string // JSON kind that was found instead, e.g. "object"
	Err    error  // decode error for malformed payloads
}

func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: malformed feed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("load %s: expected a JSON array, got %s", e.Source, e.Got)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// IsTransport reports whether err is, or wraps, a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsShape reports whether err is, or wraps, a *ShapeError.
func IsShape(err error) bool {
	var se *ShapeError
	return errors.As(err, &se)
}
