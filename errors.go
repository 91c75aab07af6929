package fluenthttp

import (
	"errors"
	"fmt"
)

// ErrorCode classifies dispatch errors.
type ErrorCode int

const (
	// ErrCodeEncoding indicates the request body could not be serialized.
	ErrCodeEncoding ErrorCode = iota
	// ErrCodeTransport indicates a connection-level failure (refused, DNS, TLS).
	ErrCodeTransport
	// ErrCodeCancelled indicates the dispatch was aborted via context cancellation
	// or deadline.
	ErrCodeCancelled
	// ErrCodeDecoding indicates the response body could not be decoded into the
	// requested shape.
	ErrCodeDecoding
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeEncoding:
		return "encoding"
	case ErrCodeTransport:
		return "transport"
	case ErrCodeCancelled:
		return "cancelled"
	case ErrCodeDecoding:
		return "decoding"
	default:
		return "unknown"
	}
}

// Error is a structured dispatch error with classification.
//
// Configuration calls on a Builder never fail; every Error originates from a
// terminal send operation.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("fluenthttp: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewEncodingError creates a body serialization error.
func NewEncodingError(err error) *Error {
	return &Error{Code: ErrCodeEncoding, Message: err.Error(), Err: err}
}

// NewTransportError creates a connection-level error.
func NewTransportError(err error) *Error {
	return &Error{Code: ErrCodeTransport, Message: err.Error(), Err: err}
}

// NewCancelledError creates a cancellation error.
func NewCancelledError(err error) *Error {
	return &Error{Code: ErrCodeCancelled, Message: err.Error(), Err: err}
}

// NewDecodingError creates a response decoding error.
func NewDecodingError(err error) *Error {
	return &Error{Code: ErrCodeDecoding, Message: err.Error(), Err: err}
}

// IsEncoding checks if an error is a body serialization error.
func IsEncoding(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeEncoding
}

// IsTransport checks if an error is a connection-level error.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTransport
}

// IsCancelled checks if an error is a cancellation error.
func IsCancelled(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCancelled
}

// IsDecoding checks if an error is a response decoding error.
func IsDecoding(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDecoding
}
