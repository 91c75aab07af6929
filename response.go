package fluenthttp

import (
	"io"
	"net/http"
)

// Response is the raw-shape dispatch result: status and headers with the body
// left unread. The caller owns the body and must close it.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Status is the full status line, e.g. "200 OK".
	Status string
	// Header holds the response headers.
	Header http.Header
	// Body is the unread response body.
	Body io.ReadCloser

	raw *http.Response
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}

// Unwrap returns the underlying *http.Response for advanced use cases.
func (r *Response) Unwrap() *http.Response {
	return r.raw
}
