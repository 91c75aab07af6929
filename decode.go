package fluenthttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Decoder converts a dispatched response into the caller's output shape.
// The closed set of shapes is Raw, Bytes, Text, Stream, and JSON; each
// decoder states at the call site how the body is consumed, so Send's
// signature is statically checked against the requested shape.
type Decoder[T any] interface {
	decode(resp *http.Response, opts JSONOptions) (T, error)
}

// Raw returns a decoder that yields the response with its body unread.
// The caller must close the body.
func Raw() Decoder[*Response] {
	return rawDecoder{}
}

// Bytes returns a decoder that reads the entire body as a byte slice.
func Bytes() Decoder[[]byte] {
	return bytesDecoder{}
}

// Text returns a decoder that reads the entire body as text, honoring the
// charset parameter of the response Content-Type when one is declared.
func Text() Decoder[string] {
	return textDecoder{}
}

// Stream returns a decoder that yields a live reader over the body without
// buffering. The caller must close the reader.
func Stream() Decoder[io.ReadCloser] {
	return streamDecoder{}
}

// JSON returns a decoder that parses the body as JSON into T using the
// Builder's serialization options. A malformed or empty body yields a
// decoding error, never a silent zero value; only no-content statuses
// (204, 205, 304) yield the zero value of T.
func JSON[T any]() Decoder[T] {
	return jsonDecoder[T]{}
}

type rawDecoder struct{}

func (rawDecoder) decode(resp *http.Response, _ JSONOptions) (*Response, error) {
	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       resp.Body,
		raw:        resp,
	}, nil
}

type bytesDecoder struct{}

func (bytesDecoder) decode(resp *http.Response, _ JSONOptions) ([]byte, error) {
	return readBody(resp)
}

type textDecoder struct{}

func (textDecoder) decode(resp *http.Response, _ JSONOptions) (string, error) {
	data, err := readBody(resp)
	if err != nil {
		return "", err
	}
	if cs := responseCharset(resp); cs != "" {
		enc, err := htmlindex.Get(cs)
		if err == nil && enc != unicode.UTF8 {
			decoded, err := enc.NewDecoder().Bytes(data)
			if err != nil {
				return "", NewDecodingError(fmt.Errorf("decode %s body: %w", cs, err))
			}
			data = decoded
		}
	}
	return string(data), nil
}

type streamDecoder struct{}

func (streamDecoder) decode(resp *http.Response, _ JSONOptions) (io.ReadCloser, error) {
	return resp.Body, nil
}

type jsonDecoder[T any] struct{}

func (jsonDecoder[T]) decode(resp *http.Response, opts JSONOptions) (T, error) {
	var v T
	data, err := readBody(resp)
	if err != nil {
		return v, err
	}
	if len(data) == 0 {
		// Only statuses that promise no content are excused from decoding.
		switch resp.StatusCode {
		case http.StatusNoContent, http.StatusResetContent, http.StatusNotModified:
			return v, nil
		}
	}
	if err := opts.unmarshal(data, &v); err != nil {
		return v, NewDecodingError(fmt.Errorf("decode response: %w", err))
	}
	return v, nil
}

// readBody drains and closes the response body, classifying read failures.
func readBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, NewCancelledError(err)
		}
		return nil, NewTransportError(fmt.Errorf("read response body: %w", err))
	}
	return data, nil
}

// responseCharset extracts the charset parameter of the Content-Type header.
func responseCharset(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return params["charset"]
}
