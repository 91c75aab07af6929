package fluenthttp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/textproto"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Send dispatches the Builder's accumulated state as a single HTTP request
// and decodes the response with dec.
//
// Each dispatch builds a fresh outgoing request, then merges the Builder's
// shared configuration (cookies, credentials, timeout, identity) onto the
// bound pool entry before the network call. The merges hold the entry mutex;
// the lock is released before the request leaves. Cancelling ctx aborts the
// in-flight call and any in-flight body read.
//
// A nil transport response yields the zero value of T with a nil error.
func Send[T any](ctx context.Context, b *Builder, method string, dec Decoder[T]) (T, error) {
	var zero T

	entry := b.pool.Entry(b.key)
	start := time.Now()

	var span trace.Span
	if b.tracer != nil {
		ctx, span = b.tracer.Start(ctx, "fluenthttp.send",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("http.method", method),
				attribute.String("http.url", b.url),
			))
		defer span.End()
	}

	req, err := b.buildRequest(ctx, method)
	if err != nil {
		return zero, b.fail(span, method, err)
	}

	// Cookie and credential merges onto the shared entry.
	entry.mu.Lock()
	if len(b.cookies) > 0 {
		entry.jarEnabled = true
		entry.jar.SetCookies(req.URL, b.cookies)
	}
	if b.hasCreds {
		entry.username = b.username
		entry.password = b.password
		entry.hasCreds = true
	}
	entry.mu.Unlock()

	// Header merge onto the outgoing request: insertion order, first write
	// wins, no standard header validation.
	for _, h := range b.headers {
		setRawHeader(req.Header, h.name, h.value)
	}

	// Timeout and identity merges onto the shared entry.
	entry.mu.Lock()
	if b.timeout > 0 {
		entry.client.Timeout = b.timeout
	}
	if b.userAgent != "" {
		entry.mergeUserAgent(b.userAgent)
	}
	entry.mu.Unlock()

	resp, err := entry.client.Do(req)
	if err != nil {
		return zero, b.fail(span, method, classifyDispatchErr(ctx, err))
	}
	if resp == nil {
		return zero, nil
	}

	if span != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}

	out, err := dec.decode(resp, b.jsonOpts)
	if err != nil {
		return zero, b.fail(span, method, err)
	}

	b.logger.Debug().
		Str("method", method).
		Str("url", b.url).
		Int("status", resp.StatusCode).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("request dispatched")

	return out, nil
}

// Get dispatches a GET request.
func Get[T any](ctx context.Context, b *Builder, dec Decoder[T]) (T, error) {
	return Send(ctx, b, http.MethodGet, dec)
}

// Post dispatches a POST request.
func Post[T any](ctx context.Context, b *Builder, dec Decoder[T]) (T, error) {
	return Send(ctx, b, http.MethodPost, dec)
}

// Put dispatches a PUT request.
func Put[T any](ctx context.Context, b *Builder, dec Decoder[T]) (T, error) {
	return Send(ctx, b, http.MethodPut, dec)
}

// Patch dispatches a PATCH request.
func Patch[T any](ctx context.Context, b *Builder, dec Decoder[T]) (T, error) {
	return Send(ctx, b, http.MethodPatch, dec)
}

// Delete dispatches a DELETE request.
func Delete[T any](ctx context.Context, b *Builder, dec Decoder[T]) (T, error) {
	return Send(ctx, b, http.MethodDelete, dec)
}

// buildRequest constructs the ephemeral outgoing request with the
// materialized body attached.
func (b *Builder) buildRequest(ctx context.Context, method string) (*http.Request, error) {
	var bodyReader io.Reader
	var contentType string

	if b.body != nil {
		data, ct, err := b.body.materialize(b.jsonOpts)
		if err != nil {
			return nil, NewEncodingError(err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = ct
	}

	req, err := http.NewRequestWithContext(ctx, method, b.url, bodyReader)
	if err != nil {
		return nil, NewTransportError(err)
	}

	if contentType != "" {
		setRawHeader(req.Header, "Content-Type", contentType)
	}

	if len(b.query) > 0 {
		q := req.URL.Query()
		for _, p := range b.query {
			if !q.Has(p.name) {
				q.Set(p.name, p.value)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

// setRawHeader attaches a header without canonicalization or value
// validation, so non-standard names and values pass through to the wire.
// A name already present, raw or canonical, is left untouched.
func setRawHeader(h http.Header, name, value string) {
	if _, ok := h[name]; ok {
		return
	}
	if _, ok := h[textproto.CanonicalMIMEHeaderKey(name)]; ok {
		return
	}
	h[name] = []string{value}
}

// classifyDispatchErr maps a transport-level failure to the error taxonomy.
func classifyDispatchErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return NewCancelledError(err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewCancelledError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewCancelledError(err)
	}
	return NewTransportError(err)
}

// fail records the error on the span and logger before returning it.
func (b *Builder) fail(span trace.Span, method string, err error) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	b.logger.Warn().
		Str("method", method).
		Str("url", b.url).
		Err(err).
		Msg("request failed")
	return err
}
