// Package fluenthttp provides a fluent request builder over net/http with
// pooled transport handles and shape-driven response decoding.
//
// A Builder accumulates request configuration (headers, cookies, body,
// credentials, timeout, identity) through chained calls, then dispatches it
// through a pool entry shared with other Builders bound to the same key.
// Responses are decoded by a caller-selected Decoder into one of five
// shapes: raw response, bytes, text, stream, or a JSON value.
//
// # Basic Usage
//
//	pool := fluenthttp.NewPool()
//	b := fluenthttp.New(pool, "https://api.example.com/users/123", false).
//	    WithHeader("Accept", "application/json")
//
//	user, err := fluenthttp.Get(ctx, b, fluenthttp.JSON[User]())
//
// # Shared transport options
//
// Cookies, credentials, timeout, and user-agent configured on one Builder are
// merged onto the bound pool entry at dispatch and affect every Builder
// sharing the same pool key. Pass forceNew=true to bind a dedicated entry
// instead.
package fluenthttp
