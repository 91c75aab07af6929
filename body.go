package fluenthttp

import (
	"fmt"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// bodyPayload is the closed set of request body variants. WithBody classifies
// the caller's payload into exactly one of them; materialize produces the wire
// bytes and the Content-Type value to attach (empty means no header).
type bodyPayload interface {
	materialize(opts JSONOptions) (data []byte, contentType string, err error)
}

// bytesBody carries a raw byte payload attached verbatim.
type bytesBody struct {
	data      []byte
	mediaType string
}

func (b bytesBody) materialize(JSONOptions) ([]byte, string, error) {
	return b.data, b.mediaType, nil
}

// textBody carries a text payload encoded with an explicit charset.
type textBody struct {
	text      string
	mediaType string
	charset   string
}

func (b textBody) materialize(JSONOptions) ([]byte, string, error) {
	data := []byte(b.text)
	if b.charset != "" {
		enc, err := htmlindex.Get(b.charset)
		if err != nil {
			return nil, "", fmt.Errorf("unknown charset %q: %w", b.charset, err)
		}
		if enc != unicode.UTF8 {
			data, err = enc.NewEncoder().Bytes(data)
			if err != nil {
				return nil, "", fmt.Errorf("encode text as %s: %w", b.charset, err)
			}
		}
	}
	ct := b.mediaType
	if ct != "" && b.charset != "" {
		ct = ct + "; charset=" + b.charset
	}
	return data, ct, nil
}

// jsonBody carries a structured payload serialized at dispatch time.
type jsonBody struct {
	value     any
	mediaType string
}

func (b jsonBody) materialize(opts JSONOptions) ([]byte, string, error) {
	data, err := opts.marshal(b.value)
	if err != nil {
		return nil, "", err
	}
	ct := b.mediaType
	if ct == "" {
		ct = "application/json"
	}
	return data, ct, nil
}

// BodyOption refines how a body payload is attached.
type BodyOption func(*bodyConfig)

type bodyConfig struct {
	mediaType string
	charset   string
}

// MediaType sets the Content-Type value attached with the body. The value is
// attached without standard header validation, so non-standard media types
// are accepted.
func MediaType(mt string) BodyOption {
	return func(c *bodyConfig) { c.mediaType = mt }
}

// Charset sets the character encoding used for text payloads, by IANA name
// (e.g. "utf-8", "iso-8859-1").
func Charset(name string) BodyOption {
	return func(c *bodyConfig) { c.charset = name }
}

// classifyBody converts a caller payload into its body variant.
func classifyBody(payload any, cfg bodyConfig) bodyPayload {
	switch v := payload.(type) {
	case []byte:
		return bytesBody{data: v, mediaType: cfg.mediaType}
	case string:
		return textBody{text: v, mediaType: cfg.mediaType, charset: cfg.charset}
	default:
		return jsonBody{value: v, mediaType: cfg.mediaType}
	}
}
