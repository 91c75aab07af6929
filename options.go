package fluenthttp

import (
	"bytes"
	"encoding/json"
)

// JSONOptions control how structured bodies are serialized and how JSON
// responses are decoded. The zero value matches encoding/json defaults.
type JSONOptions struct {
	// Indent is the indentation string applied to serialized bodies.
	// Empty produces compact output.
	Indent string
	// DisableHTMLEscape leaves <, >, and & unescaped in serialized bodies.
	DisableHTMLEscape bool
	// UseNumber decodes JSON numbers into json.Number instead of float64.
	UseNumber bool
	// DisallowUnknownFields rejects response fields not present in the
	// target type.
	DisallowUnknownFields bool
}

// marshal serializes v according to the options.
func (o JSONOptions) marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(!o.DisableHTMLEscape)
	if o.Indent != "" {
		enc.SetIndent("", o.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encode appends a trailing newline.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// unmarshal decodes data into v according to the options.
func (o JSONOptions) unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if o.UseNumber {
		dec.UseNumber()
	}
	if o.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(v)
}
