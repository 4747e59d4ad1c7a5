package compiler

import (
	"bytes"

	"github.com/goccy/go-json"
)

// marshal encodes v with HTML escaping off, so highlight tags and other
// markup in values are written as-is.
func marshal(v any) ([]byte, error) {
	return json.MarshalWithOption(v, json.DisableHTMLEscape())
}

// Render encodes v as JSON without HTML escaping. Pretty output is
// indented with two spaces.
func Render(v any, pretty bool) ([]byte, error) {
	data, err := marshal(v)
	if err != nil {
		return nil, err
	}
	if !pretty {
		return data, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
