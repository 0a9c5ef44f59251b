package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrTrailingData = errors.New("trailing data after JSON value")

// Serialize renders v as JSON. A positive indent pretty-prints with that
// many spaces per level; zero gives compact output.
func Serialize(v any, indent int) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Deserialize decodes JSON text holding exactly one value. Numbers decode as json.Number. When
// transform is non-nil it is applied to every decoded object, innermost
// first, and its result replaces the object; arrays and scalars are left
// alone.
func Deserialize(text string, transform func(map[string]any) any) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w at offset %d", ErrTrailingData, dec.InputOffset())
	}
	if transform == nil {
		return v, nil
	}
	return applyTransform(v, transform), nil
}

func applyTransform(v any, transform func(map[string]any) any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = applyTransform(child, transform)
		}
		return transform(t)
	case []any:
		for i, child := range t {
			t[i] = applyTransform(child, transform)
		}
		return t
	}
	return v
}
