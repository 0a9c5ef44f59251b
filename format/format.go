package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/texnodes/latex/parser"
)

// Encoder writes a finished node list in one output format.
type Encoder interface {
	encoding.TextMarshaler
	Encode(list *parser.NodeList) error
}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w, 2), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}
