package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dhamidi/texnodes/latex/parser"
)

var ErrInvalidNodeList = errors.New("invalid node list")

type JSONEncoder struct {
	w      io.Writer
	indent int
	list   *parser.NodeList
}

func NewJSONEncoder(w io.Writer, indent int) *JSONEncoder {
	return &JSONEncoder{w: w, indent: indent}
}

func (e *JSONEncoder) Encode(list *parser.NodeList) error {
	e.list = list
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	text, err := Serialize(e.list, e.indent)
	return []byte(text), err
}

// EncodeNodeList serializes list through Serialize.
func EncodeNodeList(list *parser.NodeList, indent int) (string, error) {
	return Serialize(list, indent)
}

// DecodeNodeList reads a node list written by EncodeNodeList.
func DecodeNodeList(text string) (*parser.NodeList, error) {
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	v, err := Deserialize(text, func(m map[string]any) any {
		if _, ok := m["kind"]; ok {
			node, err := nodeFromMap(m)
			if err != nil {
				fail(err)
				return m
			}
			return node
		}
		if _, ok := m["nodes"]; ok {
			list, err := listFromMap(m)
			if err != nil {
				fail(err)
				return m
			}
			return list
		}
		return m
	})
	if err != nil {
		return nil, fmt.Errorf("decode node list: %w", err)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	list, ok := v.(*parser.NodeList)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not a node list", ErrInvalidNodeList)
	}
	return list, nil
}

func listFromMap(m map[string]any) (*parser.NodeList, error) {
	nodes, err := nodesFrom(m["nodes"])
	if err != nil {
		return nil, err
	}
	pos, err := intFrom(m, "pos")
	if err != nil {
		return nil, err
	}
	end, err := intFrom(m, "end")
	if err != nil {
		return nil, err
	}
	return &parser.NodeList{Nodes: nodes, Pos: pos, End: end}, nil
}

func nodeFromMap(m map[string]any) (*parser.Node, error) {
	kindName, _ := m["kind"].(string)
	kind, ok := parser.ParseNodeKind(kindName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown node kind %q", ErrInvalidNodeList, kindName)
	}
	pos, err := intFrom(m, "pos")
	if err != nil {
		return nil, err
	}
	end, err := intFrom(m, "end")
	if err != nil {
		return nil, err
	}

	node := &parser.Node{
		Kind:      kind,
		Pos:       pos,
		End:       end,
		Text:      stringFrom(m, "text"),
		Name:      stringFrom(m, "name"),
		Open:      stringFrom(m, "open"),
		Close:     stringFrom(m, "close"),
		PostSpace: stringFrom(m, "post_space"),
	}
	if children, ok := m["children"]; ok {
		node.Children, err = nodesFrom(children)
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

func nodesFrom(v any) ([]*parser.Node, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an array of nodes", ErrInvalidNodeList)
	}
	nodes := make([]*parser.Node, 0, len(items))
	for _, item := range items {
		node, ok := item.(*parser.Node)
		if !ok {
			return nil, fmt.Errorf("%w: array element is not a node", ErrInvalidNodeList)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func intFrom(m map[string]any, key string) (int, error) {
	switch v := m[key].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidNodeList, key, err)
		}
		return int(n), nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("%w: missing integer field %q", ErrInvalidNodeList, key)
}

func stringFrom(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
