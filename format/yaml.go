package format

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/texnodes/latex/parser"
)

type YAMLEncoder struct {
	w    io.Writer
	list *parser.NodeList
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(list *parser.NodeList) error {
	e.list = list
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *YAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(listToYAML(e.list)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type yamlNodeList struct {
	Pos   int         `yaml:"pos"`
	End   int         `yaml:"end"`
	Nodes []*yamlNode `yaml:"nodes"`
}

type yamlNode struct {
	Kind      string      `yaml:"kind"`
	Pos       int         `yaml:"pos"`
	End       int         `yaml:"end"`
	Text      string      `yaml:"text,omitempty"`
	Name      string      `yaml:"name,omitempty"`
	Open      string      `yaml:"open,omitempty"`
	Close     string      `yaml:"close,omitempty"`
	PostSpace string      `yaml:"post_space,omitempty"`
	Children  []*yamlNode `yaml:"children,omitempty"`
}

func listToYAML(l *parser.NodeList) *yamlNodeList {
	yl := &yamlNodeList{Pos: l.Pos, End: l.End, Nodes: make([]*yamlNode, len(l.Nodes))}
	for i, n := range l.Nodes {
		yl.Nodes[i] = nodeToYAML(n)
	}
	return yl
}

func nodeToYAML(n *parser.Node) *yamlNode {
	yn := &yamlNode{
		Kind:      n.Kind.String(),
		Pos:       n.Pos,
		End:       n.End,
		Text:      n.Text,
		Name:      n.Name,
		Open:      n.Open,
		Close:     n.Close,
		PostSpace: n.PostSpace,
	}
	for _, child := range n.Children {
		yn.Children = append(yn.Children, nodeToYAML(child))
	}
	return yn
}
