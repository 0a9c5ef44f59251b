package parser

import "encoding/json"

type jsonNode struct {
	Kind      string      `json:"kind"`
	Pos       int         `json:"pos"`
	End       int         `json:"end"`
	Text      string      `json:"text,omitempty"`
	Name      string      `json:"name,omitempty"`
	Open      string      `json:"open,omitempty"`
	Close     string      `json:"close,omitempty"`
	PostSpace string      `json:"post_space,omitempty"`
	Children  []*jsonNode `json:"children,omitempty"`
}

type jsonNodeList struct {
	Pos   int         `json:"pos"`
	End   int         `json:"end"`
	Nodes []*jsonNode `json:"nodes"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (l *NodeList) MarshalJSON() ([]byte, error) {
	jl := &jsonNodeList{
		Pos:   l.Pos,
		End:   l.End,
		Nodes: make([]*jsonNode, len(l.Nodes)),
	}
	for i, n := range l.Nodes {
		jl.Nodes[i] = n.toJSON()
	}
	return json.Marshal(jl)
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		Kind:      n.Kind.String(),
		Pos:       n.Pos,
		End:       n.End,
		Text:      n.Text,
		Name:      n.Name,
		Open:      n.Open,
		Close:     n.Close,
		PostSpace: n.PostSpace,
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}

	return jn
}
