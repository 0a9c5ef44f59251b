package parser

import (
	"fmt"
	"strings"
)

type NodeKind int

const (
	KindChars NodeKind = iota
	KindMacro
	KindGroup
	KindEnvironment
	KindComment
	KindSpecials
	KindMath
)

var nodeKindNames = map[NodeKind]string{
	KindChars:       "Chars",
	KindMacro:       "Macro",
	KindGroup:       "Group",
	KindEnvironment: "Environment",
	KindComment:     "Comment",
	KindSpecials:    "Specials",
	KindMath:        "Math",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseNodeKind is the inverse of NodeKind.String.
func ParseNodeKind(name string) (NodeKind, bool) {
	for k, n := range nodeKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Node is one element of a parsed node list, spanning [Pos, End).
//
// Which fields are set depends on Kind:
//
//	Chars        Text
//	Macro        Open (escape character), Name, PostSpace
//	Comment      Open (comment start), Text, PostSpace
//	Specials     Name
//	Group        Open, Close, Children
//	Environment  Name, Open (\begin{...}), Close (\end{...}), Children
//	Math         Name ("inline" or "display"), Open, Close, Children
type Node struct {
	Kind      NodeKind
	Pos       int
	End       int
	Text      string
	Name      string
	Open      string
	Close     string
	PostSpace string
	Children  []*Node
}

func (n *Node) Len() int {
	return n.End - n.Pos
}

func (n *Node) Contains(offset int) bool {
	return offset >= n.Pos && offset < n.End
}

func (n *Node) HasChildren() bool {
	return n.Kind == KindGroup || n.Kind == KindEnvironment || n.Kind == KindMath
}

// IsWhitespace reports whether n is a chars node holding only whitespace.
func (n *Node) IsWhitespace() bool {
	return n.Kind == KindChars && strings.TrimSpace(n.Text) == ""
}

// ChildList wraps the children of n in a NodeList spanning the inside of
// the delimiters.
func (n *Node) ChildList() *NodeList {
	return NewNodeList(n.Children, n.Pos+len(n.Open), n.End-len(n.Close))
}

// Verbatim reconstructs the source text n was parsed from.
func (n *Node) Verbatim() string {
	var b strings.Builder
	n.writeVerbatim(&b)
	return b.String()
}

func (n *Node) writeVerbatim(b *strings.Builder) {
	switch n.Kind {
	case KindChars:
		b.WriteString(n.Text)
	case KindMacro:
		b.WriteString(n.Open)
		b.WriteString(n.Name)
		b.WriteString(n.PostSpace)
	case KindComment:
		b.WriteString(n.Open)
		b.WriteString(n.Text)
		b.WriteString(n.PostSpace)
	case KindSpecials:
		b.WriteString(n.Name)
	default:
		b.WriteString(n.Open)
		for _, child := range n.Children {
			child.writeVerbatim(b)
		}
		b.WriteString(n.Close)
	}
}

func (n *Node) label() string {
	switch n.Kind {
	case KindChars, KindComment:
		return fmt.Sprintf("%q", n.Text)
	case KindMacro:
		return n.Open + n.Name
	case KindSpecials, KindEnvironment:
		return n.Name
	case KindGroup:
		return n.Open + n.Close
	case KindMath:
		return n.Name + " " + n.Open + n.Close
	}
	return ""
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Kind.String())
	if showPositions {
		fmt.Fprintf(&b, " [%d-%d]", n.Pos, n.End)
	}
	if label := n.label(); label != "" {
		b.WriteString(" ")
		b.WriteString(label)
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		b.WriteString(child.stringIndent(indent+1, showPositions))
	}
	return b.String()
}

// NodeList is an ordered run of non-overlapping nodes.
type NodeList struct {
	Nodes []*Node
	Pos   int
	End   int

	starts []int
}

// NewNodeList wraps nodes. pos and end are used only when nodes is empty;
// otherwise the span is taken from the first and last node.
func NewNodeList(nodes []*Node, pos, end int) *NodeList {
	if len(nodes) > 0 {
		pos = nodes[0].Pos
		end = nodes[len(nodes)-1].End
	}
	return &NodeList{Nodes: nodes, Pos: pos, End: end}
}

func (l *NodeList) Len() int {
	return len(l.Nodes)
}

// Starts returns the start offset of every node, in order.
func (l *NodeList) Starts() []int {
	if l.starts == nil || len(l.starts) != len(l.Nodes) {
		l.starts = make([]int, len(l.Nodes))
		for i, n := range l.Nodes {
			l.starts[i] = n.Pos
		}
	}
	return l.starts
}

// FindNodeAt returns the index of the node whose range contains offset.
func (l *NodeList) FindNodeAt(offset int) (int, bool) {
	i := BisectRight(l.Starts(), offset) - 1
	if i < 0 || offset >= l.Nodes[i].End {
		return -1, false
	}
	return i, true
}

func (l *NodeList) NodeAt(offset int) *Node {
	i, ok := l.FindNodeAt(offset)
	if !ok {
		return nil
	}
	return l.Nodes[i]
}

// PathAt returns the chain of nodes containing offset, outermost first,
// descending into groups, environments and math.
func (l *NodeList) PathAt(offset int) []*Node {
	var path []*Node
	list := l
	for {
		n := list.NodeAt(offset)
		if n == nil {
			return path
		}
		path = append(path, n)
		if !n.HasChildren() || len(n.Children) == 0 {
			return path
		}
		list = n.ChildList()
	}
}

// Validate checks that node ranges are non-empty, strictly increasing and
// non-overlapping, at every level.
func (l *NodeList) Validate() error {
	if err := ValidateStarts(l.Starts()); err != nil {
		return err
	}
	for i, n := range l.Nodes {
		if n.End <= n.Pos {
			return &ParseError{Err: ErrIndexMisuse, Msg: fmt.Sprintf("node %d (%s) has empty range", i, n.Kind), Pos: n.Pos}
		}
		if i > 0 && l.Nodes[i-1].End > n.Pos {
			return &ParseError{Err: ErrIndexMisuse, Msg: fmt.Sprintf("node %d (%s) overlaps node %d", i, n.Kind, i-1), Pos: n.Pos}
		}
		if n.HasChildren() {
			if err := n.ChildList().Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *NodeList) Verbatim() string {
	var b strings.Builder
	for _, n := range l.Nodes {
		n.writeVerbatim(&b)
	}
	return b.String()
}

// ContentAsChars returns the text of a list made only of chars, comments
// and groups of those. Comments are skipped and group delimiters dropped.
func (l *NodeList) ContentAsChars() (string, error) {
	var b strings.Builder
	if err := contentAsChars(l.Nodes, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func contentAsChars(nodes []*Node, b *strings.Builder) error {
	for _, n := range nodes {
		switch n.Kind {
		case KindComment:
		case KindChars:
			b.WriteString(n.Text)
		case KindGroup:
			if err := contentAsChars(n.Children, b); err != nil {
				return err
			}
		default:
			return &ParseError{
				Err: ErrUnexpectedToken,
				Msg: fmt.Sprintf("expected simple characters only, got %s", n.Kind),
				Pos: n.Pos,
			}
		}
	}
	return nil
}

// Filter returns the nodes for which keep returns true. The span of an
// empty result collapses onto l.End.
func (l *NodeList) Filter(keep func(*Node) bool) *NodeList {
	var kept []*Node
	for _, n := range l.Nodes {
		if keep(n) {
			kept = append(kept, n)
		}
	}
	return NewNodeList(kept, l.End, l.End)
}

func (l *NodeList) String() string {
	var b strings.Builder
	for _, n := range l.Nodes {
		b.WriteString(n.String())
	}
	return b.String()
}

func (l *NodeList) StringWithPositions() string {
	var b strings.Builder
	for _, n := range l.Nodes {
		b.WriteString(n.StringWithPositions())
	}
	return b.String()
}
