package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/texnodes/latex/parser"
)

// LineEncoder writes one tab-separated line per node: depth, kind, start,
// end and a quoted label. Children follow their parent.
type LineEncoder struct {
	w    io.Writer
	list *parser.NodeList
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(list *parser.NodeList) error {
	e.list = list
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, n := range e.list.Nodes {
		writeLine(&sb, n, 0)
	}
	return []byte(sb.String()), nil
}

func writeLine(sb *strings.Builder, n *parser.Node, depth int) {
	fmt.Fprintf(sb, "%d\t%s\t%d\t%d\t%q\n", depth, n.Kind, n.Pos, n.End, lineLabel(n))
	for _, child := range n.Children {
		writeLine(sb, child, depth+1)
	}
}

func lineLabel(n *parser.Node) string {
	switch n.Kind {
	case parser.KindChars, parser.KindComment:
		return n.Text
	case parser.KindMacro:
		return n.Open + n.Name
	case parser.KindGroup, parser.KindMath:
		return n.Open + n.Close
	}
	return n.Name
}
