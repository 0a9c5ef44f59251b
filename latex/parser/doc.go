// Package parser turns LaTeX source into a tree of nodes.
//
// # Overview
//
// Parsing happens in two layers. A Lexer produces tokens on demand from a
// byte slice: TokenAt(pos) is a pure function of the input, so the lexer
// keeps no read position. A Collector reads tokens through a Cursor and
// builds a NodeList in a single pass:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│  Collector  │
//	│  (bytes)    │     │  (tokens)   │     │ (NodeList)  │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                                               │
//	                                               ▼
//	                                        ┌─────────────┐
//	                                        │  Position   │
//	                                        │   Index     │
//	                                        └─────────────┘
//
// Consecutive character tokens are merged into a single chars node. Groups,
// environments and math are collected by child collectors reading from a
// fork of the parent cursor; the parent moves past the region once the
// child has found the closing delimiter.
//
// # Collector States
//
//	Idle ──char──▶ Accumulating ──other token──▶ Idle
//	  │                 │
//	  └──end of stream──┴──▶ Done
//
// Once Done, NodeList always returns the same list and ProcessOne fails
// with ErrFinalized. Calling NodeList before the end of the stream either
// finalizes early (FinalizeFlush, the default) or fails with ErrNotDone
// (FinalizeReject).
//
// # Errors
//
// Failures are reported as *ParseError values wrapping one of the package
// sentinels, together with the regions that were open and the nodes
// collected before the failure. WithTolerant logs these through the Logger
// and keeps going instead, which is what editors want.
//
// # Lookup
//
// Nodes in a NodeList have strictly increasing, non-overlapping ranges.
// FindNodeAt uses BisectRight over the node start offsets, and LineIndex
// uses the same search over line starts to convert offsets into line and
// column numbers.
//
// # Usage
//
//	list, err := parser.Parse(input, parser.WithFile("paper.tex"))
//	if err != nil {
//	    return err
//	}
//	for _, n := range list.PathAt(offset) {
//	    fmt.Println(n.Kind)
//	}
package parser
