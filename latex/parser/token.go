package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type TokenKind int

const (
	TokenChar TokenKind = iota
	TokenMacro
	TokenBeginEnvironment
	TokenEndEnvironment
	TokenBraceOpen
	TokenBraceClose
	TokenComment
	TokenSpecials
	TokenMathInline
	TokenMathDisplay
)

var tokenKindNames = map[TokenKind]string{
	TokenChar:             "Char",
	TokenMacro:            "Macro",
	TokenBeginEnvironment: "BeginEnvironment",
	TokenEndEnvironment:   "EndEnvironment",
	TokenBraceOpen:        "BraceOpen",
	TokenBraceClose:       "BraceClose",
	TokenComment:          "Comment",
	TokenSpecials:         "Specials",
	TokenMathInline:       "MathInline",
	TokenMathDisplay:      "MathDisplay",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Token is one lexical unit read from the input. Text is the raw source
// span input[Pos:Pos+Len]; Arg is the kind-specific payload (macro name
// without escape character, environment name, comment text, ...).
type Token struct {
	Kind      TokenKind
	Text      string
	Arg       string
	Pos       int
	Len       int
	PostSpace string
}

// End returns the offset immediately after the token.
func (t Token) End() int {
	return t.Pos + t.Len
}

func (t Token) String() string {
	return fmt.Sprintf("%d+%d %s %q", t.Pos, t.Len, t.Kind, t.Text)
}

// Source produces tokens on demand. TokenAt returns the token that starts
// at or after pos, ErrEndOfStream when the input is exhausted, or a
// *ParseError wrapping ErrMalformedToken.
type Source interface {
	TokenAt(pos int) (Token, error)
}

// ExpectingSource is a Source that can be told which closing math
// delimiter is expected. Inside $...$ the text "$$" then reads as the
// closing "$" followed by an opening "$", not as display math.
type ExpectingSource interface {
	Source
	TokenAtExpecting(pos int, closeDelim string) (Token, error)
}
