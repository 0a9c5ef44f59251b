package parser

import "sort"

type Delimiters struct {
	Open  string
	Close string
}

type MathDelimiters struct {
	Open    string
	Close   string
	Display bool
}

// Context holds the tokenizer settings: which characters introduce macros,
// comments, groups, math and specials.
type Context struct {
	EscapeChar   string
	CommentStart string
	Groups       []Delimiters
	Math         []MathDelimiters
	Specials     []string
	Environments bool
	Comments     bool
}

func DefaultContext() *Context {
	return &Context{
		EscapeChar:   `\`,
		CommentStart: "%",
		Groups:       []Delimiters{{Open: "{", Close: "}"}},
		Math: []MathDelimiters{
			{Open: `\[`, Close: `\]`, Display: true},
			{Open: `\(`, Close: `\)`},
			{Open: "$$", Close: "$$", Display: true},
			{Open: "$", Close: "$"},
		},
		Specials:     []string{"~", "&", "#", "^", "_", "---", "--", "``", "''"},
		Environments: true,
		Comments:     true,
	}
}

// GroupClose returns the closing delimiter matching open.
func (c *Context) GroupClose(open string) (string, bool) {
	for _, d := range c.Groups {
		if d.Open == open {
			return d.Close, true
		}
	}
	return "", false
}

// MathOpening returns the math delimiters opened by open.
func (c *Context) MathOpening(open string) (MathDelimiters, bool) {
	for _, d := range c.Math {
		if d.Open == open {
			return d, true
		}
	}
	return MathDelimiters{}, false
}

type delimKind struct {
	text string
	kind TokenKind
}

// lexTable is the per-Lexer view of a Context, with every multi-character
// alternative sorted longest first.
type lexTable struct {
	math     []delimKind
	groups   []delimKind
	specials []string
}

func newLexTable(c *Context) lexTable {
	var t lexTable
	seen := make(map[string]bool)
	for _, d := range c.Math {
		for _, text := range []string{d.Open, d.Close} {
			if text == "" || seen[text] {
				continue
			}
			seen[text] = true
			kind := TokenMathInline
			if d.Display {
				kind = TokenMathDisplay
			}
			t.math = append(t.math, delimKind{text: text, kind: kind})
		}
	}
	for _, d := range c.Groups {
		if d.Open != "" {
			t.groups = append(t.groups, delimKind{text: d.Open, kind: TokenBraceOpen})
		}
		if d.Close != "" {
			t.groups = append(t.groups, delimKind{text: d.Close, kind: TokenBraceClose})
		}
	}
	for _, s := range c.Specials {
		if s != "" {
			t.specials = append(t.specials, s)
		}
	}

	sort.SliceStable(t.math, func(i, j int) bool { return len(t.math[i].text) > len(t.math[j].text) })
	sort.SliceStable(t.groups, func(i, j int) bool { return len(t.groups[i].text) > len(t.groups[j].text) })
	sort.SliceStable(t.specials, func(i, j int) bool { return len(t.specials[i]) > len(t.specials[j]) })
	return t
}
