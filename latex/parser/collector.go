package parser

import (
	"errors"
	"fmt"
	"slices"
)

type State int

const (
	StateIdle State = iota
	StateAccumulating
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAccumulating:
		return "Accumulating"
	case StateDone:
		return "Done"
	}
	return "Unknown"
}

// FinalizePolicy decides what NodeList does when called before the
// collector reached end of stream.
type FinalizePolicy int

const (
	// FinalizeFlush treats the call as end of stream: pending characters
	// are flushed and the collector moves to Done.
	FinalizeFlush FinalizePolicy = iota

	// FinalizeReject makes NodeList fail with ErrNotDone.
	FinalizeReject
)

type Option func(*Collector)

func WithLogger(log Logger) Option {
	return func(c *Collector) {
		c.log = log
	}
}

func WithFinalizePolicy(policy FinalizePolicy) Option {
	return func(c *Collector) {
		c.policy = policy
	}
}

// WithTolerant makes the collector log and recover from parse errors
// instead of returning them.
func WithTolerant() Option {
	return func(c *Collector) {
		c.tolerant = true
	}
}

// WithDebugChecks validates the finished node list before handing it out.
func WithDebugChecks() Option {
	return func(c *Collector) {
		c.debug = true
	}
}

// WithStopToken ends collection at the first non-char token for which stop
// returns true. The token is consumed but not turned into a node.
func WithStopToken(stop func(Token) bool) Option {
	return func(c *Collector) {
		c.stop = stop
	}
}

// WithContext sets the tokenizer settings. It is needed when the source is
// not a *Lexer; Parse also uses it to build its Lexer.
func WithContext(ctx *Context) Option {
	return func(c *Collector) {
		c.ctx = ctx
	}
}

// WithFile names the input for positions reported by Parse.
func WithFile(path string) Option {
	return func(c *Collector) {
		c.file = path
	}
}

// Collector turns a token stream into a node list in a single pass.
// Consecutive char tokens are merged into one chars node; groups,
// environments and math are collected recursively by child collectors
// reading from a fork of the cursor.
type Collector struct {
	cursor   *Cursor
	ctx      *Context
	file     string
	log      Logger
	policy   FinalizePolicy
	tolerant bool
	debug    bool
	stop     func(Token) bool
	open     []OpenContext

	startPos  int
	nodes     []*Node
	pending   pendingChars
	state     State
	list      *NodeList
	finalErr  error
	stopToken *Token
}

func NewCollector(src Source, opts ...Option) *Collector {
	c := newCollector(opts)
	if lexer, ok := src.(*Lexer); ok && c.ctx == nil {
		c.ctx = lexer.Context()
	}
	if c.ctx == nil {
		c.ctx = DefaultContext()
	}
	c.cursor = NewCursor(src)
	return c
}

func newCollector(opts []Option) *Collector {
	c := &Collector{}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = defaultLogger()
	}
	return c
}

// Parse collects the node list of input. On failure the nodes collected
// before the error are returned along with it.
func Parse(input []byte, opts ...Option) (*NodeList, error) {
	c := newCollector(opts)
	c.cursor = NewCursor(NewLexer(input, c.file, c.ctx))
	if c.ctx == nil {
		c.ctx = DefaultContext()
	}
	if err := c.Run(); err != nil {
		c.flushPending()
		return NewNodeList(c.Nodes(), 0, c.cursor.Pos()), err
	}
	return c.NodeList()
}

func (c *Collector) State() State {
	return c.state
}

// Pos returns the offset of the next unread input.
func (c *Collector) Pos() int {
	return c.cursor.Pos()
}

// Nodes returns the nodes pushed so far, without flushing.
func (c *Collector) Nodes() []*Node {
	return c.nodes
}

// StopToken returns the token that matched the stop condition, if any.
func (c *Collector) StopToken() *Token {
	return c.stopToken
}

// Run processes tokens until end of stream or the stop condition, then
// finalizes the node list.
func (c *Collector) Run() error {
	for {
		err := c.ProcessOne()
		if err == nil {
			continue
		}
		if errors.Is(err, ErrEndOfStream) || errors.Is(err, ErrStopReached) {
			return c.finalErr
		}
		return err
	}
}

// ProcessOne reads one token and processes it, recursing into nested
// regions. ErrEndOfStream and ErrStopReached mean the collector is now
// Done; any other error leaves the nodes collected so far in place.
func (c *Collector) ProcessOne() error {
	if c.state == StateDone {
		return ErrFinalized
	}

	tok, err := c.cursor.Next()
	if err != nil {
		if errors.Is(err, ErrEndOfStream) {
			c.finalize()
			return ErrEndOfStream
		}
		var perr *ParseError
		if !c.tolerant || !errors.As(err, &perr) || perr.Placeholder == nil {
			c.flushPending()
			return c.annotate(err)
		}
		c.log.Warning("recovering from malformed token", "pos", perr.Pos, "error", perr.Msg)
		if err := c.cursor.AdvanceTo(perr.RecoveryPos); err != nil {
			return err
		}
		tok = *perr.Placeholder
	}

	if tok.Kind == TokenChar {
		c.pushChars(tok)
		return nil
	}

	c.flushPending()

	if c.stop != nil && c.stop(tok) {
		c.stopToken = &tok
		c.finalize()
		return ErrStopReached
	}

	switch tok.Kind {
	case TokenComment:
		c.push(&Node{
			Kind:      KindComment,
			Pos:       tok.Pos,
			End:       tok.End(),
			Open:      c.ctx.CommentStart,
			Text:      tok.Arg,
			PostSpace: tok.PostSpace,
		})
		return nil

	case TokenMacro:
		c.push(&Node{
			Kind:      KindMacro,
			Pos:       tok.Pos,
			End:       tok.End(),
			Open:      c.ctx.EscapeChar,
			Name:      tok.Arg,
			PostSpace: tok.PostSpace,
		})
		return nil

	case TokenSpecials:
		c.push(&Node{Kind: KindSpecials, Pos: tok.Pos, End: tok.End(), Name: tok.Arg})
		return nil

	case TokenBraceOpen:
		closeDelim, ok := c.ctx.GroupClose(tok.Arg)
		if !ok {
			return c.unexpected(tok, fmt.Sprintf("unknown group delimiter %q", tok.Arg))
		}
		return c.collectNested(tok, KindGroup, "", fmt.Sprintf("group %q", tok.Arg), "", func(t Token) bool {
			return t.Kind == TokenBraceClose && t.Arg == closeDelim
		})

	case TokenBeginEnvironment:
		name := tok.Arg
		return c.collectNested(tok, KindEnvironment, name, fmt.Sprintf("environment {%s}", name), "", func(t Token) bool {
			return t.Kind == TokenEndEnvironment && t.Arg == name
		})

	case TokenMathInline, TokenMathDisplay:
		d, ok := c.ctx.MathOpening(tok.Arg)
		if !ok {
			return c.unexpected(tok, fmt.Sprintf("unexpected closing math delimiter %q", tok.Arg))
		}
		name := "inline"
		if d.Display {
			name = "display"
		}
		return c.collectNested(tok, KindMath, name, fmt.Sprintf("%s math %q", name, tok.Arg), d.Close, func(t Token) bool {
			return (t.Kind == TokenMathInline || t.Kind == TokenMathDisplay) && t.Arg == d.Close
		})

	case TokenBraceClose:
		return c.unexpected(tok, fmt.Sprintf("unexpected closing delimiter %q", tok.Arg))

	case TokenEndEnvironment:
		return c.unexpected(tok, fmt.Sprintf("unexpected closing environment {%s}", tok.Arg))
	}

	return c.unexpected(tok, fmt.Sprintf("unknown token kind %s", tok.Kind))
}

// NodeList returns the finished node list. Before Done the result depends
// on the finalize policy. Once Done, every call returns the same list.
func (c *Collector) NodeList() (*NodeList, error) {
	if c.state != StateDone {
		if c.policy == FinalizeReject {
			return nil, ErrNotDone
		}
		c.finalize()
	}
	return c.list, c.finalErr
}

// FindNodeAt returns the index of the node covering offset in the finished
// node list.
func (c *Collector) FindNodeAt(offset int) (int, bool) {
	list, err := c.NodeList()
	if err != nil {
		return -1, false
	}
	return list.FindNodeAt(offset)
}

func (c *Collector) finalize() {
	if c.state == StateDone {
		return
	}
	c.flushPending()

	end := c.cursor.Pos()
	if c.stopToken != nil {
		end = c.stopToken.Pos
	}
	c.list = NewNodeList(c.nodes, c.startPos, end)
	c.state = StateDone

	if c.debug {
		if err := c.list.Validate(); err != nil {
			c.log.Critical("finished node list violates ordering", "error", err)
			c.finalErr = err
		}
	}
}

func (c *Collector) pushChars(tok Token) {
	if !c.pending.empty() && tok.Pos != c.pending.end() {
		c.flushPending()
	}
	c.pending.push(tok)
	c.state = StateAccumulating
}

func (c *Collector) flushPending() {
	if node := c.pending.flush(); node != nil {
		c.nodes = append(c.nodes, node)
	}
	if c.state == StateAccumulating {
		c.state = StateIdle
	}
}

func (c *Collector) push(node *Node) {
	c.nodes = append(c.nodes, node)
}

func (c *Collector) unexpected(tok Token, msg string) error {
	if !c.tolerant {
		return c.annotate(&ParseError{Err: ErrUnexpectedToken, Msg: msg, Pos: tok.Pos})
	}
	c.log.Error(msg, "pos", tok.Pos, "token", tok.Text)
	c.pushChars(Token{Kind: TokenChar, Text: tok.Text, Arg: tok.Text, Pos: tok.Pos, Len: tok.Len})
	return nil
}

// annotate attaches the open regions and partial nodes of c to a
// *ParseError that does not carry them yet.
func (c *Collector) annotate(err error) error {
	var perr *ParseError
	if !errors.As(err, &perr) {
		return err
	}
	if perr.Open == nil && len(c.open) > 0 {
		perr.Open = slices.Clone(c.open)
	}
	if perr.Nodes == nil {
		perr.Nodes = c.nodes
	}
	return err
}

// newChild returns a collector for the region opened by open. It reads
// from a fork of c's cursor and stops at the first token matching stop.
func (c *Collector) newChild(open Token, what string, stop func(Token) bool) *Collector {
	return &Collector{
		cursor:   c.cursor.Fork(),
		ctx:      c.ctx,
		file:     c.file,
		log:      c.log,
		policy:   FinalizeFlush,
		tolerant: c.tolerant,
		debug:    c.debug,
		stop:     stop,
		open:     append(slices.Clone(c.open), OpenContext{What: what, Pos: open.Pos}),
		startPos: open.End(),
	}
}

// collectNested collects the region opened by open into a node of kind.
// A non-empty closeDelim is the math delimiter the region expects.
func (c *Collector) collectNested(open Token, kind NodeKind, name, what, closeDelim string, stop func(Token) bool) error {
	c.log.Debug("collecting nested region", "what", what, "pos", open.Pos)

	child := c.newChild(open, what, stop)
	if closeDelim != "" {
		child.cursor.Expect(closeDelim)
	}
	err := child.Run()
	if aerr := c.cursor.AdvanceTo(child.cursor.Pos()); aerr != nil {
		return aerr
	}
	if err != nil {
		return err
	}

	node := &Node{
		Kind:     kind,
		Pos:      open.Pos,
		Name:     name,
		Open:     open.Text,
		Children: child.list.Nodes,
	}

	if child.stopToken == nil {
		perr := &ParseError{
			Err:   ErrUnclosedGroup,
			Msg:   fmt.Sprintf("%s was never closed", what),
			Pos:   open.Pos,
			Open:  child.open,
			Nodes: child.list.Nodes,
		}
		if !c.tolerant {
			return perr
		}
		c.log.Error(perr.Msg, "pos", open.Pos)
		node.End = child.cursor.Pos()
	} else {
		node.Close = child.stopToken.Text
		node.End = child.stopToken.End()
	}

	c.push(node)
	return nil
}
