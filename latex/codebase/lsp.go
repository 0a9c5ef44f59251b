package codebase

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/texnodes/latex/parser"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "texnodes"

// sectioningMacros are reported as document symbols, titled by the group
// that follows them.
var sectioningMacros = map[string]bool{
	"part":          true,
	"chapter":       true,
	"section":       true,
	"subsection":    true,
	"subsubsection": true,
	"paragraph":     true,
}

type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
	ctx      *parser.Context
	watcher  *FileWatcher
	poll     time.Duration
	log      commonlog.Logger
}

// NewLSPServer creates a language server that parses documents with ctx.
// A nil ctx selects the default LaTeX settings.
func NewLSPServer(version string, ctx *parser.Context) *LSPServer {
	ls := &LSPServer{
		version: version,
		ctx:     ctx,
		log:     commonlog.GetLogger("texnodes.lsp"),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentHover:          ls.textDocumentHover,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

// SetPollInterval sets how often the workspace is checked for changes on
// disk. It must be called before RunStdio.
func (ls *LSPServer) SetPollInterval(d time.Duration) {
	ls.poll = d
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.ctx, commonlog.GetLogger(parser.LoggerName))

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		ls.log.Warning("initial scan failed", "root", ls.codebase.RootDir(), "error", err)
	}
	ls.watcher = NewFileWatcher(ls.codebase,
		WithPollInterval(ls.poll),
		WithChangeHandler(func(path string, kind ChangeKind) {
			ls.log.Debug("workspace file "+kind.String(), "path", path)
		}),
	)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.SetOpen(path, true)
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.SetOpen(path, false)
	if err := ls.codebase.ScanFile(path); err != nil {
		// unsaved buffer with no file behind it
		ls.codebase.RemoveFile(path)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else {
		ls.codebase.ScanFile(path)
	}
	return nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil || f.Nodes == nil {
		return nil, nil
	}

	nodes := f.Nodes.PathAt(byteOffset(f, params.Position))
	if len(nodes) == 0 {
		return nil, nil
	}

	innermost := nodes[len(nodes)-1]
	r := toRange(f, innermost.Pos, innermost.End)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: hoverMarkdown(nodes),
		},
		Range: &r,
	}, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil || f.Nodes == nil {
		return nil, nil
	}
	return documentSymbols(f.Nodes.Nodes, f), nil
}

// hoverMarkdown describes a node path, outermost first.
func hoverMarkdown(path []*parser.Node) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = describeNode(n)
	}
	return strings.Join(parts, " › ")
}

func describeNode(n *parser.Node) string {
	switch n.Kind {
	case parser.KindMacro:
		return fmt.Sprintf("Macro `%s%s`", n.Open, n.Name)
	case parser.KindEnvironment:
		return fmt.Sprintf("Environment `%s`", n.Name)
	case parser.KindGroup:
		return fmt.Sprintf("Group `%s%s`", n.Open, n.Close)
	case parser.KindMath:
		return fmt.Sprintf("Math (%s)", n.Name)
	case parser.KindSpecials:
		return fmt.Sprintf("Specials `%s`", n.Name)
	case parser.KindComment:
		return "Comment"
	}
	return n.Kind.String()
}

// documentSymbols lists environments and sectioning commands, nesting the
// symbols found inside environments.
func documentSymbols(nodes []*parser.Node, f *FileInfo) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for i, n := range nodes {
		switch n.Kind {
		case parser.KindEnvironment:
			symbols = append(symbols, protocol.DocumentSymbol{
				Name:           n.Name,
				Kind:           protocol.SymbolKindNamespace,
				Range:          toRange(f, n.Pos, n.End),
				SelectionRange: toRange(f, n.Pos, n.Pos+len(n.Open)),
				Children:       documentSymbols(n.Children, f),
			})
		case parser.KindMacro:
			if !sectioningMacros[n.Name] {
				continue
			}
			end := n.End
			title := ""
			if i+1 < len(nodes) && nodes[i+1].Kind == parser.KindGroup {
				end = nodes[i+1].End
				title, _ = nodes[i+1].ChildList().ContentAsChars()
			}
			detail := n.Name
			name := strings.TrimSpace(title)
			if name == "" {
				name = n.Open + n.Name
			}
			symbols = append(symbols, protocol.DocumentSymbol{
				Name:           name,
				Detail:         &detail,
				Kind:           protocol.SymbolKindKey,
				Range:          toRange(f, n.Pos, end),
				SelectionRange: toRange(f, n.Pos, n.End),
			})
		case parser.KindGroup, parser.KindMath:
			symbols = append(symbols, documentSymbols(n.Children, f)...)
		}
	}
	return symbols
}

func toRange(f *FileInfo, pos, end int) protocol.Range {
	return protocol.Range{
		Start: lspPosition(f, pos),
		End:   lspPosition(f, end),
	}
}

// lspPosition converts a byte offset into an LSP position. LSP counts
// characters in UTF-16 code units.
func lspPosition(f *FileInfo, offset int) protocol.Position {
	p := f.Lines.Position(offset)
	lineStart := p.Offset - (p.Column - 1)
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(utf16Len(f.Content[lineStart:p.Offset])),
	}
}

// byteOffset is the inverse of lspPosition. A character past the end of
// its line maps to the line end.
func byteOffset(f *FileInfo, pos protocol.Position) int {
	offset := f.Lines.Offset(int(pos.Line)+1, 1)
	units := 0
	for offset < len(f.Content) && f.Content[offset] != '\n' && units < int(pos.Character) {
		r, size := utf8.DecodeRune(f.Content[offset:])
		units += utf16.RuneLen(r)
		offset += size
	}
	return offset
}

func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		n += utf16.RuneLen(r)
		b = b[size:]
	}
	return n
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
