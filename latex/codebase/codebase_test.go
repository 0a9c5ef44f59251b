package codebase

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhamidi/texnodes/latex/parser"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const sampleDoc = "\\section{Intro}\n\\begin{itemize}\n\\item one\n\\end{itemize}\n"

func kinds(nodes []*parser.Node) []parser.NodeKind {
	out := make([]parser.NodeKind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind
	}
	return out
}

func TestNodePathAtPoint(t *testing.T) {
	c := New("/tmp/texnodes_test", nil, nil)
	path := "/tmp/texnodes_test/doc.tex"
	c.UpdateFile(path, []byte(sampleDoc))

	f := c.GetFile(path)
	if f == nil {
		t.Fatal("GetFile returned nil")
	}
	if f.ParseErr != nil {
		t.Fatalf("ParseErr = %v, want nil", f.ParseErr)
	}

	tests := []struct {
		name   string
		line   int
		column int
		want   []parser.NodeKind
		last   string
	}{
		{"macro inside environment", 3, 2, []parser.NodeKind{parser.KindEnvironment, parser.KindMacro}, "item"},
		{"chars inside group", 1, 10, []parser.NodeKind{parser.KindGroup, parser.KindChars}, "Intro"},
		{"top level macro", 1, 1, []parser.NodeKind{parser.KindMacro}, "section"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.NodePathAtPoint(path, tt.line, tt.column)
			if len(got) != len(tt.want) {
				t.Fatalf("path = %v, want kinds %v", kinds(got), tt.want)
			}
			for i := range got {
				if got[i].Kind != tt.want[i] {
					t.Errorf("path[%d].Kind = %v, want %v", i, got[i].Kind, tt.want[i])
				}
			}
			last := got[len(got)-1]
			label := last.Name
			if last.Kind == parser.KindChars {
				label = last.Text
			}
			if label != tt.last {
				t.Errorf("innermost = %q, want %q", label, tt.last)
			}
		})
	}

	if got := c.NodePathAtPoint("/tmp/texnodes_test/missing.tex", 1, 1); got != nil {
		t.Errorf("NodePathAtPoint(missing) = %v, want nil", got)
	}
}

func TestUpdateFileKeepsTolerantResult(t *testing.T) {
	c := New("/tmp/texnodes_test", nil, nil)
	path := "/tmp/texnodes_test/broken.tex"
	c.UpdateFile(path, []byte("a}b"))

	f := c.GetFile(path)
	if f == nil || f.Nodes == nil {
		t.Fatal("expected a node list for malformed input")
	}
	if f.ParseErr != nil {
		t.Errorf("ParseErr = %v, want nil in tolerant mode", f.ParseErr)
	}
	if got := f.Nodes.Verbatim(); got != "a}b" {
		t.Errorf("Verbatim = %q, want %q", got, "a}b")
	}

	c.RemoveFile(path)
	if c.GetFile(path) != nil {
		t.Error("GetFile after RemoveFile should be nil")
	}
}

func TestHoverMarkdown(t *testing.T) {
	c := New("/tmp/texnodes_test", nil, nil)
	path := "/tmp/texnodes_test/doc.tex"
	c.UpdateFile(path, []byte(sampleDoc))

	got := hoverMarkdown(c.NodePathAtPoint(path, 3, 2))
	want := "Environment `itemize` › Macro `\\item`"
	if got != want {
		t.Errorf("hoverMarkdown = %q, want %q", got, want)
	}
}

func TestDocumentSymbols(t *testing.T) {
	c := New("/tmp/texnodes_test", nil, nil)
	path := "/tmp/texnodes_test/doc.tex"
	c.UpdateFile(path, []byte(sampleDoc))
	f := c.GetFile(path)

	symbols := documentSymbols(f.Nodes.Nodes, f)
	if len(symbols) != 2 {
		t.Fatalf("len(symbols) = %d, want 2", len(symbols))
	}

	section := symbols[0]
	if section.Name != "Intro" || section.Kind != protocol.SymbolKindKey {
		t.Errorf("symbols[0] = %q (%v), want %q (Key)", section.Name, section.Kind, "Intro")
	}
	wantRange := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 15},
	}
	if section.Range != wantRange {
		t.Errorf("section range = %+v, want %+v", section.Range, wantRange)
	}

	env := symbols[1]
	if env.Name != "itemize" || env.Kind != protocol.SymbolKindNamespace {
		t.Errorf("symbols[1] = %q (%v), want %q (Namespace)", env.Name, env.Kind, "itemize")
	}
	if env.Range.Start.Line != 1 || env.Range.End.Line != 3 {
		t.Errorf("environment lines = %d-%d, want 1-3", env.Range.Start.Line, env.Range.End.Line)
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/user/doc.tex", "/home/user/doc.tex"},
		{"file:///home/user/my%20doc.tex", "/home/user/my doc.tex"},
		{"/plain/path.tex", "/plain/path.tex"},
	}
	for _, tt := range tests {
		got, err := uriToPath(tt.uri)
		if err != nil {
			t.Errorf("uriToPath(%q) error: %v", tt.uri, err)
			continue
		}
		if got != tt.want {
			t.Errorf("uriToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestScanAllAndWatcher(t *testing.T) {
	dir := t.TempDir()
	tex := filepath.Join(dir, "main.tex")
	if err := os.WriteFile(tex, []byte("hello \\world"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(dir, nil, nil)
	if err := c.ScanAll(); err != nil {
		t.Fatalf("ScanAll: %v", err)
	}
	if got := c.Paths(); len(got) != 1 || got[0] != tex {
		t.Fatalf("Paths = %v, want [%s]", got, tex)
	}

	w := NewFileWatcher(c)
	w.scan()
	if _, ok := w.modTimes[tex]; !ok {
		t.Error("watcher did not record main.tex")
	}

	if err := os.Remove(tex); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if c.GetFile(tex) != nil {
		t.Error("removed file still present after scan")
	}
}

func TestLSPPositionsCountUTF16(t *testing.T) {
	c := New("/tmp/texnodes_test", nil, nil)
	path := "/tmp/texnodes_test/utf.tex"
	// é is one UTF-16 unit in two bytes; 𝄞 is two units in four bytes
	c.UpdateFile(path, []byte("é𝄞\\x y\nz"))
	f := c.GetFile(path)

	tests := []struct {
		offset int
		want   protocol.Position
	}{
		{0, protocol.Position{Line: 0, Character: 0}},
		{2, protocol.Position{Line: 0, Character: 1}},
		{6, protocol.Position{Line: 0, Character: 3}},
		{9, protocol.Position{Line: 0, Character: 6}},
		{11, protocol.Position{Line: 1, Character: 0}},
	}
	for _, tt := range tests {
		got := lspPosition(f, tt.offset)
		if got != tt.want {
			t.Errorf("lspPosition(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
		if back := byteOffset(f, got); back != tt.offset {
			t.Errorf("byteOffset(%+v) = %d, want %d", got, back, tt.offset)
		}
	}

	if got := byteOffset(f, protocol.Position{Line: 0, Character: 100}); got != 10 {
		t.Errorf("byteOffset past line end = %d, want 10", got)
	}

	nodes := f.Nodes.PathAt(byteOffset(f, protocol.Position{Line: 0, Character: 4}))
	if len(nodes) != 1 || nodes[0].Kind != parser.KindMacro || nodes[0].Name != "x" {
		t.Fatalf("path at character 4 = %v, want the \\x macro", nodes)
	}
	r := toRange(f, nodes[0].Pos, nodes[0].End)
	want := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 3},
		End:   protocol.Position{Line: 0, Character: 6},
	}
	if r != want {
		t.Errorf("macro range = %+v, want %+v", r, want)
	}
}

type change struct {
	path string
	kind ChangeKind
}

func TestWatcherLeavesOpenDocumentsAlone(t *testing.T) {
	dir := t.TempDir()
	edited := filepath.Join(dir, "edited.tex")
	if err := os.WriteFile(edited, []byte("on disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(dir, nil, nil)
	c.SetOpen(edited, true)
	c.UpdateFile(edited, []byte("in editor"))

	var changes []change
	w := NewFileWatcher(c, WithChangeHandler(func(path string, kind ChangeKind) {
		changes = append(changes, change{path, kind})
	}))
	w.scan()

	if got := string(c.GetFile(edited).Content); got != "in editor" {
		t.Errorf("open document content = %q, want %q", got, "in editor")
	}
	if len(changes) != 0 {
		t.Errorf("changes = %v, want none for an open document", changes)
	}

	if err := os.Remove(edited); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if c.GetFile(edited) == nil {
		t.Error("open document dropped after its file was deleted")
	}

	other := filepath.Join(dir, "other.tex")
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if err := os.Remove(other); err != nil {
		t.Fatal(err)
	}
	w.scan()

	want := []change{{other, FileChanged}, {other, FileRemoved}}
	if len(changes) != len(want) {
		t.Fatalf("changes = %v, want %v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("changes[%d] = %v, want %v", i, changes[i], want[i])
		}
	}
}

func TestWatcherOptions(t *testing.T) {
	c := New(t.TempDir(), nil, nil)

	if w := NewFileWatcher(c); w.pollInterval != DefaultPollInterval {
		t.Errorf("default pollInterval = %v, want %v", w.pollInterval, DefaultPollInterval)
	}
	if w := NewFileWatcher(c, WithPollInterval(0)); w.pollInterval != DefaultPollInterval {
		t.Errorf("pollInterval with zero = %v, want %v", w.pollInterval, DefaultPollInterval)
	}

	w := NewFileWatcher(c, WithPollInterval(5*time.Millisecond))
	if w.pollInterval != 5*time.Millisecond {
		t.Errorf("pollInterval = %v, want 5ms", w.pollInterval)
	}
	w.Start()
	w.Stop()
	w.Stop()
}
