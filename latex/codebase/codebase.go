package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/texnodes/latex/parser"
)

// sourceExtensions lists the file types scanned from disk.
var sourceExtensions = map[string]bool{
	".tex": true,
	".ltx": true,
	".sty": true,
	".cls": true,
}

func isSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	ctx     *parser.Context
	log     parser.Logger
	files   map[string]*FileInfo

	// paths whose content is owned by an editor buffer
	open map[string]bool
}

type FileInfo struct {
	Path     string
	Content  []byte
	Nodes    *parser.NodeList
	Lines    *parser.LineIndex
	ParseErr error
}

func New(rootDir string, ctx *parser.Context, log parser.Logger) *Codebase {
	if ctx == nil {
		ctx = parser.DefaultContext()
	}
	return &Codebase{
		rootDir: rootDir,
		ctx:     ctx,
		log:     log,
		files:   make(map[string]*FileInfo),
		open:    make(map[string]bool),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) ScanAll() error {
	return walkSources(c.rootDir, func(path string, _ fs.FileInfo) {
		if !c.IsOpen(path) {
			c.ScanFile(path)
		}
	})
}

// walkSources calls fn for every source file below root, skipping hidden
// directories. Unreadable entries are ignored.
func walkSources(root string, fn func(path string, info fs.FileInfo)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSourceFile(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		fn(path, info)
		return nil
	})
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile parses content in tolerant mode and replaces any previous
// version of path. The parse error, if any, is kept on the FileInfo.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	opts := []parser.Option{
		parser.WithFile(filepath.Base(path)),
		parser.WithContext(c.ctx),
		parser.WithTolerant(),
	}
	if c.log != nil {
		opts = append(opts, parser.WithLogger(c.log))
	}
	nodes, err := parser.Parse(content, opts...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = &FileInfo{
		Path:     path,
		Content:  content,
		Nodes:    nodes,
		Lines:    parser.NewLineIndex(filepath.Base(path), content),
		ParseErr: err,
	}
	return nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

// SetOpen marks path as held by an editor. While open, the editor's text
// wins over the file on disk.
func (c *Codebase) SetOpen(path string, open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if open {
		c.open[path] = true
	} else {
		delete(c.open, path)
	}
}

func (c *Codebase) IsOpen(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open[path]
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known file paths in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// NodePathAtPoint returns the nodes covering the 1-based line and byte column
// of path, outermost first.
func (c *Codebase) NodePathAtPoint(path string, line, column int) []*parser.Node {
	f := c.GetFile(path)
	if f == nil || f.Nodes == nil {
		return nil
	}
	return f.Nodes.PathAt(f.Lines.Offset(line, column))
}
