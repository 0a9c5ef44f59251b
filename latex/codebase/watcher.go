package codebase

import (
	"io/fs"
	"sync"
	"time"
)

const DefaultPollInterval = time.Second

// ChangeKind tells a change handler what happened to a file.
type ChangeKind int

const (
	FileChanged ChangeKind = iota
	FileRemoved
)

func (k ChangeKind) String() string {
	if k == FileRemoved {
		return "removed"
	}
	return "changed"
}

type WatcherOption func(*FileWatcher)

func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *FileWatcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithChangeHandler registers fn to run after a file was reparsed or
// dropped from the codebase.
func WithChangeHandler(fn func(path string, kind ChangeKind)) WatcherOption {
	return func(w *FileWatcher) {
		w.onChange = fn
	}
}

// FileWatcher polls the codebase root for LaTeX sources. Files changed on
// disk are reparsed unless an editor holds them open; deleted files are
// dropped.
type FileWatcher struct {
	codebase     *Codebase
	pollInterval time.Duration
	onChange     func(path string, kind ChangeKind)
	modTimes     map[string]time.Time
	stopCh       chan struct{}
	stopOnce     sync.Once
}

func NewFileWatcher(c *Codebase, opts ...WatcherOption) *FileWatcher {
	w := &FileWatcher{
		codebase:     c,
		pollInterval: DefaultPollInterval,
		modTimes:     make(map[string]time.Time),
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *FileWatcher) Start() {
	go w.run()
}

// Stop ends polling. It is safe to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) scan() {
	seen := make(map[string]bool)

	walkSources(w.codebase.RootDir(), func(path string, info fs.FileInfo) {
		seen[path] = true

		lastMod, known := w.modTimes[path]
		if known && !info.ModTime().After(lastMod) {
			return
		}
		w.modTimes[path] = info.ModTime()
		if w.codebase.IsOpen(path) {
			return
		}
		if err := w.codebase.ScanFile(path); err == nil {
			w.notify(path, FileChanged)
		}
	})

	for path := range w.modTimes {
		if seen[path] {
			continue
		}
		delete(w.modTimes, path)
		if w.codebase.IsOpen(path) {
			continue
		}
		w.codebase.RemoveFile(path)
		w.notify(path, FileRemoved)
	}
}

func (w *FileWatcher) notify(path string, kind ChangeKind) {
	if w.onChange != nil {
		w.onChange(path, kind)
	}
}
