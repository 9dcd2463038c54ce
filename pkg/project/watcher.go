package project

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/composeport/pkg/convert"
	"github.com/gnana997/composeport/pkg/gen"
)

// WatchOptions configure the unit-file watcher.
type WatchOptions struct {
	// DebounceMs groups rapid successive writes to the same file.
	// 0 uses the default (200ms).
	DebounceMs int

	// OutDir receives re-generated Dart files. "" disables writing.
	OutDir string
}

// Watcher re-converts single units as their files change. Editors produce
// bursts of write events, so per-file debounce timers collapse them into
// one re-conversion.
type Watcher struct {
	watcher   *fsnotify.Watcher
	loader    *Loader
	converter *convert.Converter
	logger    *slog.Logger
	options   WatchOptions

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher over the given loader and converter.
func NewWatcher(loader *Loader, converter *convert.Converter, options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if options.DebounceMs == 0 {
		options.DebounceMs = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:        w,
		loader:         loader,
		converter:      converter,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start begins watching rootPath and its subdirectories.
func (w *Watcher) Start(rootPath string) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	w.mu.Unlock()

	if err := w.watcher.Add(rootPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", rootPath, err)
	}

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Continue on error.
		}
		if info.IsDir() {
			if shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				w.logger.Warn("failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	w.logger.Info("unit watcher started", "root", rootPath)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher. Idempotent.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("unit watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if !strings.HasSuffix(path, ".unit.json") {
		return
	}

	w.logger.Debug("unit file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write,
		event.Op&fsnotify.Create == fsnotify.Create:
		w.debounceReconvert(path)
	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		w.removeOutput(path)
	}
}

// debounceReconvert schedules a re-conversion after the debounce delay;
// bursts for the same file only trigger the last one.
func (w *Watcher) debounceReconvert(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}
	w.debounceTimers[path] = time.AfterFunc(
		time.Duration(w.options.DebounceMs)*time.Millisecond,
		func() {
			w.reconvert(path)
			w.debounceMu.Lock()
			delete(w.debounceTimers, path)
			w.debounceMu.Unlock()
		},
	)
}

// reconvert re-runs conversion for a single changed unit.
func (w *Watcher) reconvert(path string) {
	u, err := w.loader.LoadUnit(path)
	if err != nil {
		w.logger.Warn("failed to reload changed unit", "file", path, "error", err)
		return
	}

	res := w.converter.ConvertUnit(context.Background(), u)
	if res.Err != "" {
		w.logger.Warn("re-conversion failed", "unit", u.Path, "error", res.Err)
		return
	}

	if w.options.OutDir != "" && res.Output != nil {
		if err := WriteOutputs(w.options.OutDir, []*gen.Output{res.Output}); err != nil {
			w.logger.Warn("failed to write re-converted output", "unit", u.Path, "error", err)
			return
		}
	}
	w.logger.Info("unit re-converted", "unit", u.Path, "target", res.Output.TargetFile)
}

// removeOutput drops the generated file for a removed unit.
func (w *Watcher) removeOutput(path string) {
	if w.options.OutDir == "" {
		return
	}
	target := filepath.Join(w.options.OutDir, gen.TargetFileName(path))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		w.logger.Warn("failed to remove generated file", "path", target, "error", err)
	}
}

func shouldIgnoreDir(path string) bool {
	switch filepath.Base(path) {
	case ".git", "build", "node_modules", ".gradle":
		return true
	}
	return false
}
