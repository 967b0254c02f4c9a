// Package watch re-executes notebooks as they change on disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nbtest/nbtest/internal/discovery"
	"github.com/nbtest/nbtest/internal/executor"
	"github.com/nbtest/nbtest/internal/kernel"
	"github.com/nbtest/nbtest/internal/util"
)

// debounceWindow suppresses duplicate events from editors that write
// a file several times in quick succession
const debounceWindow = 500 * time.Millisecond

// Runner watches a directory tree and executes notebooks when they change
type Runner struct {
	exec     kernel.Executor
	timeout  time.Duration
	logger   *slog.Logger
	ignore   map[string]struct{}
	onResult func(executor.Result)

	lastRun map[string]time.Time
}

// Option configures a Runner
type Option func(*Runner)

// WithTimeout sets the per-notebook execution ceiling
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger used by the runner
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithIgnoreDirs replaces the default set of skipped directory names
func WithIgnoreDirs(dirs []string) Option {
	return func(r *Runner) {
		r.ignore = make(map[string]struct{}, len(dirs))
		for _, d := range dirs {
			r.ignore[d] = struct{}{}
		}
	}
}

// WithResultHandler sets the callback invoked after each execution
func WithResultHandler(fn func(executor.Result)) Option {
	return func(r *Runner) {
		r.onResult = fn
	}
}

// NewRunner creates a watch runner backed by the given executor
func NewRunner(exec kernel.Executor, opts ...Option) *Runner {
	r := &Runner{
		exec:    exec,
		timeout: 120 * time.Second,
		logger:  slog.Default(),
		ignore:  make(map[string]struct{}),
		lastRun: make(map[string]time.Time),
	}
	for _, d := range discovery.DefaultIgnoreDirs {
		r.ignore[d] = struct{}{}
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Watch blocks, re-executing notebooks under root as they are written,
// until the context is cancelled
func (r *Runner) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return util.WrapErrorf(err, "failed to create watcher")
	}
	defer watcher.Close()

	if err := r.addTree(watcher, root); err != nil {
		return err
	}

	r.logger.Info("watching for notebook changes", "root", root)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(ctx, watcher, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watch error", "error", err)
		}
	}
}

// addTree registers root and every non-ignored subdirectory with the watcher
func (r *Runner) addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			r.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && r.excludedDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return util.WrapErrorf(err, "failed to watch %s", path)
		}
		return nil
	})
}

// handleEvent reacts to a single filesystem event
func (r *Runner) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	// New directories need to be added to the watch set as they appear
	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if !r.excludedDir(filepath.Base(event.Name)) {
			if err := watcher.Add(event.Name); err != nil {
				r.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
		return
	}

	if !util.IsNotebook(event.Name) || r.insideIgnoredDir(event.Name) {
		return
	}

	// Editors emit bursts of writes for a single save
	if last, ok := r.lastRun[event.Name]; ok && time.Since(last) < debounceWindow {
		return
	}
	r.lastRun[event.Name] = time.Now()

	r.runNotebook(ctx, event.Name)
}

// runNotebook executes a single changed notebook and reports the result
func (r *Runner) runNotebook(ctx context.Context, path string) {
	r.logger.Debug("notebook changed", "path", path)

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := r.exec.Execute(runCtx, path)
	result := executor.Result{
		Path:     path,
		Err:      err,
		Duration: time.Since(start),
	}

	if r.onResult != nil {
		r.onResult(result)
	}
}

// insideIgnoredDir reports whether any path element is an ignored directory
func (r *Runner) insideIgnoredDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if r.excludedDir(part) {
			return true
		}
	}
	return false
}

// excludedDir reports whether a directory name should be skipped
func (r *Runner) excludedDir(name string) bool {
	if name == discovery.CheckpointDir {
		return true
	}
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	_, found := r.ignore[name]
	return found
}

// isDir reports whether path exists and is a directory
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
