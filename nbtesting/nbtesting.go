// Package nbtesting runs notebooks as Go subtests, so a repository's
// notebooks can be exercised by the ordinary go test workflow:
//
//	func TestNotebooks(t *testing.T) {
//		nbtesting.Run(t, "../notebooks")
//	}
package nbtesting

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/nbtest/nbtest/internal/discovery"
	"github.com/nbtest/nbtest/internal/kernel"
)

// DefaultTimeout is the per-notebook ceiling when WithTimeout is not given
const DefaultTimeout = 120 * time.Second

// Option configures a Run invocation
type Option func(*runner)

type runner struct {
	timeout    time.Duration
	kernelName string
	command    string
	exec       kernel.Executor
	ignoreDirs []string
}

// WithTimeout sets the per-notebook execution ceiling
func WithTimeout(timeout time.Duration) Option {
	return func(r *runner) {
		r.timeout = timeout
	}
}

// WithKernel sets the kernel name passed to the execution service
func WithKernel(name string) Option {
	return func(r *runner) {
		r.kernelName = name
	}
}

// WithCommand sets the executable used to run notebooks
func WithCommand(command string) Option {
	return func(r *runner) {
		r.command = command
	}
}

// WithExecutor replaces the kernel executor entirely, mainly for tests
func WithExecutor(exec kernel.Executor) Option {
	return func(r *runner) {
		r.exec = exec
	}
}

// WithIgnoreDirs replaces the default set of skipped directory names
func WithIgnoreDirs(dirs []string) Option {
	return func(r *runner) {
		r.ignoreDirs = dirs
	}
}

// Run registers one subtest per notebook found under root. A tree with
// no notebooks passes with a log line rather than failing.
func Run(t *testing.T, root string, opts ...Option) {
	t.Helper()

	r := &runner{
		timeout:    DefaultTimeout,
		kernelName: kernel.DefaultKernel,
		command:    kernel.DefaultCommand,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.exec == nil {
		r.exec = kernel.NewCommandExecutor(
			kernel.WithCommand(r.command),
			kernel.WithKernel(r.kernelName),
			kernel.WithLogger(slog.New(slog.DiscardHandler)),
		)
	}

	finderOpts := []discovery.Option{
		discovery.WithLogger(slog.New(slog.DiscardHandler)),
	}
	if len(r.ignoreDirs) > 0 {
		finderOpts = append(finderOpts, discovery.WithIgnoreDirs(r.ignoreDirs))
	}

	notebooks, err := discovery.NewFinder(finderOpts...).Find(root)
	if err != nil {
		t.Fatalf("notebook discovery failed for %s: %v", root, err)
	}

	if len(notebooks) == 0 {
		t.Logf("no notebooks found under %s", root)
		return
	}

	for _, path := range notebooks {
		path := path
		t.Run(subtestName(root, path), func(t *testing.T) {
			ctx := context.Background()
			if r.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, r.timeout)
				defer cancel()
			}

			if err := r.exec.Execute(ctx, path); err != nil {
				t.Fatalf("notebook %s failed: %v", path, err)
			}
		})
	}
}

// subtestName derives a stable subtest name from the notebook path
func subtestName(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
