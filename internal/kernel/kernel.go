// Package kernel wraps the external Jupyter execution service behind a small
// Executor interface so the orchestration layer can be tested with fakes.
//
// The real implementation shells out to `jupyter execute`, which reads the
// notebook, starts a fresh kernel, runs the cells in order, and exits non-zero
// on the first cell error. The task timeout is enforced here as a hard
// whole-notebook ceiling (not per cell): when the context deadline passes, the
// subprocess is killed and the failure is reported as util.ErrTimeout.
package kernel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nbtest/nbtest/internal/notebook"
	"github.com/nbtest/nbtest/internal/util"
)

// Executor runs one notebook end-to-end against a live kernel.
// A nil return means every cell executed cleanly.
type Executor interface {
	Execute(ctx context.Context, path string) error
}

// DefaultCommand is the executable used to run notebooks.
const DefaultCommand = "jupyter"

// DefaultKernel is the kernel name passed to the execution service.
const DefaultKernel = "python3"

// CommandExecutor executes notebooks via the jupyter CLI.
type CommandExecutor struct {
	command string
	kernel  string
	logger  *slog.Logger
}

// Option configures a CommandExecutor.
type Option func(*CommandExecutor)

// WithCommand overrides the jupyter executable.
func WithCommand(command string) Option {
	return func(e *CommandExecutor) {
		e.command = command
	}
}

// WithKernel sets the kernel name used for execution.
func WithKernel(kernel string) Option {
	return func(e *CommandExecutor) {
		e.kernel = kernel
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *CommandExecutor) {
		e.logger = logger
	}
}

// NewCommandExecutor creates an executor that shells out to the jupyter CLI.
func NewCommandExecutor(opts ...Option) *CommandExecutor {
	e := &CommandExecutor{
		command: DefaultCommand,
		kernel:  DefaultKernel,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the notebook at path. Every failure mode — malformed document,
// kernel startup failure, cell error, timeout — is returned as a single
// descriptive error wrapping one of the util sentinel errors. Nothing panics
// or propagates past this boundary.
func (e *CommandExecutor) Execute(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrMalformed, err)
	}

	// Parse before spawning so malformed documents fail fast without
	// paying for a kernel start.
	doc, err := notebook.Parse(data)
	if err != nil {
		return err
	}

	if doc.CodeCellCount() == 0 {
		e.logger.Debug("notebook has no code cells, skipping execution", "path", path)
		return nil
	}

	cmd := exec.CommandContext(ctx, e.command, "execute", "--kernel_name="+e.kernel, filepath.Base(path))
	// Run in the notebook's directory so relative paths inside cells resolve
	// the way they do in the Jupyter UI.
	cmd.Dir = filepath.Dir(path)
	cmd.Stdout = io.Discard

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// Give jupyter a moment to tear down its kernel subprocess after the
	// kill signal before we stop waiting on it.
	cmd.WaitDelay = 5 * time.Second

	e.logger.Debug("executing notebook",
		"path", path,
		"command", e.command,
		"kernel", e.kernel)

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr == nil {
		e.logger.Debug("notebook executed successfully", "path", path, "duration", elapsed)
		return nil
	}

	return classify(ctx, runErr, stderr.String())
}

// classify converts a subprocess failure into one of the sentinel error kinds
// with a human-readable message.
func classify(ctx context.Context, runErr error, stderr string) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return util.ErrTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		return util.ErrCancelled
	}

	// The executable itself could not be started
	var execErr *exec.Error
	if errors.As(runErr, &execErr) {
		return fmt.Errorf("%w: %v", util.ErrKernelStartup, execErr)
	}

	detail := tail(stderr, 3)
	if detail == "" {
		detail = runErr.Error()
	}

	if looksLikeKernelStartupFailure(stderr) {
		return fmt.Errorf("%w: %s", util.ErrKernelStartup, detail)
	}

	return fmt.Errorf("%w: %s", util.ErrCellFailed, detail)
}

// looksLikeKernelStartupFailure matches the stderr shapes jupyter produces
// when the kernel never came up, as opposed to a cell raising.
func looksLikeKernelStartupFailure(stderr string) bool {
	markers := []string{
		"No such kernel",
		"NoSuchKernel",
		"Kernel died",
		"kernel died before replying",
		"Could not find kernel",
	}
	for _, m := range markers {
		if strings.Contains(stderr, m) {
			return true
		}
	}
	return false
}

// tail returns the last n non-empty lines of s joined by "; ".
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")

	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" {
			kept = append(kept, line)
		}
	}

	// Restore original order
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}

	return strings.Join(kept, "; ")
}
