package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Task represents one notebook execution unit of work.
// Tasks are immutable once submitted.
type Task struct {
	// Path identifies the notebook this task targets
	Path string

	// Timeout is the hard per-notebook execution ceiling.
	// Zero means no limit beyond the pool's own context.
	Timeout time.Duration

	// Run is the function to execute for this task.
	// A nil return means the notebook executed cleanly.
	Run func(ctx context.Context) error
}

// Result represents the terminal outcome of executing a task
type Result struct {
	// Path identifies which notebook this result is from
	Path string

	// Err contains the execution failure (nil if successful)
	Err error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Success reports whether the notebook executed without error
func (r Result) Success() bool {
	return r.Err == nil
}

// Pool manages a pool of workers that execute notebook tasks concurrently.
// It provides bounded concurrency, fail-fast dispatch, graceful shutdown,
// and progress reporting.
type Pool struct {
	// workers is the number of concurrent workers
	workers int

	// tasks is the queue of tasks to execute
	tasks []Task

	// failFast stops dispatching new tasks after the first failure
	failFast bool

	// mu protects the tasks slice
	mu sync.Mutex

	// logger for structured logging
	logger *slog.Logger

	// shutdown indicates if the pool is shutting down
	shutdown atomic.Bool

	// running indicates if the pool is currently executing
	running atomic.Bool
}

// PoolOption configures a Pool
type PoolOption func(*Pool)

// WithFailFast stops dispatching queued tasks once any task has failed.
// Tasks already running are always allowed to finish; abandoned tasks
// produce no Result.
func WithFailFast() PoolOption {
	return func(p *Pool) {
		p.failFast = true
	}
}

// NewPool creates a new worker pool with the specified number of workers.
// workers must be > 0, otherwise it defaults to 1.
func NewPool(workers int, logger *slog.Logger, opts ...PoolOption) *Pool {
	if workers <= 0 {
		workers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		workers: workers,
		tasks:   make([]Task, 0),
		logger:  logger,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Submit adds a task to the pool's queue.
// Returns an error if the pool is shutting down or already running.
func (p *Pool) Submit(task Task) error {
	if p.shutdown.Load() {
		return fmt.Errorf("pool is shutting down, cannot submit new tasks")
	}

	if p.running.Load() {
		return fmt.Errorf("pool is running, cannot submit new tasks")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if task.Path == "" {
		return fmt.Errorf("task must have a notebook path")
	}

	if task.Run == nil {
		return fmt.Errorf("task must have a run function")
	}

	p.tasks = append(p.tasks, task)
	p.logger.Debug("task submitted", "path", task.Path, "total_tasks", len(p.tasks))

	return nil
}

// Execute runs all submitted tasks using the worker pool pattern.
// Results are returned in completion order, not submission order: whichever
// notebook finishes first is reported first. Every started task yields
// exactly one Result; tasks abandoned by fail-fast or context cancellation
// yield none.
func (p *Pool) Execute(ctx context.Context) []Result {
	return p.ExecuteWithProgress(ctx, nil)
}

// ExecuteWithProgress runs all tasks with progress reporting.
// The progressFn callback is called after each task completes with
// (completed, total) counts.
func (p *Pool) ExecuteWithProgress(ctx context.Context, progressFn func(result Result, completed, total int)) []Result {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Error("pool is already running")
		return []Result{}
	}
	defer p.running.Store(false)

	p.mu.Lock()
	taskCount := len(p.tasks)
	if taskCount == 0 {
		p.mu.Unlock()
		p.logger.Debug("no tasks to execute")
		return []Result{}
	}

	// Create a copy of tasks to avoid holding the lock during execution
	tasksCopy := make([]Task, len(p.tasks))
	copy(tasksCopy, p.tasks)
	p.mu.Unlock()

	// Don't create more workers than tasks
	workerCount := p.workers
	if workerCount > taskCount {
		workerCount = taskCount
	}

	p.logger.Info("starting notebook execution",
		"workers", workerCount,
		"notebooks", taskCount)

	startTime := time.Now()

	// Buffer size = task count so workers never block on sends
	taskChan := make(chan Task, taskCount)
	resultChan := make(chan Result, taskCount)

	// Completed counter for progress reporting, failure flag for fail-fast
	var completed atomic.Int32
	var failed atomic.Bool

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go p.worker(ctx, i, taskChan, resultChan, &wg, &completed, &failed, taskCount, progressFn)
	}

	for _, task := range tasksCopy {
		taskChan <- task
	}
	close(taskChan)

	// Wait for all workers to complete
	wg.Wait()
	close(resultChan)

	// Collect results in the order tasks finished
	results := make([]Result, 0, taskCount)
	for res := range resultChan {
		results = append(results, res)
	}

	totalDuration := time.Since(startTime)
	passCount := CountPassed(results)

	p.logger.Info("notebook execution completed",
		"total", taskCount,
		"executed", len(results),
		"passed", passCount,
		"failed", len(results)-passCount,
		"duration", totalDuration)

	return results
}

// worker processes tasks from the task channel until it is drained, the
// context is cancelled, or fail-fast tripped.
func (p *Pool) worker(
	ctx context.Context,
	workerID int,
	taskChan <-chan Task,
	resultChan chan<- Result,
	wg *sync.WaitGroup,
	completed *atomic.Int32,
	failed *atomic.Bool,
	total int,
	progressFn func(result Result, completed, total int),
) {
	defer wg.Done()

	p.logger.Debug("worker started", "worker_id", workerID)

	for {
		if p.failFast && failed.Load() {
			p.logger.Debug("worker stopping, fail-fast tripped", "worker_id", workerID)
			return
		}

		// Checked here as well as in the select: when both the context and
		// the task channel are ready, select picks randomly, and a cancelled
		// pool must not start fresh tasks.
		if ctx.Err() != nil {
			p.logger.Debug("worker stopping due to context cancellation", "worker_id", workerID)
			return
		}

		select {
		case <-ctx.Done():
			p.logger.Debug("worker stopping due to context cancellation", "worker_id", workerID)
			return

		case task, ok := <-taskChan:
			if !ok {
				// Channel closed, no more tasks
				p.logger.Debug("worker finished (no more tasks)", "worker_id", workerID)
				return
			}

			result := p.executeTask(ctx, task)
			resultChan <- result

			if result.Err != nil {
				failed.Store(true)
			}

			completedCount := completed.Add(1)
			p.logger.Debug("task completed",
				"worker_id", workerID,
				"path", task.Path,
				"success", result.Success(),
				"duration", result.Duration,
				"progress", fmt.Sprintf("%d/%d", completedCount, total))

			if progressFn != nil {
				progressFn(result, int(completedCount), total)
			}
		}
	}
}

// executeTask executes a single task and returns its result.
// The task's timeout bounds the whole notebook run.
func (p *Pool) executeTask(ctx context.Context, task Task) Result {
	taskCtx := ctx
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	p.logger.Debug("executing notebook", "path", task.Path, "timeout", task.Timeout)

	startTime := time.Now()
	err := task.Run(taskCtx)
	duration := time.Since(startTime)

	result := Result{
		Path:     task.Path,
		Err:      err,
		Duration: duration,
	}

	if err != nil {
		p.logger.Warn("notebook failed",
			"path", task.Path,
			"error", err,
			"duration", duration)
	} else {
		p.logger.Debug("notebook passed",
			"path", task.Path,
			"duration", duration)
	}

	return result
}

// Shutdown gracefully shuts down the pool.
// It stops accepting new tasks and waits for in-progress tasks to complete.
// The context timeout controls how long to wait for tasks to finish.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !p.shutdown.CompareAndSwap(false, true) {
		return fmt.Errorf("pool already shut down")
	}

	p.logger.Info("shutting down worker pool")

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline {
		p.logger.Debug("waiting for pool to finish", "deadline", deadline)
	}

	// Poll until the pool is no longer running or context times out
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for p.running.Load() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("shutdown timeout: %w", ctx.Err())
		case <-ticker.C:
			// Continue polling
		}
	}

	p.logger.Info("worker pool shut down successfully")
	return nil
}

// IsShutdown returns true if the pool has been shut down
func (p *Pool) IsShutdown() bool {
	return p.shutdown.Load()
}

// IsRunning returns true if the pool is currently executing tasks
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// TaskCount returns the number of tasks currently queued
func (p *Pool) TaskCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// WorkerCount returns the number of workers in the pool
func (p *Pool) WorkerCount() int {
	return p.workers
}
