// Package executor provides the concurrent orchestration engine for running
// notebooks against a worker pool.
//
// The package implements a worker pool pattern with bounded concurrency,
// per-task timeouts, optional fail-fast dispatch, graceful shutdown, and
// result aggregation utilities.
//
// # Key Features
//
//   - Worker pool with configurable concurrency (clamped to the task count)
//   - Per-notebook timeout enforced as a hard whole-notebook ceiling
//   - Fail-fast mode that abandons queued tasks after the first failure
//   - Results collected in completion order, one Result per started task
//   - Result filtering and aggregation utilities
//   - Zero goroutine leaks
//
// # Basic Usage
//
// Create a pool, submit one task per notebook, and execute:
//
//	pool := executor.NewPool(4, logger)
//
//	for _, path := range notebooks {
//	    pool.Submit(executor.Task{
//	        Path:    path,
//	        Timeout: 2 * time.Minute,
//	        Run: func(ctx context.Context) error {
//	            return exec.Execute(ctx, path)
//	        },
//	    })
//	}
//
//	results := pool.Execute(context.Background())
//	summary := executor.Summarize(results, wallTime)
//
// # Progress Reporting
//
// Report each notebook as it finishes:
//
//	results := pool.ExecuteWithProgress(ctx, func(r executor.Result, done, total int) {
//	    fmt.Printf("[%d/%d] %s\n", done, total, r.Path)
//	})
//
// # Concurrency Guarantees
//
// The pool guarantees:
//   - Bounded concurrency (max N workers, never more workers than tasks)
//   - Tasks share no mutable state, so results are independent of the
//     concurrency level: workers=1 and workers=4 produce the same multiset
//     of (path, success) outcomes
//   - One notebook's failure (including a timeout) never aborts another's
//     execution
//   - Exactly one Result per started task; abandoned tasks (fail-fast or
//     cancellation before start) produce none
//   - In-flight tasks always run to a terminal outcome, so no kernel
//     subprocess is leaked
//
// # Error Handling
//
// Task errors are captured in results and don't stop other tasks (unless
// fail-fast is configured, which only stops tasks that haven't started):
//
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("notebook %s failed: %v", r.Path, r.Err)
//	    }
//	}
package executor
