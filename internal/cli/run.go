package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nbtest/nbtest/internal/config"
	"github.com/nbtest/nbtest/internal/discovery"
	"github.com/nbtest/nbtest/internal/executor"
	"github.com/nbtest/nbtest/internal/kernel"
	"github.com/nbtest/nbtest/internal/output"
)

// runOptions holds the resolved settings for a run invocation
type runOptions struct {
	timeout   time.Duration
	workers   int
	failFast  bool
	benchmark bool
	kernel    string
	command   string
}

// newRunCmd creates the run command
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Execute notebooks and report pass/fail",
		Long: `Execute every notebook under the given path against a Jupyter kernel
and report which notebooks ran to completion without error.

The path may be a single notebook file or a directory tree. Checkpoint
directories, hidden files, and common dependency directories are skipped.`,
		Example: `  # Run all notebooks under the current directory
  nbtest run .

  # Run a single notebook with a two minute ceiling
  nbtest run examples/demo.ipynb --timeout 2m

  # Run four notebooks at a time, stop dispatching on first failure
  nbtest run notebooks/ --workers 4 --fail-fast`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := resolveRunOptions(cmd)
			if err != nil {
				return err
			}
			return runNotebooks(cmd, args[0], opts, cfg)
		},
	}

	cmd.Flags().Duration("timeout", 0, "per-notebook execution ceiling (default 2m0s)")
	cmd.Flags().Int("workers", 0, "number of notebooks to execute concurrently (default 1)")
	cmd.Flags().Bool("fail-fast", false, "stop dispatching notebooks after the first failure")
	cmd.Flags().Bool("benchmark", false, "include per-notebook timing statistics in the summary")
	cmd.Flags().String("kernel", "", "kernel name passed to the execution service (default python3)")
	cmd.Flags().String("jupyter-command", "", "executable used to run notebooks (default jupyter)")

	return cmd
}

// resolveRunOptions merges flags with the configuration file, flags winning
func resolveRunOptions(cmd *cobra.Command) (*runOptions, *config.Config, error) {
	manager := config.NewManager(cfgFile)
	cfg, err := manager.Load()
	if err != nil {
		return nil, nil, err
	}

	opts := &runOptions{
		timeout:  cfg.Defaults.Timeout,
		workers:  cfg.Defaults.Workers,
		failFast: cfg.Defaults.FailFast,
		kernel:   cfg.Kernel.Name,
		command:  cfg.Kernel.Command,
	}

	if cmd.Flags().Changed("timeout") {
		opts.timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	if cmd.Flags().Changed("workers") {
		opts.workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("fail-fast") {
		opts.failFast, _ = cmd.Flags().GetBool("fail-fast")
	}
	if cmd.Flags().Changed("kernel") {
		opts.kernel, _ = cmd.Flags().GetString("kernel")
	}
	if cmd.Flags().Changed("jupyter-command") {
		opts.command, _ = cmd.Flags().GetString("jupyter-command")
	}
	opts.benchmark, _ = cmd.Flags().GetBool("benchmark")

	merged := *cfg
	merged.Defaults.Timeout = opts.timeout
	merged.Defaults.Workers = opts.workers
	if err := merged.Validate(); err != nil {
		return nil, nil, err
	}

	return opts, cfg, nil
}

// runNotebooks discovers, executes, and summarizes notebooks under root
func runNotebooks(cmd *cobra.Command, root string, opts *runOptions, cfg *config.Config) error {
	logger := currentLogger()

	finderOpts := []discovery.Option{discovery.WithLogger(logger)}
	if len(cfg.IgnoreDirs) > 0 {
		finderOpts = append(finderOpts, discovery.WithIgnoreDirs(cfg.IgnoreDirs))
	}
	notebooks, err := discovery.NewFinder(finderOpts...).Find(root)
	if err != nil {
		return err
	}

	if len(notebooks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No notebooks found")
		return nil
	}

	logger.Debug("discovered notebooks", "count", len(notebooks), "root", root)

	exec := kernel.NewCommandExecutor(
		kernel.WithCommand(opts.command),
		kernel.WithKernel(opts.kernel),
		kernel.WithLogger(logger),
	)

	poolOpts := []executor.PoolOption{}
	if opts.failFast {
		poolOpts = append(poolOpts, executor.WithFailFast())
	}
	pool := executor.NewPool(opts.workers, logger, poolOpts...)

	for _, path := range notebooks {
		path := path
		task := executor.Task{
			Path:    path,
			Timeout: opts.timeout,
			Run: func(ctx context.Context) error {
				return exec.Execute(ctx, path)
			},
		}
		if err := pool.Submit(task); err != nil {
			return fmt.Errorf("failed to submit %s: %w", path, err)
		}
	}

	format := outputFormat()
	noColor := viper.GetBool("no-color") || cfg.Defaults.NoColor
	colors := output.NewColorScheme(cmd.OutOrStdout(), noColor)

	// Stream per-notebook lines as results complete; only the text
	// format reports incrementally, structured formats emit one document
	var progress func(r executor.Result, completed, total int)
	if format == output.FormatText {
		var mu sync.Mutex
		progress = func(r executor.Result, completed, total int) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(cmd.OutOrStdout(), output.ResultLine(r, colors))
		}
	}

	start := time.Now()
	results := pool.ExecuteWithProgress(cmd.Context(), progress)
	summary := executor.Summarize(results, time.Since(start))

	if err := printSummary(cmd.OutOrStdout(), format, summary, noColor, opts.benchmark); err != nil {
		return err
	}

	if !summary.Success() {
		return fmt.Errorf("%d of %d notebooks failed", summary.Failed, summary.Total)
	}
	return nil
}

// printSummary renders the run summary in the selected format
func printSummary(w io.Writer, format output.Format, summary executor.Summary, noColor, benchmark bool) error {
	if format == output.FormatText {
		// Per-notebook lines were already streamed; separate the totals
		fmt.Fprintln(w)
		line := summary.String()
		if benchmark {
			line = summary.BenchmarkString()
		}
		fmt.Fprintln(w, line)
		return nil
	}

	formatter := output.NewFormatter(format,
		output.WithNoColor(noColor),
		output.WithBenchmark(benchmark),
	)
	return formatter.FormatSummary(w, summary)
}

// outputFormat resolves the output format from flags and environment
func outputFormat() output.Format {
	switch viper.GetString("output") {
	case "table":
		return output.FormatTable
	case "json":
		return output.FormatJSON
	case "yaml":
		return output.FormatYAML
	default:
		return output.FormatText
	}
}

// currentLogger returns the process-wide logger configured by the root command
func currentLogger() *slog.Logger {
	return slog.Default()
}
