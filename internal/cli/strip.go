package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nbtest/nbtest/internal/config"
	"github.com/nbtest/nbtest/internal/discovery"
	"github.com/nbtest/nbtest/internal/executor"
	"github.com/nbtest/nbtest/internal/notebook"
	"github.com/nbtest/nbtest/internal/util"
)

// newStripCmd creates the strip command
func newStripCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strip <path>",
		Short: "Remove outputs and execution counts from notebooks",
		Long: `Remove cell outputs and execution counts from every notebook under the
given path, rewriting files in place. Notebooks that are already clean
are left untouched. All other cell content and metadata is preserved.`,
		Example: `  # Strip all notebooks in a directory tree
  nbtest strip notebooks/

  # Strip a single notebook
  nbtest strip examples/demo.ipynb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, _ := cmd.Flags().GetInt("workers")
			return stripNotebooks(cmd, args[0], workers)
		},
	}

	cmd.Flags().Int("workers", 4, "number of notebooks to strip concurrently")

	return cmd
}

// stripNotebooks strips outputs from every notebook under root
func stripNotebooks(cmd *cobra.Command, root string, workers int) error {
	logger := currentLogger()

	manager := config.NewManager(cfgFile)
	cfg, err := manager.Load()
	if err != nil {
		return err
	}

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

	// Stripping is pure file I/O, so it parallelizes freely
	pool := executor.NewPool(workers, logger)

	var mu sync.Mutex
	changed := make(map[string]bool, len(notebooks))

	for _, path := range notebooks {
		path := path
		task := executor.Task{
			Path: path,
			Run: func(ctx context.Context) error {
				stripped, err := notebook.StripFile(path)
				if err != nil {
					return err
				}
				mu.Lock()
				changed[path] = stripped
				mu.Unlock()
				return nil
			},
		}
		if err := pool.Submit(task); err != nil {
			return fmt.Errorf("failed to submit %s: %w", path, err)
		}
	}

	results := pool.Execute(cmd.Context())

	stripped := 0
	for _, r := range results {
		display := util.DisplayPath(r.Path)
		switch {
		case r.Err != nil:
			fmt.Fprintf(cmd.OutOrStdout(), "ERROR %s: %s\n", display, util.FriendlyError(r.Err))
		case changed[r.Path]:
			fmt.Fprintf(cmd.OutOrStdout(), "Stripped %s\n", display)
			stripped++
		default:
			logger.Debug("already clean", "path", r.Path)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d notebooks stripped\n", stripped, len(results))
	return nil
}
