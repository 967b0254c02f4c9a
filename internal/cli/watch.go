package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nbtest/nbtest/internal/config"
	"github.com/nbtest/nbtest/internal/executor"
	"github.com/nbtest/nbtest/internal/kernel"
	"github.com/nbtest/nbtest/internal/output"
	"github.com/nbtest/nbtest/internal/watch"
)

// newWatchCmd creates the watch command
func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Re-run notebooks as they change",
		Long: `Watch a directory tree and re-execute each notebook whenever it is
saved, printing a pass/fail line per run. Runs until interrupted.`,
		Example: `  # Watch the current directory
  nbtest watch .

  # Watch with a custom kernel and a short ceiling
  nbtest watch notebooks/ --kernel julia-1.10 --timeout 30s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchNotebooks(cmd, args[0])
		},
	}

	cmd.Flags().Duration("timeout", 0, "per-notebook execution ceiling (default 2m0s)")
	cmd.Flags().String("kernel", "", "kernel name passed to the execution service (default python3)")
	cmd.Flags().String("jupyter-command", "", "executable used to run notebooks (default jupyter)")

	return cmd
}

// watchNotebooks blocks re-running changed notebooks until interrupted
func watchNotebooks(cmd *cobra.Command, root string) error {
	logger := currentLogger()

	manager := config.NewManager(cfgFile)
	cfg, err := manager.Load()
	if err != nil {
		return err
	}

	timeout := cfg.Defaults.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}
	kernelName := cfg.Kernel.Name
	if cmd.Flags().Changed("kernel") {
		kernelName, _ = cmd.Flags().GetString("kernel")
	}
	command := cfg.Kernel.Command
	if cmd.Flags().Changed("jupyter-command") {
		command, _ = cmd.Flags().GetString("jupyter-command")
	}

	exec := kernel.NewCommandExecutor(
		kernel.WithCommand(command),
		kernel.WithKernel(kernelName),
		kernel.WithLogger(logger),
	)

	noColor := viper.GetBool("no-color") || cfg.Defaults.NoColor
	colors := output.NewColorScheme(cmd.OutOrStdout(), noColor)

	watchOpts := []watch.Option{
		watch.WithTimeout(timeout),
		watch.WithLogger(logger),
		watch.WithResultHandler(func(r executor.Result) {
			fmt.Fprintln(cmd.OutOrStdout(), output.ResultLine(r, colors))
		}),
	}
	if len(cfg.IgnoreDirs) > 0 {
		watchOpts = append(watchOpts, watch.WithIgnoreDirs(cfg.IgnoreDirs))
	}

	runner := watch.NewRunner(exec, watchOpts...)

	err = runner.Watch(cmd.Context(), root)
	if errors.Is(err, context.Canceled) {
		// Interrupt is the normal way to leave watch mode
		return nil
	}
	return err
}
