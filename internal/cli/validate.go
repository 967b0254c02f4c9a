package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbtest/nbtest/internal/discovery"
	"github.com/nbtest/nbtest/internal/notebook"
	"github.com/nbtest/nbtest/internal/util"
)

// newValidateCmd creates the validate command
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>",
		Short: "Check notebooks against the nbformat v4 schema",
		Long: `Check every notebook under the given path against the nbformat v4
schema without executing anything. Useful as a cheap pre-commit gate.`,
		Example: `  # Validate all notebooks under the current directory
  nbtest validate .`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateNotebooks(cmd, args[0])
		},
	}
}

// validateNotebooks schema-checks every notebook under root
func validateNotebooks(cmd *cobra.Command, root string) error {
	logger := currentLogger()

	notebooks, err := discovery.NewFinder(discovery.WithLogger(logger)).Find(root)
	if err != nil {
		return err
	}

	if len(notebooks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No notebooks found")
		return nil
	}

	invalid := 0
	for _, path := range notebooks {
		display := util.DisplayPath(path)
		if err := notebook.ValidateFile(path); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "INVALID %s: %s\n", display, util.FriendlyError(err))
			invalid++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK %s\n", display)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d notebooks failed validation", invalid, len(notebooks))
	}
	return nil
}
