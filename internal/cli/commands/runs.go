package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfix/internal/cli/output"
)

// NewRunsCommand creates the runs command.
func NewRunsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List saved analysis runs",
		Long: `List the runs recorded with 'leapfix analyze --save', newest first.

Runs are kept in the SQLite state database (state_path in leapfix.yaml).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			runs, err := cmdCtx.Engine.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			return output.RenderRuns(cmdCtx.Renderer, runs)
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the diagnostics of a saved run",
		Example: `  # Find a run, then render it again as JSON
  leapfix runs
  leapfix show 0b6c2f0e-5c1d-4d0e-9a43-3f0d6f9c2a11 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			run, result, err := cmdCtx.Engine.LoadRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output.RenderResult(cmdCtx.Renderer, run.ID, result)
		},
	}
}
