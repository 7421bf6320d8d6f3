package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfix/internal/cli/output"
	"github.com/leapstack-labs/leapfix/internal/engine"
)

// ErrIssuesFound is returned by analyze --fail-on-issues when anything was reported.
var ErrIssuesFound = errors.New("issues found")

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Save         bool // Persist the result in the state database
	Watch        bool // Re-run on file changes until interrupted
	FailOnIssues bool // Exit non-zero when any diagnostic is reported
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:     "analyze [packages]",
		Aliases: []string{"check"},
		Short:   "Run analyzers over Go packages",
		Long: `Load and type-check Go packages, run the configured analyzers and
report the diagnostics a developer should act on.

Only diagnostics that are not suppressed, are at least warnings and point
into a file of the formattable set are reported. The formattable set is
every non-generated file of the analyzed packages, narrowed by the include
and exclude globs.

Analyzers, severities and rule options are read from leapfix.yaml, then
LEAPFIX_* environment variables, then flags.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Analyze the whole module
  leapfix analyze

  # Analyze some packages with extra analyzers
  leapfix analyze ./internal/... --enable printf,nilness,shadow

  # Fail CI when anything is reported and keep the result
  leapfix analyze --fail-on-issues --save

  # Re-run on every save
  leapfix analyze --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringSlice("enable", nil, "Analyzers to run instead of the defaults")
	cmd.Flags().StringSlice("disable", nil, "Analyzers to skip")
	cmd.Flags().String("default-severity", "", "Severity of diagnostics without an override (error|warning|info)")
	cmd.Flags().StringSlice("include", nil, "Only report files matching these globs")
	cmd.Flags().StringSlice("exclude", nil, "Never report files matching these globs")
	cmd.Flags().Bool("include-generated", false, "Report diagnostics in generated files")
	cmd.Flags().Bool("tests", false, "Also analyze test files")
	cmd.Flags().StringSlice("tags", nil, "Build tags")
	cmd.Flags().Int("concurrency", 0, "Maximum parallel packages and analyzers (0 = GOMAXPROCS)")
	cmd.Flags().Bool("strict", false, "Fail when a package does not compile instead of skipping it")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save the result to the state database")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when Go files change")
	cmd.Flags().BoolVar(&opts.FailOnIssues, "fail-on-issues", false, "Exit with an error when issues are found")

	_ = cmd.RegisterFlagCompletionFunc("default-severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	r := cmdCtx.Renderer
	ctx := cmd.Context()
	patterns := resolvePatterns(args, cmdCtx.Cfg)

	cmdCtx.Logger.Debug("analyzing", "patterns", patterns, "analyzers", eng.Analyzers().IDs())

	report, err := eng.Run(ctx, patterns)
	if err != nil {
		return err
	}
	if err := renderReport(ctx, cmdCtx, report, opts.Save); err != nil {
		return err
	}

	if opts.Watch {
		return eng.Watch(ctx, patterns, func(report *engine.Report, err error) {
			if err != nil {
				r.Warning(err.Error())
				return
			}
			if err := renderReport(ctx, cmdCtx, report, opts.Save); err != nil {
				r.Warning(err.Error())
			}
		})
	}

	if opts.FailOnIssues && report.Result.Count() > 0 {
		return fmt.Errorf("%w: %d", ErrIssuesFound, report.Result.Count())
	}
	return nil
}

func renderReport(ctx context.Context, cmdCtx *CommandContext, report *engine.Report, save bool) error {
	r := cmdCtx.Renderer
	for _, s := range report.Skipped {
		r.Warning(fmt.Sprintf("skipped %s: %v", s.Project.ID, s.Err))
	}

	var runID string
	if save {
		id, err := cmdCtx.Engine.SaveRun(ctx, report.Result)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		runID = id
	}

	if err := output.RenderResult(r, runID, report.Result); err != nil {
		return err
	}
	if runID != "" && r.EffectiveMode() != output.ModeJSON {
		r.Println(r.Styles().Muted.Render("Saved run " + runID))
	}
	return nil
}
