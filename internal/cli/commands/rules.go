package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfix/internal/cli/output"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Long    bool // Show prerequisites and documentation links
	Enabled bool // Only analyzers enabled by default
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:     "rules [analyzer]",
		Aliases: []string{"analyzers"},
		Short:   "List available analyzers",
		Long: `List every registered analyzer, whether it runs by default and what it checks.

Analyzers not enabled by default can be selected with --enable on analyze
or the analyzers key in leapfix.yaml.`,
		Example: `  # List all analyzers
  leapfix rules

  # Show details for one analyzer
  leapfix rules printf

  # Include prerequisites and documentation links
  leapfix rules --long

  # Output as JSON
  leapfix rules -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := NewCommandContextWithoutEngine(cmd).Renderer
			if len(args) > 0 {
				return showAnalyzer(r, args[0])
			}
			return output.RenderAnalyzers(r, analyzerInfos(opts.Enabled), opts.Long)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var ids []string
			for _, info := range analyzerInfos(false) {
				ids = append(ids, info.ID)
			}
			return ids, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "Show prerequisites and documentation links")
	cmd.Flags().BoolVar(&opts.Enabled, "enabled", false, "Only list analyzers enabled by default")

	return cmd
}

func showAnalyzer(r *output.Renderer, id string) error {
	a, ok := lint.GetByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", lint.ErrUnknownAnalyzer, id)
	}
	return output.RenderAnalyzer(r, analyzerInfo(a))
}

// analyzerInfos returns the registered analyzers sorted by ID.
func analyzerInfos(enabledOnly bool) []output.AnalyzerInfo {
	var infos []output.AnalyzerInfo
	for _, a := range lint.AllAnalyzers() {
		info := analyzerInfo(a)
		if enabledOnly && !info.Default {
			continue
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func analyzerInfo(a lint.Analyzer) output.AnalyzerInfo {
	info := output.AnalyzerInfo{
		ID:          a.ID(),
		Description: a.Description(),
		Default:     lint.IsDefault(a.ID()),
	}
	if u, ok := a.(interface{ URL() string }); ok {
		info.URL = u.URL()
	}
	if req, ok := a.(interface{ Requires() []string }); ok {
		info.Requires = req.Requires()
	}
	return info
}
