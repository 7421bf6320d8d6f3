package lint

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

// ParallelEngine runs every analyzer of a set concurrently by calling its
// Analyze method. Results are concatenated in set order regardless of
// completion order, and severity overrides from Options are applied.
type ParallelEngine struct {
	// Concurrency limits how many analyzers run at once; <= 0 means unlimited.
	Concurrency int
}

// RunAnalyzers implements Engine.
func (e *ParallelEngine) RunAnalyzers(ctx context.Context, c Compilation, set *AnalyzerSet, opts *Options) ([]core.Diagnostic, error) {
	analyzers := set.Without(opts).Analyzers()
	results := make([][]core.Diagnostic, len(analyzers))

	g, gctx := errgroup.WithContext(ctx)
	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}
	for i, a := range analyzers {
		g.Go(func() error {
			diags, err := a.Analyze(gctx, c, opts)
			if err != nil {
				return fmt.Errorf("analyzer %s: %w", a.ID(), err)
			}
			results[i] = diags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var diagnostics []core.Diagnostic
	for _, diags := range results {
		for _, d := range diags {
			d.Severity = opts.GetSeverity(d.RuleID, d.Severity)
			diagnostics = append(diagnostics, d)
		}
	}
	return diagnostics, nil
}
