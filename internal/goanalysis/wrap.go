package goanalysis

import (
	"context"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// goAnalyzer is implemented by lint analyzers backed by an analysis.Analyzer.
type goAnalyzer interface {
	GoAnalyzer() *analysis.Analyzer
}

// wrappedAnalyzer adapts an analysis.Analyzer to lint.Analyzer.
type wrappedAnalyzer struct {
	a *analysis.Analyzer
}

// Wrap adapts an analysis.Analyzer to the lint.Analyzer interface. The
// Engine recognizes wrapped analyzers and runs them as one dependency graph.
func Wrap(a *analysis.Analyzer) lint.Analyzer {
	return &wrappedAnalyzer{a: a}
}

func (w *wrappedAnalyzer) ID() string { return w.a.Name }

// Description returns the first line of the analyzer's Doc.
func (w *wrappedAnalyzer) Description() string {
	title, _, _ := strings.Cut(strings.TrimSpace(w.a.Doc), "\n")
	return title
}

// URL returns the analyzer's documentation link, falling back to the
// package documentation of the pass.
func (w *wrappedAnalyzer) URL() string {
	if w.a.URL != "" {
		return w.a.URL
	}
	return lint.BuildDocURL(w.a.Name)
}

func (w *wrappedAnalyzer) GoAnalyzer() *analysis.Analyzer { return w.a }

// Requires returns the names of the analyzers this one depends on.
func (w *wrappedAnalyzer) Requires() []string {
	names := make([]string, 0, len(w.a.Requires))
	for _, req := range w.a.Requires {
		names = append(names, req.Name)
	}
	return names
}

// Analyze runs the analyzer alone. The compilation must come from a Loader.
func (w *wrappedAnalyzer) Analyze(ctx context.Context, c lint.Compilation, opts *lint.Options) ([]core.Diagnostic, error) {
	return NewEngine(0, nil).RunAnalyzers(ctx, c, lint.NewAnalyzerSet(w), opts)
}
