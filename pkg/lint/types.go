package lint

import (
	"context"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

// =============================================================================
// Engine Boundaries
// =============================================================================

// Compilation is the compiled, type-checked representation of a project.
// Concrete compilations are produced by a CompilationProvider and are treated
// as immutable for the duration of an analysis run.
type Compilation interface {
	// Project returns the project this compilation was built from.
	Project() *core.Project
}

// CompilationProvider supplies compilations on demand.
// Implementations may block and must honor ctx cancellation.
type CompilationProvider interface {
	GetCompilation(ctx context.Context, project *core.Project) (Compilation, error)
}

// Engine runs a batch of analyzers against a single compilation and returns
// the raw, fully materialized diagnostics. Engines may run analyzers in
// parallel internally but must return diagnostics in a deterministic order.
type Engine interface {
	RunAnalyzers(ctx context.Context, c Compilation, set *AnalyzerSet, opts *Options) ([]core.Diagnostic, error)
}

// =============================================================================
// Analyzers
// =============================================================================

// Analyzer is a rule that inspects a compilation and reports diagnostics.
// Analyzers are stateless or internally synchronized; the same instance may be
// used by many concurrent runs.
type Analyzer interface {
	// ID returns the stable identity, e.g. "printf" or "shadow"
	ID() string

	// Description returns a human-readable description
	Description() string

	// Analyze inspects the compilation and returns diagnostics.
	Analyze(ctx context.Context, c Compilation, opts *Options) ([]core.Diagnostic, error)
}

// CheckFunc analyzes a compilation and returns diagnostics.
// The opts parameter contains analyzer-specific options from configuration.
type CheckFunc func(ctx context.Context, c Compilation, opts core.RuleOptions) ([]core.Diagnostic, error)

// AnalyzerDef is a data-driven analyzer definition.
// Analyzers built from a def are stateless - all context comes via the Check
// function parameters.
type AnalyzerDef struct {
	ID          string    // Unique identifier, e.g., "no-todo"
	Description string    // Human-readable description
	URL         string    // Optional: link to rule documentation
	Check       CheckFunc // The check function
}

// wrappedAnalyzerDef wraps an AnalyzerDef to implement Analyzer.
type wrappedAnalyzerDef struct {
	def AnalyzerDef
}

// WrapAnalyzerDef wraps an AnalyzerDef to implement the Analyzer interface.
func WrapAnalyzerDef(def AnalyzerDef) Analyzer {
	return &wrappedAnalyzerDef{def: def}
}

func (w *wrappedAnalyzerDef) ID() string          { return w.def.ID }
func (w *wrappedAnalyzerDef) Description() string { return w.def.Description }

func (w *wrappedAnalyzerDef) Analyze(ctx context.Context, c Compilation, opts *Options) ([]core.Diagnostic, error) {
	if w.def.Check == nil {
		return nil, nil
	}
	diags, err := w.def.Check(ctx, c, opts.GetRuleOptions(w.def.ID))
	if err != nil {
		return nil, err
	}
	for i := range diags {
		if diags[i].RuleID == "" {
			diags[i].RuleID = w.def.ID
		}
		if diags[i].URL == "" {
			diags[i].URL = w.def.URL
		}
	}
	return diags, nil
}

// Unwrap returns the underlying AnalyzerDef.
func (w *wrappedAnalyzerDef) Unwrap() AnalyzerDef {
	return w.def
}
