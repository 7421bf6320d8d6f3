package lint_test

import (
	"context"
	"sync/atomic"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// fakeCompilation is a compilation that only knows its project.
type fakeCompilation struct {
	project *core.Project
}

func (c fakeCompilation) Project() *core.Project { return c.project }

// fakeProvider hands out fake compilations. When block is set it waits for
// the channel to close or ctx to be cancelled.
type fakeProvider struct {
	err     error
	block   chan struct{}
	started chan struct{}
	calls   atomic.Int32
}

func (p *fakeProvider) GetCompilation(ctx context.Context, project *core.Project) (lint.Compilation, error) {
	p.calls.Add(1)
	if p.started != nil {
		close(p.started)
	}
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return fakeCompilation{project: project}, nil
}

// fixedAnalyzer reports the same diagnostics for every project.
func fixedAnalyzer(id string, diags ...core.Diagnostic) lint.Analyzer {
	return lint.WrapAnalyzerDef(lint.AnalyzerDef{
		ID:          id,
		Description: "test analyzer " + id,
		Check: func(_ context.Context, _ lint.Compilation, _ core.RuleOptions) ([]core.Diagnostic, error) {
			out := make([]core.Diagnostic, len(diags))
			copy(out, diags)
			return out, nil
		},
	})
}

// perProjectAnalyzer reports diagnostics computed from the compilation's project.
func perProjectAnalyzer(id string, fn func(p *core.Project) []core.Diagnostic) lint.Analyzer {
	return lint.WrapAnalyzerDef(lint.AnalyzerDef{
		ID: id,
		Check: func(_ context.Context, c lint.Compilation, _ core.RuleOptions) ([]core.Diagnostic, error) {
			return fn(c.Project()), nil
		},
	})
}

func failingAnalyzer(id string, err error) lint.Analyzer {
	return lint.WrapAnalyzerDef(lint.AnalyzerDef{
		ID: id,
		Check: func(_ context.Context, _ lint.Compilation, _ core.RuleOptions) ([]core.Diagnostic, error) {
			return nil, err
		},
	})
}

// engineFunc adapts a function to lint.Engine.
type engineFunc func(ctx context.Context, c lint.Compilation, set *lint.AnalyzerSet, opts *lint.Options) ([]core.Diagnostic, error)

func (f engineFunc) RunAnalyzers(ctx context.Context, c lint.Compilation, set *lint.AnalyzerSet, opts *lint.Options) ([]core.Diagnostic, error) {
	return f(ctx, c, set, opts)
}

func warning(rule, path, msg string) core.Diagnostic {
	return core.Diagnostic{
		RuleID:   rule,
		Message:  msg,
		Severity: core.SeverityWarning,
		Location: &core.Location{FilePath: path, Start: core.Position{Line: 1, Column: 1}},
	}
}

func newProject(id string, paths ...string) *core.Project {
	p := &core.Project{ID: id, Name: id}
	for _, path := range paths {
		p.Documents = append(p.Documents, core.Document{Path: path})
	}
	return p
}
