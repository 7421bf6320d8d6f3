package lint

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

// Errors returned by the Runner for invalid arguments.
var (
	ErrNilResult   = errors.New("code analysis result is nil")
	ErrNoAnalyzers = errors.New("no analyzers to run")
	ErrNilProject  = errors.New("project is nil")
)

// Runner runs analyzers against one project at a time and records the
// actionable diagnostics into a shared CodeAnalysisResult.
//
// A Runner holds no per-run state; callers analyze many projects concurrently
// by issuing one invocation per project against the same result.
type Runner struct {
	provider CompilationProvider
	engine   Engine
	logger   *slog.Logger
}

// NewRunner creates a Runner. A nil engine defaults to ParallelEngine and a
// nil logger to slog.Default().
func NewRunner(provider CompilationProvider, engine Engine, logger *slog.Logger) *Runner {
	if engine == nil {
		engine = &ParallelEngine{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		provider: provider,
		engine:   engine,
		logger:   logger,
	}
}

// RunCodeAnalysis runs a single analyzer. It is exactly RunCodeAnalysisSet
// with a one-element set.
func (r *Runner) RunCodeAnalysis(
	ctx context.Context,
	result *CodeAnalysisResult,
	analyzer Analyzer,
	project *core.Project,
	opts *Options,
	docs DocumentSet,
) error {
	return r.RunCodeAnalysisSet(ctx, result, NewAnalyzerSet(analyzer), project, opts, docs)
}

// RunCodeAnalysisSet compiles the project, runs the analyzer set as one batch
// and appends every diagnostic accepted by Accept to result, in engine order.
//
// Errors from the compilation provider and the engine are returned
// unchanged. If ctx is cancelled the context error is returned and result is
// not modified. The filtered batch is added atomically.
func (r *Runner) RunCodeAnalysisSet(
	ctx context.Context,
	result *CodeAnalysisResult,
	set *AnalyzerSet,
	project *core.Project,
	opts *Options,
	docs DocumentSet,
) error {
	if result == nil {
		return ErrNilResult
	}
	if set.Len() == 0 {
		return ErrNoAnalyzers
	}
	if project == nil {
		return ErrNilProject
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()

	compilation, err := r.provider.GetCompilation(ctx, project)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	diagnostics, err := r.engine.RunAnalyzers(ctx, compilation, set, opts)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	accepted := Filter(diagnostics, docs)
	result.AddDiagnostics(project, accepted...)

	r.logger.Debug("Analyzed project",
		"project", project.ID,
		"analyzers", set.Len(),
		"raw", len(diagnostics),
		"accepted", len(accepted),
		"duration", time.Since(start))

	return nil
}
