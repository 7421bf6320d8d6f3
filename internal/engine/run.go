package engine

// run.go - analysis orchestration across projects

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapfix/internal/state"
	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// SkippedProject records a project whose analysis failed in non-strict mode.
type SkippedProject struct {
	Project *core.Project
	Err     error
}

// Report is the outcome of one analysis run.
type Report struct {
	Result   *lint.CodeAnalysisResult
	Projects []*core.Project
	Skipped  []SkippedProject
	Duration time.Duration
}

// Run discovers the projects matching patterns and analyzes them.
func (e *Engine) Run(ctx context.Context, patterns []string) (*Report, error) {
	projects, err := e.Discover(ctx, patterns)
	if err != nil {
		return nil, err
	}
	return e.Analyze(ctx, projects)
}

// Analyze runs the analyzer set over every project concurrently, one Runner
// invocation per project, into a single result. A project that fails is
// skipped and reported unless the engine is strict; cancellation always
// aborts the run.
func (e *Engine) Analyze(ctx context.Context, projects []*core.Project) (*Report, error) {
	start := time.Now()
	e.logger.Info("starting analysis", "projects", len(projects), "analyzers", e.set.Len())

	report := &Report{
		Result:   lint.NewCodeAnalysisResult(),
		Projects: projects,
	}

	var skippedMu sync.Mutex
	skipped := make(map[int]SkippedProject)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency())
	for i, project := range projects {
		g.Go(func() error {
			err := e.runner.RunCodeAnalysisSet(gctx, report.Result, e.set, project, e.opts, e.DocumentSet(project))
			if err == nil {
				return nil
			}
			if e.cfg.Strict || isContextErr(err) {
				return fmt.Errorf("%s: %w", project.ID, err)
			}
			e.logger.Warn("skipping project", "project", project.ID, "error", err)
			skippedMu.Lock()
			skipped[i] = SkippedProject{Project: project, Err: err}
			skippedMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Surface the caller's cancellation rather than a derived error.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	for i := range projects {
		if s, ok := skipped[i]; ok {
			report.Skipped = append(report.Skipped, s)
		}
	}
	report.Duration = time.Since(start)

	e.logger.Info("analysis completed",
		"projects", len(projects),
		"skipped", len(report.Skipped),
		"diagnostics", report.Result.Count(),
		"duration_ms", report.Duration.Milliseconds())
	return report, nil
}

func (e *Engine) concurrency() int {
	if e.cfg.Concurrency > 0 {
		return e.cfg.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// SaveRun persists a result and returns its run ID.
func (e *Engine) SaveRun(ctx context.Context, result *lint.CodeAnalysisResult) (string, error) {
	store, err := e.ensureStoreOpen(true)
	if err != nil {
		return "", err
	}
	runID, err := store.SaveResult(ctx, result)
	if err != nil {
		return "", err
	}
	e.logger.Info("saved run", "run_id", runID, "diagnostics", result.Count())
	return runID, nil
}

// ListRuns returns saved runs, newest first. It returns no runs, not an
// error, when nothing was ever saved.
func (e *Engine) ListRuns(ctx context.Context) ([]state.Run, error) {
	store, err := e.ensureStoreOpen(false)
	if errors.Is(err, ErrNoStateStore) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return store.ListRuns(ctx)
}

// LoadRun rebuilds a saved result.
func (e *Engine) LoadRun(ctx context.Context, runID string) (*state.Run, *lint.CodeAnalysisResult, error) {
	store, err := e.ensureStoreOpen(false)
	if errors.Is(err, ErrNoStateStore) {
		return nil, nil, fmt.Errorf("%w: %s", state.ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, nil, err
	}
	run, err := store.GetRun(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	result, err := store.LoadDiagnostics(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	return run, result, nil
}
