package goanalysis

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"reflect"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"

	"github.com/leapstack-labs/leapfix/internal/dag"
	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// ErrUnsupportedCompilation is returned when Go analyzers are asked to run
// against a compilation that was not produced by a Loader.
var ErrUnsupportedCompilation = errors.New("compilation is not a Go package")

// Engine runs analysis.Analyzer graphs against a single package.
//
// The requested analyzers and their Requires closure form a DAG; each
// execution level runs in parallel and prerequisites such as inspect run
// once per batch no matter how many analyzers need them. Analyzers that are
// not backed by an analysis.Analyzer are run through their Analyze method.
type Engine struct {
	// Concurrency limits how many analyzers of a level run at once; <= 0 means unlimited.
	Concurrency int

	logger *slog.Logger
}

var _ lint.Engine = (*Engine)(nil)

// NewEngine creates an Engine. A nil logger defaults to slog.Default().
func NewEngine(concurrency int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Concurrency: concurrency, logger: logger}
}

func (e *Engine) log() *slog.Logger {
	if e.logger == nil {
		return slog.Default()
	}
	return e.logger
}

// action is one analyzer's run over the package.
type action struct {
	a           *analysis.Analyzer
	result      any
	diagnostics []analysis.Diagnostic
	skipped     bool
}

// RunAnalyzers implements lint.Engine. Diagnostics are returned in set
// order, and within an analyzer in the order they were reported.
func (e *Engine) RunAnalyzers(ctx context.Context, c lint.Compilation, set *lint.AnalyzerSet, opts *lint.Options) ([]core.Diagnostic, error) {
	analyzers := set.Without(opts).Analyzers()

	var roots []*analysis.Analyzer
	for _, a := range analyzers {
		if ga, ok := a.(goAnalyzer); ok {
			roots = append(roots, ga.GoAnalyzer())
		}
	}

	comp, isGo := c.(*Compilation)
	if len(roots) > 0 && !isGo {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedCompilation, c)
	}

	start := time.Now()
	actions, err := e.runGraph(ctx, comp, roots)
	if err != nil {
		return nil, err
	}

	var sup *suppressions
	if isGo {
		sup = newSuppressions(comp.Fset, comp.Package.Syntax)
	}

	var diagnostics []core.Diagnostic
	for _, a := range analyzers {
		if ga, ok := a.(goAnalyzer); ok {
			act := actions[ga.GoAnalyzer()]
			sev := opts.GetSeverity(act.a.Name, opts.GetDefaultSeverity())
			for _, d := range act.diagnostics {
				diagnostics = append(diagnostics, convertDiagnostic(comp.Fset, sup, act.a, d, sev))
			}
			continue
		}

		diags, err := a.Analyze(ctx, c, opts)
		if err != nil {
			return nil, fmt.Errorf("analyzer %s: %w", a.ID(), err)
		}
		for _, d := range diags {
			d.Severity = opts.GetSeverity(d.RuleID, d.Severity)
			diagnostics = append(diagnostics, d)
		}
	}

	e.log().Debug("Ran analyzers",
		"project", c.Project().ID,
		"analyzers", len(analyzers),
		"actions", len(actions),
		"diagnostics", len(diagnostics),
		"duration", time.Since(start))

	return diagnostics, nil
}

// runGraph runs roots and everything they require, level by level.
func (e *Engine) runGraph(ctx context.Context, comp *Compilation, roots []*analysis.Analyzer) (map[*analysis.Analyzer]*action, error) {
	if len(roots) == 0 {
		return nil, nil
	}

	g := dag.NewGraph[*action]()
	byName := make(map[string]*analysis.Analyzer)

	var add func(a *analysis.Analyzer) error
	add = func(a *analysis.Analyzer) error {
		if prev, ok := byName[a.Name]; ok {
			if prev != a {
				return fmt.Errorf("two different analyzers named %q", a.Name)
			}
			return nil
		}
		byName[a.Name] = a
		g.AddNode(a.Name, &action{a: a})
		for _, req := range a.Requires {
			if err := add(req); err != nil {
				return err
			}
			if err := g.AddEdge(req.Name, a.Name); err != nil {
				return fmt.Errorf("analyzer dependencies: %w", err)
			}
		}
		return nil
	}
	for _, a := range roots {
		if err := add(a); err != nil {
			return nil, err
		}
	}

	levels, err := g.GetExecutionLevels()
	if err != nil {
		return nil, fmt.Errorf("analyzer dependencies: %w", err)
	}

	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		eg, gctx := errgroup.WithContext(ctx)
		if e.Concurrency > 0 {
			eg.SetLimit(e.Concurrency)
		}
		for _, name := range level {
			node, _ := g.GetNode(name)
			act := node.Data
			eg.Go(func() error {
				return e.runAction(gctx, comp, g, act)
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	actions := make(map[*analysis.Analyzer]*action, len(byName))
	for name, a := range byName {
		node, _ := g.GetNode(name)
		actions[a] = node.Data
	}
	return actions, nil
}

func (e *Engine) runAction(ctx context.Context, comp *Compilation, g *dag.Graph[*action], act *action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	inputs := make(map[*analysis.Analyzer]any, len(act.a.Requires))
	for _, req := range act.a.Requires {
		dep, _ := g.GetNode(req.Name)
		if dep.Data.skipped {
			act.skipped = true
			return nil
		}
		inputs[req] = dep.Data.result
	}

	pkg := comp.Package
	if pkg.IllTyped && !act.a.RunDespiteErrors {
		act.skipped = true
		e.log().Debug("Skipping analyzer on package with errors", "analyzer", act.a.Name, "package", pkg.ID)
		return nil
	}

	facts := newFactStore(pkg.Types)
	var mu sync.Mutex
	pass := &analysis.Pass{
		Analyzer:     act.a,
		Fset:         comp.Fset,
		Files:        pkg.Syntax,
		OtherFiles:   pkg.OtherFiles,
		IgnoredFiles: pkg.IgnoredFiles,
		Pkg:          pkg.Types,
		TypesInfo:    pkg.TypesInfo,
		TypesSizes:   pkg.TypesSizes,
		TypeErrors:   pkg.TypeErrors,
		ResultOf:     inputs,
		ReadFile:     os.ReadFile,
		Report: func(d analysis.Diagnostic) {
			mu.Lock()
			act.diagnostics = append(act.diagnostics, d)
			mu.Unlock()
		},
		ImportObjectFact:  facts.importObjectFact,
		ExportObjectFact:  facts.exportObjectFact,
		ImportPackageFact: facts.importPackageFact,
		ExportPackageFact: facts.exportPackageFact,
		AllObjectFacts:    facts.allObjectFacts,
		AllPackageFacts:   facts.allPackageFacts,
	}
	if pkg.Module != nil {
		pass.Module = &analysis.Module{
			Path:      pkg.Module.Path,
			Version:   pkg.Module.Version,
			GoVersion: pkg.Module.GoVersion,
		}
	}

	result, err := runPass(pass)
	if err != nil {
		return err
	}
	if want := act.a.ResultType; want != nil && reflect.TypeOf(result) != want {
		return fmt.Errorf("analyzer %s returned %T, want %s", act.a.Name, result, want)
	}
	act.result = result
	return nil
}

// runPass calls the analyzer, turning a panic into an error.
func runPass(pass *analysis.Pass) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analyzer %s panicked: %v", pass.Analyzer.Name, r)
		}
	}()
	result, err = pass.Analyzer.Run(pass)
	if err != nil {
		return nil, fmt.Errorf("analyzer %s: %w", pass.Analyzer.Name, err)
	}
	return result, nil
}

func convertDiagnostic(fset *token.FileSet, sup *suppressions, a *analysis.Analyzer, d analysis.Diagnostic, sev core.Severity) core.Diagnostic {
	start := fset.PositionFor(d.Pos, false)
	out := core.Diagnostic{
		RuleID:     a.Name,
		Message:    d.Message,
		Severity:   sev,
		Suppressed: sup.suppressed(a.Name, start),
		Category:   d.Category,
		URL:        d.URL,
	}
	if out.URL == "" {
		out.URL = a.URL
	}

	if start.IsValid() && start.Filename != "" {
		loc := &core.Location{FilePath: start.Filename, Start: toPosition(start)}
		if d.End.IsValid() {
			loc.End = toPosition(fset.PositionFor(d.End, false))
		}
		out.Location = loc
	}

	for _, sf := range d.SuggestedFixes {
		fix := core.Fix{Description: sf.Message}
		for _, te := range sf.TextEdits {
			pos := fset.PositionFor(te.Pos, false)
			end := pos
			if te.End.IsValid() {
				end = fset.PositionFor(te.End, false)
			}
			fix.TextEdits = append(fix.TextEdits, core.TextEdit{
				FilePath: pos.Filename,
				Pos:      toPosition(pos),
				EndPos:   toPosition(end),
				NewText:  string(te.NewText),
			})
		}
		out.Fixes = append(out.Fixes, fix)
	}
	return out
}

func toPosition(p token.Position) core.Position {
	return core.Position{Line: p.Line, Column: p.Column, Offset: p.Offset}
}
