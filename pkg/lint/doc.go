// Package lint runs analyzers against compiled projects and collects the
// diagnostics that an automated fixing workflow can act on.
//
// # Architecture
//
// The package composes four pieces around two injected boundaries:
//
//  1. CompilationProvider (boundary): produces a Compilation for a project
//  2. Engine (boundary): runs an AnalyzerSet against a Compilation
//  3. Accept: the pure predicate that decides which diagnostics matter
//  4. CodeAnalysisResult: the thread-safe, append-only aggregate
//
// The Runner ties them together for one project per invocation:
//
//	runner := lint.NewRunner(provider, engine, logger)
//	result := lint.NewCodeAnalysisResult()
//	docs := lint.NewDocumentSet(project.DocumentPaths()...)
//	err := runner.RunCodeAnalysisSet(ctx, result, set, project, opts, docs)
//
// Many projects are analyzed concurrently by issuing one invocation per
// project against the same result.
//
// # Acceptance
//
// A diagnostic is recorded only when it is not suppressed, its severity is
// at least warning, it has a source location, and that file is in the
// DocumentSet (case-insensitive).
//
// # Analyzer Registration
//
// Analyzers register themselves via init() functions:
//
//	func init() {
//		lint.Register(lint.WrapAnalyzerDef(lint.AnalyzerDef{
//			ID:          "no-todo",
//			Description: "Reports TODO comments",
//			Check:       checkNoTodo,
//		}))
//	}
//
// # Configuration
//
// Options control which analyzers run and the severity they report with:
//
//	opts := lint.NewOptions()
//	opts.Disable("shadow")
//	opts.SetSeverity("printf", core.SeverityError)
//	opts.SetRuleOptions("fieldalignment", core.RuleOptions{"max": 3})
package lint
