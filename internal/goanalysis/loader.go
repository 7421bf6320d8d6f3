// Package goanalysis adapts golang.org/x/tools/go/analysis to the lint
// runner: it loads Go packages as projects, compiles them on demand and runs
// analysis.Analyzer graphs against the result.
package goanalysis

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// Loader errors.
var (
	ErrNoPackages    = errors.New("no packages matched")
	ErrPackageErrors = errors.New("package has errors")
)

const (
	// discoverMode is enough to enumerate packages and their files.
	discoverMode = packages.NeedName | packages.NeedFiles | packages.NeedModule

	// compileMode loads syntax and types for the target package only;
	// dependencies come from export data.
	compileMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
		packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes |
		packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedModule
)

// LoadOptions controls how packages are resolved and compiled.
type LoadOptions struct {
	// Tests includes _test.go files (the test variant replaces the plain package)
	Tests bool
	// BuildTags are passed to the build system as -tags
	BuildTags []string
	// Strict makes GetCompilation fail when a package does not type-check
	Strict bool
}

// Loader resolves package patterns into projects and implements
// lint.CompilationProvider on top of go/packages.
type Loader struct {
	opts   LoadOptions
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger defaults to slog.Default().
func NewLoader(opts LoadOptions, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{opts: opts, logger: logger}
}

// Compilation is a type-checked Go package.
type Compilation struct {
	project *core.Project

	// Package is the loaded package with syntax and type information
	Package *packages.Package
	// Fset maps positions in Package.Syntax to files
	Fset *token.FileSet
}

var _ lint.Compilation = (*Compilation)(nil)

// Project implements lint.Compilation.
func (c *Compilation) Project() *core.Project {
	return c.project
}

func (l *Loader) config(ctx context.Context, dir string, mode packages.LoadMode) *packages.Config {
	cfg := &packages.Config{
		Mode:    mode,
		Context: ctx,
		Dir:     dir,
		Tests:   l.opts.Tests,
	}
	if len(l.opts.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(l.opts.BuildTags, ",")}
	}
	return cfg
}

// Load resolves patterns relative to dir into one project per package.
// Each project's documents are the package's Go files.
func (l *Loader) Load(ctx context.Context, dir string, patterns []string) ([]*core.Project, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(l.config(ctx, dir, discoverMode), patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// With tests enabled, "p [p.test]" is a superset of "p".
	hasTestVariant := make(map[string]bool)
	for _, pkg := range pkgs {
		if pkg.ID != pkg.PkgPath && strings.HasPrefix(pkg.ID, pkg.PkgPath+" [") {
			hasTestVariant[pkg.PkgPath] = true
		}
	}

	var projects []*core.Project
	for _, pkg := range pkgs {
		if len(pkg.GoFiles) == 0 || strings.HasSuffix(pkg.PkgPath, ".test") {
			continue
		}
		if pkg.ID == pkg.PkgPath && hasTestVariant[pkg.PkgPath] {
			continue
		}
		for _, e := range pkg.Errors {
			l.logger.Warn("package error", "package", pkg.ID, "error", e.Error())
		}
		projects = append(projects, projectFromPackage(pkg))
	}

	if len(projects) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPackages, strings.Join(patterns, " "))
	}

	l.logger.Debug("Loaded packages", "dir", dir, "patterns", patterns, "projects", len(projects))
	return projects, nil
}

func projectFromPackage(pkg *packages.Package) *core.Project {
	docs := make([]core.Document, 0, len(pkg.GoFiles))
	for _, f := range pkg.GoFiles {
		docs = append(docs, core.Document{Path: f, Generated: isGenerated(f)})
	}
	return &core.Project{
		ID:        pkg.ID,
		Name:      pkg.PkgPath,
		Dir:       filepath.Dir(pkg.GoFiles[0]),
		Patterns:  []string{pkg.PkgPath},
		Documents: docs,
	}
}

// isGenerated reports whether the file carries a "Code generated ... DO NOT
// EDIT." header. Unreadable files are treated as hand-written.
func isGenerated(path string) bool {
	f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.PackageClauseOnly|parser.ParseComments)
	if err != nil {
		return false
	}
	return ast.IsGenerated(f)
}

// GetCompilation loads and type-checks the project's package.
func (l *Loader) GetCompilation(ctx context.Context, project *core.Project) (lint.Compilation, error) {
	patterns := project.Patterns
	if len(patterns) == 0 {
		patterns = []string{project.ID}
	}

	cfg := l.config(ctx, project.Dir, compileMode)
	cfg.Fset = token.NewFileSet()

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", project.ID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pkg := selectPackage(pkgs, project.ID)
	if pkg == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPackages, project.ID)
	}

	if len(pkg.Errors) > 0 {
		errs := make([]error, 0, len(pkg.Errors))
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
		if l.opts.Strict || pkg.Types == nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPackageErrors, project.ID, errors.Join(errs...))
		}
		l.logger.Warn("analyzing package with errors", "package", project.ID, "errors", len(errs))
	}

	return &Compilation{project: project, Package: pkg, Fset: cfg.Fset}, nil
}

// selectPackage picks the package variant matching id, falling back to the
// first non-test-main package.
func selectPackage(pkgs []*packages.Package, id string) *packages.Package {
	var fallback *packages.Package
	for _, pkg := range pkgs {
		if pkg.ID == id {
			return pkg
		}
		if fallback == nil && !strings.HasSuffix(pkg.PkgPath, ".test") {
			fallback = pkg
		}
	}
	return fallback
}
