// Package engine orchestrates code analysis runs for the CLI.
// It discovers projects, builds each project's formattable document set,
// fans analysis out across projects and persists results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/leapstack-labs/leapfix/internal/goanalysis"
	"github.com/leapstack-labs/leapfix/internal/provider"
	"github.com/leapstack-labs/leapfix/internal/state"
	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// ErrNoStateStore is returned when reading runs before any were saved.
var ErrNoStateStore = errors.New("no saved runs")

// ProjectLoader discovers projects and compiles them.
// goanalysis.Loader is the production implementation.
type ProjectLoader interface {
	lint.CompilationProvider
	Load(ctx context.Context, dir string, patterns []string) ([]*core.Project, error)
}

// Engine orchestrates analysis runs.
type Engine struct {
	logger   *slog.Logger
	cfg      Config
	loader   ProjectLoader
	provider *provider.Cached
	runner   *lint.Runner
	set      *lint.AnalyzerSet
	opts     *lint.Options

	// State store (lazy opened)
	store     state.Store
	storeOpen bool
	storeMu   sync.Mutex
}

// Config holds engine configuration.
type Config struct {
	// Dir is the project root; patterns and include/exclude globs are relative to it
	Dir string
	// Lint selects analyzers and configures severities and rule options
	Lint *core.LintConfig
	// Include and Exclude narrow the formattable set (path.Match globs)
	Include []string
	Exclude []string
	// IncludeGenerated keeps generated files in the formattable set
	IncludeGenerated bool
	// Concurrency bounds parallel projects and analyzers; 0 means GOMAXPROCS
	Concurrency int
	// Tests analyzes test variants of packages
	Tests bool
	// BuildTags are passed to the build system
	BuildTags []string
	// Strict fails the run when a project does not compile
	Strict bool
	// StatePath is the SQLite database used by SaveRun and friends
	StatePath string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger

	// Loader, AnalysisEngine, Registry and Store replace the defaults.
	// Tests use them to run without the go command.
	Loader         ProjectLoader
	AnalysisEngine lint.Engine
	Registry       *lint.Registry
	Store          state.Store
}

// New creates an engine. The analyzer set is resolved eagerly so unknown
// analyzer names fail before any package is loaded.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Lint == nil {
		cfg.Lint = &core.LintConfig{}
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if abs, err := filepath.Abs(cfg.Dir); err == nil {
		cfg.Dir = abs
	}

	logger.Debug("initializing engine", "dir", cfg.Dir, "analyzers", cfg.Lint.Analyzers)

	set, err := resolveAnalyzers(cfg.Registry, cfg.Lint.Analyzers)
	if err != nil {
		return nil, err
	}

	opts := lint.OptionsFromConfig(cfg.Lint)
	if err := goanalysis.ApplyRuleOptions(set, opts); err != nil {
		return nil, err
	}

	loader := cfg.Loader
	if loader == nil {
		loader = goanalysis.NewLoader(goanalysis.LoadOptions{
			Tests:     cfg.Tests,
			BuildTags: cfg.BuildTags,
			Strict:    cfg.Strict,
		}, logger)
	}

	analysisEngine := cfg.AnalysisEngine
	if analysisEngine == nil {
		analysisEngine = goanalysis.NewEngine(cfg.Concurrency, logger)
	}

	cached := provider.New(loader, logger)

	return &Engine{
		logger:   logger,
		cfg:      cfg,
		loader:   loader,
		provider: cached,
		runner:   lint.NewRunner(cached, analysisEngine, logger),
		set:      set,
		opts:     opts,
		store:    cfg.Store,
	}, nil
}

func resolveAnalyzers(registry *lint.Registry, ids []string) (*lint.AnalyzerSet, error) {
	var (
		set *lint.AnalyzerSet
		err error
	)
	if registry != nil {
		set, err = registry.Resolve(ids)
	} else {
		set, err = lint.Resolve(ids)
	}
	if err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, lint.ErrNoAnalyzers
	}
	return set, nil
}

// Analyzers returns the resolved analyzer set.
func (e *Engine) Analyzers() *lint.AnalyzerSet {
	return e.set
}

// Options returns the analyzer options built from config.
func (e *Engine) Options() *lint.Options {
	return e.opts
}

// Provider returns the compilation cache.
func (e *Engine) Provider() *provider.Cached {
	return e.provider
}

// ensureStoreOpen lazily opens and migrates the state store.
// With create false a missing database file yields ErrNoStateStore.
func (e *Engine) ensureStoreOpen(create bool) (state.Store, error) {
	e.storeMu.Lock()
	defer e.storeMu.Unlock()

	if e.storeOpen {
		return e.store, nil
	}

	if e.store == nil {
		path := e.cfg.StatePath
		if path == "" {
			return nil, fmt.Errorf("state path is not configured")
		}
		if path != ":memory:" {
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !create {
				return nil, ErrNoStateStore
			}
			if dir := filepath.Dir(path); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0750); err != nil {
					return nil, fmt.Errorf("failed to create state directory: %w", err)
				}
			}
		}
		e.store = state.NewSQLiteStore(e.logger)
	}

	e.logger.Debug("opening state store", "path", e.cfg.StatePath)
	if err := e.store.Open(e.cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := e.store.Migrate(); err != nil {
		_ = e.store.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	e.storeOpen = true
	return e.store, nil
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")

	e.storeMu.Lock()
	defer e.storeMu.Unlock()
	if e.storeOpen {
		e.storeOpen = false
		if err := e.store.Close(); err != nil {
			return fmt.Errorf("errors closing engine: %w", err)
		}
	}
	return nil
}
