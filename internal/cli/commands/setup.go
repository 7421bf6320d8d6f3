package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapfix/internal/cli/config"
	"github.com/leapstack-labs/leapfix/internal/cli/output"
	"github.com/leapstack-labs/leapfix/internal/engine"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := engine.New(engineConfig(cfg, logger))
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = eng.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: newRenderer(cmd, cfg),
	}, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that never load packages.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: newRenderer(cmd, cfg),
	}
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) *output.Renderer {
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
}

// getConfig returns the loaded configuration, or defaults rooted at the
// working directory when a command runs without the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg := config.Default()
	if cwd, err := os.Getwd(); err == nil {
		cfg.ProjectRoot = cwd
		cfg.StatePath = filepath.Join(cwd, cfg.StatePath)
	}
	return cfg
}

func engineConfig(cfg *config.Config, logger *slog.Logger) engine.Config {
	return engine.Config{
		Dir:              cfg.ProjectRoot,
		Lint:             cfg.Lint(),
		Include:          cfg.Include,
		Exclude:          cfg.Exclude,
		IncludeGenerated: cfg.IncludeGenerated,
		Concurrency:      cfg.Concurrency,
		Tests:            cfg.Tests,
		BuildTags:        cfg.BuildTags,
		Strict:           cfg.Strict,
		StatePath:        cfg.StatePath,
		Logger:           logger,
	}
}

// resolvePatterns turns command-line patterns into ones the engine can load
// from the project root. Relative directory patterns are taken from the
// working directory; import paths are left alone.
func resolvePatterns(args []string, cfg *config.Config) []string {
	if len(args) == 0 {
		return cfg.Patterns
	}
	patterns := make([]string, 0, len(args))
	for _, arg := range args {
		// "./..." becomes "/abs/dir/...", which go list still expands.
		if arg == "." || arg == ".." || strings.HasPrefix(arg, "./") || strings.HasPrefix(arg, "../") {
			if abs, err := filepath.Abs(arg); err == nil {
				arg = abs
			}
		}
		patterns = append(patterns, arg)
	}
	return patterns
}
