package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "leapfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("project-dir", "", "")
	flags.String("state", "", "")
	flags.StringSlice("enable", nil, "")
	flags.StringSlice("disable", nil, "")
	flags.StringSlice("tags", nil, "")
	flags.Int("concurrency", 0, "")
	flags.StringP("output", "o", "", "")
	flags.String("default-severity", "", "")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	flags := testFlags()
	require.NoError(t, flags.Set("project-dir", dir))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultPattern}, cfg.Patterns)
	assert.Equal(t, core.SeverityWarning, cfg.DefaultSeverity)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, 0, cfg.Concurrency)
	assert.False(t, cfg.IncludeGenerated)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, DefaultStateFile), cfg.StatePath)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `
analyzers: [printf, shadow]
disabled: [structtag]
default_severity: info
severity:
  printf: error
  shadow: hidden
rules:
  shadow:
    strict: true
include: ["internal/*.go"]
exclude: ["*_gen.go"]
include_generated: true
concurrency: 4
tests: true
build_tags: [integration]
state_path: custom/state.db
output: json
docs_base_url: http://localhost:6060/passes
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, []string{"printf", "shadow"}, cfg.Analyzers)
	assert.Equal(t, []string{"structtag"}, cfg.Disabled)
	assert.Equal(t, core.SeverityInfo, cfg.DefaultSeverity)
	assert.Equal(t, map[string]core.Severity{
		"printf": core.SeverityError,
		"shadow": core.SeverityHidden,
	}, cfg.Severity)
	assert.Equal(t, true, cfg.Rules["shadow"]["strict"])
	assert.Equal(t, []string{"internal/*.go"}, cfg.Include)
	assert.Equal(t, []string{"*_gen.go"}, cfg.Exclude)
	assert.True(t, cfg.IncludeGenerated)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.True(t, cfg.Tests)
	assert.Equal(t, []string{"integration"}, cfg.BuildTags)
	assert.Equal(t, filepath.Join(dir, "custom", "state.db"), cfg.StatePath)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "http://localhost:6060/passes", cfg.DocsBaseURL)

	assert.Same(t, &cfg.LintConfig, cfg.Lint())
}

func TestLoadConfig_InvalidSeverity(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "severity:\n  printf: fatal\n")

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode config")
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "analyzers: [unterminated\n")

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_ValidationFails(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "output: yaml\nconcurrency: -1\n")

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Contains(t, err.Error(), `unknown output format "yaml"`)
	assert.Contains(t, err.Error(), "concurrency must not be negative")
}

func TestLoadConfig_HiddenDefaultSeverityRejected(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	flags := testFlags()
	require.NoError(t, flags.Set("project-dir", dir))
	require.NoError(t, flags.Set("default-severity", "hidden"))

	_, err := LoadConfig("", flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_severity must be info, warning or error")
}

// TestLoadConfig_FlagPrecedence tests that flags override env vars and config file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "concurrency: 1\ndisabled: [from_file]\n")

	t.Setenv("LEAPFIX_CONCURRENCY", "2")
	t.Setenv("LEAPFIX_DISABLED", "from_env_a,from_env_b")

	flags := testFlags()
	require.NoError(t, flags.Set("concurrency", "3"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Concurrency, "flag value should override config file and env var")
	assert.Equal(t, []string{"from_env_a", "from_env_b"}, cfg.Disabled, "env var should override config file")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "output: text\n")
	t.Setenv("LEAPFIX_OUTPUT", "markdown")

	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat, "env var should be used when flag is not set")
}

func TestLoadConfig_RenamedFlags(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)

	flags := testFlags()
	require.NoError(t, flags.Set("project-dir", dir))
	require.NoError(t, flags.Set("enable", "printf,nilness"))
	require.NoError(t, flags.Set("disable", "tests"))
	require.NoError(t, flags.Set("tags", "e2e"))
	require.NoError(t, flags.Set("state", "run.db"))
	require.NoError(t, flags.Set("default-severity", "error"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, []string{"printf", "nilness"}, cfg.Analyzers)
	assert.Equal(t, []string{"tests"}, cfg.Disabled)
	assert.Equal(t, []string{"e2e"}, cfg.BuildTags)
	assert.Equal(t, core.SeverityError, cfg.DefaultSeverity)
	assert.Equal(t, filepath.Join(cwd, "run.db"), cfg.StatePath, "flag paths are relative to the working directory")
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "output: json\n")
	nested := filepath.Join(root, "internal", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	resolvedRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, resolvedRoot, gotRoot)
}

func TestFindConfigUpward(t *testing.T) {
	root := t.TempDir()
	assert.Empty(t, findConfigUpward(root))

	require.NoError(t, os.WriteFile(filepath.Join(root, "leapfix.yml"), []byte("{}"), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	assert.Equal(t, filepath.Join(root, "leapfix.yml"), findConfigUpward(nested))

	writeConfig(t, root, "{}")
	assert.Equal(t, filepath.Join(root, "leapfix.yaml"), findConfigUpward(nested), "yaml takes priority over yml")
}

func TestResolvePathRelativeTo(t *testing.T) {
	tests := []struct {
		path string
		base string
		want string
	}{
		{"", "/base", ""},
		{":memory:", "/base", ":memory:"},
		{"/abs/state.db", "/base", "/abs/state.db"},
		{".leapfix/state.db", "/base", "/base/.leapfix/state.db"},
	}
	for _, tt := range tests {
		assert.Equal(t, filepath.FromSlash(tt.want), resolvePathRelativeTo(tt.path, tt.base), tt.path)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty output is auto", mutate: func(c *Config) { c.OutputFormat = "" }},
		{name: "negative concurrency", mutate: func(c *Config) { c.Concurrency = -2 }, wantErr: "concurrency must not be negative"},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "html" }, wantErr: "unknown output format"},
		{name: "bad include glob", mutate: func(c *Config) { c.Include = []string{"[a-"} }, wantErr: `invalid glob "[a-"`},
		{name: "hidden default severity", mutate: func(c *Config) { c.DefaultSeverity = core.SeverityHidden }, wantErr: `default_severity must be info, warning or error, got "hidden"`},
		{name: "info default severity", mutate: func(c *Config) { c.DefaultSeverity = core.SeverityInfo }},
		{name: "docs url", mutate: func(c *Config) { c.DocsBaseURL = "http://localhost:6060/pkg" }},
		{name: "relative docs url", mutate: func(c *Config) { c.DocsBaseURL = "docs/analyzers" }, wantErr: "docs_base_url must be an absolute URL"},
		{name: "bad exclude glob", mutate: func(c *Config) { c.Exclude = []string{"x[", "ok/*"} }, wantErr: `invalid glob "x["`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateDirectories(t *testing.T) {
	cfg := Default()
	cfg.ProjectRoot = t.TempDir()
	assert.NoError(t, cfg.ValidateDirectories())

	cfg.ProjectRoot = filepath.Join(cfg.ProjectRoot, "missing")
	assert.Error(t, cfg.ValidateDirectories())

	file := filepath.Join(t.TempDir(), "file.go")
	require.NoError(t, os.WriteFile(file, nil, 0600))
	cfg.ProjectRoot = file
	assert.Error(t, cfg.ValidateDirectories())
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestNilConfigLint(t *testing.T) {
	var cfg *Config
	assert.Equal(t, core.SeverityWarning, cfg.Lint().DefaultSeverity)
}
