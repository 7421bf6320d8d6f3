// Package config provides configuration management for the leapfix CLI.
//
// The analyzer settings (analyzers, disabled, severity, rules) are the shared
// core.LintConfig type, squashed into the top level of leapfix.yaml so the
// engine can consume them without importing this package.
package config

import (
	"github.com/leapstack-labs/leapfix/pkg/core"
)

// LintConfig is an alias for the shared analyzer configuration.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Config holds all CLI configuration options.
type Config struct {
	LintConfig `koanf:",squash" yaml:",inline"`

	// Patterns are the package patterns analyzed when none are given on the command line
	Patterns []string `koanf:"patterns" yaml:"patterns,omitempty"`

	// Include and Exclude are path.Match globs, relative to the project root,
	// that narrow the set of files whose diagnostics are reported
	Include []string `koanf:"include" yaml:"include,omitempty"`
	Exclude []string `koanf:"exclude" yaml:"exclude,omitempty"`

	IncludeGenerated bool     `koanf:"include_generated" yaml:"include_generated"`
	Concurrency      int      `koanf:"concurrency" yaml:"concurrency"`
	Tests            bool     `koanf:"tests" yaml:"tests"`
	Strict           bool     `koanf:"strict" yaml:"strict"`
	BuildTags        []string `koanf:"build_tags" yaml:"build_tags,omitempty"`
	StatePath        string   `koanf:"state_path" yaml:"state_path"`
	OutputFormat     string   `koanf:"output" yaml:"output"`
	Verbose          bool     `koanf:"verbose" yaml:"verbose,omitempty"`

	// DocsBaseURL replaces pkg.go.dev in links to analyzers that carry no URL
	DocsBaseURL string `koanf:"docs_base_url" yaml:"docs_base_url,omitempty"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when none was found. Not read from config.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// Default configuration values.
const (
	DefaultPattern         = "./..."
	DefaultStateFile       = ".leapfix/state.db"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultDefaultSeverity = "warning"
)

// ConfigFileNames are the file names searched for, in priority order.
var ConfigFileNames = []string{"leapfix.yaml", "leapfix.yml"}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		LintConfig:   LintConfig{DefaultSeverity: core.SeverityWarning},
		Patterns:     []string{DefaultPattern},
		StatePath:    DefaultStateFile,
		OutputFormat: DefaultOutput,
	}
}

// Lint returns the analyzer configuration.
func (c *Config) Lint() *LintConfig {
	if c == nil {
		return &LintConfig{DefaultSeverity: core.SeverityWarning}
	}
	return &c.LintConfig
}
