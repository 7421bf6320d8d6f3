package lint

import (
	"strings"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

// Options is the configuration bag handed to analyzers and engines.
// Build it with NewOptions and the chaining setters, then treat it as
// read-only once it is passed to a Runner.
type Options struct {
	// DisabledRules contains analyzer IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the reported severity of an analyzer's diagnostics
	SeverityOverrides map[string]core.Severity

	// RuleOptions holds opaque per-analyzer settings
	RuleOptions map[string]core.RuleOptions

	// DefaultSeverity applies to diagnostics from engines that do not report one
	DefaultSeverity core.Severity
}

// NewOptions creates default options with all analyzers enabled.
func NewOptions() *Options {
	return &Options{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
		RuleOptions:       make(map[string]core.RuleOptions),
		DefaultSeverity:   core.SeverityWarning,
	}
}

// OptionsFromConfig builds Options from the lint section of leapfix.yaml.
func OptionsFromConfig(cfg *core.LintConfig) *Options {
	opts := NewOptions()
	if cfg == nil {
		return opts
	}
	for _, id := range cfg.Disabled {
		opts.Disable(strings.TrimSpace(id))
	}
	for id, sev := range cfg.Severity {
		opts.SetSeverity(id, sev)
	}
	for id, ruleOpts := range cfg.Rules {
		opts.SetRuleOptions(id, ruleOpts)
	}
	// The zero value is treated as unset so an empty config keeps warnings.
	if cfg.DefaultSeverity != core.SeverityHidden {
		opts.DefaultSeverity = cfg.DefaultSeverity
	}
	return opts
}

// IsDisabled returns true if the analyzer should be skipped.
func (o *Options) IsDisabled(ruleID string) bool {
	if o == nil {
		return false
	}
	return o.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (o *Options) GetSeverity(ruleID string, reported core.Severity) core.Severity {
	if o != nil {
		if sev, ok := o.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return reported
}

// GetDefaultSeverity returns the severity for rules that report none.
func (o *Options) GetDefaultSeverity() core.Severity {
	if o == nil {
		return core.SeverityWarning
	}
	return o.DefaultSeverity
}

// GetRuleOptions returns the options for a rule, or nil if none are set.
func (o *Options) GetRuleOptions(ruleID string) core.RuleOptions {
	if o == nil {
		return nil
	}
	return o.RuleOptions[ruleID]
}

// Disable disables an analyzer by ID.
func (o *Options) Disable(ruleID string) *Options {
	o.DisabledRules[ruleID] = true
	return o
}

// SetSeverity overrides the severity for an analyzer.
func (o *Options) SetSeverity(ruleID string, severity core.Severity) *Options {
	o.SeverityOverrides[ruleID] = severity
	return o
}

// SetRuleOptions sets analyzer-specific options.
func (o *Options) SetRuleOptions(ruleID string, opts core.RuleOptions) *Options {
	o.RuleOptions[ruleID] = opts
	return o
}
