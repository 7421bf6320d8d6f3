package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

func TestOptions_NilSafe(t *testing.T) {
	var opts *Options
	assert.False(t, opts.IsDisabled("x"))
	assert.Equal(t, core.SeverityInfo, opts.GetSeverity("x", core.SeverityInfo))
	assert.Equal(t, core.SeverityWarning, opts.GetDefaultSeverity())
	assert.Nil(t, opts.GetRuleOptions("x"))
}

func TestOptions_Setters(t *testing.T) {
	opts := NewOptions().
		Disable("shadow").
		SetSeverity("printf", core.SeverityError).
		SetRuleOptions("custom", core.RuleOptions{"max": 3})

	assert.True(t, opts.IsDisabled("shadow"))
	assert.False(t, opts.IsDisabled("printf"))
	assert.Equal(t, core.SeverityError, opts.GetSeverity("printf", core.SeverityWarning))
	assert.Equal(t, core.SeverityWarning, opts.GetSeverity("other", core.SeverityWarning))
	assert.Equal(t, 3, GetIntOption(opts.GetRuleOptions("custom"), "max", 0))
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &core.LintConfig{
		Disabled:        []string{" shadow "},
		Severity:        map[string]core.Severity{"printf": core.SeverityError},
		DefaultSeverity: core.SeverityInfo,
		Rules:           map[string]core.RuleOptions{"custom": {"enabled": true}},
	}

	opts := OptionsFromConfig(cfg)

	assert.True(t, opts.IsDisabled("shadow"))
	assert.Equal(t, core.SeverityError, opts.GetSeverity("printf", core.SeverityHidden))
	assert.Equal(t, core.SeverityInfo, opts.GetDefaultSeverity())
	assert.True(t, GetBoolOption(opts.GetRuleOptions("custom"), "enabled", false))

	assert.Equal(t, core.SeverityWarning, OptionsFromConfig(nil).GetDefaultSeverity())
	assert.Equal(t, core.SeverityWarning, OptionsFromConfig(&core.LintConfig{}).GetDefaultSeverity())
}

func TestRuleOptionGetters(t *testing.T) {
	opts := core.RuleOptions{
		"int":        7,
		"float":      float64(4),
		"str_int":    "12",
		"bad_int":    "twelve",
		"bool_str":   "true",
		"strings":    []string{"a", "b"},
		"any_slice":  []any{"c", 1, "d"},
		"name":       "value",
		"wrong_type": 3.5,
	}

	assert.Equal(t, 7, GetIntOption(opts, "int", 0))
	assert.Equal(t, 4, GetIntOption(opts, "float", 0))
	assert.Equal(t, 12, GetIntOption(opts, "str_int", 0))
	assert.Equal(t, 9, GetIntOption(opts, "bad_int", 9))
	assert.Equal(t, 9, GetIntOption(opts, "missing", 9))

	assert.True(t, GetBoolOption(opts, "bool_str", false))
	assert.True(t, GetBoolOption(opts, "missing", true))

	assert.Equal(t, []string{"a", "b"}, GetStringSliceOption(opts, "strings", nil))
	assert.Equal(t, []string{"c", "d"}, GetStringSliceOption(opts, "any_slice", nil))
	assert.Equal(t, []string{"z"}, GetStringSliceOption(opts, "name", []string{"z"}))

	assert.Equal(t, "value", GetOption(opts, "name", ""))
	assert.Equal(t, "dflt", GetOption(opts, "wrong_type", "dflt"))
	assert.Equal(t, "dflt", GetOption[string](nil, "name", "dflt"))
}
