package lint_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

func TestParallelEngine_ConcatenatesInSetOrder(t *testing.T) {
	slow := lint.WrapAnalyzerDef(lint.AnalyzerDef{
		ID: "slow",
		Check: func(context.Context, lint.Compilation, core.RuleOptions) ([]core.Diagnostic, error) {
			time.Sleep(20 * time.Millisecond)
			return []core.Diagnostic{warning("slow", "/a.go", "slow")}, nil
		},
	})
	fast := fixedAnalyzer("fast", warning("fast", "/a.go", "fast"))

	engine := &lint.ParallelEngine{}
	diags, err := engine.RunAnalyzers(context.Background(), fakeCompilation{}, lint.NewAnalyzerSet(slow, fast), nil)

	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, "slow", diags[0].RuleID)
	assert.Equal(t, "fast", diags[1].RuleID)
}

func TestParallelEngine_SkipsDisabledAndAppliesOverrides(t *testing.T) {
	var disabledCalls atomic.Int32
	disabled := lint.WrapAnalyzerDef(lint.AnalyzerDef{
		ID: "off",
		Check: func(context.Context, lint.Compilation, core.RuleOptions) ([]core.Diagnostic, error) {
			disabledCalls.Add(1)
			return []core.Diagnostic{warning("off", "/a.go", "x")}, nil
		},
	})
	on := fixedAnalyzer("on", warning("on", "/a.go", "y"))
	opts := lint.NewOptions().Disable("off").SetSeverity("on", core.SeverityError)

	diags, err := (&lint.ParallelEngine{Concurrency: 1}).RunAnalyzers(context.Background(), fakeCompilation{},
		lint.NewAnalyzerSet(disabled, on), opts)

	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, core.SeverityError, diags[0].Severity)
	assert.Equal(t, int32(0), disabledCalls.Load())
}

func TestParallelEngine_PassesRuleOptions(t *testing.T) {
	var seen core.RuleOptions
	a := lint.WrapAnalyzerDef(lint.AnalyzerDef{
		ID: "opt",
		Check: func(_ context.Context, _ lint.Compilation, opts core.RuleOptions) ([]core.Diagnostic, error) {
			seen = opts
			return nil, nil
		},
	})
	opts := lint.NewOptions().SetRuleOptions("opt", core.RuleOptions{"limit": 5})

	_, err := (&lint.ParallelEngine{}).RunAnalyzers(context.Background(), fakeCompilation{}, lint.NewAnalyzerSet(a), opts)

	require.NoError(t, err)
	assert.Equal(t, core.RuleOptions{"limit": 5}, seen)
}

func TestParallelEngine_AnalyzerErrorNamesAnalyzer(t *testing.T) {
	boom := errors.New("boom")
	_, err := (&lint.ParallelEngine{}).RunAnalyzers(context.Background(), fakeCompilation{},
		lint.NewAnalyzerSet(fixedAnalyzer("ok"), failingAnalyzer("bad", boom)), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "analyzer bad")
}

func TestWrapAnalyzerDef_FillsRuleIDAndURL(t *testing.T) {
	a := lint.WrapAnalyzerDef(lint.AnalyzerDef{
		ID:  "doc",
		URL: "https://example.com/doc",
		Check: func(context.Context, lint.Compilation, core.RuleOptions) ([]core.Diagnostic, error) {
			return []core.Diagnostic{{Message: "m"}}, nil
		},
	})

	diags, err := a.Analyze(context.Background(), fakeCompilation{}, nil)

	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "doc", diags[0].RuleID)
	assert.Equal(t, "https://example.com/doc", diags[0].URL)

	empty := lint.WrapAnalyzerDef(lint.AnalyzerDef{ID: "empty"})
	diags, err = empty.Analyze(context.Background(), fakeCompilation{}, nil)
	assert.NoError(t, err)
	assert.Nil(t, diags)
}
