package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfix/pkg/lint"
)

func TestRulesCommand_List(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, NewRulesCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "# Analyzers (")
	assert.Contains(t, out, "| printf | yes |")
	assert.Contains(t, out, "| nilness | no |")
}

func TestRulesCommand_EnabledOnly(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, NewRulesCommand(), "--enabled", "--long")
	require.NoError(t, err)

	assert.Contains(t, out, "printf")
	assert.NotContains(t, out, "nilness")
	assert.Contains(t, out, "inspect", "long listing shows prerequisites")
}

func TestRulesCommand_Show(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, NewRulesCommand(), "printf")
	require.NoError(t, err)
	assert.Contains(t, out, "# printf")
	assert.Contains(t, out, "**Default:** `true`")

	_, err = execute(t, NewRulesCommand(), "no-such-analyzer")
	assert.ErrorIs(t, err, lint.ErrUnknownAnalyzer)
}

func TestAnalyzerInfos(t *testing.T) {
	infos := analyzerInfos(false)
	require.NotEmpty(t, infos)
	assert.Len(t, infos, lint.Count())
	for i := 1; i < len(infos); i++ {
		assert.Less(t, infos[i-1].ID, infos[i].ID)
	}

	for _, info := range analyzerInfos(true) {
		assert.True(t, info.Default, info.ID)
	}
}

func TestRulesCommandMetadata(t *testing.T) {
	cmd := NewRulesCommand()
	assert.Equal(t, "rules [analyzer]", cmd.Use)
	assert.Contains(t, cmd.Aliases, "analyzers")
	for _, flag := range []string{"long", "enabled"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}
