package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeCommandMetadata(t *testing.T) {
	cmd := NewAnalyzeCommand()

	assert.Equal(t, "analyze [packages]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)
	assert.Contains(t, cmd.Aliases, "check")

	flags := []string{
		"enable", "disable", "default-severity", "include", "exclude", "include-generated",
		"tests", "tags", "concurrency", "strict", "save", "watch", "fail-on-issues",
	}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRunsCommandsMetadata(t *testing.T) {
	assert.Equal(t, "runs", NewRunsCommand().Use)
	assert.Equal(t, "show <run-id>", NewShowCommand().Use)
}
