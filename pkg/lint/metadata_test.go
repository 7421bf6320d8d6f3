package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/leapfix/pkg/lint"
)

func TestBuildDocURL(t *testing.T) {
	t.Cleanup(lint.ResetDocsBaseURL)

	assert.Equal(t, lint.DefaultDocsBaseURL+"/printf", lint.BuildDocURL("Printf"))

	lint.SetDocsBaseURL("http://localhost:6060/pkg/passes/")
	assert.Equal(t, "http://localhost:6060/pkg/passes/nilness", lint.BuildDocURL("nilness"))
}
