package lint_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

func TestCodeAnalysisResult_GroupsByProjectAndDocument(t *testing.T) {
	r := lint.NewCodeAnalysisResult()
	p1 := newProject("p1")
	p2 := newProject("p2")

	r.AddDiagnostic(p2, warning("R", "/p2/a.go", "p2-1"))
	r.AddDiagnostic(p1, warning("R", "/p1/b.go", "p1-1"))
	r.AddDiagnostic(p1, warning("R", "/p1/a.go", "p1-2"))
	r.AddDiagnostic(p1, warning("S", "/p1/b.go", "p1-3"))

	projects := r.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "p2", projects[0].ID)
	assert.Equal(t, "p1", projects[1].ID)

	assert.Equal(t, []string{"/p1/b.go", "/p1/a.go"}, r.Documents("p1"))
	b := r.DocumentDiagnostics("p1", "/p1/b.go")
	require.Len(t, b, 2)
	assert.Equal(t, "p1-1", b[0].Message)
	assert.Equal(t, "p1-3", b[1].Message)

	assert.Equal(t, 4, r.Count())
	got, ok := r.Project("p1")
	require.True(t, ok)
	assert.Same(t, p1, got)

	_, ok = r.Project("missing")
	assert.False(t, ok)
	assert.Nil(t, r.Diagnostics("missing"))
	assert.Nil(t, r.Documents("missing"))
	assert.Nil(t, r.DocumentDiagnostics("missing", "/x.go"))
}

func TestCodeAnalysisResult_ProjectLevelDiagnosticsHaveNoDocument(t *testing.T) {
	r := lint.NewCodeAnalysisResult()
	r.AddDiagnostic(newProject("p"), core.Diagnostic{RuleID: "R", Severity: core.SeverityError})

	assert.Equal(t, 1, r.Count())
	assert.Empty(t, r.Documents("p"))
	assert.Len(t, r.Diagnostics("p"), 1)
}

func TestCodeAnalysisResult_ReadsReturnCopies(t *testing.T) {
	r := lint.NewCodeAnalysisResult()
	r.AddDiagnostic(newProject("p"), warning("R", "/a.go", "original"))

	diags := r.Diagnostics("p")
	diags[0].Message = "mutated"
	docs := r.Documents("p")
	docs[0] = "/elsewhere.go"

	assert.Equal(t, "original", r.Diagnostics("p")[0].Message)
	assert.Equal(t, []string{"/a.go"}, r.Documents("p"))
}

func TestCodeAnalysisResult_EmptyBatchIsNoop(t *testing.T) {
	r := lint.NewCodeAnalysisResult()
	r.AddDiagnostics(newProject("p"))

	assert.Empty(t, r.Projects())
	assert.Equal(t, 0, r.Count())
}

func TestCodeAnalysisResult_ZeroValueUsable(t *testing.T) {
	var r lint.CodeAnalysisResult
	r.AddDiagnostic(newProject("p"), warning("R", "/a.go", "x"))
	assert.Equal(t, 1, r.Count())
}

func TestCodeAnalysisResult_ConcurrentAppendsSameProject(t *testing.T) {
	const writers = 50
	const perWriter = 40
	r := lint.NewCodeAnalysisResult()
	project := newProject("shared")

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				r.AddDiagnostic(project, warning("R", fmt.Sprintf("/w%d.go", w), fmt.Sprintf("%d-%d", w, i)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, r.Count())
	assert.Len(t, r.Documents("shared"), writers)

	// Per-writer order is preserved within each document.
	for w := 0; w < writers; w++ {
		diags := r.DocumentDiagnostics("shared", fmt.Sprintf("/w%d.go", w))
		require.Len(t, diags, perWriter)
		for i, d := range diags {
			assert.Equal(t, fmt.Sprintf("%d-%d", w, i), d.Message)
		}
	}
}

func TestCodeAnalysisResult_Walk(t *testing.T) {
	r := lint.NewCodeAnalysisResult()
	r.AddDiagnostics(newProject("a"), warning("R", "/a1.go", "a1"), warning("R", "/a2.go", "a2"))
	r.AddDiagnostics(newProject("b"), warning("R", "/b1.go", "b1"))

	var seen []string
	r.Walk(func(p *core.Project, d core.Diagnostic) bool {
		seen = append(seen, p.ID+":"+d.Message)
		return true
	})
	assert.Equal(t, []string{"a:a1", "a:a2", "b:b1"}, seen)

	seen = nil
	r.Walk(func(p *core.Project, d core.Diagnostic) bool {
		seen = append(seen, d.Message)
		// Re-entrant writes must not deadlock.
		r.AddDiagnostic(newProject("c"), warning("R", "/c.go", "c"))
		return len(seen) < 2
	})
	assert.Equal(t, []string{"a1", "a2"}, seen)
}

func TestCodeAnalysisResult_Summary(t *testing.T) {
	r := lint.NewCodeAnalysisResult()
	errDiag := warning("printf", "/a.go", "e")
	errDiag.Severity = core.SeverityError
	r.AddDiagnostics(newProject("a"), warning("shadow", "/a.go", "w1"), errDiag)
	r.AddDiagnostics(newProject("b"), warning("shadow", "/b.go", "w2"))

	s := r.Summary()

	assert.Equal(t, 2, s.Projects)
	assert.Equal(t, 2, s.Documents)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.BySeverity[core.SeverityWarning])
	assert.Equal(t, 1, s.BySeverity[core.SeverityError])
	assert.Equal(t, 2, s.ByRule["shadow"])
	assert.Equal(t, 1, s.ByRule["printf"])
}
