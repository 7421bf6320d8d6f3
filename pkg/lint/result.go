package lint

import (
	"sync"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

// CodeAnalysisResult accumulates accepted diagnostics across one analysis run,
// grouped by project and then by document.
//
// It is append-only: entries are never removed, overwritten or reordered.
// All methods are safe for concurrent use. Readers receive copies.
type CodeAnalysisResult struct {
	mu       sync.RWMutex
	projects []*projectEntry          // first-seen order
	byID     map[string]*projectEntry // keyed by project ID
	count    int
}

type projectEntry struct {
	project     *core.Project
	diagnostics []core.Diagnostic
	documents   []string         // first-seen order
	byDocument  map[string][]int // file path -> indexes into diagnostics
}

// NewCodeAnalysisResult creates an empty result.
func NewCodeAnalysisResult() *CodeAnalysisResult {
	return &CodeAnalysisResult{
		byID: make(map[string]*projectEntry),
	}
}

// AddDiagnostic appends a diagnostic to the project's group.
func (r *CodeAnalysisResult) AddDiagnostic(project *core.Project, d core.Diagnostic) {
	r.AddDiagnostics(project, d)
}

// AddDiagnostics appends diagnostics to the project's group under a single
// lock acquisition, so concurrent readers see either none or all of them.
// Adding no diagnostics leaves the result untouched.
func (r *CodeAnalysisResult) AddDiagnostics(project *core.Project, diags ...core.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.entryLocked(project)
	for _, d := range diags {
		idx := len(entry.diagnostics)
		entry.diagnostics = append(entry.diagnostics, d)

		path := d.FilePath()
		if path == "" {
			continue
		}
		if _, ok := entry.byDocument[path]; !ok {
			entry.documents = append(entry.documents, path)
		}
		entry.byDocument[path] = append(entry.byDocument[path], idx)
	}
	r.count += len(diags)
}

func (r *CodeAnalysisResult) entryLocked(project *core.Project) *projectEntry {
	if r.byID == nil {
		r.byID = make(map[string]*projectEntry)
	}
	id := projectID(project)
	entry, ok := r.byID[id]
	if !ok {
		entry = &projectEntry{
			project:    project,
			byDocument: make(map[string][]int),
		}
		r.byID[id] = entry
		r.projects = append(r.projects, entry)
	}
	return entry
}

func projectID(p *core.Project) string {
	if p == nil {
		return ""
	}
	return p.ID
}

// Projects returns the projects that have been recorded, in first-seen order.
func (r *CodeAnalysisResult) Projects() []*core.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*core.Project, 0, len(r.projects))
	for _, e := range r.projects {
		out = append(out, e.project)
	}
	return out
}

// Project returns a recorded project by ID.
func (r *CodeAnalysisResult) Project(id string) (*core.Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return e.project, true
}

// Diagnostics returns all diagnostics recorded for a project, in the order
// they were added.
func (r *CodeAnalysisResult) Diagnostics(projectID string) []core.Diagnostic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[projectID]
	if !ok {
		return nil
	}
	out := make([]core.Diagnostic, len(e.diagnostics))
	copy(out, e.diagnostics)
	return out
}

// Documents returns the file paths with diagnostics for a project, in
// first-seen order.
func (r *CodeAnalysisResult) Documents(projectID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[projectID]
	if !ok {
		return nil
	}
	out := make([]string, len(e.documents))
	copy(out, e.documents)
	return out
}

// DocumentDiagnostics returns the diagnostics for one file of a project.
// The path must match the diagnostic's file path exactly.
func (r *CodeAnalysisResult) DocumentDiagnostics(projectID, path string) []core.Diagnostic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[projectID]
	if !ok {
		return nil
	}
	idxs := e.byDocument[path]
	out := make([]core.Diagnostic, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, e.diagnostics[i])
	}
	return out
}

// Count returns the total number of recorded diagnostics.
func (r *CodeAnalysisResult) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Walk calls fn for every recorded diagnostic, grouped by project in
// first-seen order. Walk operates on a snapshot; fn may call back into the
// result. Iteration stops when fn returns false.
func (r *CodeAnalysisResult) Walk(fn func(project *core.Project, d core.Diagnostic) bool) {
	type group struct {
		project *core.Project
		diags   []core.Diagnostic
	}

	r.mu.RLock()
	snapshot := make([]group, 0, len(r.projects))
	for _, e := range r.projects {
		diags := make([]core.Diagnostic, len(e.diagnostics))
		copy(diags, e.diagnostics)
		snapshot = append(snapshot, group{project: e.project, diags: diags})
	}
	r.mu.RUnlock()

	for _, g := range snapshot {
		for _, d := range g.diags {
			if !fn(g.project, d) {
				return
			}
		}
	}
}

// Summary holds aggregate counts for a result.
type Summary struct {
	Projects   int
	Documents  int
	Total      int
	BySeverity map[core.Severity]int
	ByRule     map[string]int
}

// Summary computes aggregate counts over the recorded diagnostics.
func (r *CodeAnalysisResult) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Summary{
		Projects:   len(r.projects),
		Total:      r.count,
		BySeverity: make(map[core.Severity]int),
		ByRule:     make(map[string]int),
	}
	for _, e := range r.projects {
		s.Documents += len(e.documents)
		for _, d := range e.diagnostics {
			s.BySeverity[d.Severity]++
			s.ByRule[d.RuleID]++
		}
	}
	return s
}
