package lint

import (
	"strings"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

// DocumentSet is the set of files eligible to receive automated fixes.
// Membership is case-insensitive; the zero value contains nothing.
type DocumentSet struct {
	paths map[string]string // folded path -> original path
	order []string
}

// NewDocumentSet builds a set from absolute file paths. Paths that differ
// only in case collapse into one entry (first wins).
func NewDocumentSet(paths ...string) DocumentSet {
	set := DocumentSet{paths: make(map[string]string, len(paths))}
	for _, p := range paths {
		if p == "" {
			continue
		}
		key := foldPath(p)
		if _, ok := set.paths[key]; ok {
			continue
		}
		set.paths[key] = p
		set.order = append(set.order, p)
	}
	return set
}

// Contains reports whether path is in the set, ignoring case.
func (s DocumentSet) Contains(path string) bool {
	if path == "" || len(s.paths) == 0 {
		return false
	}
	_, ok := s.paths[foldPath(path)]
	return ok
}

// Len returns the number of distinct paths.
func (s DocumentSet) Len() int {
	return len(s.order)
}

// Paths returns the paths in insertion order.
func (s DocumentSet) Paths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// foldPath maps each rune to its simple upper case. Full folding would
// expand runes such as ß into "ss" and match files that are distinct on disk.
func foldPath(p string) string {
	return strings.ToUpper(p)
}

// Accept decides whether a raw diagnostic is actionable for the fixing
// workflow. All of the following must hold:
//
//  1. the diagnostic is not suppressed
//  2. its severity is at least SeverityWarning
//  3. it has a location in a source file
//  4. that file is in docs (case-insensitive)
//
// Accept is pure; a diagnostic with a missing location is rejected, never an error.
func Accept(d core.Diagnostic, docs DocumentSet) bool {
	if d.Suppressed {
		return false
	}
	if d.Severity < core.SeverityWarning {
		return false
	}
	if !d.Location.IsInSource() {
		return false
	}
	return docs.Contains(d.Location.FilePath)
}

// Filter returns the diagnostics accepted by Accept, preserving order.
func Filter(diags []core.Diagnostic, docs DocumentSet) []core.Diagnostic {
	var accepted []core.Diagnostic
	for _, d := range diags {
		if Accept(d, docs) {
			accepted = append(accepted, d)
		}
	}
	return accepted
}
