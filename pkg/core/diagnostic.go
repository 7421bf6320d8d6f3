package core

import "fmt"

// =============================================================================
// Diagnostics
// =============================================================================

// Position is a 1-based line/column position in a source file.
// A zero Line means the position is unknown.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Location is the source span a diagnostic refers to.
type Location struct {
	FilePath string   `json:"file"`
	Start    Position `json:"start"`
	End      Position `json:"end"` // Optional: end of the problematic range
}

// IsInSource reports whether the location resolves to a source file.
// A nil location or one without a file path is not in source.
func (l *Location) IsInSource() bool {
	return l != nil && l.FilePath != ""
}

// String formats the location as file:line:col.
func (l *Location) String() string {
	if !l.IsInSource() {
		return "-"
	}
	if !l.Start.IsValid() {
		return l.FilePath
	}
	return fmt.Sprintf("%s:%d:%d", l.FilePath, l.Start.Line, l.Start.Column)
}

// Diagnostic represents a single analysis finding.
type Diagnostic struct {
	RuleID     string    `json:"rule_id"`
	Message    string    `json:"message"`
	Severity   Severity  `json:"severity"`
	Suppressed bool      `json:"suppressed,omitempty"`
	Location   *Location `json:"location,omitempty"` // nil for project-level findings
	Category   string    `json:"category,omitempty"`
	URL        string    `json:"url,omitempty"` // Documentation for the rule
	Fixes      []Fix     `json:"fixes,omitempty"`
}

// FilePath returns the location's file path, or "" when the diagnostic has no
// source location.
func (d Diagnostic) FilePath() string {
	if !d.Location.IsInSource() {
		return ""
	}
	return d.Location.FilePath
}

// String formats the diagnostic the way compilers do.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s [%s]", d.Location, d.Severity, d.Message, d.RuleID)
}

// Fix represents a suggested code fix. Fixes are carried, never applied here.
type Fix struct {
	Description string     `json:"description"`
	TextEdits   []TextEdit `json:"edits"`
}

// TextEdit represents a text replacement.
type TextEdit struct {
	FilePath string   `json:"file"`
	Pos      Position `json:"pos"`
	EndPos   Position `json:"end"`
	NewText  string   `json:"new_text"`
}
