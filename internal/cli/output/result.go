package output

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/leapfix/pkg/core"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// ResultOutput is the JSON structure of an analysis result.
type ResultOutput struct {
	RunID    string          `json:"run_id,omitempty"`
	Summary  SummaryOutput   `json:"summary"`
	Projects []ProjectOutput `json:"projects"`
}

// SummaryOutput holds aggregate counts.
type SummaryOutput struct {
	Projects  int            `json:"projects"`
	Documents int            `json:"documents"`
	Total     int            `json:"total"`
	Errors    int            `json:"errors"`
	Warnings  int            `json:"warnings"`
	Info      int            `json:"info"`
	ByRule    map[string]int `json:"by_rule,omitempty"`
}

// ProjectOutput groups the diagnostics of one project.
type ProjectOutput struct {
	ID          string            `json:"id"`
	Name        string            `json:"name,omitempty"`
	Dir         string            `json:"dir,omitempty"`
	Diagnostics []core.Diagnostic `json:"diagnostics"`
}

// NewSummaryOutput converts a lint summary.
func NewSummaryOutput(s lint.Summary) SummaryOutput {
	return SummaryOutput{
		Projects:  s.Projects,
		Documents: s.Documents,
		Total:     s.Total,
		Errors:    s.BySeverity[core.SeverityError],
		Warnings:  s.BySeverity[core.SeverityWarning],
		Info:      s.BySeverity[core.SeverityInfo],
		ByRule:    s.ByRule,
	}
}

// NewResultOutput converts a result into its JSON structure.
func NewResultOutput(runID string, result *lint.CodeAnalysisResult) ResultOutput {
	out := ResultOutput{
		RunID:    runID,
		Summary:  NewSummaryOutput(result.Summary()),
		Projects: []ProjectOutput{},
	}
	for _, p := range result.Projects() {
		out.Projects = append(out.Projects, ProjectOutput{
			ID:          p.ID,
			Name:        p.Name,
			Dir:         p.Dir,
			Diagnostics: result.Diagnostics(p.ID),
		})
	}
	return out
}

// RenderResult writes an analysis result in the renderer's mode.
func RenderResult(r *Renderer, runID string, result *lint.CodeAnalysisResult) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return r.JSON(NewResultOutput(runID, result))
	}

	if result.Count() == 0 {
		r.Success("No issues found")
		return nil
	}

	for _, p := range result.Projects() {
		diags := result.Diagnostics(p.ID)
		if mode == ModeMarkdown {
			r.Header(2, p.String())
		} else {
			r.Println(r.Styles().FilePath.Render(p.String()))
		}

		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.AppendHeader(table.Row{"Location", "Severity", "Rule", "Message"})
		for _, d := range diags {
			t.AppendRow(diagnosticRow(r, p, d))
		}

		if mode == ModeMarkdown {
			t.RenderMarkdown()
		} else {
			t.SetStyle(table.StyleLight)
			t.Render()
		}
		r.Println("")
	}

	RenderSummary(r, result.Summary())
	return nil
}

func diagnosticRow(r *Renderer, p *core.Project, d core.Diagnostic) table.Row {
	styles := r.Styles()
	message := d.Message
	for _, fix := range d.Fixes {
		message += " (fix: " + fix.Description + ")"
	}
	if r.EffectiveMode() == ModeMarkdown {
		return table.Row{
			"`" + relativeLocation(p, d.Location) + "`",
			d.Severity.String(),
			d.RuleID,
			message,
		}
	}
	return table.Row{
		styles.Muted.Render(relativeLocation(p, d.Location)),
		styles.Severity(d.Severity).Render(d.Severity.String()),
		styles.Bold.Render(d.RuleID),
		message,
	}
}

// relativeLocation formats a location relative to the project directory.
func relativeLocation(p *core.Project, loc *core.Location) string {
	if !loc.IsInSource() {
		return "-"
	}
	path := loc.FilePath
	if p != nil && p.Dir != "" {
		if rel, err := filepath.Rel(p.Dir, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	path = filepath.ToSlash(path)
	if !loc.Start.IsValid() {
		return path
	}
	return fmt.Sprintf("%s:%d:%d", path, loc.Start.Line, loc.Start.Column)
}

// RenderSummary writes a one-line summary such as
// "Summary: 3 issues (1 error, 2 warnings) in 2 files across 1 project".
func RenderSummary(r *Renderer, s lint.Summary) {
	parts := []string{}
	for _, sev := range []core.Severity{core.SeverityError, core.SeverityWarning, core.SeverityInfo} {
		if n := s.BySeverity[sev]; n > 0 {
			parts = append(parts, plural(n, sev.String()))
		}
	}

	line := fmt.Sprintf("Summary: %s", plural(s.Total, "issue"))
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	line += fmt.Sprintf(" in %s across %s", plural(s.Documents, "file"), plural(s.Projects, "project"))

	if r.EffectiveMode() == ModeMarkdown {
		r.Println("**" + line + "**")
	} else {
		r.Println(r.Styles().Bold.Render(line))
	}

	if len(s.ByRule) > 0 {
		rules := make([]string, 0, len(s.ByRule))
		for id := range s.ByRule {
			rules = append(rules, id)
		}
		sort.Strings(rules)
		counts := make([]string, 0, len(rules))
		for _, id := range rules {
			counts = append(counts, fmt.Sprintf("%s=%d", id, s.ByRule[id]))
		}
		r.Println(r.Styles().Muted.Render("By rule: " + strings.Join(counts, ", ")))
	}
}

func plural(n int, word string) string {
	// "info" has no plural
	if n == 1 || word == "info" {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
