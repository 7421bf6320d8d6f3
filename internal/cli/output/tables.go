package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/leapfix/internal/state"
)

// AnalyzerInfo describes one catalogue entry for `leapfix rules`.
type AnalyzerInfo struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	URL         string   `json:"url,omitempty"`
	Default     bool     `json:"default"`
	Requires    []string `json:"requires,omitempty"`
}

// AnalyzersOutput is the JSON structure of the analyzer catalogue.
type AnalyzersOutput struct {
	Analyzers []AnalyzerInfo `json:"analyzers"`
	Count     struct {
		Default int `json:"default"`
		Total   int `json:"total"`
	} `json:"count"`
}

// RenderAnalyzers writes the analyzer catalogue.
func RenderAnalyzers(r *Renderer, analyzers []AnalyzerInfo, verbose bool) error {
	defaults := 0
	for _, a := range analyzers {
		if a.Default {
			defaults++
		}
	}

	if r.EffectiveMode() == ModeJSON {
		out := AnalyzersOutput{Analyzers: analyzers}
		if out.Analyzers == nil {
			out.Analyzers = []AnalyzerInfo{}
		}
		out.Count.Default = defaults
		out.Count.Total = len(analyzers)
		return r.JSON(out)
	}

	r.Header(1, fmt.Sprintf("Analyzers (%d, %d enabled by default)", len(analyzers), defaults))

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	header := table.Row{"Analyzer", "Default", "Description"}
	if verbose {
		header = append(header, "Requires", "Docs")
	}
	t.AppendHeader(header)

	for _, a := range analyzers {
		enabled := "no"
		if a.Default {
			enabled = "yes"
		}
		row := table.Row{a.ID, enabled, a.Description}
		if verbose {
			row = append(row, joinOrDash(a.Requires), a.URL)
		}
		t.AppendRow(row)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.SetStyle(table.StyleLight)
		t.Render()
		r.Println(r.Styles().Muted.Render("Use 'leapfix rules <analyzer>' for details"))
	}
	return nil
}

// RenderAnalyzer writes the details of one analyzer.
func RenderAnalyzer(r *Renderer, a AnalyzerInfo) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.JSON(a)
	case ModeMarkdown:
		r.Printf("# %s\n\n", a.ID)
		r.Printf("**Default:** `%t`\n\n", a.Default)
		r.Println(a.Description)
		r.Println("")
		if len(a.Requires) > 0 {
			r.Printf("**Requires:** %s\n\n", joinOrDash(a.Requires))
		}
		if a.URL != "" {
			r.Printf("Documentation: <%s>\n", a.URL)
		}
	default:
		styles := r.Styles()
		r.Println(styles.Header1.Render(a.ID))
		r.Println("")
		r.Printf("  %s: %t\n", styles.Bold.Render("Default"), a.Default)
		if len(a.Requires) > 0 {
			r.Printf("  %s: %s\n", styles.Bold.Render("Requires"), joinOrDash(a.Requires))
		}
		if a.URL != "" {
			r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), a.URL)
		}
		r.Println("")
		r.Println("  " + a.Description)
	}
	return nil
}

// RunsOutput is the JSON structure of the run history.
type RunsOutput struct {
	Runs []state.Run `json:"runs"`
}

// RenderRuns writes the persisted run history.
func RenderRuns(r *Renderer, runs []state.Run) error {
	if r.EffectiveMode() == ModeJSON {
		out := RunsOutput{Runs: runs}
		if out.Runs == nil {
			out.Runs = []state.Run{}
		}
		return r.JSON(out)
	}

	if len(runs) == 0 {
		r.Println("No saved runs. Use 'leapfix analyze --save' to record one.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(table.Row{"Run", "Created", "Projects", "Diagnostics"})
	for _, run := range runs {
		t.AppendRow(table.Row{run.ID, run.CreatedAt.Local().Format(time.DateTime), run.Projects, run.Diagnostics})
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.SetStyle(table.StyleLight)
		t.Render()
	}
	return nil
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
