package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leapstack-labs/leapfix/internal/goanalysis"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

// generateAnalyzerDocs writes the analyzer catalogue page.
func generateAnalyzerDocs(outDir string) error {
	log.Printf("Generating analyzer docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	analyzers := goanalysis.AllAnalyzers()
	sort.Slice(analyzers, func(i, j int) bool { return analyzers[i].ID() < analyzers[j].ID() })

	w := NewMarkdownWriter()
	w.Frontmatter("Analyzers", "Built-in analyzers of leapfix")
	w.GeneratedMarker()

	w.Header(1, "Analyzers")
	w.Paragraph(fmt.Sprintf("leapfix ships %d analyzers from golang.org/x/tools, %d of them enabled by default.",
		len(analyzers), len(goanalysis.DefaultAnalyzers())))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Reported"},
		[][]string{
			{InlineCode("error"), "yes"},
			{InlineCode("warning"), "yes"},
			{InlineCode("info"), "no"},
			{InlineCode("hidden"), "no"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Analyzers are selected and tuned in `leapfix.yaml`:")
	w.CodeBlock("yaml", `analyzers: [printf, nilness, shadow]  # replaces the default set
disabled: [shadow]
default_severity: warning
severity:
  nilness: error
rules:
  shadow:
    strict: true                        # analyzer flag`)

	w.Header(2, "Suppression")
	w.BulletList([]string{
		InlineCode("//nolint") + " suppresses every analyzer on its line",
		InlineCode("//nolint:printf,shadow") + " suppresses the listed analyzers",
		InlineCode("//lint:ignore printf reason") + " suppresses on the next line",
		InlineCode("//lint:file-ignore printf reason") + " suppresses in the whole file",
	})

	w.Header(2, "Catalogue")
	var rows [][]string
	for _, a := range analyzers {
		enabled := "no"
		if lint.IsDefault(a.ID()) {
			enabled = "yes"
		}
		rows = append(rows, []string{InlineCode(a.ID()), enabled, cleanDescription(firstLine(a.Description()))})
	}
	w.Table([]string{"Analyzer", "Default", "Description"}, rows)

	for _, a := range analyzers {
		writeAnalyzerDoc(w, a)
	}

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func writeAnalyzerDoc(w *MarkdownWriter, a lint.Analyzer) {
	w.Line(fmt.Sprintf("### %s {#%s}", a.ID(), a.ID()))
	w.Newline()

	w.Line(fmt.Sprintf("%s %s", Bold("Default:"), InlineCode(fmt.Sprint(lint.IsDefault(a.ID())))))
	w.Newline()

	w.Paragraph(a.Description())

	if req, ok := a.(interface{ Requires() []string }); ok && len(req.Requires()) > 0 {
		w.Line(fmt.Sprintf("%s %s", Bold("Requires:"), strings.Join(req.Requires(), ", ")))
		w.Newline()
	}
	if u, ok := a.(interface{ URL() string }); ok && u.URL() != "" {
		w.Line(fmt.Sprintf("%s <%s>", Bold("Documentation:"), u.URL()))
		w.Newline()
	}

	w.Line("---")
	w.Newline()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
