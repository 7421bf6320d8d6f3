package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapfix/internal/cli/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

// getConfigSchema mirrors the koanf keys of config.Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "patterns", Type: "[]string", Default: config.DefaultPattern, Description: "Package patterns analyzed when none are given"},
		{Name: "analyzers", Type: "[]string", Description: "Analyzers to run; empty means the default set"},
		{Name: "disabled", Type: "[]string", Description: "Analyzers to skip"},
		{Name: "default_severity", Type: "string", Default: config.DefaultDefaultSeverity, Description: "Severity of diagnostics without an override: error, warning, info"},
		{Name: "severity", Type: "map[string]string", Description: "Per-analyzer severity overrides"},
		{Name: "rules", Type: "map[string]map[string]any", Description: "Per-analyzer options, applied as analyzer flags"},
		{Name: "include", Type: "[]string", Description: "Only report files matching these globs"},
		{Name: "exclude", Type: "[]string", Description: "Never report files matching these globs"},
		{Name: "include_generated", Type: "bool", Default: "false", Description: "Report diagnostics in generated files"},
		{Name: "tests", Type: "bool", Default: "false", Description: "Also analyze test files"},
		{Name: "build_tags", Type: "[]string", Description: "Build tags"},
		{Name: "concurrency", Type: "int", Default: "0", Description: "Maximum parallel packages and analyzers; 0 means GOMAXPROCS"},
		{Name: "strict", Type: "bool", Default: "false", Description: "Fail when a package does not compile"},
		{Name: "state_path", Type: "string", Default: config.DefaultStateFile, Description: "SQLite database of saved runs, relative to the project root"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output format: auto, text, markdown, json"},
		{Name: "docs_base_url", Type: "string", Description: "Base of documentation links for analyzers without their own URL"},
	}
}

// generateConfigDocs writes the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "leapfix configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("leapfix reads `leapfix.yaml` (or `leapfix.yml`) from the working directory or the nearest parent. Its directory is the project root: patterns, globs and `state_path` are relative to it.")

	var rows [][]string
	for _, f := range getConfigSchema() {
		def := "-"
		if f.Default != "" {
			def = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, def, f.Description})
	}
	w.Table([]string{"Field", "Type", "Default", "Description"}, rows)

	w.Header(2, "Globs")
	w.BulletList([]string{
		"A glob without a slash matches the file name, e.g. " + InlineCode("*_test.go"),
		"A glob ending in " + InlineCode("/**") + " matches everything below a directory",
		"Any other glob matches the slash-separated path relative to the project root",
	})

	w.Header(2, "Defaults")
	w.Paragraph("`leapfix init` writes this file:")
	defaults, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to encode defaults: %w", err)
	}
	w.CodeBlock("yaml", string(defaults))

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
