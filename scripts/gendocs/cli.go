package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapfix/internal/cli"
)

// commandNotes adds behavior that flag tables cannot show, keyed by command.
var commandNotes = map[string][]string{
	"analyze": {
		"A diagnostic is reported only when it is not suppressed, its severity is at least " + InlineCode("warning") +
			", it points into a source file, and that file is in the package's formattable set.",
		"The formattable set is the package's files minus generated files (unless " + InlineCode("--include-generated") +
			"), narrowed by " + InlineCode("--include") + " and " + InlineCode("--exclude") + ".",
		"Patterns given on the command line resolve against the working directory; " + InlineCode("patterns") +
			" from " + InlineCode("leapfix.yaml") + " resolve against the project root.",
		"A package that fails to compile is reported as skipped and the run continues, unless " + InlineCode("--strict") + ".",
		InlineCode("--save") + " records the run in the state database for " + InlineCode("leapfix runs") + " and " + InlineCode("leapfix show") + ".",
		InlineCode("--watch") + " re-runs after Go files, " + InlineCode("go.mod") + " or " + InlineCode("go.sum") +
			" change, recompiling only the packages in changed directories.",
	},
	"rules": {
		"Analyzers marked as default run when " + InlineCode("analyzers") + " is empty in the configuration.",
		"Rule options under " + InlineCode("rules.<analyzer>") + " set the analyzer's own flags; list values are passed comma-separated.",
	},
	"runs": {
		"Listing never creates the state database; without saved runs the list is empty.",
	},
	"show": {
		"Renders a saved run exactly like " + InlineCode("leapfix analyze") + " rendered it, in any output format.",
	},
	"init": {
		InlineCode("--with-defaults") + " pins today's default analyzers so upgrades do not enable new ones.",
	},
}

// workflow is the index page's walkthrough, one step per command.
var workflow = []struct{ cmd, what string }{
	{"leapfix init", "write leapfix.yaml with the defaults"},
	{"leapfix rules", "see which analyzers run"},
	{"leapfix analyze --save", "analyze ./... and record the run"},
	{"leapfix runs", "list recorded runs"},
	{"leapfix show <run-id> -o json", "replay a run for a fixing tool"},
}

// generateCLIDocs writes index.md plus one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	commands := visibleCommands(root)

	pages := map[string][]byte{"index.md": cliIndex(root, commands)}
	for _, cmd := range commands {
		pages[cmd.Name()+".md"] = commandPage(cmd)
	}
	for name, content := range pages {
		if err := os.WriteFile(filepath.Join(outDir, name), content, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

func visibleCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" || strings.HasPrefix(cmd.Name(), "__") {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func cliIndex(root *cobra.Command, commands []*cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for leapfix")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(firstLine(root.Long))
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leapfix/cmd/leapfix@latest")

	w.Header(2, "Workflow")
	var steps strings.Builder
	for _, s := range workflow {
		_, _ = fmt.Fprintf(&steps, "%-32s # %s\n", s.cmd, s.what)
	}
	w.CodeBlock("bash", steps.String())

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range commands {
		rows = append(rows, []string{
			fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name()),
			cleanDescription(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Table(flagHeaders, flagRows(root.PersistentFlags()))

	w.Header(2, "Configuration Layers")
	w.Paragraph("Each layer overrides the one before it:")
	w.BulletList([]string{
		"built-in defaults",
		InlineCode("leapfix.yaml") + " from " + InlineCode("--config") + ", or the nearest one at or above the working directory",
		InlineCode("LEAPFIX_*") + " environment variables",
		"flags given on the command line (unset flags never override)",
	})
	var env [][]string
	for _, f := range getConfigSchema() {
		env = append(env, []string{InlineCode("LEAPFIX_" + strings.ToUpper(f.Name)), InlineCode(f.Name)})
	}
	w.Paragraph("List values in environment variables are comma-separated.")
	w.Table([]string{"Variable", "Key"}, env)

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{InlineCode("0"), "Finished, including runs with issues unless " + InlineCode("--fail-on-issues") + " is set, and runs interrupted with Ctrl-C"},
		{InlineCode("1"), "Invalid configuration, unknown analyzer, package loading failure, or issues found with " + InlineCode("--fail-on-issues")},
	})

	return w.Bytes()
}

func commandPage(cmd *cobra.Command) []byte {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cases.Title(language.English).String(cmd.Name()))
	w.Paragraph(orElse(cmd.Long, cmd.Short))

	use := cmd.UseLine()
	if !strings.HasPrefix(use, "leapfix") {
		use = "leapfix " + use
	}
	w.CodeBlock("bash", use)

	if len(cmd.Aliases) > 0 {
		w.Paragraph("Aliases: " + InlineCode(strings.Join(cmd.Aliases, "`, `")))
	}
	if notes := commandNotes[cmd.Name()]; len(notes) > 0 {
		w.Header(2, "Behavior")
		w.BulletList(notes)
	}
	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		w.Table(flagHeaders, flagRows(cmd.LocalFlags()))
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		w.Table(flagHeaders, flagRows(cmd.InheritedFlags()))
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}
	return w.Bytes()
}

var flagHeaders = []string{"Option", "Default", "Description"}

func flagRows(flags *pflag.FlagSet) [][]string {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := InlineCode("--" + f.Name)
		if f.Shorthand != "" {
			name = InlineCode("-"+f.Shorthand) + ", " + name
		}
		def := f.DefValue
		switch def {
		case "", "[]":
			def = ""
		default:
			def = InlineCode(def)
		}
		rows = append(rows, []string{name, def, cleanDescription(f.Usage)})
	})
	return rows
}

// dedent strips the indentation cobra examples share.
func dedent(s string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent == -1 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		}
	}
	return strings.Join(lines, "\n")
}

func orElse(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}
