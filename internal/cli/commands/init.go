package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapfix/internal/cli/config"
	"github.com/leapstack-labs/leapfix/pkg/lint"
)

const configHeader = `# leapfix configuration
# Keys can also be set with LEAPFIX_* environment variables or flags.
# Run 'leapfix rules' to list analyzers.

`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var withDefaults bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a leapfix.yaml configuration file",
		Long: `Create leapfix.yaml with the default settings.

Use --with-defaults to list the default analyzers explicitly, which pins the
set so new default analyzers are not picked up on upgrade.`,
		Example: `  # Initialize in current directory
  leapfix init

  # Pin the analyzer set
  leapfix init --with-defaults

  # Force overwrite existing config
  leapfix init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r := NewCommandContextWithoutEngine(cmd).Renderer

			path, err := writeInitConfig(dir, force, withDefaults)
			if err != nil {
				return err
			}

			r.StatusLine(filepath.Base(path), "success", "created")
			r.Println("")
			r.Success("leapfix initialized!")
			r.Println("")
			r.Println("Next steps:")
			r.Println("  1. Run 'leapfix rules' to see available analyzers")
			r.Println("  2. Run 'leapfix analyze' to check your packages")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&withDefaults, "with-defaults", false, "List the default analyzers explicitly")

	return cmd
}

func writeInitConfig(dir string, force, withDefaults bool) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileNames[0])
	}

	cfg := config.Default()
	if withDefaults {
		for _, a := range lint.DefaultAnalyzers() {
			cfg.Analyzers = append(cfg.Analyzers, a.ID())
		}
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
