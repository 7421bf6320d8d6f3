package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"slices"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

// OutputModes are the accepted values of the output key.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.DefaultSeverity < core.SeverityInfo {
		errs = append(errs, fmt.Errorf("default_severity must be info, warning or error, got %q", c.DefaultSeverity))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if c.OutputFormat != "" && !slices.Contains(OutputModes, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("unknown output format %q (want one of auto, text, markdown, json)", c.OutputFormat))
	}
	for _, pattern := range append(slices.Clone(c.Include), c.Exclude...) {
		if _, err := path.Match(pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("invalid glob %q: %w", pattern, err))
		}
	}

	if c.DocsBaseURL != "" {
		if u, err := url.Parse(c.DocsBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("docs_base_url must be an absolute URL, got %q", c.DocsBaseURL))
		}
	}

	return errors.Join(errs...)
}

// ValidateDirectories checks that the project root exists.
// Only commands that load packages call it, so help works anywhere.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.ProjectRoot)
	if err != nil {
		return fmt.Errorf("project directory does not exist: %s\nHint: use --project-dir to point at a Go module", c.ProjectRoot)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path is not a directory: %s", c.ProjectRoot)
	}
	return nil
}
