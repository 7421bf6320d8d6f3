package core

// =============================================================================
// Project
// =============================================================================

// Project identifies a unit of source code plus its documents.
// A Project is an immutable snapshot for the duration of one analysis run.
type Project struct {
	ID        string     // Stable identity, e.g. the package import path
	Name      string     // Human-readable name
	Dir       string     // Directory the project was loaded from
	Patterns  []string   // Load patterns that resolve to this project
	Documents []Document // Source documents owned by the project
}

// Document is a single source file within a project.
type Document struct {
	Path      string // Absolute file path
	Generated bool   // true if the file carries a "Code generated ... DO NOT EDIT." header
}

// DocumentPaths returns the paths of all documents in declaration order.
func (p *Project) DocumentPaths() []string {
	if p == nil {
		return nil
	}
	paths := make([]string, 0, len(p.Documents))
	for _, d := range p.Documents {
		paths = append(paths, d.Path)
	}
	return paths
}

// String returns the project name, falling back to its ID.
func (p *Project) String() string {
	if p == nil {
		return "<nil>"
	}
	if p.Name != "" && p.Name != p.ID {
		return p.Name + " (" + p.ID + ")"
	}
	return p.ID
}

// =============================================================================
// Configuration
// =============================================================================

// LintConfig holds analyzer configuration as it appears in leapfix.yaml.
type LintConfig struct {
	// Analyzers lists analyzer IDs to run; empty means the default set
	Analyzers []string `koanf:"analyzers" yaml:"analyzers,omitempty"`

	// Disabled contains analyzer IDs to skip
	Disabled []string `koanf:"disabled" yaml:"disabled,omitempty"`

	// Severity maps analyzer ID to severity override (error, warning, info, hidden)
	Severity map[string]Severity `koanf:"severity" yaml:"severity,omitempty"`

	// DefaultSeverity is the severity of diagnostics whose analyzer has no override
	DefaultSeverity Severity `koanf:"default_severity" yaml:"default_severity"`

	// Rules contains analyzer-specific options
	Rules map[string]RuleOptions `koanf:"rules" yaml:"rules,omitempty"`
}

// RuleOptions holds analyzer-specific configuration options.
type RuleOptions map[string]any
