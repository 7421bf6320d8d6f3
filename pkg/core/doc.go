// Package core defines the shared language of leapfix.
//
// This package contains:
//   - Domain entities (Project, Document, Diagnostic, Location)
//   - The Severity scale (Hidden < Info < Warning < Error)
//   - Configuration types shared between the CLI and the engine (LintConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
