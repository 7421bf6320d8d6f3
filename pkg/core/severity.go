package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a diagnostic.
// Values are ordered so that comparisons read naturally: a diagnostic is
// actionable when its severity is >= SeverityWarning.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityHidden marks findings that are never surfaced to users.
	SeverityHidden Severity = iota
	// SeverityInfo indicates informational feedback.
	SeverityInfo
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityHidden:
		return "hidden"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
// "hint" and "none" are accepted as aliases for hidden.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info", "suggestion":
		return SeverityInfo, true
	case "hidden", "hint", "none":
		return SeverityHidden, true
	default:
		return SeverityWarning, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so severities can be
// decoded straight from config files and JSON.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("invalid severity %q", string(text))
	}
	*s = sev
	return nil
}
