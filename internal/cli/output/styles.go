package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leapfix/pkg/core"
)

// Styles holds the lipgloss styles used across commands.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	FilePath lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:  r.NewStyle().Bold(true).Underline(true),
		Bold:     r.NewStyle().Bold(true),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("8")),
		Success:  r.NewStyle().Foreground(lipgloss.Color("10")),
		Error:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:     r.NewStyle().Foreground(lipgloss.Color("14")),
		FilePath: r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
	}
}

// Severity returns the style for a severity.
func (s *Styles) Severity(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return s.Error
	case core.SeverityWarning:
		return s.Warning
	case core.SeverityInfo:
		return s.Info
	default:
		return s.Muted
	}
}
