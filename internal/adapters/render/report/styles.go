package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	label      lipgloss.Style
	value      lipgloss.Style
	owes       lipgloss.Style
	credit     lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barText    lipgloss.Style
}

// newStyles binds the styles to out so colors are only emitted when out is a
// terminal. Chat transports pass a non-terminal writer and get plain text.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)

	return styles{
		title:      r.NewStyle().Bold(true),
		header:     r.NewStyle().Foreground(lipgloss.Color("241")),
		label:      r.NewStyle().Foreground(lipgloss.Color("250")),
		value:      r.NewStyle().Foreground(lipgloss.Color("252")),
		owes:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		credit:     r.NewStyle().Foreground(lipgloss.Color("114")),
		section:    r.NewStyle().MarginTop(1),
		empty:      r.NewStyle().Faint(true),
		barBracket: r.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    r.NewStyle().Foreground(lipgloss.Color("159")),
		barText:    r.NewStyle().Foreground(lipgloss.Color("252")),
	}
}
