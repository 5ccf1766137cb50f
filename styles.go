package cssconf

import "github.com/charmbracelet/lipgloss"

// Terminal styles for check and content reports.
var (
	styleLocation = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleOK       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	severityStyles = map[Severity]lipgloss.Style{
		SeverityError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		SeverityWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		SeverityInfo:    styleMuted,
	}
)

// styleFor returns the style diagnostics of severity s are printed in.
func styleFor(s Severity) lipgloss.Style {
	if st, ok := severityStyles[s]; ok {
		return st
	}
	return styleMuted
}

// render applies style to text when colors are enabled.
func render(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}
