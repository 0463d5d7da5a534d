package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Status colors.
	colorValid   = lipgloss.Color("#A3BE8C")
	colorInvalid = lipgloss.Color("#FF0000")

	// UI colors.
	colorTitle    = lipgloss.Color("#FFFFFF")
	colorSubtle   = lipgloss.Color("#666666")
	colorSelected = lipgloss.Color("#7D56F4")
	colorError    = lipgloss.Color("#FF6B6B")

	// Styles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSelected)

	errorLineStyle = lipgloss.NewStyle().
			Foreground(colorError)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSubtle)

	kindStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AAAAAA"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#88C0D0"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#A3BE8C"))
)

// statusBadge returns a short validity string for list display.
func statusBadge(valid bool) string {
	if valid {
		return lipgloss.NewStyle().Bold(true).Foreground(colorValid).Render("  ok")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colorInvalid).Render("FAIL")
}
