package tui

import (
	"fmt"
	"strings"
)

// renderDetail renders the detail view for a single validation result.
func renderDetail(m *Model) string {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return "No file selected."
	}

	res := m.filtered[m.cursor]

	var b strings.Builder

	// Header.
	b.WriteString(fmt.Sprintf(" %s · %s · %s\n",
		kindStyle.Render(res.Kind),
		pathStyle.Render(res.Path),
		statusBadge(res.Valid)))
	b.WriteString(headerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n\n")

	if res.Valid {
		b.WriteString(subtleStyle.Render(" File passed every schema and business-rule check.\n\n"))
	} else {
		b.WriteString(" " + sectionHeaderStyle.Render(fmt.Sprintf("Errors (%d)", len(res.Errors))) + "\n")
		for _, e := range res.Errors {
			b.WriteString("   " + errorLineStyle.Render("✗ ") + wrapText(e, m.width-6, "     "))
		}
		b.WriteString("\n")
	}

	// Position within the filtered set.
	b.WriteString(subtleStyle.Render(fmt.Sprintf(" file %d of %d\n", m.cursor+1, len(m.filtered))))

	// Help.
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" esc back  n/p next/prev  q quit"))
	b.WriteString("\n")

	return b.String()
}

// wrapText wraps text at the given width with the given indent prefix for
// continuation lines; the first line is not indented.
func wrapText(text string, width int, indent string) string {
	if width <= 0 {
		width = 78
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return "\n"
	}

	var b strings.Builder
	lineLen := 0

	for i, word := range words {
		if i > 0 && lineLen+1+len(word) > width {
			b.WriteString("\n" + indent)
			lineLen = len(indent)
		} else if i > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	b.WriteString("\n")
	return b.String()
}
