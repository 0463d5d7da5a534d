package tui

import (
	"fmt"
	"strings"

	"github.com/tavoai/tavo-rules/core/validate"
)

// renderList renders the result list view.
func renderList(m *Model) string {
	var b strings.Builder

	// Header.
	valid, total := validate.Count(m.filtered)
	title := titleStyle.Render(fmt.Sprintf(" tavo-rules — %d/%d files valid", valid, total))
	if len(m.results) != len(m.filtered) {
		title += subtleStyle.Render(fmt.Sprintf(" (of %d total)", len(m.results)))
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	// Filter status.
	filterLine := subtleStyle.Render(" Kind: ") + "[" + m.filter.activeKind() + "]"
	if m.filter.onlyFailed {
		filterLine += subtleStyle.Render("  Showing: ") + "[failures]"
	}
	if m.filter.search != "" {
		filterLine += subtleStyle.Render("  Search: ") + "[" + m.filter.search + "]"
	}
	b.WriteString(filterLine)
	b.WriteString("\n\n")

	// Result list.
	if len(m.filtered) == 0 {
		b.WriteString(subtleStyle.Render("  No files match the current filters.\n"))
	} else {
		// Calculate visible window.
		visibleLines := m.height - 8 // Header + filter + help lines.
		if visibleLines < 1 {
			visibleLines = 1
		}
		start := m.cursor - visibleLines/2
		if start < 0 {
			start = 0
		}
		end := start + visibleLines
		if end > len(m.filtered) {
			end = len(m.filtered)
			start = end - visibleLines
			if start < 0 {
				start = 0
			}
		}

		for i := start; i < end; i++ {
			b.WriteString(renderResultLine(m.filtered[i], i == m.cursor))
			b.WriteString("\n")
		}
	}

	// Search input.
	if m.filter.searching {
		b.WriteString("\n")
		b.WriteString(" Search: " + m.filter.search + "█")
		b.WriteString("\n")
	}

	// Help.
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(" ↑↓ navigate  enter detail  / search  t kind  f failures  q quit"))
	b.WriteString("\n")

	return b.String()
}

// renderResultLine renders a single result line in the list.
func renderResultLine(res validate.Result, selected bool) string {
	badge := statusBadge(res.Valid)
	kind := kindStyle.Render(fmt.Sprintf("%-8s", res.Kind))
	path := pathStyle.Render(fmt.Sprintf("%-50s", res.Path))

	detail := ""
	if !res.Valid {
		detail = fmt.Sprintf("%d error(s)", len(res.Errors))
	}

	line := fmt.Sprintf(" %s  %s  %s  %s", badge, kind, path, detail)

	if selected {
		return selectedStyle.Render("▸") + line
	}
	return " " + line
}
