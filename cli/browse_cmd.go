package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/tavoai/tavo-rules/cli/tui"
	"github.com/tavoai/tavo-rules/core/validate"
)

// runBrowse opens the interactive TUI over the validation results. When
// stdout is not a terminal it falls back to the plain text report.
func runBrowse(args []string) int {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)

	var root string
	fs.StringVar(&root, "root", ".", "project root containing the bundles/ tree")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	results, err := runValidation(root, true, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	if len(results) == 0 {
		fmt.Println("[browse] no rule files or manifests found")
		return 0
	}

	if !isTerminal() {
		printResults(results)
		if valid, total := validate.Count(results); valid < total {
			return 1
		}
		return 0
	}

	m := tui.New(results)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: TUI failed: %v\n", err)
		return 2
	}
	return 0
}

// isTerminal returns true if stdout is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
