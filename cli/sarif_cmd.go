package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tavoai/tavo-rules/core/findings"
	"github.com/tavoai/tavo-rules/core/report/sarif"
)

// runSARIF converts a scan results JSON document into SARIF 2.1.0.
func runSARIF(args []string) int {
	fs := flag.NewFlagSet("sarif", flag.ContinueOnError)

	var (
		resultsFile string
		output      string
		toolName    string
	)
	fs.StringVar(&resultsFile, "results", "", "path to a scan results JSON file")
	fs.StringVar(&output, "output", "results.sarif", "output SARIF file path")
	fs.StringVar(&toolName, "tool-name", "", "override the SARIF tool driver name")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if resultsFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: tavo-rules sarif --results <file> [flags]")
		return 2
	}

	rf, err := findings.LoadResults(resultsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	r := sarif.NewReporter(version)
	if toolName != "" {
		r.ToolName = toolName
	}
	if err := r.WriteToFile(rf.Findings, output); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing %s: %v\n", output, err)
		return 2
	}

	fmt.Printf("[sarif] wrote %s (%d result(s))\n", output, len(rf.Findings))
	return 0
}
