package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tavoai/tavo-rules/core"
	"github.com/tavoai/tavo-rules/core/quality"
	"github.com/tavoai/tavo-rules/core/validate"
)

// runQuality evaluates the content quality gate over the full bundles tree.
func runQuality(args []string) int {
	fs := flag.NewFlagSet("quality", flag.ContinueOnError)

	var (
		root     string
		language string
		jsonPath string
	)
	fs.StringVar(&root, "root", ".", "project root containing the bundles/ tree")
	fs.StringVar(&language, "language", "", "sample language filter (default: python)")
	fs.StringVar(&jsonPath, "json", "", "write the gate report JSON to this path")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := core.LoadProjectConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if language == "" {
		language = sampleLanguage(cfg)
	}

	runner := newRunner(root, cfg)
	bundles, err := runner.TestAll(context.Background(), language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	store, err := newSchemaStore(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading schemas: %v\n", err)
		return 2
	}
	validation, err := validate.New(store).AllRules(bundlesRoot(root, cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	rep := quality.NewGate().Evaluate(bundles, validation)
	quality.PrintReport(os.Stdout, rep)

	if jsonPath != "" {
		if err := quality.WriteJSON(rep, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: writing %s: %v\n", jsonPath, err)
			return 2
		}
		fmt.Printf("[report] wrote %s\n", jsonPath)
	}

	if !rep.Passed {
		return 1
	}
	return 0
}
