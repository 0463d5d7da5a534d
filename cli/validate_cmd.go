package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tavoai/tavo-rules/core"
	"github.com/tavoai/tavo-rules/core/report"
	"github.com/tavoai/tavo-rules/core/schema"
	"github.com/tavoai/tavo-rules/core/validate"
)

// runValidate validates rule files and manifests under the bundles tree.
func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)

	var (
		root          string
		rulesOnly     bool
		manifestsOnly bool
		allFlag       bool
		jsonPath      string
	)
	fs.StringVar(&root, "root", ".", "project root containing the bundles/ tree")
	fs.BoolVar(&rulesOnly, "rules", false, "validate rule files only")
	fs.BoolVar(&manifestsOnly, "manifests", false, "validate manifests only")
	fs.BoolVar(&allFlag, "all", false, "validate rule files and manifests (the default)")
	fs.StringVar(&jsonPath, "json", "", "also write a JSON report to this path")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	doRules := allFlag || rulesOnly || !manifestsOnly
	doManifests := allFlag || manifestsOnly || !rulesOnly
	results, err := runValidation(root, doRules, doManifests)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	printResults(results)

	if jsonPath != "" {
		if err := report.NewReporter(version).WriteToFile(results, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: writing %s: %v\n", jsonPath, err)
			return 2
		}
		fmt.Printf("[report] wrote %s\n", jsonPath)
	}

	if valid, total := validate.Count(results); valid < total {
		return 1
	}
	return 0
}

// runValidation validates rules and/or manifests under root's bundles tree.
func runValidation(root string, doRules, doManifests bool) ([]validate.Result, error) {
	cfg, err := core.LoadProjectConfig(root)
	if err != nil {
		return nil, err
	}
	bundlesDir := bundlesRoot(root, cfg)

	store, err := newSchemaStore(root)
	if err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}
	v := validate.New(store)

	var results []validate.Result
	if doRules {
		rr, err := v.AllRules(bundlesDir)
		if err != nil {
			return nil, err
		}
		results = append(results, rr...)
	}
	if doManifests {
		mr, err := v.AllManifests(bundlesDir)
		if err != nil {
			return nil, err
		}
		results = append(results, mr...)
	}
	return results, nil
}

func printResults(results []validate.Result) {
	report.NewReporter(version).PrintText(os.Stdout, results)
}

// newSchemaStore compiles schemas from the project's schemas/ directory,
// falling back to the embedded defaults for files the directory lacks.
func newSchemaStore(root string) (*schema.Store, error) {
	return schema.NewStoreFromDir(filepath.Join(root, "schemas"))
}

// bundlesRoot resolves the bundles tree for a project root, honoring the
// bundles.root override from .tavorules.yaml.
func bundlesRoot(root string, cfg *core.ProjectConfig) string {
	base := root
	if cfg.Bundles.Root != "" {
		base = filepath.Join(root, cfg.Bundles.Root)
	}
	return filepath.Join(base, "bundles")
}
