package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tavoai/tavo-rules/core"
	"github.com/tavoai/tavo-rules/core/quality"
)

// runTest runs rules against the labeled sample corpus.
func runTest(args []string) int {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	var (
		root       string
		bundleName string
		language   string
	)
	fs.StringVar(&root, "root", ".", "project root containing the bundles/ tree")
	fs.StringVar(&bundleName, "bundle", "", "test a single bundle by directory name")
	fs.StringVar(&language, "language", "", "sample language filter (default: python)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := core.LoadProjectConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	runner := newRunner(root, cfg)
	if language == "" {
		language = sampleLanguage(cfg)
	}

	ctx := context.Background()

	var bundles []quality.BundleResult
	if bundleName != "" {
		results, err := runner.TestBundle(ctx, filepath.Join(runner.BundlesDir, bundleName), language)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
		bundles = []quality.BundleResult{{Bundle: bundleName, Results: results}}
	} else {
		bundles, err = runner.TestAll(ctx, language)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
	}

	quality.PrintSummary(os.Stdout, bundles)

	if quality.ErrorCount(bundles) > 0 {
		return 1
	}
	return 0
}

// newRunner builds a quality runner from the project config defaults.
func newRunner(root string, cfg *core.ProjectConfig) *quality.Runner {
	samplesDir := cfg.Quality.SamplesDir
	if samplesDir == "" {
		samplesDir = filepath.Join("tests", "samples")
	}
	return quality.NewRunner(bundlesRoot(root, cfg), filepath.Join(root, samplesDir))
}

func sampleLanguage(cfg *core.ProjectConfig) string {
	if cfg.Quality.Language != "" {
		return cfg.Quality.Language
	}
	return "python"
}
