package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tavoai/tavo-rules/core"
	"github.com/tavoai/tavo-rules/core/bundle"
	"github.com/tavoai/tavo-rules/core/validate"
)

// runManifest generates (or only validates) manifests for every bundle.
func runManifest(args []string) int {
	fs := flag.NewFlagSet("manifest", flag.ContinueOnError)

	var (
		root         string
		validateOnly bool
	)
	fs.StringVar(&root, "root", ".", "project root containing the bundles/ tree")
	fs.BoolVar(&validateOnly, "validate-only", false, "validate existing manifests without writing")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := core.LoadProjectConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	bundlesDir := bundlesRoot(root, cfg)

	if validateOnly {
		store, err := newSchemaStore(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: loading schemas: %v\n", err)
			return 2
		}
		results, err := validate.New(store).AllManifests(bundlesDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
		printResults(results)
		if valid, total := validate.Count(results); valid < total {
			return 1
		}
		return 0
	}

	dirs, err := bundle.Discover(bundlesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if len(dirs) == 0 {
		fmt.Printf("[manifest] no bundles found under %s\n", bundlesDir)
		return 0
	}

	// A .tavorules.yaml catalog path wins; otherwise look for catalog.yaml
	// beside the bundles. A missing file yields the compiled-in defaults.
	catalogPath := cfg.Bundles.Catalog
	if catalogPath == "" {
		catalogPath = filepath.Join(bundlesDir, bundle.CatalogFile)
	}
	cat, err := bundle.LoadCatalog(catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading catalog: %v\n", err)
		return 2
	}
	builder := bundle.NewBuilder(bundle.WithCatalog(cat))

	for _, dir := range dirs {
		m, analysis, err := builder.Build(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: building manifest for %s: %v\n", dir, err)
			return 2
		}
		if err := bundle.WriteManifest(dir, m); err != nil {
			fmt.Fprintf(os.Stderr, "error: writing manifest for %s: %v\n", dir, err)
			return 2
		}
		fmt.Printf("[manifest] %s — %d rule(s)\n", m.Name, analysis.RuleCount)
	}

	fmt.Printf("[done] %d manifest(s) written\n", len(dirs))
	return 0
}
