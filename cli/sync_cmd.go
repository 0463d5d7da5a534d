package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tavoai/tavo-rules/core"
	"github.com/tavoai/tavo-rules/core/mitrisk"
	"github.com/tavoai/tavo-rules/core/validate"
)

// runSync downloads the MIT AI Risk database and writes generated rules.
func runSync(args []string) int {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)

	var (
		sheetID       string
		outputDir     string
		limit         int
		mockData      bool
		validateAfter bool
	)
	fs.StringVar(&sheetID, "sheet-id", "", "Google Sheets document ID of the risk database")
	fs.StringVar(&outputDir, "output-dir", "", "directory for generated rule files")
	fs.IntVar(&limit, "limit", 0, "max risks to convert (0 = all)")
	fs.BoolVar(&mockData, "mock-data", false, "use built-in mock risks instead of downloading")
	fs.BoolVar(&validateAfter, "validate", false, "validate generated rule files after writing")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := core.LoadProjectConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if sheetID == "" {
		sheetID = cfg.Sync.SheetID
	}
	if outputDir == "" {
		outputDir = cfg.Sync.OutputDir
	}
	if limit == 0 {
		limit = cfg.Sync.Limit
	}

	var clientOpts []mitrisk.Option
	if sheetID != "" {
		clientOpts = append(clientOpts, mitrisk.WithSheetID(sheetID))
	}
	syncer := mitrisk.NewSyncer(mitrisk.NewClient(clientOpts...), outputDir)

	if !mockData {
		fmt.Println("[sync] downloading MIT AI Risk database...")
	}
	paths, err := syncer.Sync(context.Background(), mitrisk.SyncOptions{Limit: limit, Mock: mockData})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: sync failed: %v\n", err)
		return 2
	}
	fmt.Printf("[sync] wrote %d rule file(s) to %s\n", len(paths), syncer.OutputDir)

	if !validateAfter {
		return 0
	}

	store, err := newSchemaStore(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading schemas: %v\n", err)
		return 2
	}
	v := validate.New(store)

	var results []validate.Result
	for _, path := range paths {
		results = append(results, v.RuleFile(path))
	}
	printResults(results)
	if valid, total := validate.Count(results); valid < total {
		return 1
	}
	return 0
}
