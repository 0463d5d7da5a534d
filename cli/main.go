// Package main is the entry point for the tavo-rules CLI.
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the exit code.
// 0 = clean, 1 = validation or test failures, 2 = error.
func run(args []string) int {
	fs := flag.NewFlagSet("tavo-rules", flag.ContinueOnError)

	var versionFlag bool
	fs.BoolVar(&versionFlag, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tavo-rules <command> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  manifest   Generate manifests for every rule bundle\n")
		fmt.Fprintf(os.Stderr, "  validate   Validate rule files and manifests\n")
		fmt.Fprintf(os.Stderr, "  sarif      Convert scan results to SARIF 2.1.0\n")
		fmt.Fprintf(os.Stderr, "  test       Run rules against labeled code samples\n")
		fmt.Fprintf(os.Stderr, "  quality    Evaluate the content quality gate\n")
		fmt.Fprintf(os.Stderr, "  sync       Sync rules from the MIT AI Risk database\n")
		fmt.Fprintf(os.Stderr, "  explain    Explain validation failures using an LLM\n")
		fmt.Fprintf(os.Stderr, "  watch      Re-validate on rule file changes\n")
		fmt.Fprintf(os.Stderr, "  browse     Browse validation results interactively\n")
		fmt.Fprintf(os.Stderr, "  version    Print version and exit\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if versionFlag {
		printVersion()
		return 0
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		fs.Usage()
		return 2
	}

	command := remaining[0]
	switch command {
	case "manifest":
		return runManifest(remaining[1:])
	case "validate":
		return runValidate(remaining[1:])
	case "sarif":
		return runSARIF(remaining[1:])
	case "test":
		return runTest(remaining[1:])
	case "quality":
		return runQuality(remaining[1:])
	case "sync":
		return runSync(remaining[1:])
	case "explain":
		return runExplain(remaining[1:])
	case "watch":
		return runWatch(remaining[1:])
	case "browse":
		return runBrowse(remaining[1:])
	case "version":
		printVersion()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fmt.Fprintln(os.Stderr, "Usage: tavo-rules <command> [flags]")
		return 2
	}
}

func printVersion() {
	fmt.Printf("tavo-rules %s (commit: %s, built: %s)\n", version, commit, date)
}
