package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tavoai/tavo-rules/assist"
	"github.com/tavoai/tavo-rules/core"
	"github.com/tavoai/tavo-rules/core/validate"
)

// runExplain validates the bundles tree and generates LLM-powered
// explanations for every failure.
func runExplain(args []string) int {
	fs := flag.NewFlagSet("explain", flag.ContinueOnError)

	var (
		root      string
		model     string
		baseURL   string
		batchSize int
		output    string
	)
	fs.StringVar(&root, "root", ".", "project root containing the bundles/ tree")
	fs.StringVar(&model, "model", "", "LLM model name (default: gpt-4o)")
	fs.StringVar(&baseURL, "base-url", "", "custom OpenAI-compatible API base URL")
	fs.IntVar(&batchSize, "batch-size", 0, "failures per LLM request (default: 10)")
	fs.StringVar(&output, "output", "", "output file path (default: explanations.json)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := core.LoadProjectConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if model == "" {
		model = cfg.Explain.Model
	}
	if baseURL == "" {
		baseURL = cfg.Explain.BaseURL
	}
	if batchSize == 0 {
		batchSize = cfg.Explain.BatchSize
	}
	if output == "" {
		output = cfg.Explain.Output
		if output == "" {
			output = "explanations.json"
		}
	}

	apiKeyEnv := cfg.Explain.APIKeyEnv
	if apiKeyEnv == "" {
		apiKeyEnv = "OPENAI_API_KEY"
	}
	if os.Getenv(apiKeyEnv) == "" && baseURL == "" {
		fmt.Fprintf(os.Stderr, "error: %s environment variable is required (or set --base-url for a local endpoint)\n", apiKeyEnv)
		return 2
	}

	results, err := runValidation(root, true, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	valid, total := validate.Count(results)
	fmt.Printf("[validate] %d/%d files valid\n", valid, total)
	if valid == total {
		fmt.Println("[explain] no validation failures to explain")
		return 0
	}

	var providerOpts []assist.OpenAIOption
	if model != "" {
		providerOpts = append(providerOpts, assist.WithModel(model))
	}
	if baseURL != "" {
		providerOpts = append(providerOpts, assist.WithBaseURL(baseURL))
	}
	provider := assist.NewOpenAIProvider(providerOpts...)

	var explainerOpts []assist.Option
	if batchSize > 0 {
		explainerOpts = append(explainerOpts, assist.WithBatchSize(batchSize))
	}
	explainer := assist.NewExplainer(provider, explainerOpts...)

	fmt.Println("[explain] generating explanations...")
	report, err := explainer.Explain(context.Background(), results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: explain failed: %v\n", err)
		return 2
	}

	if err := report.WriteFile(output); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing %s: %v\n", output, err)
		return 2
	}

	fmt.Printf("[explain] wrote %s (%d explanation(s))\n", output, len(report.Explanations))
	if report.Summary != "" {
		fmt.Printf("[summary] %s\n", report.Summary)
	}
	return 0
}
