package assist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tavoai/tavo-rules/core/validate"
)

const defaultBatchSize = 10

// Explainer orchestrates LLM-based explanation of validation failures. It
// batches invalid results, sends them to a Provider, and assembles an
// ExplanationReport.
type Explainer struct {
	provider  Provider
	batchSize int
}

// Option configures an Explainer.
type Option func(*Explainer)

// WithBatchSize sets how many failures are sent per LLM call (default 10).
func WithBatchSize(n int) Option {
	return func(e *Explainer) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// NewExplainer creates an Explainer with the given provider and options.
func NewExplainer(provider Provider, opts ...Option) *Explainer {
	e := &Explainer{
		provider:  provider,
		batchSize: defaultBatchSize,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Explain analyses the invalid entries among the given validation results
// and returns an ExplanationReport with per-file explanations and an
// executive summary.
//
// If the provider returns an error for a batch, the explainer degrades
// gracefully: it returns the explanations gathered so far and records the
// error in the summary field.
func (e *Explainer) Explain(ctx context.Context, results []validate.Result) (*ExplanationReport, error) {
	report := &ExplanationReport{
		SchemaVersion: "1.0.0",
	}

	var failed []validate.Result
	for _, res := range results {
		if !res.Valid {
			failed = append(failed, res)
		}
	}
	if len(failed) == 0 {
		report.Summary = "No validation failures to explain."
		return report, nil
	}

	sysMsgs := []Message{
		{Role: RoleSystem, Content: systemPrompt()},
		{Role: RoleUser, Content: formatContext(results)},
	}

	var providerErr error

	for i := 0; i < len(failed); i += e.batchSize {
		end := i + e.batchSize
		if end > len(failed) {
			end = len(failed)
		}
		batch := failed[i:end]

		messages := make([]Message, len(sysMsgs)+1)
		copy(messages, sysMsgs)
		messages[len(sysMsgs)] = Message{
			Role:    RoleUser,
			Content: "Explain these validation failures:\n\n" + formatResults(batch),
		}

		resp, err := e.provider.Complete(ctx, messages)
		if err != nil {
			providerErr = err
			break
		}

		report.Usage.PromptTokens += resp.PromptTokens
		report.Usage.CompletionTokens += resp.CompletionTokens
		report.Usage.TotalTokens += resp.PromptTokens + resp.CompletionTokens
		report.Usage.RequestCount++

		explanations, err := parseExplanations(resp.Content)
		if err != nil {
			providerErr = fmt.Errorf("parsing LLM response: %w", err)
			break
		}

		report.Explanations = append(report.Explanations, explanations...)
	}

	if providerErr != nil {
		report.Summary = fmt.Sprintf("Partial results: %d of %d failures explained. Error: %v",
			len(report.Explanations), len(failed), providerErr)
	} else if len(report.Explanations) > 0 {
		summary, err := e.generateSummary(ctx, report)
		if err != nil {
			report.Summary = fmt.Sprintf("Generated explanations for %d failures. Summary generation failed: %v",
				len(report.Explanations), err)
		} else {
			report.Summary = summary
		}
	}

	return report, nil
}

// generateSummary asks the provider for an executive summary of all
// explained failures. Token usage is accounted on the report.
func (e *Explainer) generateSummary(ctx context.Context, report *ExplanationReport) (string, error) {
	messages := []Message{
		{Role: RoleSystem, Content: "You are an expert summarising rule content validation results."},
		{Role: RoleUser, Content: summaryPrompt(report.Explanations)},
	}

	resp, err := e.provider.Complete(ctx, messages)
	if err != nil {
		return "", err
	}
	report.Usage.PromptTokens += resp.PromptTokens
	report.Usage.CompletionTokens += resp.CompletionTokens
	report.Usage.TotalTokens += resp.PromptTokens + resp.CompletionTokens
	report.Usage.RequestCount++
	return resp.Content, nil
}

// parseExplanations extracts FailureExplanation values from the LLM's JSON
// response.
func parseExplanations(raw string) ([]FailureExplanation, error) {
	var explanations []FailureExplanation
	if err := json.Unmarshal([]byte(raw), &explanations); err != nil {
		return nil, fmt.Errorf("invalid JSON from LLM: %w", err)
	}
	return explanations, nil
}
