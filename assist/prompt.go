package assist

import (
	"fmt"
	"strings"

	"github.com/tavoai/tavo-rules/core/validate"
)

// systemPrompt returns the system message that instructs the LLM on how to
// explain TavoAI rule and manifest validation failures.
func systemPrompt() string {
	return `You are an expert on the TavoAI security rule format, helping rule authors fix validation failures.
For each invalid file, provide a JSON array with objects containing these fields:
- "path": the file path as given (string)
- "kind": "rule" or "manifest" as given (string)
- "title": a concise title for the failure (string)
- "explanation": what the validation errors mean in plain language (string)
- "remediation": specific edits that would make the file valid (string)
- "references": relevant URLs for further reading (array of strings, optional)

Respond ONLY with a valid JSON array. Do not include markdown fences or other text.
Be concise and actionable. Focus on the exact fields the author must change.`
}

// formatResults converts a batch of invalid results into structured text
// for the LLM.
func formatResults(results []validate.Result) string {
	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		fmt.Fprintf(&b, "Path: %s\n", res.Path)
		fmt.Fprintf(&b, "Kind: %s\n", res.Kind)
		fmt.Fprintf(&b, "Errors:\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	return b.String()
}

// formatContext summarises the validation run so the LLM can weigh how
// widespread the failures are.
func formatContext(results []validate.Result) string {
	valid, total := validate.Count(results)
	byKind := map[string]int{}
	for _, res := range results {
		if !res.Valid {
			byKind[res.Kind]++
		}
	}

	var b strings.Builder
	b.WriteString("Validation context:\n")
	fmt.Fprintf(&b, "Files checked: %d, valid: %d, invalid: %d\n", total, valid, total-valid)
	if n := byKind["rule"]; n > 0 {
		fmt.Fprintf(&b, "  invalid rules: %d\n", n)
	}
	if n := byKind["manifest"]; n > 0 {
		fmt.Fprintf(&b, "  invalid manifests: %d\n", n)
	}
	return b.String()
}

// summaryPrompt returns a user message asking the LLM to produce an
// executive summary of all explained failures.
func summaryPrompt(explanations []FailureExplanation) string {
	var b strings.Builder
	b.WriteString("Based on these validation failures, provide a 2-3 sentence executive summary ")
	b.WriteString("of the overall health of the rule content. Highlight recurring mistakes.\n\n")
	for _, e := range explanations {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", e.Path, e.Title, e.Explanation)
	}
	b.WriteString("\nRespond with ONLY the summary text, no JSON.")
	return b.String()
}
