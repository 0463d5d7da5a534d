// Package assist provides optional LLM-based explanations of rule and
// manifest validation failures. It consumes validate.Result values and
// produces plain-language descriptions of what each failure means and how
// the rule author can fix it.
//
// The package is strictly side-effect-free: it never affects validation
// results and is opt-in only.
package assist

import (
	"encoding/json"
	"fmt"
	"os"
)

// ExplanationReport is the top-level output of the explain pipeline.
type ExplanationReport struct {
	SchemaVersion string               `json:"schema_version"`
	Explanations  []FailureExplanation `json:"explanations"`
	Summary       string               `json:"summary"`
	Usage         UsageStats           `json:"usage"`
}

// FailureExplanation holds the LLM-generated explanation for one invalid file.
type FailureExplanation struct {
	Path        string   `json:"path"`
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Explanation string   `json:"explanation"`
	Remediation string   `json:"remediation"`
	References  []string `json:"references,omitempty"`
}

// UsageStats tracks LLM token consumption across all provider calls.
type UsageStats struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	RequestCount     int `json:"request_count"`
}

// JSON returns the report as pretty-printed JSON bytes.
func (r *ExplanationReport) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteFile writes the report to the given file path.
func (r *ExplanationReport) WriteFile(path string) error {
	data, err := r.JSON()
	if err != nil {
		return fmt.Errorf("marshalling explanation report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
