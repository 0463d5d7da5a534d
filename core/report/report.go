// Package report renders validation results as human-readable text and as
// a deterministic JSON document suitable for CI pipelines and dashboards.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tavoai/tavo-rules/core/validate"
)

// Meta contains metadata about the report itself, including schema
// version, generation timestamp, and tool identification.
type Meta struct {
	SchemaVersion string `json:"schema_version"`
	GeneratedAt   string `json:"generated_at"`
	ToolName      string `json:"tool_name"`
	ToolVersion   string `json:"tool_version"`
}

// ValidationReport is the top-level structure serialized to JSON. It pairs
// report metadata with per-file validation results and aggregate counts.
type ValidationReport struct {
	Meta    Meta              `json:"meta"`
	Results []validate.Result `json:"results"`
	Valid   int               `json:"valid"`
	Total   int               `json:"total"`
}

// Reporter produces text and JSON renderings of validation results.
type Reporter struct {
	ToolVersion string

	now func() time.Time
}

// NewReporter returns a Reporter configured with the given tool version
// string. The version is embedded in the report metadata.
func NewReporter(version string) *Reporter {
	return &Reporter{ToolVersion: version, now: time.Now}
}

// PrintText writes one line per validated file, indented error detail for
// failures, and a closing summary line with the pass/fail counts.
func (r *Reporter) PrintText(w io.Writer, results []validate.Result) {
	for _, res := range results {
		if res.Valid {
			fmt.Fprintf(w, "ok    %s\n", res.Path)
			continue
		}
		fmt.Fprintf(w, "FAIL  %s\n", res.Path)
		for _, e := range res.Errors {
			fmt.Fprintf(w, "      %s\n", e)
		}
	}
	valid, total := validate.Count(results)
	fmt.Fprintf(w, "[summary] %d/%d files valid\n", valid, total)
}

// Generate serializes the results to pretty-printed JSON with 2-space
// indentation. The output is stable across runs given the same input
// (aside from the GeneratedAt timestamp).
func (r *Reporter) Generate(results []validate.Result) ([]byte, error) {
	// Guarantee a non-nil slice so JSON output renders "results": []
	// rather than "results": null when nothing was validated.
	if results == nil {
		results = []validate.Result{}
	}
	valid, total := validate.Count(results)

	doc := ValidationReport{
		Meta: Meta{
			SchemaVersion: "1.0.0",
			GeneratedAt:   r.now().UTC().Format(time.RFC3339),
			ToolName:      "tavo-rules",
			ToolVersion:   r.ToolVersion,
		},
		Results: results,
		Valid:   valid,
		Total:   total,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteToFile generates the JSON report and writes it to the specified path
// with 0644 permissions. Parent directories must already exist.
func (r *Reporter) WriteToFile(results []validate.Result, path string) error {
	data, err := r.Generate(results)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
