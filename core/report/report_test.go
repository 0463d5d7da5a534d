package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tavoai/tavo-rules/core/validate"
)

func fixedReporter() *Reporter {
	r := NewReporter("1.2.3")
	r.now = func() time.Time {
		return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	}
	return r
}

func sampleResults() []validate.Result {
	return []validate.Result{
		{Path: "free/basic/rules/good.yaml", Kind: "rule", Valid: true},
		{Path: "free/basic/rules/bad.yaml", Kind: "rule", Valid: false,
			Errors: []string{"Rule ID must start with \"tavoai-\": nope"}},
	}
}

func TestPrintText(t *testing.T) {
	var sb strings.Builder
	fixedReporter().PrintText(&sb, sampleResults())
	out := sb.String()

	for _, want := range []string{
		"ok    free/basic/rules/good.yaml",
		"FAIL  free/basic/rules/bad.yaml",
		"Rule ID must start with",
		"[summary] 1/2 files valid",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate(t *testing.T) {
	data, err := fixedReporter().Generate(sampleResults())
	if err != nil {
		t.Fatal(err)
	}

	var doc ValidationReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Meta.ToolName != "tavo-rules" || doc.Meta.ToolVersion != "1.2.3" {
		t.Fatalf("unexpected meta: %+v", doc.Meta)
	}
	if doc.Meta.GeneratedAt != "2026-03-14T12:00:00Z" {
		t.Fatalf("unexpected timestamp %q", doc.Meta.GeneratedAt)
	}
	if doc.Valid != 1 || doc.Total != 2 {
		t.Fatalf("counts = %d/%d, want 1/2", doc.Valid, doc.Total)
	}
}

func TestGenerate_EmptyResultsRendersArray(t *testing.T) {
	data, err := fixedReporter().Generate(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"results": []`) {
		t.Fatalf("expected empty array, got:\n%s", data)
	}
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := fixedReporter().WriteToFile(sampleResults(), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc ValidationReport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("written report is not valid JSON: %v", err)
	}
	if len(doc.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(doc.Results))
	}
}
