package findings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSeverity_Rank(t *testing.T) {
	ordered := []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Fatalf("expected %s to rank above %s", ordered[i-1], ordered[i])
		}
	}
	if Severity("bogus").Rank() <= SeverityInfo.Rank() {
		t.Fatal("unrecognized severity should rank below info")
	}
}

func TestSeverity_Valid(t *testing.T) {
	if !SeverityHigh.Valid() {
		t.Fatal("high should be valid")
	}
	if Severity("urgent").Valid() {
		t.Fatal("urgent should not be valid")
	}
}

func TestLoadResults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")
	content := `{
  "findings": [
    {"rule_id": "tavoai-llm01", "severity": "critical", "file_path": "app.py", "line": 10},
    {"rule_id": "tavoai-llm02", "severity": "low", "message": "output handling",
     "ai_analysis": {"confidence": 0.93, "prompt_tokens": 1200, "cost_usd": 0.02}}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rf, err := LoadResults(path)
	if err != nil {
		t.Fatalf("LoadResults: %v", err)
	}
	if len(rf.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(rf.Findings))
	}
	if rf.Findings[0].Line != 10 {
		t.Fatalf("expected line 10, got %d", rf.Findings[0].Line)
	}
	ai := rf.Findings[1].AIAnalysis
	if ai == nil || ai.Confidence != 0.93 || ai.PromptTokens != 1200 {
		t.Fatalf("unexpected AI usage record: %+v", ai)
	}
}

func TestLoadResults_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadResults(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadResults(path); err == nil {
			t.Fatal("expected error for malformed JSON")
		}
	})
}

func TestSortDeterministic(t *testing.T) {
	items := []Finding{
		{RuleID: "b", Severity: SeverityLow, FilePath: "z.py"},
		{RuleID: "a", Severity: SeverityCritical, FilePath: "m.py", Line: 9},
		{RuleID: "a", Severity: SeverityCritical, FilePath: "m.py", Line: 3},
		{RuleID: "c", Severity: SeverityHigh},
	}
	SortDeterministic(items)

	if items[0].Line != 3 || items[1].Line != 9 {
		t.Fatalf("expected critical findings sorted by line, got %+v", items[:2])
	}
	if items[2].RuleID != "c" {
		t.Fatalf("expected high severity third, got %s", items[2].RuleID)
	}
	if items[3].RuleID != "b" {
		t.Fatalf("expected low severity last, got %s", items[3].RuleID)
	}
}
