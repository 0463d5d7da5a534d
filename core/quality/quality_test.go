package quality

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tavoai/tavo-rules/core/validate"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// corpus writes two vulnerable and two safe python samples and returns a
// Runner whose bundles dir is also prepared.
func corpus(t *testing.T) *Runner {
	t.Helper()
	root := t.TempDir()
	samples := filepath.Join(root, "tests", "samples")
	writeFile(t, samples, filepath.Join("vulnerable", "eval.py"), "result = eval(user_input)\n")
	writeFile(t, samples, filepath.Join("vulnerable", "exec.py"), "exec(payload)\n")
	writeFile(t, samples, filepath.Join("safe", "clean.py"), "print('hello')\n")
	writeFile(t, samples, filepath.Join("safe", "math.py"), "x = 1 + 2\n")
	return NewRunner(filepath.Join(root, "bundles"), samples)
}

const evalRule = `
id: tavoai-eval
name: Eval Usage
version: "1.0"
category: security
severity: high
rule_type: opengrep
heuristics:
  - {type: semgrep, pattern: "eval("}
`

const hybridRule = `
id: tavoai-hybrid
name: Hybrid Eval
version: "1.0"
category: security
severity: high
rule_type: hybrid
compatible_models: [openai/gpt-4]
heuristics:
  - {type: semgrep, pattern: "eval("}
  - {type: semgrep, pattern: "exec("}
ai_analysis: {prompt_template: "analyze {{code_snippet}}"}
`

// ---------------------------------------------------------------------------
// Runner
// ---------------------------------------------------------------------------

func TestFindSamples(t *testing.T) {
	r := corpus(t)

	s, err := r.FindSamples("")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Vulnerable) != 2 || len(s.Safe) != 2 {
		t.Fatalf("samples = %d vuln, %d safe", len(s.Vulnerable), len(s.Safe))
	}

	s, err = r.FindSamples("go")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Vulnerable) != 0 || len(s.Safe) != 0 {
		t.Fatalf("language filter leaked: %+v", s)
	}
}

func TestFindSamples_MissingTree(t *testing.T) {
	r := NewRunner(t.TempDir(), filepath.Join(t.TempDir(), "nope"))
	s, err := r.FindSamples("")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Vulnerable) != 0 || len(s.Safe) != 0 {
		t.Fatalf("expected empty corpus, got %+v", s)
	}
}

func TestTestRule_Detection(t *testing.T) {
	r := corpus(t)
	rulePath := writeFile(t, t.TempDir(), "eval.yaml", evalRule)
	samples, err := r.FindSamples("")
	if err != nil {
		t.Fatal(err)
	}

	res := r.TestRule(rulePath, samples)
	if res.RuleID != "tavoai-eval" {
		t.Fatalf("rule id = %q", res.RuleID)
	}
	// "eval(" appears in one vulnerable sample, neither safe sample.
	if res.VulnerableDetected != 1 || res.VulnerableTotal != 2 {
		t.Fatalf("true positives = %d/%d", res.VulnerableDetected, res.VulnerableTotal)
	}
	if res.SafeFlagged != 0 || res.SafeTotal != 2 {
		t.Fatalf("false positives = %d/%d", res.SafeFlagged, res.SafeTotal)
	}
	if got := res.TruePositiveRate(); got != 0.5 {
		t.Fatalf("TruePositiveRate = %v", got)
	}
	if got := res.Accuracy(); got != 0.75 {
		t.Fatalf("Accuracy = %v", got)
	}
}

func TestTestRule_AIOnlyNeverMatches(t *testing.T) {
	r := corpus(t)
	rulePath := writeFile(t, t.TempDir(), "ai.yaml", `
id: tavoai-ai
name: AI Only
version: "1.0"
category: security
severity: medium
rule_type: ai-only
compatible_models: [openai/gpt-4]
ai_analysis: {prompt_template: "analyze {{code_snippet}}"}
`)
	samples, err := r.FindSamples("")
	if err != nil {
		t.Fatal(err)
	}
	res := r.TestRule(rulePath, samples)
	if res.VulnerableDetected != 0 || res.SafeFlagged != 0 {
		t.Fatalf("ai-only rule should never match in simulation: %+v", res)
	}
}

func TestTestRule_Unloadable(t *testing.T) {
	r := corpus(t)
	samples, err := r.FindSamples("")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		content string
		reason  string
	}{
		{"malformed yaml", "id: [unclosed\n nope", "parsing YAML"},
		{"empty file", "", "empty document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rulePath := writeFile(t, t.TempDir(), "broken.yaml", tt.content)
			res := r.TestRule(rulePath, samples)
			if len(res.Errors) == 0 || !strings.Contains(res.Errors[0], "Failed to load rule") {
				t.Fatalf("expected load error, got %+v", res.Errors)
			}
			// The loader's parse reason must be carried into the error entry.
			if !strings.Contains(res.Errors[0], tt.reason) {
				t.Fatalf("error %q missing reason %q", res.Errors[0], tt.reason)
			}
		})
	}
}

func TestTestBundleAndAll(t *testing.T) {
	r := corpus(t)
	bundleDir := filepath.Join(r.BundlesDir, "owasp-llm-basic")
	writeFile(t, bundleDir, filepath.Join("rules", "eval.yaml"), evalRule)
	writeFile(t, bundleDir, filepath.Join("rules", "hybrid.yaml"), hybridRule)

	results, err := r.TestBundle(context.Background(), bundleDir, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// Sorted by path: eval.yaml before hybrid.yaml.
	if results[0].RuleID != "tavoai-eval" || results[1].RuleID != "tavoai-hybrid" {
		t.Fatalf("results not sorted by path: %v, %v", results[0].RuleID, results[1].RuleID)
	}
	// The hybrid rule's two patterns cover both vulnerable samples.
	if results[1].VulnerableDetected != 2 {
		t.Fatalf("hybrid detections = %d", results[1].VulnerableDetected)
	}

	bundles, err := r.TestAll(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(bundles) != 1 || bundles[0].Bundle != "owasp-llm-basic" {
		t.Fatalf("bundles = %+v", bundles)
	}
	if ErrorCount(bundles) != 0 {
		t.Fatalf("unexpected errors: %d", ErrorCount(bundles))
	}
}

func TestPrintSummary(t *testing.T) {
	bundles := []BundleResult{{
		Bundle: "demo",
		Results: []RuleResult{{
			RuleID:             "tavoai-x",
			VulnerableDetected: 2,
			VulnerableTotal:    2,
			SafeTotal:          2,
		}},
	}}
	var sb strings.Builder
	PrintSummary(&sb, bundles)
	out := sb.String()
	for _, want := range []string{
		"[bundle] demo",
		"true positives:  2/2 (100.0%)",
		"accuracy:        100.0%",
		"[summary] 1 rules tested, 0 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

// ---------------------------------------------------------------------------
// Gate
// ---------------------------------------------------------------------------

// perfect returns runner output where every rule fully covers the corpus.
func perfect() []BundleResult {
	return []BundleResult{{
		Bundle: "demo",
		Results: []RuleResult{
			{
				RuleID: "tavoai-a", RuleType: "hybrid", HeuristicCount: 5,
				VulnerableDetected: 10, VulnerableTotal: 10, SafeTotal: 10,
			},
			{
				RuleID: "tavoai-b", RuleType: "opengrep", HeuristicCount: 5,
				VulnerableDetected: 10, VulnerableTotal: 10, SafeTotal: 10,
			},
		},
	}}
}

func validation(valid, invalid int) []validate.Result {
	var out []validate.Result
	for i := 0; i < valid; i++ {
		out = append(out, validate.Result{Valid: true})
	}
	for i := 0; i < invalid; i++ {
		out = append(out, validate.Result{Valid: false})
	}
	return out
}

func TestGate_AllPass(t *testing.T) {
	report := NewGate().Evaluate(perfect(), validation(2, 0))

	if !report.HeuristicCoverage.Passed {
		t.Errorf("heuristic coverage failed: %+v", report.HeuristicCoverage)
	}
	if !report.FalsePositiveRate.Passed || !report.FalseNegativeRate.Passed {
		t.Errorf("rate metrics failed: %+v %+v", report.FalsePositiveRate, report.FalseNegativeRate)
	}
	if !report.AIAccuracy.Passed || report.AIAccuracy.RulesAnalyzed != 1 {
		t.Errorf("ai accuracy: %+v", report.AIAccuracy)
	}
	if !report.SchemaCompliance.Passed {
		t.Errorf("schema compliance: %+v", report.SchemaCompliance)
	}
	if !report.TestCoverage.Passed {
		t.Errorf("test coverage: %+v", report.TestCoverage)
	}
	if report.OverallScore < 0.999 {
		t.Errorf("overall = %v, want ~1.0", report.OverallScore)
	}
	if !report.Passed {
		t.Error("gate should pass")
	}
}

func TestGate_SchemaComplianceMustBePerfect(t *testing.T) {
	report := NewGate().Evaluate(perfect(), validation(9, 1))
	if report.SchemaCompliance.Passed {
		t.Fatalf("90%% compliance should fail the 100%% bar: %+v", report.SchemaCompliance)
	}
	if report.OverallScore >= 1.0 {
		t.Fatalf("overall should drop below 1.0, got %v", report.OverallScore)
	}
}

func TestGate_FalsePositivesDegradeScore(t *testing.T) {
	bundles := perfect()
	// Flag half the safe samples: 50% FP rate, far past the 10% threshold.
	bundles[0].Results[0].SafeFlagged = 5
	bundles[0].Results[1].SafeFlagged = 5

	report := NewGate().Evaluate(bundles, validation(2, 0))
	if report.FalsePositiveRate.Passed {
		t.Fatalf("50%% FP rate should fail: %+v", report.FalsePositiveRate)
	}
	// Graded contribution collapses to zero past the threshold.
	if report.OverallScore > 0.81 {
		t.Fatalf("overall = %v, expected at most ~0.80", report.OverallScore)
	}
	if report.Passed {
		t.Error("gate should fail")
	}
}

func TestGate_WriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quality.json")
	report := NewGate().Evaluate(perfect(), validation(2, 0))
	if err := WriteJSON(report, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"heuristic_coverage", "overall_score", "passed"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON missing key %q", key)
		}
	}
}
