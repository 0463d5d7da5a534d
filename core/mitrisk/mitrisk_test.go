package mitrisk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/tavoai/tavo-rules/core/rules"
)

const sampleCSV = `ID,Risk,Domain,Subdomain,Entity,Intent,Timing,Source Title,Authors,Year,Quote,Page Number
R001,Discriminatory model outputs,Discrimination & Toxicity,Bias,AI,Unintentional,Post-deployment,Paper A,Alice,2024,quote a,1
R002,Leaking personal data,Privacy & Security,Privacy,AI,Intentional,Pre-deployment,Paper B,Bob,2023,quote b,7
`

// ---------------------------------------------------------------------------
// CSV parsing
// ---------------------------------------------------------------------------

func TestParseCSV(t *testing.T) {
	risks, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(risks) != 2 {
		t.Fatalf("expected 2 risks, got %d", len(risks))
	}
	first := risks[0]
	if first.ID != "R001" || first.Domain != "Discrimination & Toxicity" ||
		first.SourceTitle != "Paper A" || first.PageNumber != "1" {
		t.Fatalf("unexpected record: %+v", first)
	}
}

func TestParseCSV_MissingColumnsAndRaggedRows(t *testing.T) {
	risks, err := ParseCSV(strings.NewReader("ID,Risk\nR001,Some risk\nR002\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(risks) != 2 {
		t.Fatalf("expected 2 risks, got %d", len(risks))
	}
	if risks[0].Domain != "" {
		t.Fatalf("missing column should be empty, got %q", risks[0].Domain)
	}
	if risks[1].Risk != "" {
		t.Fatalf("short row should yield empty field, got %q", risks[1].Risk)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	risks, err := ParseCSV(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(risks) != 0 {
		t.Fatalf("expected no risks, got %d", len(risks))
	}
}

// ---------------------------------------------------------------------------
// Domain mapping
// ---------------------------------------------------------------------------

func TestClassifyDomain(t *testing.T) {
	cfg := ClassifyDomain("Malicious Actors")
	if cfg.Category != "security" || cfg.Severity != "critical" || cfg.Subdomain != "malicious-use" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	cfg = ClassifyDomain("Something Unknown")
	if cfg != defaultDomainConfig {
		t.Fatalf("unknown domain should map to default, got %+v", cfg)
	}
}

func TestDomainSlug(t *testing.T) {
	if got := domainSlug("Privacy & Security"); got != "privacy-and-security" {
		t.Fatalf("slug = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Rule generation
// ---------------------------------------------------------------------------

func TestGenerateRule(t *testing.T) {
	doc := GenerateRule(Risk{
		ID:          "R042",
		Risk:        "Unauthorized access to sensitive personal data",
		Domain:      "Privacy & Security",
		Entity:      "AI",
		Intent:      "Unintentional",
		Timing:      "Post-deployment",
		SourceTitle: "Paper",
		Authors:     "Team",
		Year:        "2024",
	})

	if doc.ID != "tavoai-mit-risk-R042" {
		t.Fatalf("id = %q", doc.ID)
	}
	if doc.RuleType != rules.TypeHybrid {
		t.Fatalf("rule_type = %q", doc.RuleType)
	}
	if doc.Category != "security" || doc.Severity != "high" || doc.Subcategory != "security-privacy" {
		t.Fatalf("classification: %s/%s/%s", doc.Category, doc.Severity, doc.Subcategory)
	}
	if got := doc.Standards["mit_ai_risk"]; len(got) != 1 || got[0] != "privacy-and-security" {
		t.Fatalf("mit_ai_risk = %v", got)
	}
	if got := doc.Standards["cwe"]; len(got) != 2 || got[0] != "CWE-200" {
		t.Fatalf("cwe = %v", got)
	}
	if len(doc.CompatibleModels) != 2 {
		t.Fatalf("compatible_models = %v", doc.CompatibleModels)
	}
	if doc.Execution == nil || doc.Execution.MaxTokens != 2000 {
		t.Fatalf("execution = %+v", doc.Execution)
	}
	if doc.SARIFOutput == nil || doc.SARIFOutput.HelpURI != "https://airisk.mit.edu/risk/R042" {
		t.Fatalf("sarif_output = %+v", doc.SARIFOutput)
	}
}

func TestGenerateRule_Heuristics(t *testing.T) {
	doc := GenerateRule(Risk{
		ID:     "R001",
		Risk:   "Unauthorized collection of personal information",
		Domain: "Privacy & Security",
	})

	if len(doc.Heuristics) == 0 || len(doc.Heuristics) > 5 {
		t.Fatalf("heuristic count = %d", len(doc.Heuristics))
	}
	// Domain-specific pattern comes first.
	if doc.Heuristics[0].Message != "Potential privacy violation in data collection" {
		t.Fatalf("first heuristic: %+v", doc.Heuristics[0])
	}
	// Keyword heuristics skip words of three characters or fewer ("of" here;
	// "unauthorized" and "collection" qualify).
	var keywords []string
	for _, h := range doc.Heuristics[1:] {
		keywords = append(keywords, h.Pattern)
	}
	for _, kw := range keywords {
		if !strings.HasPrefix(kw, ".*") || !strings.HasSuffix(kw, ".*") {
			t.Fatalf("keyword pattern %q not wrapped", kw)
		}
	}
}

func TestGenerateRule_PromptTemplate(t *testing.T) {
	doc := GenerateRule(MockRisks()[0])
	prompt := doc.AIAnalysis.PromptTemplate
	for _, want := range []string{"{{code_snippet}}", "{{file_path}}", "{{heuristic_findings}}"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing placeholder %s", want)
		}
	}
	schema := doc.AIAnalysis.ExpectedResponseSchema
	if schema["type"] != "object" {
		t.Fatalf("response schema type = %v", schema["type"])
	}
}

func TestGenerateRule_NameTruncation(t *testing.T) {
	long := strings.Repeat("a", 100)
	doc := GenerateRule(Risk{ID: "R1", Risk: long})
	if doc.Name != "MIT AI Risk: "+strings.Repeat("a", 80)+"..." {
		t.Fatalf("name = %q", doc.Name)
	}
}

// ---------------------------------------------------------------------------
// Client and sync
// ---------------------------------------------------------------------------

func TestClientDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sheet123") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithSheetID("sheet123"), WithRateLimit(100))
	content, err := c.Download(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if content != sampleCSV {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestClientDownload_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.Download(context.Background()); err == nil ||
		!strings.Contains(err.Error(), "HTTP 403") {
		t.Fatalf("expected HTTP error, got %v", err)
	}
}

func TestSync_FromServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "rules")
	s := NewSyncer(NewClient(WithBaseURL(srv.URL)), out)

	written, err := s.Sync(context.Background(), SyncOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 files, got %d", len(written))
	}

	data, err := os.ReadFile(filepath.Join(out, "tavoai-mit-risk-R001.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var doc rules.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("written rule is not valid YAML: %v", err)
	}
	if doc.ID != "tavoai-mit-risk-R001" {
		t.Fatalf("round-tripped id = %q", doc.ID)
	}
}

func TestSync_MockAndLimit(t *testing.T) {
	out := filepath.Join(t.TempDir(), "rules")
	s := NewSyncer(NewClient(), out)

	written, err := s.Sync(context.Background(), SyncOptions{Mock: true, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Fatalf("expected 2 files, got %d", len(written))
	}
}

func TestSync_DownloadFailureWritesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "rules")
	s := NewSyncer(NewClient(WithBaseURL(srv.URL)), out)

	if _, err := s.Sync(context.Background(), SyncOptions{}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("output directory should not have been created")
	}
}
