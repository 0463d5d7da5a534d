// Package findings defines the scan-result finding model consumed by the
// tavo-rules report generators. Findings are produced by an external scanning
// system and read from a results JSON document; this package only models and
// orders them, it never executes rules.
package findings

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Severity indicates how critical a finding is. The values are ordered from
// most to least severe and are compatible with SARIF level mappings.
type Severity string

// Severity level constants ordered from most to least severe.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// severityRank maps severity levels to numeric ranks for comparison.
// Lower rank = more severe.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
	SeverityInfo:     4,
}

// Valid reports whether s is a recognized severity value.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank returns the numeric rank of the severity. Unrecognized severities rank
// below info so they sort last.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// AIUsage carries the AI-analysis sub-record attached to findings produced by
// hybrid or ai-only rules: model confidence plus token and cost accounting.
type AIUsage struct {
	Confidence   float64 `json:"confidence,omitempty"`
	PromptTokens int     `json:"prompt_tokens,omitempty"`
	OutputTokens int     `json:"output_tokens,omitempty"`
	CostUSD      float64 `json:"cost_usd,omitempty"`
	Model        string  `json:"model,omitempty"`
}

// Finding is a single security observation read from a scan results document.
// The field set mirrors the results wire format; location fields are flat
// (file/line/column/snippet) and optional past FilePath.
type Finding struct {
	RuleID          string              `json:"rule_id"`
	RuleName        string              `json:"rule_name,omitempty"`
	RuleType        string              `json:"rule_type,omitempty"`
	Severity        Severity            `json:"severity"`
	Confidence      float64             `json:"confidence,omitempty"`
	Category        string              `json:"category,omitempty"`
	Subcategory     string              `json:"subcategory,omitempty"`
	Message         string              `json:"message,omitempty"`
	Description     string              `json:"description,omitempty"`
	FullDescription string              `json:"full_description,omitempty"`
	Remediation     string              `json:"remediation,omitempty"`
	HelpURI         string              `json:"help_uri,omitempty"`
	FilePath        string              `json:"file_path,omitempty"`
	Line            int                 `json:"line,omitempty"`
	Column          int                 `json:"column,omitempty"`
	Snippet         string              `json:"snippet,omitempty"`
	Standards       map[string][]string `json:"standards,omitempty"`
	Tags            []string            `json:"tags,omitempty"`
	AIAnalysis      *AIUsage            `json:"ai_analysis,omitempty"`
}

// ResultsFile is the top-level structure of a scan results JSON document.
type ResultsFile struct {
	Findings []Finding `json:"findings"`
}

// LoadResults reads and decodes a scan results JSON document.
func LoadResults(path string) (*ResultsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file %s: %w", path, err)
	}
	var rf ResultsFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing results file %s: %w", path, err)
	}
	return &rf, nil
}

// SortDeterministic orders findings by severity rank, then RuleID, then
// FilePath, then Line. This guarantees stable output regardless of the order
// in which the scanner emitted results.
func SortDeterministic(items []Finding) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.Line < b.Line
	})
}
