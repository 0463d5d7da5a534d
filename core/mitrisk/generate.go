package mitrisk

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tavoai/tavo-rules/core/findings"
	"github.com/tavoai/tavo-rules/core/rules"
)

// maxHeuristics caps how many generated heuristics a rule carries.
const maxHeuristics = 5

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// GenerateRule converts one MIT risk record into a hybrid TavoAI rule
// document.
func GenerateRule(risk Risk) rules.Document {
	id := risk.ID
	if id == "" {
		id = "unknown"
	}
	ruleID := "tavoai-mit-risk-" + id
	cfg := ClassifyDomain(risk.Domain)
	name := "MIT AI Risk: " + ellipsize(risk.Risk, 80)

	doc := rules.Document{
		Version:     "1.0",
		ID:          ruleID,
		Name:        name,
		Category:    cfg.Category,
		Subcategory: cfg.Subdomain,
		Severity:    findings.Severity(cfg.Severity),
		RuleType:    rules.TypeHybrid,
		Standards: rules.Standards{
			"mit_ai_risk": {domainSlug(risk.Domain)},
			"iso_42001":   rules.StandardRefs(mapStandard(iso42001Mapping, risk.Domain, []string{"6.2.2"})),
			"nist_ai_rmf": rules.StandardRefs(mapStandard(nistMapping, risk.Domain, []string{"MEASURE-2.2"})),
			"cwe":         rules.StandardRefs(mapStandard(cweMapping, risk.Domain, []string{"CWE-710"})),
			"capec":       rules.StandardRefs(mapStandard(capecMapping, risk.Domain, []string{"CAPEC-165"})),
		},
		CompatibleModels: []string{"openai/gpt-4", "anthropic/claude-3-opus"},
		Tags:             []string{"mit-ai-risk", cfg.Subdomain, "ai-risk-repository"},
		Heuristics:       generateHeuristics(risk.Risk, risk.Domain),
		AIAnalysis:       generateAIAnalysis(risk, cfg),
		Execution:        &rules.Execution{MaxTokens: 2000, Temperature: 0.1},
		SARIFOutput: &rules.SARIFOutput{
			RuleID:           ruleID,
			RuleName:         name,
			ShortDescription: ellipsizeExact(risk.Risk, 200),
			FullDescription: fmt.Sprintf("%s\n\nSource: %s\nAuthors: %s\nYear: %s",
				risk.Risk, risk.SourceTitle, risk.Authors, risk.Year),
			HelpURI: "https://airisk.mit.edu/risk/" + id,
			Tags:    []string{"mit-ai-risk", cfg.Subdomain, "ai-risk-repository"},
		},
	}
	return doc
}

// generateHeuristics derives pattern checks from the risk description and
// domain: one domain-specific pattern when the domain suggests it, then
// keyword patterns from the first few meaningful words of the description.
func generateHeuristics(description, domain string) []rules.Heuristic {
	var hs []rules.Heuristic
	lower := strings.ToLower(domain)

	switch {
	case strings.Contains(lower, "discrimination"):
		hs = append(hs, rules.Heuristic{
			Type:      "semgrep",
			Languages: []string{"python"},
			Pattern:   `model\.fit\(.*\).*gender|race|age`,
			Message:   "Potential discriminatory model training",
			Severity:  "high",
		})
	case strings.Contains(lower, "privacy"):
		hs = append(hs, rules.Heuristic{
			Type:      "semgrep",
			Languages: []string{"python"},
			Pattern:   "collect.*data.*personal|private",
			Message:   "Potential privacy violation in data collection",
			Severity:  "high",
		})
	case strings.Contains(lower, "misinformation"):
		hs = append(hs, rules.Heuristic{
			Type:      "semgrep",
			Languages: []string{"python"},
			Pattern:   "generate.*text|response.*without.*validation",
			Message:   "Potential misinformation generation",
			Severity:  "medium",
		})
	}

	words := wordPattern.FindAllString(strings.ToLower(description), 3)
	for _, word := range words {
		if len(word) <= 3 {
			continue
		}
		hs = append(hs, rules.Heuristic{
			Type:      "semgrep",
			Languages: []string{"python", "javascript", "typescript"},
			Pattern:   ".*" + regexp.QuoteMeta(word) + ".*",
			Message:   fmt.Sprintf("Potential %s risk detected", word),
			Severity:  "low",
		})
	}

	if len(hs) > maxHeuristics {
		hs = hs[:maxHeuristics]
	}
	return hs
}

func generateAIAnalysis(risk Risk, cfg DomainConfig) *rules.AIAnalysis {
	prompt := fmt.Sprintf(`Analyze this AI system for the following MIT AI Risk Repository risk:

Risk: %s
Domain: %s
Entity: %s
Intent: %s
Timing: %s

Code to analyze:
{{code_snippet}}

File: {{file_path}}
Context: {{heuristic_findings}}

Evaluate whether this code exhibits the risk described above. Consider:
1. Does the code enable or contribute to this specific risk?
2. Are there mitigating factors present?
3. What is the severity and likelihood of this risk occurring?
4. What remediation steps would address this risk?

Focus on the specific characteristics of this risk from the MIT AI Risk Repository.`,
		risk.Risk, risk.Domain, risk.Entity, risk.Intent, risk.Timing)

	subdomainGlob := strings.ReplaceAll(cfg.Subdomain, "-", "/*")
	subdomainGlob = strings.ReplaceAll(subdomainGlob, "_", "/*")

	return &rules.AIAnalysis{
		Trigger: []string{"always"},
		HighRiskPatterns: []string{
			"*/" + subdomainGlob + "/*",
			"*/ai/*",
			"*/model/*",
		},
		PromptTemplate: prompt,
		ExpectedResponseSchema: map[string]any{
			"type": "object",
			"required": []any{
				"severity", "vulnerable_lines", "description",
				"remediation", "standards_mapping", "confidence",
			},
			"properties": map[string]any{
				"severity":          map[string]any{"enum": []any{"low", "medium", "high", "critical"}},
				"vulnerable_lines":  map[string]any{"type": "array", "items": map[string]any{"type": "number"}},
				"description":       map[string]any{"type": "string", "minLength": 100},
				"remediation":       map[string]any{"type": "string", "minLength": 100},
				"standards_mapping": map[string]any{"type": "object"},
				"confidence":        map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
		},
	}
}

// ellipsize truncates s to n runes, appending "..." when it was cut.
func ellipsize(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// ellipsizeExact truncates s to n runes with no suffix.
func ellipsizeExact(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
