// Package rules implements the YAML rule document model for the TavoAI rule
// content pipeline. Rule documents are hand-authored and heterogeneous, so
// loading favors robustness over strictness: a file that cannot be parsed
// degrades to a default document derived from its filename, and the caller
// decides how visible that degradation should be.
package rules

import (
	"strings"

	"github.com/tavoai/tavo-rules/core/findings"
	"gopkg.in/yaml.v3"
)

// Rule type values recognized by the pipeline. The first two name the
// heuristic engines the rules target; they behave as "heuristic-only" and
// "policy-only" respectively.
const (
	TypeOpengrep = "opengrep"
	TypeOPA      = "opa"
	TypeHybrid   = "hybrid"
	TypeAIOnly   = "ai-only"
)

// ValidRuleTypes enumerates the rule_type strings a Document may carry.
var ValidRuleTypes = map[string]bool{
	TypeOpengrep: true,
	TypeOPA:      true,
	TypeHybrid:   true,
	TypeAIOnly:   true,
}

// AIInvolved reports whether the rule type requires AI analysis
// (hybrid or ai-only).
func AIInvolved(ruleType string) bool {
	return ruleType == TypeHybrid || ruleType == TypeAIOnly
}

// RequiresHeuristics reports whether the rule type requires a non-empty
// heuristics list.
func RequiresHeuristics(ruleType string) bool {
	return ruleType == TypeOpengrep || ruleType == TypeOPA || ruleType == TypeHybrid
}

// Heuristic is a single lightweight pattern check inside a rule document.
type Heuristic struct {
	Type      string   `yaml:"type" json:"type"`
	Languages []string `yaml:"languages,omitempty" json:"languages,omitempty"`
	Pattern   string   `yaml:"pattern" json:"pattern"`
	Message   string   `yaml:"message,omitempty" json:"message,omitempty"`
	Severity  string   `yaml:"severity,omitempty" json:"severity,omitempty"`
}

// AIAnalysis holds the prompt template and response contract for rules that
// involve AI analysis.
type AIAnalysis struct {
	Trigger                []string       `yaml:"trigger,omitempty" json:"trigger,omitempty"`
	HighRiskPatterns       []string       `yaml:"high_risk_patterns,omitempty" json:"high_risk_patterns,omitempty"`
	PromptTemplate         string         `yaml:"prompt_template" json:"prompt_template"`
	ExpectedResponseSchema map[string]any `yaml:"expected_response_schema,omitempty" json:"expected_response_schema,omitempty"`
}

// Empty reports whether the analysis section carries no content.
func (a *AIAnalysis) Empty() bool {
	return a == nil || (a.PromptTemplate == "" && len(a.Trigger) == 0 &&
		len(a.HighRiskPatterns) == 0 && len(a.ExpectedResponseSchema) == 0)
}

// Execution holds per-rule LLM execution parameters.
type Execution struct {
	MaxTokens   int     `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
}

// SARIFOutput carries the rule's precomputed SARIF presentation fields.
type SARIFOutput struct {
	RuleID           string   `yaml:"rule_id,omitempty" json:"rule_id,omitempty"`
	RuleName         string   `yaml:"rule_name,omitempty" json:"rule_name,omitempty"`
	ShortDescription string   `yaml:"short_description,omitempty" json:"short_description,omitempty"`
	FullDescription  string   `yaml:"full_description,omitempty" json:"full_description,omitempty"`
	HelpURI          string   `yaml:"help_uri,omitempty" json:"help_uri,omitempty"`
	Tags             []string `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// StandardRefs is a list of identifiers within one standard (e.g. CWE ids).
// Rule authors sometimes write a bare scalar instead of a list, so
// unmarshalling accepts both forms.
type StandardRefs []string

// UnmarshalYAML accepts either a sequence of scalars or a single scalar.
func (s *StandardRefs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = StandardRefs{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*s = StandardRefs(list)
	return nil
}

// Standards maps a standard name (cwe, capec, owasp_llm, iso_42001,
// nist_ai_rmf, mit_ai_risk) to its identifier list.
type Standards map[string]StandardRefs

// Document is a single security-detection rule loaded from YAML.
type Document struct {
	ID               string            `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Version          string            `yaml:"version" json:"version"`
	Category         string            `yaml:"category" json:"category"`
	Subcategory      string            `yaml:"subcategory,omitempty" json:"subcategory,omitempty"`
	Severity         findings.Severity `yaml:"severity" json:"severity"`
	RuleType         string            `yaml:"rule_type" json:"rule_type"`
	Heuristics       []Heuristic       `yaml:"heuristics,omitempty" json:"heuristics,omitempty"`
	AIAnalysis       *AIAnalysis       `yaml:"ai_analysis,omitempty" json:"ai_analysis,omitempty"`
	CompatibleModels []string          `yaml:"compatible_models,omitempty" json:"compatible_models,omitempty"`
	Standards        Standards         `yaml:"standards,omitempty" json:"standards,omitempty"`
	Tags             []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
	Execution        *Execution        `yaml:"execution,omitempty" json:"execution,omitempty"`
	SARIFOutput      *SARIFOutput      `yaml:"sarif_output,omitempty" json:"sarif_output,omitempty"`
}

// TitleFromStem converts a filename stem like "prompt-injection_basic" into
// a display name ("Prompt Injection Basic").
func TitleFromStem(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
