// Package sarif generates SARIF 2.1.0 reports from scan findings.
//
// The Static Analysis Results Interchange Format (SARIF) is an OASIS standard
// for the output of static analysis tools. This package produces SARIF v2.1.0
// documents that are compatible with GitHub Code Scanning, Azure DevOps, and
// other SARIF consumers.
package sarif

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tavoai/tavo-rules/core/findings"
)

const (
	// sarifVersion is the SARIF specification version produced by this reporter.
	sarifVersion = "2.1.0"

	// sarifSchema is the JSON schema URI for SARIF 2.1.0.
	sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

	// DefaultToolName is the driver name embedded in the SARIF output unless
	// overridden on the Reporter.
	DefaultToolName = "TavoAI Scanner"

	// informationURI is the project URL embedded in the SARIF driver.
	informationURI = "https://tavoai.com"
)

// SARIF string-length limits applied before serialization.
const (
	maxShortDescription = 200
	maxFullDescription  = 1000
	maxHelpText         = 5000
	maxSnippet          = 200
)

// ---------------------------------------------------------------------------
// SARIF 2.1.0 envelope types
// ---------------------------------------------------------------------------

// Report is the top-level SARIF document containing the schema version
// and one or more analysis runs.
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of an analysis tool.
type Run struct {
	Tool              Tool               `json:"tool"`
	Results           []Result           `json:"results"`
	AutomationDetails *AutomationDetails `json:"automationDetails,omitempty"`
	Invocations       []Invocation       `json:"invocations,omitempty"`
	Taxonomies        []Taxonomy         `json:"taxonomies,omitempty"`
}

// Tool describes the analysis tool that produced the run.
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains identifying information about the tool and the catalog of
// rules it can report on.
type Driver struct {
	Name           string                `json:"name"`
	Version        string                `json:"version"`
	InformationURI string                `json:"informationUri"`
	Rules          []ReportingDescriptor `json:"rules"`
}

// ReportingDescriptor defines a single rule in the SARIF rule catalog.
type ReportingDescriptor struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription Message             `json:"shortDescription"`
	FullDescription  *Message            `json:"fullDescription,omitempty"`
	Help             *MultiformatMessage `json:"help,omitempty"`
	HelpURI          string              `json:"helpUri,omitempty"`
	Properties       map[string]any      `json:"properties,omitempty"`
}

// MultiformatMessage is a SARIF message that can carry both plain text and
// markdown representations.
type MultiformatMessage struct {
	Text     string `json:"text,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// Message is a SARIF message object containing human-readable text.
type Message struct {
	Text string `json:"text"`
}

// Result is a single finding expressed in SARIF format.
type Result struct {
	RuleID     string         `json:"ruleId"`
	RuleIndex  int            `json:"ruleIndex"`
	Level      string         `json:"level"`
	Message    Message        `json:"message"`
	Locations  []Location     `json:"locations"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Location wraps a physical location within a source artifact.
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation identifies a file and region within that file.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

// ArtifactLocation is a URI reference to a source file.
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region identifies a contiguous area within an artifact.
type Region struct {
	StartLine   int              `json:"startLine,omitempty"`
	StartColumn int              `json:"startColumn,omitempty"`
	Snippet     *ArtifactContent `json:"snippet,omitempty"`
}

// ArtifactContent carries a code excerpt attached to a region.
type ArtifactContent struct {
	Text string `json:"text"`
}

// AutomationDetails identifies the automated run that produced the report.
type AutomationDetails struct {
	ID          string  `json:"id"`
	Description Message `json:"description"`
}

// Invocation records the execution of the tool for a run.
type Invocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	StartTimeUTC        string `json:"startTimeUtc"`
	EndTimeUTC          string `json:"endTimeUtc"`
}

// Taxonomy is a classification scheme (CWE, CAPEC, ...) referenced by rules.
type Taxonomy struct {
	Name             string  `json:"name"`
	ShortDescription Message `json:"shortDescription"`
	InformationURI   string  `json:"informationUri,omitempty"`
}

// ---------------------------------------------------------------------------
// Reporter implementation
// ---------------------------------------------------------------------------

// Reporter produces SARIF 2.1.0 documents from a slice of findings.
type Reporter struct {
	// ToolName is the driver name; defaults to DefaultToolName when empty.
	ToolName string

	// ToolVersion is the version string embedded in the SARIF tool driver.
	ToolVersion string

	now func() time.Time
}

// NewReporter returns a Reporter configured with the given tool version.
func NewReporter(version string) *Reporter {
	return &Reporter{
		ToolName:    DefaultToolName,
		ToolVersion: version,
		now:         time.Now,
	}
}

// Generate builds a complete SARIF 2.1.0 JSON document from the given
// findings. Findings keep their input order; the rule catalog is built in
// first-seen order so ruleIndex values stay stable for identical input.
// The returned bytes are pretty-printed JSON.
func (r *Reporter) Generate(items []findings.Finding) ([]byte, error) {
	catalog := make([]ReportingDescriptor, 0)
	ruleIndex := make(map[string]int)
	results := make([]Result, 0, len(items))

	for _, f := range items {
		id := f.RuleID
		if id == "" {
			id = "unknown"
		}
		idx, seen := ruleIndex[id]
		if !seen {
			idx = len(catalog)
			ruleIndex[id] = idx
			catalog = append(catalog, ruleDescriptor(f, id))
		}
		results = append(results, resultEntry(f, id, idx))
	}

	stamp := r.now().UTC().Format(time.RFC3339)
	name := r.ToolName
	if name == "" {
		name = DefaultToolName
	}

	report := Report{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:           name,
						Version:        r.ToolVersion,
						InformationURI: informationURI,
						Rules:          catalog,
					},
				},
				Results: results,
				AutomationDetails: &AutomationDetails{
					ID: "tavoai-scan-" + stamp,
					Description: Message{
						Text: "Automated AI security scanning with TavoAI",
					},
				},
				Invocations: []Invocation{
					{
						ExecutionSuccessful: true,
						StartTimeUTC:        stamp,
						EndTimeUTC:          stamp,
					},
				},
				Taxonomies: taxonomies(),
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// WriteToFile generates the SARIF report and writes it to the specified path
// with 0644 permissions. Parent directories must already exist.
func (r *Reporter) WriteToFile(items []findings.Finding, path string) error {
	data, err := r.Generate(items)
	if err != nil {
		return fmt.Errorf("sarif: generate report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// ruleDescriptor builds the catalog entry for a rule from the first finding
// that referenced it.
func ruleDescriptor(f findings.Finding, id string) ReportingDescriptor {
	name := f.RuleName
	if name == "" {
		name = id
	}
	short := f.Description
	if short == "" {
		short = "Security finding"
	}
	ruleType := f.RuleType
	if ruleType == "" {
		ruleType = "unknown"
	}

	desc := ReportingDescriptor{
		ID:               id,
		Name:             name,
		ShortDescription: Message{Text: truncate(short, maxShortDescription)},
		Properties: map[string]any{
			"category":    category(f),
			"subcategory": f.Subcategory,
			"severity":    string(severity(f)),
			"confidence":  confidence(f),
			"rule_type":   ruleType,
			"tags":        tags(f),
		},
	}

	if f.FullDescription != "" {
		desc.FullDescription = &Message{
			Text: truncate(f.FullDescription, maxFullDescription),
		}
	}
	if f.Remediation != "" {
		desc.Help = &MultiformatMessage{
			Text: truncate(f.Remediation, maxHelpText),
		}
	}
	if f.HelpURI != "" {
		desc.HelpURI = f.HelpURI
	}
	if len(f.Standards) > 0 {
		desc.Properties["standards"] = f.Standards
	}
	return desc
}

// resultEntry builds the SARIF result for a single finding.
func resultEntry(f findings.Finding, id string, idx int) Result {
	msg := f.Message
	if msg == "" {
		msg = "Security finding detected"
	}

	res := Result{
		RuleID:    id,
		RuleIndex: idx,
		Level:     severityToLevel(f.Severity),
		Message:   Message{Text: msg},
		Locations: []Location{},
		Properties: map[string]any{
			"confidence": confidence(f),
			"category":   category(f),
			"severity":   string(severity(f)),
		},
	}

	if f.FilePath != "" {
		loc := Location{
			PhysicalLocation: PhysicalLocation{
				ArtifactLocation: ArtifactLocation{URI: f.FilePath},
			},
		}
		if f.Line > 0 {
			region := &Region{StartLine: f.Line}
			if f.Column > 0 {
				region.StartColumn = f.Column
			}
			if f.Snippet != "" {
				region.Snippet = &ArtifactContent{
					Text: truncate(f.Snippet, maxSnippet),
				}
			}
			loc.PhysicalLocation.Region = region
		}
		res.Locations = append(res.Locations, loc)
	}

	if f.Remediation != "" {
		res.Properties["remediation"] = f.Remediation
	}
	if len(f.Tags) > 0 {
		res.Properties["tags"] = f.Tags
	}
	return res
}

// severityToLevel maps a finding severity to the corresponding SARIF level
// string. Critical and high map to "error", medium to "warning", low/info to
// "note", and anything unrecognized to "warning".
func severityToLevel(s findings.Severity) string {
	switch s {
	case findings.SeverityCritical, findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium:
		return "warning"
	case findings.SeverityLow, findings.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}

func severity(f findings.Finding) findings.Severity {
	if f.Severity == "" {
		return findings.SeverityMedium
	}
	return f.Severity
}

func category(f findings.Finding) string {
	if f.Category == "" {
		return "security"
	}
	return f.Category
}

func confidence(f findings.Finding) float64 {
	if f.Confidence == 0 {
		return 0.8
	}
	return f.Confidence
}

func tags(f findings.Finding) []string {
	if f.Tags == nil {
		return []string{}
	}
	return f.Tags
}

// truncate limits s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// taxonomies returns the static classification schemes referenced by TavoAI
// rules via standards mappings.
func taxonomies() []Taxonomy {
	return []Taxonomy{
		{
			Name:             "CWE",
			ShortDescription: Message{Text: "Common Weakness Enumeration"},
			InformationURI:   "https://cwe.mitre.org/",
		},
		{
			Name:             "CAPEC",
			ShortDescription: Message{Text: "Common Attack Pattern Enumeration and Classification"},
			InformationURI:   "https://capec.mitre.org/",
		},
		{
			Name:             "OWASP LLM Top 10",
			ShortDescription: Message{Text: "OWASP Top 10 for Large Language Model Applications"},
			InformationURI:   "https://owasp.org/www-project-top-10-for-large-language-model-applications/",
		},
		{
			Name:             "ISO/IEC 42001",
			ShortDescription: Message{Text: "Artificial intelligence management system standard"},
			InformationURI:   "https://www.iso.org/standard/81230.html",
		},
	}
}
