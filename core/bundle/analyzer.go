// Package bundle implements bundle discovery, rule aggregation, and manifest
// generation for TavoAI rule bundles. A bundle is a directory with a rules/
// subdirectory of YAML rule documents; its manifest.json is generated beside
// rules/ and summarizes contents plus commercial classification.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tavoai/tavo-rules/core/rules"
)

// RuleSummary is the per-rule slice of metadata carried in an Analysis.
type RuleSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Severity string   `json:"severity"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Analysis aggregates the rule documents of one bundle. Categories,
// severities, and standards values are deduplicated and sorted so that two
// runs over the same bundle produce identical output.
type Analysis struct {
	Rules      []RuleSummary       `json:"rules"`
	Categories []string            `json:"categories"`
	Severities []string            `json:"severities"`
	Standards  map[string][]string `json:"standards"`
	RuleCount  int                 `json:"rule_count"`

	// RuleFiles holds the base names of the discovered rule files, sorted.
	RuleFiles []string `json:"-"`

	// Defaulted lists rule files whose content could not be parsed and
	// were substituted with filename-derived defaults.
	Defaulted []string `json:"-"`
}

// Analyze walks a bundle's rules/ subdirectory and aggregates rule metadata.
// A missing rules/ subdirectory yields an all-empty analysis, not an error;
// absence of rules is a valid bundle state.
func Analyze(bundleDir string) (*Analysis, error) {
	a := &Analysis{
		Rules:      []RuleSummary{},
		Categories: []string{},
		Severities: []string{},
		Standards:  map[string][]string{},
	}

	rulesDir := filepath.Join(bundleDir, "rules")
	entries, err := os.ReadDir(rulesDir)
	if os.IsNotExist(err) {
		return a, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rules directory %s: %w", rulesDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		files = append(files, entry.Name())
	}
	// Directory enumeration order is platform-dependent; sort so that the
	// manifest's artifact list is reproducible.
	sort.Strings(files)
	a.RuleFiles = files

	categories := make(map[string]struct{})
	severities := make(map[string]struct{})
	standards := make(map[string]map[string]struct{})

	for _, name := range files {
		res := rules.Load(filepath.Join(rulesDir, name))
		if res.Defaulted {
			a.Defaulted = append(a.Defaulted, name)
		}
		doc := res.Doc

		a.Rules = append(a.Rules, RuleSummary{
			ID:       doc.ID,
			Name:     doc.Name,
			Version:  doc.Version,
			Severity: string(doc.Severity),
			Category: doc.Category,
			Tags:     append([]string{}, doc.Tags...),
		})
		if doc.Category != "" {
			categories[doc.Category] = struct{}{}
		}
		if doc.Severity != "" {
			severities[string(doc.Severity)] = struct{}{}
		}
		rules.MergeStandards(standards, doc.Standards)
	}

	a.Categories = sortedKeys(categories)
	a.Severities = sortedKeys(severities)
	for name, set := range standards {
		a.Standards[name] = sortedKeys(set)
	}
	a.RuleCount = len(a.Rules)
	return a, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
