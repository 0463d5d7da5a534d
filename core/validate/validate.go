// Package validate checks rule documents and bundle manifests against their
// JSON Schemas and the pipeline's business rules. Errors are accumulated,
// never short-circuited: a rule author sees every problem in one pass, and
// one bad file never stops validation of the rest.
package validate

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tavoai/tavo-rules/core/rules"
	"github.com/tavoai/tavo-rules/core/schema"
	"gopkg.in/yaml.v3"
)

// IDPrefix is the namespace prefix every rule and bundle id must carry.
const IDPrefix = "tavoai-"

var owaspLLMPattern = regexp.MustCompile(`^LLM[0-9]{2}$`)

// Result is the validation outcome for one file.
type Result struct {
	Path   string   `json:"path"`
	Kind   string   `json:"kind"` // "rule" or "manifest"
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validator validates rule files and manifests against the schema store.
type Validator struct {
	schemas *schema.Store
}

// New creates a Validator backed by the given schema store.
func New(store *schema.Store) *Validator {
	return &Validator{schemas: store}
}

// RuleFile validates a single YAML rule file: schema check plus business
// rules, all accumulated. A YAML parse failure is itself a validation error;
// business rules still run against whatever could be decoded.
func (v *Validator) RuleFile(path string) Result {
	res := Result{Path: path, Kind: "rule"}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("reading file: %v", err))
		return res
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("YAML parsing error: %v", err))
		return res
	}
	if raw == nil {
		res.Errors = append(res.Errors, "YAML parsing error: empty document")
		return res
	}

	if inst, err := schema.Normalize(raw); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Schema validation error: %v", err))
	} else if err := v.schemas.ValidateRule(inst); err != nil {
		res.Errors = append(res.Errors, "Schema validation error: "+schema.FormatError(err))
	}

	var doc rules.Document
	if err := yaml.Unmarshal(data, &doc); err == nil {
		res.Errors = append(res.Errors, RuleContent(doc)...)
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// RuleContent runs the business-rule checks over a decoded rule document.
// Every check is evaluated independently so all violations are reported.
func RuleContent(doc rules.Document) []string {
	var errs []string

	if !strings.HasPrefix(doc.ID, IDPrefix) {
		errs = append(errs, fmt.Sprintf("Rule ID must start with %q: %s", IDPrefix, doc.ID))
	}

	if rules.AIInvolved(doc.RuleType) {
		if len(doc.CompatibleModels) == 0 {
			errs = append(errs, "AI rules must specify compatible_models")
		} else {
			for _, model := range doc.CompatibleModels {
				if !strings.Contains(model, "/") {
					errs = append(errs, fmt.Sprintf("Invalid model format: %s (expected 'provider/model')", model))
				}
			}
		}
		if doc.AIAnalysis.Empty() {
			errs = append(errs, "AI rules must have ai_analysis section")
		}
	}

	if rules.RequiresHeuristics(doc.RuleType) && len(doc.Heuristics) == 0 {
		errs = append(errs, "Non-AI-only rules must have heuristics")
	}

	errs = append(errs, standardsErrors(doc.Standards)...)
	return errs
}

// standardsErrors checks the identifier format invariants of the standards
// mapping entries that carry fixed forms.
func standardsErrors(std rules.Standards) []string {
	var errs []string
	for _, cwe := range std["cwe"] {
		if !strings.HasPrefix(cwe, rules.PrefixCWE) {
			errs = append(errs, fmt.Sprintf("Invalid CWE format: %s (should be CWE-XXX)", cwe))
		}
	}
	for _, capec := range std["capec"] {
		if !strings.HasPrefix(capec, rules.PrefixCAPEC) {
			errs = append(errs, fmt.Sprintf("Invalid CAPEC format: %s (should be CAPEC-XXX)", capec))
		}
	}
	for _, owasp := range std["owasp_llm"] {
		if !owaspLLMPattern.MatchString(owasp) {
			errs = append(errs, fmt.Sprintf("Invalid OWASP LLM format: %s (should be LLMXX)", owasp))
		}
	}
	return errs
}

// ManifestFile validates a bundle manifest JSON file: schema check, id
// prefix, and existence of every listed artifact relative to the manifest's
// directory.
func (v *Validator) ManifestFile(path string) Result {
	res := Result{Path: path, Kind: "manifest"}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("reading file: %v", err))
		return res
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("JSON parsing error: %v", err))
		return res
	}

	if err := v.schemas.ValidateManifest(raw); err != nil {
		res.Errors = append(res.Errors, "Schema validation error: "+schema.FormatError(err))
	}

	id, _ := raw["id"].(string)
	if !strings.HasPrefix(id, IDPrefix) {
		res.Errors = append(res.Errors, fmt.Sprintf("Bundle ID must start with %q: %s", IDPrefix, id))
	}

	bundleDir := filepath.Dir(path)
	if artifacts, ok := raw["artifacts"].([]any); ok {
		for _, a := range artifacts {
			rel, ok := a.(string)
			if !ok {
				continue
			}
			artifactPath := filepath.Join(bundleDir, filepath.FromSlash(rel))
			if _, err := os.Stat(artifactPath); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Artifact file not found: %s", artifactPath))
			}
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// AllRules validates every .yaml/.yml file under the bundles root. Results
// are ordered by path.
func (v *Validator) AllRules(bundlesDir string) ([]Result, error) {
	var results []Result
	err := filepath.WalkDir(bundlesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		results = append(results, v.RuleFile(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", bundlesDir, err)
	}
	sortResults(results)
	return results, nil
}

// AllManifests validates every manifest.json found under the bundles root.
func (v *Validator) AllManifests(bundlesDir string) ([]Result, error) {
	var results []Result
	err := filepath.WalkDir(bundlesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "manifest.json" {
			return nil
		}
		results = append(results, v.ManifestFile(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", bundlesDir, err)
	}
	sortResults(results)
	return results, nil
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
}

// Count returns how many results are valid out of the total.
func Count(results []Result) (valid, total int) {
	for _, r := range results {
		if r.Valid {
			valid++
		}
	}
	return valid, len(results)
}
