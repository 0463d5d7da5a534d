// Package quality tests rules against labeled code samples and evaluates the
// resulting detection metrics against production quality thresholds.
//
// The runner is a lightweight stand-in for the real scanner engines: semgrep
// heuristics are evaluated as substring matches and opa heuristics never
// match. That is enough to exercise true/false positive accounting against
// the vulnerable/ and safe/ sample trees.
package quality

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tavoai/tavo-rules/core/rules"
)

// maxConcurrentRules bounds how many rules are tested in parallel per bundle.
const maxConcurrentRules = 8

// Samples holds the labeled test corpus: files that rules should flag and
// files they should leave alone.
type Samples struct {
	Vulnerable []string
	Safe       []string
}

// RuleResult is the outcome of testing a single rule against the corpus.
type RuleResult struct {
	RulePath           string   `json:"rule_path"`
	RuleID             string   `json:"rule_id"`
	RuleType           string   `json:"rule_type"`
	HeuristicCount     int      `json:"heuristic_count"`
	VulnerableDetected int      `json:"vulnerable_detected"`
	VulnerableTotal    int      `json:"vulnerable_total"`
	SafeFlagged        int      `json:"safe_flagged"`
	SafeTotal          int      `json:"safe_total"`
	ExecutionTimeMS    float64  `json:"execution_time_ms"`
	Errors             []string `json:"errors,omitempty"`
}

// TruePositiveRate is the fraction of vulnerable samples the rule detected.
func (r RuleResult) TruePositiveRate() float64 {
	if r.VulnerableTotal == 0 {
		return 0
	}
	return float64(r.VulnerableDetected) / float64(r.VulnerableTotal)
}

// FalsePositiveRate is the fraction of safe samples the rule flagged.
func (r RuleResult) FalsePositiveRate() float64 {
	if r.SafeTotal == 0 {
		return 0
	}
	return float64(r.SafeFlagged) / float64(r.SafeTotal)
}

// Accuracy is the fraction of all samples the rule classified correctly.
func (r RuleResult) Accuracy() float64 {
	total := r.VulnerableTotal + r.SafeTotal
	if total == 0 {
		return 0
	}
	correct := r.VulnerableDetected + (r.SafeTotal - r.SafeFlagged)
	return float64(correct) / float64(total)
}

// BundleResult groups the rule results for one bundle.
type BundleResult struct {
	Bundle  string       `json:"bundle"`
	Results []RuleResult `json:"results"`
}

// Runner tests rules from a bundles tree against a samples tree.
type Runner struct {
	BundlesDir string
	SamplesDir string
}

// NewRunner returns a Runner over the given bundle and sample roots.
func NewRunner(bundlesDir, samplesDir string) *Runner {
	return &Runner{BundlesDir: bundlesDir, SamplesDir: samplesDir}
}

// FindSamples collects the vulnerable and safe sample files, optionally
// filtered by language file extension ("python" matches *.py, otherwise the
// language name is used as the extension). A missing samples tree yields an
// empty corpus, not an error.
func (r *Runner) FindSamples(language string) (Samples, error) {
	var s Samples
	var err error
	if s.Vulnerable, err = listSamples(filepath.Join(r.SamplesDir, "vulnerable"), language); err != nil {
		return Samples{}, err
	}
	if s.Safe, err = listSamples(filepath.Join(r.SamplesDir, "safe"), language); err != nil {
		return Samples{}, err
	}
	return s, nil
}

func listSamples(dir, language string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if language != "" && !strings.HasSuffix(path, "."+languageExt(language)) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing samples in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func languageExt(language string) string {
	switch language {
	case "python":
		return "py"
	case "javascript":
		return "js"
	case "typescript":
		return "ts"
	default:
		return language
	}
}

// TestRule evaluates one rule file against the corpus.
func (r *Runner) TestRule(rulePath string, samples Samples) RuleResult {
	start := time.Now()

	lr := rules.Load(rulePath)
	res := RuleResult{
		RulePath:        rulePath,
		RuleID:          lr.Doc.ID,
		RuleType:        lr.Doc.RuleType,
		HeuristicCount:  len(lr.Doc.Heuristics),
		VulnerableTotal: len(samples.Vulnerable),
		SafeTotal:       len(samples.Safe),
	}
	if lr.Defaulted {
		reason := "unparseable content"
		if lr.ParseError != "" {
			reason = lr.ParseError
		}
		res.Errors = append(res.Errors, fmt.Sprintf("Failed to load rule: %s", reason))
		res.ExecutionTimeMS = msSince(start)
		return res
	}

	for _, path := range samples.Vulnerable {
		detected, err := ruleMatchesFile(lr.Doc, path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error testing %s: %v", filepath.Base(path), err))
			continue
		}
		if detected {
			res.VulnerableDetected++
		}
	}
	for _, path := range samples.Safe {
		detected, err := ruleMatchesFile(lr.Doc, path)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error testing %s: %v", filepath.Base(path), err))
			continue
		}
		if detected {
			res.SafeFlagged++
		}
	}

	res.ExecutionTimeMS = msSince(start)
	return res
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// ruleMatchesFile reports whether any of the rule's heuristics fire on the
// file's content. AI-only rules carry no heuristics and never match here.
func ruleMatchesFile(doc rules.Document, path string) (bool, error) {
	if doc.RuleType == rules.TypeAIOnly {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	content := string(data)
	for _, h := range doc.Heuristics {
		if heuristicMatches(h, content) {
			return true, nil
		}
	}
	return false, nil
}

func heuristicMatches(h rules.Heuristic, content string) bool {
	switch h.Type {
	case "semgrep":
		return h.Pattern != "" && strings.Contains(content, h.Pattern)
	case "opa":
		// Policy evaluation needs a real OPA engine; the simulation never fires.
		return false
	default:
		return false
	}
}

// TestBundle tests every rule file in the bundle directory, in parallel with
// a bounded worker count. Results are sorted by rule path so output is
// deterministic regardless of scheduling.
func (r *Runner) TestBundle(ctx context.Context, bundleDir, language string) ([]RuleResult, error) {
	samples, err := r.FindSamples(language)
	if err != nil {
		return nil, err
	}

	var ruleFiles []string
	err = filepath.WalkDir(bundleDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext == ".yaml" || ext == ".yml" {
			ruleFiles = append(ruleFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking bundle %s: %w", bundleDir, err)
	}
	sort.Strings(ruleFiles)

	results := make([]RuleResult, len(ruleFiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRules)
	for i, path := range ruleFiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.TestRule(path, samples)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// TestAll tests every bundle under the bundles root, returning per-bundle
// results sorted by bundle name.
func (r *Runner) TestAll(ctx context.Context, language string) ([]BundleResult, error) {
	entries, err := os.ReadDir(r.BundlesDir)
	if err != nil {
		return nil, fmt.Errorf("reading bundles dir: %w", err)
	}

	var out []BundleResult
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		results, err := r.TestBundle(ctx, filepath.Join(r.BundlesDir, name), language)
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			continue
		}
		out = append(out, BundleResult{Bundle: name, Results: results})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bundle < out[j].Bundle })
	return out, nil
}

// PrintSummary writes per-rule detection rates and an overall tally.
func PrintSummary(w io.Writer, bundles []BundleResult) {
	totalRules := 0
	totalErrors := 0
	vulnDetected, vulnTotal := 0, 0
	safeFlagged, safeTotal := 0, 0

	for _, b := range bundles {
		fmt.Fprintf(w, "[bundle] %s\n", b.Bundle)
		var accSum float64
		for _, res := range b.Results {
			totalRules++
			totalErrors += len(res.Errors)
			vulnDetected += res.VulnerableDetected
			vulnTotal += res.VulnerableTotal
			safeFlagged += res.SafeFlagged
			safeTotal += res.SafeTotal
			accSum += res.Accuracy()

			fmt.Fprintf(w, "  %s:\n", res.RuleID)
			fmt.Fprintf(w, "    true positives:  %d/%d (%.1f%%)\n",
				res.VulnerableDetected, res.VulnerableTotal, res.TruePositiveRate()*100)
			fmt.Fprintf(w, "    false positives: %d/%d (%.1f%%)\n",
				res.SafeFlagged, res.SafeTotal, res.FalsePositiveRate()*100)
			fmt.Fprintf(w, "    accuracy:        %.1f%%\n", res.Accuracy()*100)
			if len(res.Errors) > 0 {
				fmt.Fprintf(w, "    errors:          %d\n", len(res.Errors))
			}
		}
		if len(b.Results) > 0 {
			fmt.Fprintf(w, "  bundle accuracy: %.1f%%\n", accSum/float64(len(b.Results))*100)
		}
	}

	fmt.Fprintf(w, "[summary] %d rules tested, %d errors\n", totalRules, totalErrors)
	if vulnTotal > 0 {
		fmt.Fprintf(w, "[summary] true positive rate: %d/%d (%.1f%%)\n",
			vulnDetected, vulnTotal, float64(vulnDetected)/float64(vulnTotal)*100)
	}
	if safeTotal > 0 {
		fmt.Fprintf(w, "[summary] false positive rate: %d/%d (%.1f%%)\n",
			safeFlagged, safeTotal, float64(safeFlagged)/float64(safeTotal)*100)
	}
}

// ErrorCount returns the total number of per-rule errors across all bundles.
func ErrorCount(bundles []BundleResult) int {
	n := 0
	for _, b := range bundles {
		for _, res := range b.Results {
			n += len(res.Errors)
		}
	}
	return n
}
