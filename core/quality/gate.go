package quality

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tavoai/tavo-rules/core/validate"
)

// Thresholds are the minimum quality bars rules must meet for production use.
type Thresholds struct {
	HeuristicCoverage float64 // minimum
	FalsePositiveRate float64 // maximum
	FalseNegativeRate float64 // maximum
	AIAccuracy        float64 // minimum
	SchemaCompliance  float64 // minimum
	TestCoverage      float64 // minimum
	Overall           float64 // minimum weighted score
}

// DefaultThresholds returns the production quality bars.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeuristicCoverage: 0.80,
		FalsePositiveRate: 0.10,
		FalseNegativeRate: 0.05,
		AIAccuracy:        0.90,
		SchemaCompliance:  1.0,
		TestCoverage:      0.70,
		Overall:           0.85,
	}
}

// Overall score weights per metric.
const (
	weightHeuristicCoverage = 0.25
	weightFalsePositive     = 0.20
	weightFalseNegative     = 0.20
	weightAIAccuracy        = 0.15
	weightSchemaCompliance  = 0.10
	weightTestCoverage      = 0.10
)

// CoverageMetric reports a score against a minimum threshold.
type CoverageMetric struct {
	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
}

// RateMetric reports an observed rate against a maximum threshold.
type RateMetric struct {
	Rate   float64 `json:"rate"`
	Count  int     `json:"count"`
	Total  int     `json:"total"`
	Passed bool    `json:"passed"`
}

// AccuracyMetric reports AI rule accuracy against a minimum threshold.
type AccuracyMetric struct {
	Accuracy      float64 `json:"accuracy"`
	RulesAnalyzed int     `json:"rules_analyzed"`
	Passed        bool    `json:"passed"`
}

// ComplianceMetric reports schema validation compliance.
type ComplianceMetric struct {
	ComplianceRate float64 `json:"compliance_rate"`
	ValidRules     int     `json:"valid_rules"`
	TotalRules     int     `json:"total_rules"`
	Passed         bool    `json:"passed"`
}

// GateReport is the full quality evaluation, serialized as the JSON output
// of the quality command.
type GateReport struct {
	HeuristicCoverage CoverageMetric   `json:"heuristic_coverage"`
	FalsePositiveRate RateMetric       `json:"false_positive_rate"`
	FalseNegativeRate RateMetric       `json:"false_negative_rate"`
	AIAccuracy        AccuracyMetric   `json:"ai_accuracy"`
	SchemaCompliance  ComplianceMetric `json:"schema_compliance"`
	TestCoverage      CoverageMetric   `json:"test_coverage"`
	OverallScore      float64          `json:"overall_score"`
	Passed            bool             `json:"passed"`
}

// Gate evaluates runner and validator output against quality thresholds.
type Gate struct {
	Thresholds Thresholds
}

// NewGate returns a Gate with the default thresholds.
func NewGate() *Gate {
	return &Gate{Thresholds: DefaultThresholds()}
}

// Evaluate computes every metric from the real test and validation results
// and derives the weighted overall score.
func (g *Gate) Evaluate(bundles []BundleResult, validation []validate.Result) GateReport {
	t := g.Thresholds
	var report GateReport

	var all []RuleResult
	for _, b := range bundles {
		all = append(all, b.Results...)
	}

	// Heuristic coverage: each rule scores 0.2 per heuristic, capped at 1.0.
	var covSum float64
	for _, res := range all {
		score := float64(res.HeuristicCount) * 0.2
		if score > 1.0 {
			score = 1.0
		}
		covSum += score
	}
	cov := 0.0
	if len(all) > 0 {
		cov = covSum / float64(len(all))
	}
	report.HeuristicCoverage = CoverageMetric{Score: cov, Passed: cov >= t.HeuristicCoverage}

	// False positive rate across all safe-sample evaluations.
	safeFlagged, safeTotal := 0, 0
	vulnMissed, vulnTotal := 0, 0
	for _, res := range all {
		safeFlagged += res.SafeFlagged
		safeTotal += res.SafeTotal
		vulnMissed += res.VulnerableTotal - res.VulnerableDetected
		vulnTotal += res.VulnerableTotal
	}
	fp := rate(safeFlagged, safeTotal)
	fn := rate(vulnMissed, vulnTotal)
	report.FalsePositiveRate = RateMetric{Rate: fp, Count: safeFlagged, Total: safeTotal, Passed: fp <= t.FalsePositiveRate}
	report.FalseNegativeRate = RateMetric{Rate: fn, Count: vulnMissed, Total: vulnTotal, Passed: fn <= t.FalseNegativeRate}

	// AI accuracy: mean accuracy of hybrid and ai-only rules.
	var aiSum float64
	aiCount := 0
	for _, res := range all {
		if res.RuleType == "hybrid" || res.RuleType == "ai-only" {
			aiSum += res.Accuracy()
			aiCount++
		}
	}
	acc := 0.0
	if aiCount > 0 {
		acc = aiSum / float64(aiCount)
	}
	report.AIAccuracy = AccuracyMetric{Accuracy: acc, RulesAnalyzed: aiCount, Passed: acc >= t.AIAccuracy}

	// Schema compliance from the validator's results.
	valid, total := validate.Count(validation)
	compliance := rate(valid, total)
	report.SchemaCompliance = ComplianceMetric{
		ComplianceRate: compliance,
		ValidRules:     valid,
		TotalRules:     total,
		Passed:         compliance >= t.SchemaCompliance,
	}

	// Test coverage: samples available per rule, capped at 1.0.
	samples := 0
	if len(all) > 0 {
		samples = all[0].VulnerableTotal + all[0].SafeTotal
	}
	coverage := 0.0
	if len(all) > 0 {
		coverage = float64(samples) / float64(len(all))
		if coverage > 1.0 {
			coverage = 1.0
		}
	}
	report.TestCoverage = CoverageMetric{Score: coverage, Passed: coverage >= t.TestCoverage}

	report.OverallScore = g.overall(report)
	report.Passed = report.OverallScore >= t.Overall
	return report
}

func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

// overall computes the weighted quality score. Rate metrics contribute a
// graded score that decays as the rate approaches its threshold; the other
// metrics contribute their pass/fail value.
func (g *Gate) overall(r GateReport) float64 {
	t := g.Thresholds

	score := 0.0
	score += weightHeuristicCoverage * boolScore(r.HeuristicCoverage.Passed)
	score += weightFalsePositive * gradedRate(r.FalsePositiveRate.Rate, t.FalsePositiveRate)
	score += weightFalseNegative * gradedRate(r.FalseNegativeRate.Rate, t.FalseNegativeRate)
	score += weightAIAccuracy * boolScore(r.AIAccuracy.Passed)
	score += weightSchemaCompliance * boolScore(r.SchemaCompliance.Passed)
	score += weightTestCoverage * boolScore(r.TestCoverage.Passed)
	return score
}

func boolScore(passed bool) float64 {
	if passed {
		return 1.0
	}
	return 0.0
}

func gradedRate(observed, threshold float64) float64 {
	if threshold == 0 {
		return boolScore(observed == 0)
	}
	score := 1.0 - observed/threshold
	if score < 0 {
		return 0
	}
	return score
}

// PrintReport writes the human-readable quality evaluation.
func PrintReport(w io.Writer, r GateReport) {
	fmt.Fprintln(w, "[quality] individual metrics:")
	fmt.Fprintf(w, "  heuristic coverage:  %5.1f%%  %s\n", r.HeuristicCoverage.Score*100, passMark(r.HeuristicCoverage.Passed))
	fmt.Fprintf(w, "  false positive rate: %5.1f%%  %s\n", r.FalsePositiveRate.Rate*100, passMark(r.FalsePositiveRate.Passed))
	fmt.Fprintf(w, "  false negative rate: %5.1f%%  %s\n", r.FalseNegativeRate.Rate*100, passMark(r.FalseNegativeRate.Passed))
	fmt.Fprintf(w, "  ai accuracy:         %5.1f%%  %s\n", r.AIAccuracy.Accuracy*100, passMark(r.AIAccuracy.Passed))
	fmt.Fprintf(w, "  schema compliance:   %5.1f%%  %s\n", r.SchemaCompliance.ComplianceRate*100, passMark(r.SchemaCompliance.Passed))
	fmt.Fprintf(w, "  test coverage:       %5.1f%%  %s\n", r.TestCoverage.Score*100, passMark(r.TestCoverage.Passed))
	fmt.Fprintf(w, "[quality] overall score: %.1f%%\n", r.OverallScore*100)
	if r.Passed {
		fmt.Fprintln(w, "[quality] validation passed")
	} else {
		fmt.Fprintln(w, "[quality] validation FAILED: rules do not meet minimum quality thresholds")
	}
}

func passMark(passed bool) string {
	if passed {
		return "pass"
	}
	return "FAIL"
}

// WriteJSON writes the gate report as indented JSON to path.
func WriteJSON(r GateReport, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
