package mitrisk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tavoai/tavo-rules/core/rules"
)

// DefaultOutputDir is where synced rules land relative to the repo root.
const DefaultOutputDir = "bundles/ai-enhanced/mit-ai-risk-repo/rules"

// SyncOptions control what a sync run processes.
type SyncOptions struct {
	// Limit caps the number of risks converted; zero means no limit.
	Limit int

	// Mock skips the download and uses a small fixed corpus instead.
	Mock bool
}

// Syncer downloads risk records and writes them out as rule documents.
type Syncer struct {
	Client    *Client
	OutputDir string
}

// NewSyncer returns a Syncer writing to outputDir via the given client.
func NewSyncer(client *Client, outputDir string) *Syncer {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return &Syncer{Client: client, OutputDir: outputDir}
}

// Sync fetches the risk database, converts each record to a rule document,
// and writes one YAML file per rule. It returns the written file paths. A
// download or parse failure aborts the sync before anything is written.
func (s *Syncer) Sync(ctx context.Context, opts SyncOptions) ([]string, error) {
	var risks []Risk
	if opts.Mock {
		risks = MockRisks()
	} else {
		csvContent, err := s.Client.Download(ctx)
		if err != nil {
			return nil, err
		}
		risks, err = ParseCSV(strings.NewReader(csvContent))
		if err != nil {
			return nil, fmt.Errorf("parsing risk database: %w", err)
		}
	}

	if opts.Limit > 0 && len(risks) > opts.Limit {
		risks = risks[:opts.Limit]
	}

	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string
	for _, risk := range risks {
		doc := GenerateRule(risk)
		path, err := s.saveRule(doc)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (s *Syncer) saveRule(doc rules.Document) (string, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling rule %s: %w", doc.ID, err)
	}
	path := filepath.Join(s.OutputDir, doc.ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing rule %s: %w", doc.ID, err)
	}
	return path, nil
}

// MockRisks returns a small fixed corpus for offline testing.
func MockRisks() []Risk {
	return []Risk{
		{
			ID:          "R001",
			Risk:        "AI systems that create unfair discrimination",
			Domain:      "Discrimination & Toxicity",
			Subdomain:   "Unfair discrimination and misrepresentation",
			Entity:      "AI",
			Intent:      "Unintentional",
			Timing:      "Post-deployment",
			SourceTitle: "AI Risk Repository Test",
			Authors:     "MIT Team",
			Year:        "2024",
			Quote:       "AI systems can create unfair discrimination",
			PageNumber:  "1",
		},
		{
			ID:          "R002",
			Risk:        "Unauthorized access to sensitive personal data",
			Domain:      "Privacy & Security",
			Subdomain:   "Compromise of privacy by obtaining sensitive information",
			Entity:      "AI",
			Intent:      "Unintentional",
			Timing:      "Post-deployment",
			SourceTitle: "AI Risk Repository Test",
			Authors:     "MIT Team",
			Year:        "2024",
			Quote:       "AI can compromise user privacy",
			PageNumber:  "2",
		},
		{
			ID:          "R003",
			Risk:        "AI systems generating misleading information",
			Domain:      "Misinformation",
			Subdomain:   "False or misleading information",
			Entity:      "AI",
			Intent:      "Unintentional",
			Timing:      "Post-deployment",
			SourceTitle: "AI Risk Repository Test",
			Authors:     "MIT Team",
			Year:        "2024",
			Quote:       "AI can generate misleading information",
			PageNumber:  "3",
		},
	}
}
