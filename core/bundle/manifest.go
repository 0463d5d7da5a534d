package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tavoai/tavo-rules/core/rules"
)

// ArtifactTypeRuleBundle is the fixed artifact_type for generated manifests.
const ArtifactTypeRuleBundle = "rule_bundle"

// ManifestFile is the filename a manifest is persisted under, beside the
// bundle's rules/ directory.
const ManifestFile = "manifest.json"

// Tier is a bundle's commercial pricing tier.
type Tier string

const (
	TierFree       Tier = "free"
	TierPaid       Tier = "paid"
	TierEnterprise Tier = "enterprise"
)

// tierDirs are the directory names that qualify a bundle's name with its
// parent (e.g. bundles/free/owasp-llm-basic has the qualified name
// "free/owasp-llm-basic").
var tierDirs = map[string]bool{
	"free":        true,
	"ai-enhanced": true,
	"enterprise":  true,
}

// Metadata is the aggregate metadata block of a manifest.
type Metadata struct {
	RuleCount          int                 `json:"rule_count"`
	Categories         []string            `json:"categories"`
	Severities         []string            `json:"severities"`
	Standards          map[string][]string `json:"standards"`
	CompatibleScanners []string            `json:"compatible_scanners"`
	MinScannerVersion  string              `json:"min_scanner_version"`
}

// Manifest describes one distributable rule bundle.
type Manifest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Version       string   `json:"version"`
	ArtifactType  string   `json:"artifact_type"`
	PricingTier   Tier     `json:"pricing_tier"`
	Author        string   `json:"author"`
	License       string   `json:"license"`
	Homepage      string   `json:"homepage"`
	Documentation string   `json:"documentation"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	Artifacts     []string `json:"artifacts"`
	Dependencies  []string `json:"dependencies"`
	Tags          []string `json:"tags"`
	Metadata      Metadata `json:"metadata"`
}

// QualifiedName returns the bundle's full name: "parent/name" when the
// immediate parent directory is a tier directory, plain "name" otherwise.
// Directory position is only a naming seed; the generated manifest stores
// the pricing tier explicitly and is authoritative afterwards.
func QualifiedName(bundleDir string) string {
	name := filepath.Base(bundleDir)
	parent := filepath.Base(filepath.Dir(bundleDir))
	if tierDirs[parent] {
		return parent + "/" + name
	}
	return name
}

// PricingTier classifies a qualified bundle name into a tier. The classifier
// is substring-based: "free" (or the basic OWASP bundle) wins over
// everything, so a bundle under ai-enhanced/ whose name contains "free" is
// still free; otherwise ai-enhanced, pro, and compliance bundles are paid,
// and the rest is enterprise.
func PricingTier(qualifiedName string) Tier {
	switch {
	case strings.Contains(qualifiedName, "free"),
		strings.Contains(qualifiedName, "owasp-llm-basic"):
		return TierFree
	case strings.Contains(qualifiedName, "ai-enhanced"),
		strings.Contains(qualifiedName, "pro"),
		strings.Contains(qualifiedName, "compliance"):
		return TierPaid
	default:
		return TierEnterprise
	}
}

// Builder generates bundle manifests. The zero value is not usable; call
// NewBuilder.
type Builder struct {
	catalog *Catalog
	now     func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithCatalog sets the bundle info catalog used for descriptions and
// authorship fields.
func WithCatalog(c *Catalog) BuilderOption {
	return func(b *Builder) { b.catalog = c }
}

// WithClock overrides the timestamp source. Intended for tests.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a manifest Builder with the given options.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		catalog: DefaultCatalog(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build analyzes a bundle directory and produces its manifest. The analysis
// is returned alongside so callers can surface defaulted rule files.
func (b *Builder) Build(bundleDir string) (*Manifest, *Analysis, error) {
	analysis, err := Analyze(bundleDir)
	if err != nil {
		return nil, nil, err
	}

	name := filepath.Base(bundleDir)
	qualified := QualifiedName(bundleDir)
	stamp := b.now().UTC().Format(time.RFC3339)

	artifacts := make([]string, 0, len(analysis.RuleFiles))
	for _, f := range analysis.RuleFiles {
		artifacts = append(artifacts, "rules/"+f)
	}

	tags := append([]string{}, analysis.Categories...)
	for _, sev := range analysis.Severities {
		tags = append(tags, "severity-"+sev)
	}

	m := &Manifest{
		ID:            bundleID(name),
		Name:          rules.TitleFromStem(name),
		Description:   b.catalog.Description(qualified),
		Version:       "1.0.0",
		ArtifactType:  ArtifactTypeRuleBundle,
		PricingTier:   PricingTier(qualified),
		Author:        b.catalog.Author,
		License:       b.catalog.License,
		Homepage:      b.catalog.Homepage,
		Documentation: b.catalog.Documentation,
		CreatedAt:     stamp,
		UpdatedAt:     stamp,
		Artifacts:     artifacts,
		Dependencies:  []string{},
		Tags:          tags,
		Metadata: Metadata{
			RuleCount:          analysis.RuleCount,
			Categories:         analysis.Categories,
			Severities:         analysis.Severities,
			Standards:          analysis.Standards,
			CompatibleScanners: []string{"tavoai", "semgrep", "opengrep"},
			MinScannerVersion:  "1.0.0",
		},
	}
	return m, analysis, nil
}

// bundleID normalizes a bundle directory name into a namespaced manifest id.
// The namespace prefix is added unless the name already carries it, so that
// generated manifests always pass their own prefix validation.
func bundleID(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "_", "-")
	if !strings.HasPrefix(name, "tavoai-") {
		name = "tavoai-" + name
	}
	return name
}

// WriteManifest persists a manifest as manifest.json inside the bundle
// directory with 2-space indentation.
func WriteManifest(bundleDir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest for %s: %w", bundleDir, err)
	}
	path := filepath.Join(bundleDir, ManifestFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadManifest reads and decodes a manifest.json file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
