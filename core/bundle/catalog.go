package bundle

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogFile is the optional bundle info catalog, looked up relative to the
// bundles root. Editing it changes manifest descriptions without a rebuild.
const CatalogFile = "catalog.yaml"

// Catalog holds the presentation metadata stamped into manifests:
// per-bundle descriptions keyed by qualified name, plus shared authorship
// fields. It is configuration data, not behavior.
type Catalog struct {
	Descriptions  map[string]string `yaml:"descriptions"`
	Author        string            `yaml:"author"`
	License       string            `yaml:"license"`
	Homepage      string            `yaml:"homepage"`
	Documentation string            `yaml:"documentation"`
}

// DefaultCatalog returns the compiled-in catalog used when no catalog file
// is present beside the bundles.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Descriptions: map[string]string{
			"free/owasp-llm-basic":             "Heuristic-only OWASP LLM Top 10 rules for basic security scanning",
			"ai-enhanced/owasp-llm-pro":        "AI-enhanced OWASP LLM Top 10 analysis with deep contextual understanding",
			"ai-enhanced/iso-42001-compliance": "Comprehensive ISO 42001 AI governance compliance rules",
			"ai-enhanced/mit-ai-risk-repo":     "MIT AI Risk Repository rules covering emerging AI safety concerns",
			"ai-enhanced/ai-ethics":            "AI Ethics rules for fairness, transparency, and responsible AI development",
			"ai-enhanced/bias-detection":       "Bias detection rules for identifying and mitigating AI bias issues",
		},
		Author:        "TavoAI Security Team",
		License:       "MIT",
		Homepage:      "https://github.com/TavoAI/tavo-rules",
		Documentation: "https://docs.tavoai.com/rules",
	}
}

// LoadCatalog reads a catalog file, filling unset fields from the defaults.
// A missing file returns the defaults without error.
func LoadCatalog(path string) (*Catalog, error) {
	def := DefaultCatalog()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if c.Descriptions == nil {
		c.Descriptions = def.Descriptions
	}
	if c.Author == "" {
		c.Author = def.Author
	}
	if c.License == "" {
		c.License = def.License
	}
	if c.Homepage == "" {
		c.Homepage = def.Homepage
	}
	if c.Documentation == "" {
		c.Documentation = def.Documentation
	}
	return &c, nil
}

// Description resolves a bundle description: exact match on the qualified
// name first, then substring match in either direction, then a generic
// templated fallback.
func (c *Catalog) Description(qualifiedName string) string {
	if desc, ok := c.Descriptions[qualifiedName]; ok {
		return desc
	}
	// Sorted iteration keeps the substring fallback deterministic when more
	// than one key matches.
	keys := make([]string, 0, len(c.Descriptions))
	for key := range c.Descriptions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(qualifiedName, key) || strings.Contains(key, qualifiedName) {
			return c.Descriptions[key]
		}
	}
	return fmt.Sprintf("TavoAI security rules bundle: %s", qualifiedName)
}
