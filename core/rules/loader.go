package rules

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tavoai/tavo-rules/core/findings"
	"gopkg.in/yaml.v3"
)

// LoadResult is the outcome of loading one rule document. Parse failures
// never propagate as errors: the document degrades to a default derived from
// the filename, Defaulted is set, and ParseError carries the reason so that
// callers can distinguish a genuinely minimal rule from a corrupt file.
type LoadResult struct {
	Path       string
	Doc        Document
	Defaulted  bool
	ParseError string
}

// Load reads and parses a single YAML rule document. It never returns an
// error; see LoadResult for how failures are reported.
func Load(path string) LoadResult {
	res := LoadResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Doc = defaultDocument(path)
		res.Defaulted = true
		res.ParseError = "reading file: " + err.Error()
		return res
	}

	content := string(data)
	if contaminated(content) {
		res.Doc = defaultDocument(path)
		res.Defaulted = true
		res.ParseError = "file contains shell heredoc markers, likely corrupted"
		return res
	}

	if strings.TrimSpace(content) == "" {
		res.Doc = defaultDocument(path)
		res.Defaulted = true
		res.ParseError = "empty document"
		return res
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		res.Doc = defaultDocument(path)
		res.Defaulted = true
		res.ParseError = "parsing YAML: " + err.Error()
		return res
	}
	if doc.ID == "" && doc.Name == "" && doc.RuleType == "" {
		// Parsed but carries none of the identity fields; treat as empty.
		res.Doc = defaultDocument(path)
		res.Defaulted = true
		res.ParseError = "document has no identity fields"
		return res
	}

	if doc.Version == "" {
		doc.Version = "1.0"
	}
	if doc.Severity == "" {
		doc.Severity = findings.SeverityMedium
	}

	res.Doc = doc
	return res
}

// contaminated reports whether content carries the shell-heredoc markers that
// indicate a rule file was mangled by a copy-paste of its authoring command.
func contaminated(content string) bool {
	return strings.Contains(content, "cat >") ||
		strings.Contains(content, "<<") ||
		strings.Contains(content, "EOF")
}

// defaultDocument builds the substitute document for an unparseable rule
// file, derived purely from the filename.
func defaultDocument(path string) Document {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Document{
		ID:          stem,
		Name:        TitleFromStem(stem),
		Version:     "1.0",
		Category:    "security",
		Subcategory: "unknown",
		Severity:    findings.SeverityMedium,
		Standards:   Standards{},
		Tags:        []string{},
	}
}
