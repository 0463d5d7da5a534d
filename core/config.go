// Package core holds project-level configuration shared by the CLI commands.
package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level configuration loaded from .tavorules.yaml.
type ProjectConfig struct {
	Bundles BundleSettings  `yaml:"bundles"`
	Quality QualitySettings `yaml:"quality"`
	Sync    SyncSettings    `yaml:"sync"`
	Explain ExplainSettings `yaml:"explain"`
}

// BundleSettings controls where bundles and the catalog file live.
type BundleSettings struct {
	Root    string `yaml:"root"`    // directory containing the bundles/ tree (default: ".")
	Catalog string `yaml:"catalog"` // path to a bundle catalog YAML file
}

// QualitySettings controls defaults for the test and quality commands.
type QualitySettings struct {
	SamplesDir string `yaml:"samples_dir"` // labeled sample tree (default: tests/samples)
	Language   string `yaml:"language"`    // sample language filter (default: python)
}

// SyncSettings controls defaults for the MIT AI Risk sync command.
type SyncSettings struct {
	SheetID   string `yaml:"sheet_id"`   // Google Sheets document ID
	OutputDir string `yaml:"output_dir"` // directory for generated rule files
	Limit     int    `yaml:"limit"`      // max risks to convert (0 = all)
}

// ExplainSettings controls defaults for the explain command.
type ExplainSettings struct {
	APIKeyEnv string `yaml:"api_key_env"` // env var name to read API key from (default: OPENAI_API_KEY)
	Model     string `yaml:"model"`       // LLM model name (default: gpt-4o)
	BaseURL   string `yaml:"base_url"`    // custom OpenAI-compatible API base URL
	BatchSize int    `yaml:"batch_size"`  // failures per LLM request (default: 10)
	Output    string `yaml:"output"`      // output file path (default: explanations.json)
}

// LoadProjectConfig reads .tavorules.yaml from root and returns the parsed
// config. If the file does not exist, a zero-value ProjectConfig is returned
// with no error.
func LoadProjectConfig(root string) (*ProjectConfig, error) {
	path := filepath.Join(root, ".tavorules.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ProjectConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}
