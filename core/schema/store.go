// Package schema holds the JSON Schemas that rule documents and bundle
// manifests are validated against. Schemas are compiled once per process;
// the compiled defaults are embedded so the tool works standalone, and a
// schemas directory can override them for repositories that pin their own.
package schema

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema filenames, matching the repository's schemas/ directory layout.
const (
	RuleSchemaFile     = "hybrid-rule-schema.json"
	ManifestSchemaFile = "bundle-manifest-schema.json"
)

//go:embed hybrid-rule-schema.json bundle-manifest-schema.json
var defaults embed.FS

// Store holds the compiled rule and manifest schemas.
type Store struct {
	rule     *jsonschema.Schema
	manifest *jsonschema.Schema
}

// NewStore compiles the embedded default schemas.
func NewStore() (*Store, error) {
	return newStore(func(name string) ([]byte, error) {
		return defaults.ReadFile(name)
	})
}

// NewStoreFromDir compiles schemas from the given directory. Files missing
// from the directory fall back to the embedded defaults.
func NewStoreFromDir(dir string) (*Store, error) {
	return newStore(func(name string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			return defaults.ReadFile(name)
		}
		return data, err
	})
}

func newStore(read func(name string) ([]byte, error)) (*Store, error) {
	s := &Store{}
	for _, sc := range []struct {
		file   string
		target **jsonschema.Schema
	}{
		{RuleSchemaFile, &s.rule},
		{ManifestSchemaFile, &s.manifest},
	} {
		data, err := read(sc.file)
		if err != nil {
			return nil, fmt.Errorf("loading schema %s: %w", sc.file, err)
		}
		compiled, err := jsonschema.CompileString(sc.file, string(data))
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", sc.file, err)
		}
		*sc.target = compiled
	}
	return s, nil
}

// ValidateRule checks a decoded rule document against the rule schema.
// The instance must be JSON-compatible; see Normalize.
func (s *Store) ValidateRule(instance any) error {
	return s.rule.Validate(instance)
}

// ValidateManifest checks a decoded manifest against the manifest schema.
func (s *Store) ValidateManifest(instance any) error {
	return s.manifest.Validate(instance)
}

// Normalize converts an arbitrary decoded document (typically from YAML)
// into the JSON-native representation the schema engine expects.
func Normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalizing document: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("normalizing document: %w", err)
	}
	return out, nil
}

// FormatError renders a schema validation error as a single line. For
// structured validation errors the deepest cause is reported, since that is
// the message an author can act on.
func FormatError(err error) string {
	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		leaf := ve
		for len(leaf.Causes) > 0 {
			leaf = leaf.Causes[0]
		}
		loc := leaf.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return fmt.Sprintf("%s: %s", loc, leaf.Message)
	}
	return err.Error()
}
