package bundle

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Discover walks root and returns every directory that contains a rules/
// subdirectory, sorted by path. These are the bundle directories manifest
// generation and validation operate on.
func Discover(root string) ([]string, error) {
	var bundles []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		info, statErr := os.Stat(filepath.Join(path, "rules"))
		if statErr == nil && info.IsDir() {
			bundles = append(bundles, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering bundles under %s: %w", root, err)
	}
	sort.Strings(bundles)
	return bundles, nil
}
