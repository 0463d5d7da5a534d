package rules

import "strings"

// Canonical identifier prefixes for the prefixed standards.
const (
	PrefixCWE   = "CWE-"
	PrefixCAPEC = "CAPEC-"
)

// ExtractIDs returns the bare identifiers from a standards entry, stripping
// the given prefix when present. Authors mix prefixed and bare forms
// ("CWE-77" and "77" both appear in the corpus), so extraction tolerates both.
func ExtractIDs(refs StandardRefs, prefix string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, strings.TrimPrefix(ref, prefix))
	}
	return out
}

// MergeStandards unions the entries of src into dst. Values are deduplicated;
// ordering is left to the caller (the bundle analyzer sorts on output).
func MergeStandards(dst map[string]map[string]struct{}, src Standards) {
	for name, refs := range src {
		set, ok := dst[name]
		if !ok {
			set = make(map[string]struct{})
			dst[name] = set
		}
		for _, ref := range refs {
			set[ref] = struct{}{}
		}
	}
}
