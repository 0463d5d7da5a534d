package tui

import (
	"strings"

	"github.com/tavoai/tavo-rules/core/validate"
)

// kindOrder defines the cycle order for the kind filter toggle.
var kindOrder = []string{"rule", "manifest"}

// filterState tracks the active filter configuration.
type filterState struct {
	kindIdx    int    // -1 = all, 0..1 = specific result kind
	onlyFailed bool   // true hides valid files
	search     string // free-text search query
	searching  bool   // true when search input is active
}

func newFilterState() filterState {
	return filterState{kindIdx: -1}
}

// cycleKind advances the kind filter to the next value.
func (f *filterState) cycleKind() {
	f.kindIdx++
	if f.kindIdx >= len(kindOrder) {
		f.kindIdx = -1
	}
}

// activeKind returns the current kind filter, or "all".
func (f *filterState) activeKind() string {
	if f.kindIdx < 0 {
		return "all"
	}
	return kindOrder[f.kindIdx]
}

// matchesResult returns true if the result passes all active filters.
func (f *filterState) matchesResult(res validate.Result) bool {
	if f.kindIdx >= 0 && res.Kind != kindOrder[f.kindIdx] {
		return false
	}
	if f.onlyFailed && res.Valid {
		return false
	}

	if f.search != "" {
		q := strings.ToLower(f.search)
		if strings.Contains(strings.ToLower(res.Path), q) {
			return true
		}
		for _, e := range res.Errors {
			if strings.Contains(strings.ToLower(e), q) {
				return true
			}
		}
		return false
	}

	return true
}

// filterResults returns results that pass the active filters.
func (f *filterState) filterResults(all []validate.Result) []validate.Result {
	var out []validate.Result
	for _, res := range all {
		if f.matchesResult(res) {
			out = append(out, res)
		}
	}
	return out
}
