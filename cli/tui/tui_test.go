package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tavoai/tavo-rules/core/validate"
)

func sampleResults() []validate.Result {
	return []validate.Result{
		{Path: "free/basic/rules/good.yaml", Kind: "rule", Valid: true},
		{Path: "free/basic/rules/bad.yaml", Kind: "rule", Valid: false,
			Errors: []string{`Rule ID must start with "tavoai-": nope`}},
		{Path: "free/basic/manifest.json", Kind: "manifest", Valid: false,
			Errors: []string{"Artifact file not found: rules/missing.yaml"}},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestListView(t *testing.T) {
	m := New(sampleResults())
	out := m.View()

	for _, want := range []string{"1/3 files valid", "good.yaml", "bad.yaml", "manifest.json", "FAIL"} {
		if !strings.Contains(out, want) {
			t.Errorf("list view missing %q:\n%s", want, out)
		}
	}
}

func TestNavigationAndDetail(t *testing.T) {
	m := New(sampleResults())

	next, _ := m.Update(keyMsg("j"))
	m = next.(*Model)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d after down", m.cursor)
	}

	next, _ = m.Update(keyMsg("enter"))
	m = next.(*Model)
	if m.state != detailView {
		t.Fatal("enter should open detail view")
	}

	out := m.View()
	if !strings.Contains(out, "bad.yaml") || !strings.Contains(out, "must start with") {
		t.Fatalf("detail view wrong:\n%s", out)
	}

	next, _ = m.Update(keyMsg("esc"))
	m = next.(*Model)
	if m.state != listView {
		t.Fatal("esc should return to list view")
	}
}

func TestKindFilterCycle(t *testing.T) {
	m := New(sampleResults())

	next, _ := m.Update(keyMsg("t"))
	m = next.(*Model)
	if m.filter.activeKind() != "rule" || len(m.filtered) != 2 {
		t.Fatalf("kind filter: %s, %d items", m.filter.activeKind(), len(m.filtered))
	}

	next, _ = m.Update(keyMsg("t"))
	m = next.(*Model)
	if m.filter.activeKind() != "manifest" || len(m.filtered) != 1 {
		t.Fatalf("kind filter: %s, %d items", m.filter.activeKind(), len(m.filtered))
	}

	next, _ = m.Update(keyMsg("t"))
	m = next.(*Model)
	if m.filter.activeKind() != "all" || len(m.filtered) != 3 {
		t.Fatalf("kind filter should wrap to all: %s", m.filter.activeKind())
	}
}

func TestFailedFilter(t *testing.T) {
	m := New(sampleResults())

	next, _ := m.Update(keyMsg("f"))
	m = next.(*Model)
	if len(m.filtered) != 2 {
		t.Fatalf("failures filter kept %d items", len(m.filtered))
	}
	for _, res := range m.filtered {
		if res.Valid {
			t.Fatalf("valid result leaked through failures filter: %+v", res)
		}
	}
}

func TestSearchFilter(t *testing.T) {
	m := New(sampleResults())

	next, _ := m.Update(keyMsg("/"))
	m = next.(*Model)
	if !m.filter.searching {
		t.Fatal("search mode should be active")
	}
	for _, r := range "manifest" {
		next, _ = m.Update(keyMsg(string(r)))
		m = next.(*Model)
	}
	next, _ = m.Update(keyMsg("enter"))
	m = next.(*Model)

	if len(m.filtered) != 1 || m.filtered[0].Kind != "manifest" {
		t.Fatalf("search result: %+v", m.filtered)
	}
}

func TestSearchMatchesErrorText(t *testing.T) {
	m := New(sampleResults())
	m.filter.search = "artifact file not found"
	m.applyFilter()
	if len(m.filtered) != 1 || m.filtered[0].Kind != "manifest" {
		t.Fatalf("error-text search: %+v", m.filtered)
	}
}

func TestCursorClampedOnFilter(t *testing.T) {
	m := New(sampleResults())
	m.cursor = 2

	next, _ := m.Update(keyMsg("t")) // rule-only: 2 items
	m = next.(*Model)
	if m.cursor > len(m.filtered)-1 {
		t.Fatalf("cursor %d out of range for %d items", m.cursor, len(m.filtered))
	}
}

func TestQuit(t *testing.T) {
	m := New(sampleResults())
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit should produce a command")
	}
}
