package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/docling-project/docling-metrics/internal/store"
	"github.com/docling-project/docling-metrics/internal/teds"
)

func sampleRows() []store.Row {
	return []store.Row{
		{RunID: "run-1", Eval: teds.SampleEval{ID: "a", TEDS: 0.9}},
		{RunID: "run-1", Eval: teds.SampleEval{ID: "b", TEDS: 0.5}},
		{RunID: "run-1", Eval: teds.SampleEval{ID: "c", ErrorID: 1, ErrorMsg: "bad"}},
	}
}

func TestModelCursorNavigation(t *testing.T) {
	m := New(sampleRows())
	m2, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = m2.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.cursor)
	}
	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = m2.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor after up = %d, want 0", m.cursor)
	}
}

func TestModelCursorBounds(t *testing.T) {
	m := New(sampleRows())
	for i := 0; i < 10; i++ {
		m2, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = m2.(Model)
	}
	if m.cursor != len(m.rows)-1 {
		t.Errorf("cursor = %d, want clamped to %d", m.cursor, len(m.rows)-1)
	}
}

func TestModelQuitOnCtrlQ(t *testing.T) {
	m := New(sampleRows())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	msg := cmd()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestModelViewEmptyBeforeWindowSize(t *testing.T) {
	m := New(sampleRows())
	if got := m.View(); got != "" {
		t.Errorf("View() before WindowSizeMsg = %q, want empty", got)
	}
}

func TestModelViewRendersRows(t *testing.T) {
	m := New(sampleRows())
	m2, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = m2.(Model)
	view := m.View()
	if !strings.Contains(view, "a") || !strings.Contains(view, "b") {
		t.Errorf("View() missing expected sample ids:\n%s", view)
	}
}

func TestModelViewEmptyRows(t *testing.T) {
	m := New(nil)
	m2, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = m2.(Model)
	if view := m.View(); !strings.Contains(view, "no evaluations") {
		t.Errorf("View() with no rows should mention empty state, got:\n%s", view)
	}
}

func TestModelFilterNarrowsVisibleRows(t *testing.T) {
	m := New(sampleRows())
	m2, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = m2.(Model)

	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = m2.(Model)
	if !m.filtering {
		t.Fatal("expected filtering mode after '/'")
	}

	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	m = m2.(Model)

	visible := m.visible()
	if len(visible) != 1 || m.rows[visible[0]].Eval.ID != "b" {
		t.Errorf("visible() = %v, want only row %q", visible, "b")
	}

	view := m.View()
	if strings.Contains(view, "no rows match") {
		t.Errorf("View() should show the matching row, got:\n%s", view)
	}
}

func TestModelFilterEscClearsAndResetsCursor(t *testing.T) {
	m := New(sampleRows())
	m2, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = m2.(Model)

	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = m2.(Model)
	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = m2.(Model)
	m2, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = m2.(Model)

	if m.filtering {
		t.Error("expected filtering to end on esc")
	}
	if m.filter.Value() != "" {
		t.Errorf("filter value = %q, want cleared", m.filter.Value())
	}
	if m.cursor != 0 {
		t.Errorf("cursor after esc = %d, want 0", m.cursor)
	}
	if len(m.visible()) != len(m.rows) {
		t.Errorf("visible() after clearing filter = %d rows, want all %d", len(m.visible()), len(m.rows))
	}
}
