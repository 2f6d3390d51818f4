// Package tui provides a read-only BubbleTea browser over the evaluation
// rows persisted by internal/store, re-themed from the teacher's
// list-and-detail search interface onto TEDS sample results instead of
// search hits. The "/" filter box reuses the teacher's bubbles/textinput
// search-bar idiom, narrowed here to a substring match over sample ids
// instead of a live semantic query.
//
// Layout:
//
//	┌─────────────────────────────────────┐
//	│  docmetrics  evaluation browser      │  ← header
//	│  ❯ <filter input>                    │  ← filter bar
//	│  ─────────────────────────────────  │  ← divider
//	│  0.940  sample-001  <run id>         │  ← rows
//	│  0.810  sample-002  <run id>         │
//	│  ...                                │
//	│  ─────────────────────────────────  │  ← divider
//	│  12/12 rows  / filter  ↑↓ nav  ^q quit│  ← status bar
//	└─────────────────────────────────────┘
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docling-project/docling-metrics/internal/store"
)

var (
	colorAccent  = lipgloss.Color("#7C6AF7")
	colorDim     = lipgloss.Color("#555555")
	colorMuted   = lipgloss.Color("#888888")
	colorText    = lipgloss.Color("#DDDDDD")
	colorSubdued = lipgloss.Color("#444444")
	colorScore   = lipgloss.Color("#5ECEF5")
	colorErr     = lipgloss.Color("#FF6B6B")

	sTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	sMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	sDim     = lipgloss.NewStyle().Foreground(colorDim)
	sScore   = lipgloss.NewStyle().Foreground(colorScore).Bold(true)
	sID      = lipgloss.NewStyle().Foreground(colorText)
	sErr     = lipgloss.NewStyle().Foreground(colorErr)
	sAccent  = lipgloss.NewStyle().Foreground(colorAccent)
	sDivider = lipgloss.NewStyle().Foreground(colorSubdued)
	sSel     = lipgloss.NewStyle().Background(lipgloss.Color("#1E1A3A")).Foreground(colorText)
	sHint    = lipgloss.NewStyle().Foreground(colorDim).Background(lipgloss.Color("#111111"))
)

// Model is the BubbleTea application model: a static list of rows with a
// scrolling cursor and an optional "/" substring filter over sample ids,
// no live querying.
type Model struct {
	rows      []store.Row
	filter    textinput.Model
	filtering bool
	cursor    int
	width     int
	height    int
}

// New creates a Model over the given rows, most-recent-first as returned
// by store.Store.ListAll.
func New(rows []store.Row) Model {
	ti := textinput.New()
	ti.Placeholder = "filter by sample id…"
	ti.CharLimit = 128
	ti.Width = 40
	ti.PromptStyle = sAccent
	ti.Prompt = "❯ "
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	return Model{rows: rows, filter: ti}
}

// Init is the BubbleTea init hook; this model needs no initial command.
func (m Model) Init() tea.Cmd { return nil }

// visible returns the indices into m.rows that match the current filter
// (a case-insensitive substring match on the sample id), in the order
// rows were loaded, or every index when no filter is set.
func (m Model) visible() []int {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	if q == "" {
		idx := make([]int, len(m.rows))
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	var idx []int
	for i, r := range m.rows {
		if strings.Contains(strings.ToLower(r.Eval.ID), q) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Update processes messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filter.Width = clamp(m.width-8, 10, 60)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "esc":
				m.filter.SetValue("")
				m.filter.Blur()
				m.filtering = false
				m.cursor = 0
				return m, nil
			case "enter":
				m.filter.Blur()
				m.filtering = false
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			if n := len(m.visible()); m.cursor >= n {
				m.cursor = n - 1
			}
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "ctrl+q", "q":
			return m, tea.Quit
		case "/":
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink
		case "up", "ctrl+p", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "ctrl+n", "j":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// View renders the current frame.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	var b strings.Builder
	divider := sDivider.Render(strings.Repeat("─", clamp(m.width-2, 10, 200)))

	fmt.Fprintln(&b, "  "+sTitle.Render("docmetrics")+"  "+sMuted.Render("evaluation browser"))
	if m.filtering || m.filter.Value() != "" {
		fmt.Fprintln(&b, "  "+m.filter.View())
	}
	fmt.Fprintln(&b, "  "+divider)

	visible := m.visible()
	if len(m.rows) == 0 {
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, sMuted.Render("  no evaluations recorded yet"))
	} else if len(visible) == 0 {
		fmt.Fprintln(&b, "")
		fmt.Fprintln(&b, sMuted.Render("  no rows match the filter"))
	} else {
		maxRows := clamp(m.height-6, 1, len(visible))
		m.renderRows(&b, visible, maxRows)
	}

	b.WriteString("\n  " + divider + "\n")
	m.renderStatusBar(&b, len(visible))
	return b.String()
}

func (m Model) renderRows(b *strings.Builder, visible []int, maxRows int) {
	for pos, i := range visible {
		if pos >= maxRows {
			fmt.Fprintf(b, "  %s\n", sDim.Render(fmt.Sprintf("… %d more", len(visible)-pos)))
			break
		}
		r := m.rows[i]

		var scoreStr string
		if r.Eval.ErrorID != 0 {
			scoreStr = sErr.Render(fmt.Sprintf("err:%d", r.Eval.ErrorID))
		} else {
			scoreStr = sScore.Render(fmt.Sprintf("%.3f", r.Eval.TEDS))
		}
		line := fmt.Sprintf("  %-10s  %s  %s", scoreStr, sID.Render(r.Eval.ID), sDim.Render(r.RunID))

		if pos == m.cursor {
			pad := clamp(m.width-visibleLen(line)-2, 0, m.width)
			line = sSel.Render(line + strings.Repeat(" ", pad))
		}
		fmt.Fprintln(b, line)
	}
}

func (m Model) renderStatusBar(b *strings.Builder, visibleCount int) {
	left := sDim.Render(fmt.Sprintf("  %d/%d rows", visibleCount, len(m.rows)))
	right := sHint.Render("/ filter  ↑↓ nav  ^q quit  ")
	fmt.Fprint(b, padBetween(left, right, m.width))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func padBetween(left, right string, width int) string {
	lv := visibleLen(left)
	rv := visibleLen(right)
	gap := width - lv - rv - 2
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, c := range s {
		if c == '\x1b' {
			inEsc = true
		}
		if inEsc {
			if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}
