// Package text is the TextManager facade: it binds internal/treebank's
// tokenizer to internal/editdist's scorer, mirroring text_manager.h in the
// original source.
package text

import (
	"github.com/docling-project/docling-metrics/internal/editdist"
	"github.com/docling-project/docling-metrics/internal/treebank"
)

// Manager owns one compiled Tokenizer and exposes the two public text
// operations as methods. It holds no other mutable state and is safe for
// concurrent use.
type Manager struct {
	tok *treebank.Tokenizer
}

// New constructs a Manager with a freshly compiled Tokenizer.
func New() *Manager {
	return &Manager{tok: treebank.New()}
}

// Tokenize runs the Penn-Treebank-style pipeline over text.
func (m *Manager) Tokenize(text string, convertParentheses bool) []string {
	return m.tok.Tokenize(text, convertParentheses)
}

// EditDistance scores two already-tokenized sequences with the Myers
// bit-vector kernel, normalised to [0,1].
func (m *Manager) EditDistance(a, b []string) float64 {
	return editdist.EditDistance(a, b)
}
