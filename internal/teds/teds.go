// Package teds orchestrates the Tree-Edit-Distance Similarity score: parse
// two bracket-notation trees (internal/bracket), compute their unit-cost
// tree-edit distance (internal/treeedit), and normalise to
// 1 - d/max(|T_a|,|T_b|). It is a direct port of teds_manager.h.
package teds

import (
	"errors"
	"sync"

	"github.com/docling-project/docling-metrics/internal/bracket"
	"github.com/docling-project/docling-metrics/internal/treeedit"
)

// ErrNotImplemented is returned by the stub entry points this package
// preserves rather than guesses at: HTML-to-bracket conversion and
// dataset-level aggregation were unimplemented in the original source.
var ErrNotImplemented = errors.New("teds: not implemented")

// Error ids surfaced on SampleEval.ErrorID. 0 means success.
const (
	ErrorNone            = 0
	ErrorMalformedA      = 1
	ErrorMalformedB      = 2
	ErrorZeroMaxTreeSize = 3
)

// SampleEval is the result of one evaluate_sample call.
type SampleEval struct {
	ID        string
	ErrorID   int
	ErrorMsg  string
	TreeASize int
	TreeBSize int
	TEDS      float64
}

// Manager owns a label dictionary shared across every tree it parses, and
// a mutex guarding it so a single Manager can be shared across worker
// goroutines (docmetrics teds-batch shards by worker instead, but sharing
// is supported for callers that prefer one Manager for a whole run).
type Manager struct {
	mu   sync.Mutex
	dict *bracket.LabelDict
}

// NewManager returns a Manager with a fresh, empty label dictionary.
func NewManager() *Manager {
	return &Manager{dict: bracket.NewLabelDict()}
}

// EvaluateSample parses bracketA and bracketB, computes their tree-edit
// distance, and returns the normalised TEDS score. On malformed input it
// returns error_id 1 (A) or 2 (B) with no further computation. When both
// trees have size 0 — impossible for a single well-formed bracket node,
// but the max-size denominator is guarded anyway — it returns error_id 3
// rather than dividing by zero.
func (m *Manager) EvaluateSample(id, bracketA, bracketB string) SampleEval {
	if err := bracket.Validate(bracketA); err != nil {
		return SampleEval{ID: id, ErrorID: ErrorMalformedA, ErrorMsg: err.Error(), TEDS: -1}
	}
	if err := bracket.Validate(bracketB); err != nil {
		return SampleEval{ID: id, ErrorID: ErrorMalformedB, ErrorMsg: err.Error(), TEDS: -1}
	}

	m.mu.Lock()
	treeA, errA := bracket.Parse(bracketA, m.dict)
	treeB, errB := bracket.Parse(bracketB, m.dict)
	m.mu.Unlock()

	if errA != nil {
		return SampleEval{ID: id, ErrorID: ErrorMalformedA, ErrorMsg: errA.Error(), TEDS: -1}
	}
	if errB != nil {
		return SampleEval{ID: id, ErrorID: ErrorMalformedB, ErrorMsg: errB.Error(), TEDS: -1}
	}

	sizeA, sizeB := treeA.TreeSize(), treeB.TreeSize()
	maxSize := sizeA
	if sizeB > maxSize {
		maxSize = sizeB
	}
	if maxSize == 0 {
		return SampleEval{
			ID: id, ErrorID: ErrorZeroMaxTreeSize, ErrorMsg: "teds: both trees have size 0",
			TreeASize: sizeA, TreeBSize: sizeB, TEDS: -1,
		}
	}

	d := treeedit.Distance(treeA, treeB)
	teds := 1.0 - float64(d)/float64(maxSize)

	return SampleEval{
		ID: id, ErrorID: ErrorNone, TreeASize: sizeA, TreeBSize: sizeB, TEDS: teds,
	}
}

// EvaluateHTMLSample would convert HTML table markup to bracket notation
// and then score it, but html_to_bracket was unimplemented in the source
// this package ports. Preserved as an explicit stub rather than guessed at.
func (m *Manager) EvaluateHTMLSample(id, htmlA, htmlB string, structureOnly bool) (SampleEval, error) {
	return SampleEval{}, ErrNotImplemented
}

// EvaluateDataset would compute dataset-level aggregate statistics over a
// batch of SampleEval results, a stub in the source this package ports.
func (m *Manager) EvaluateDataset(results []SampleEval) (any, error) {
	return nil, ErrNotImplemented
}

// Aggregate is a synonym kept for the source's own naming of the dataset
// aggregation stub.
func (m *Manager) Aggregate(results []SampleEval) (any, error) {
	return m.EvaluateDataset(results)
}
