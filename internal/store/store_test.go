package store

import (
	"path/filepath"
	"testing"

	"github.com/docling-project/docling-metrics/internal/teds"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "evals.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndListRun(t *testing.T) {
	s := openTestStore(t)
	eval := teds.SampleEval{ID: "sample-1", ErrorID: 0, TreeASize: 4, TreeBSize: 4, TEDS: 1.0}
	if err := s.Insert("run-1", eval); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	rows, err := s.ListRun("run-1")
	if err != nil {
		t.Fatalf("ListRun() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ListRun() = %d rows, want 1", len(rows))
	}
	if rows[0].Eval.ID != "sample-1" || rows[0].Eval.TEDS != 1.0 {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestInsertOverwritesSameSample(t *testing.T) {
	s := openTestStore(t)
	s.Insert("run-1", teds.SampleEval{ID: "sample-1", TEDS: 0.5})
	s.Insert("run-1", teds.SampleEval{ID: "sample-1", TEDS: 0.9})
	rows, err := s.ListRun("run-1")
	if err != nil {
		t.Fatalf("ListRun() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ListRun() = %d rows, want 1 (overwrite)", len(rows))
	}
	if rows[0].Eval.TEDS != 0.9 {
		t.Errorf("TEDS = %v, want 0.9 (latest write)", rows[0].Eval.TEDS)
	}
}

func TestListAllAcrossRuns(t *testing.T) {
	s := openTestStore(t)
	s.Insert("run-1", teds.SampleEval{ID: "a", TEDS: 1.0})
	s.Insert("run-2", teds.SampleEval{ID: "b", TEDS: 0.5})
	rows, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListAll() = %d rows, want 2", len(rows))
	}
}

func TestListRunEmpty(t *testing.T) {
	s := openTestStore(t)
	rows, err := s.ListRun("nonexistent")
	if err != nil {
		t.Fatalf("ListRun() error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("ListRun(nonexistent) = %d rows, want 0", len(rows))
	}
}
