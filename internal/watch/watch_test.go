package watch

import "testing"

func TestSampleBase(t *testing.T) {
	cases := []struct {
		path     string
		wantBase string
		wantOK   bool
	}{
		{"/data/sample-1.gt.bracket", "sample-1", true},
		{"/data/sample-1.pred.bracket", "sample-1", true},
		{"/data/sample-1.txt", "", false},
		{"/data/notes.md", "", false},
	}
	for _, c := range cases {
		base, ok := sampleBase(c.path)
		if ok != c.wantOK || base != c.wantBase {
			t.Errorf("sampleBase(%q) = (%q, %v), want (%q, %v)", c.path, base, ok, c.wantBase, c.wantOK)
		}
	}
}

func TestNewAssignsRunID(t *testing.T) {
	w, err := New(nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.fw.Close()
	if w.RunID() == "" {
		t.Error("RunID() is empty, want a generated uuid")
	}
}
