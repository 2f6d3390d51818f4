package bracket

import "testing"

func TestValidateBalanced(t *testing.T) {
	cases := []string{
		"{table{tr{td}{td}}}",
		"{a}",
		"{a{b}{c{d}}}",
	}
	for _, c := range cases {
		if err := Validate(c); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", c, err)
		}
	}
}

func TestValidateUnbalanced(t *testing.T) {
	cases := []string{
		"{table{tr{td}{td}}",
		"{table}}",
		"}{",
		"{a{b}",
	}
	for _, c := range cases {
		if err := Validate(c); err == nil {
			t.Errorf("Validate(%q) = nil, want error", c)
		}
	}
}

func TestParseSimple(t *testing.T) {
	dict := NewLabelDict()
	node, err := Parse("{table{tr{td}{td}}}", dict)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if node.Label != "table" {
		t.Fatalf("root label = %q, want table", node.Label)
	}
	if len(node.Children) != 1 || node.Children[0].Label != "tr" {
		t.Fatalf("unexpected child structure: %#v", node)
	}
	tr := node.Children[0]
	if len(tr.Children) != 2 || tr.Children[0].Label != "td" || tr.Children[1].Label != "td" {
		t.Fatalf("unexpected tr children: %#v", tr.Children)
	}
	if got, want := node.TreeSize(), 4; got != want {
		t.Errorf("TreeSize() = %d, want %d", got, want)
	}
}

func TestParseSharedDict(t *testing.T) {
	dict := NewLabelDict()
	a, err := Parse("{x{y}}", dict)
	if err != nil {
		t.Fatalf("Parse(a) error: %v", err)
	}
	b, err := Parse("{x{y}}", dict)
	if err != nil {
		t.Fatalf("Parse(b) error: %v", err)
	}
	if dict.ID("x") != dict.ID(a.Label) || dict.ID("y") != dict.ID(b.Children[0].Label) {
		t.Fatalf("labels not interned consistently across trees")
	}
	if a.Label != b.Label {
		t.Errorf("interned labels should be equal across trees: %q vs %q", a.Label, b.Label)
	}
}

func TestParseMalformed(t *testing.T) {
	dict := NewLabelDict()
	if _, err := Parse("{table{tr{td}", dict); err == nil {
		t.Error("Parse(unterminated) = nil error, want error")
	}
	if _, err := Parse("table", dict); err == nil {
		t.Error("Parse(no braces) = nil error, want error")
	}
	if _, err := Parse("{a}{b}", dict); err == nil {
		t.Error("Parse(trailing content) = nil error, want error")
	}
}

func TestLabelDictUnknown(t *testing.T) {
	dict := NewLabelDict()
	if id := dict.ID("nope"); id != -1 {
		t.Errorf("ID(unseen) = %d, want -1", id)
	}
	dict.Intern("a")
	if id := dict.ID("a"); id != 0 {
		t.Errorf("ID(a) = %d, want 0", id)
	}
}
