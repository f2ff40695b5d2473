package pattern

import (
	"testing"
)

func TestHeadingLevelsAreExclusive(t *testing.T) {
	text := "# one\n## two\n### three\n#### four\nplain"

	h1, err := Find(Heading1, text)
	if err != nil {
		t.Fatalf("match heading1: %v", err)
	}
	if len(h1) != 1 || text[h1[0].Content.Start:h1[0].Content.End] != "one" {
		t.Fatalf("unexpected heading1 matches: %+v", h1)
	}

	h2, err := Find(Heading2, text)
	if err != nil {
		t.Fatalf("match heading2: %v", err)
	}
	if len(h2) != 1 || text[h2[0].Content.Start:h2[0].Content.End] != "two" {
		t.Fatalf("unexpected heading2 matches: %+v", h2)
	}

	h3, err := Find(Heading3, text)
	if err != nil {
		t.Fatalf("match heading3: %v", err)
	}
	if len(h3) != 1 || text[h3[0].Content.Start:h3[0].Content.End] != "three" {
		t.Fatalf("unexpected heading3 matches: %+v", h3)
	}
}

func TestHeadingRequiresSpaceAfterMarker(t *testing.T) {
	matches, err := Find(Heading1, "#no space")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %+v", matches)
	}
}

func TestBoldIsNonGreedy(t *testing.T) {
	text := "**a** and **b**"
	matches, err := Find(Bold, text)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if got := text[matches[0].Content.Start:matches[0].Content.End]; got != "a" {
		t.Fatalf("first content = %q", got)
	}
	if got := text[matches[1].Content.Start:matches[1].Content.End]; got != "b" {
		t.Fatalf("second content = %q", got)
	}
	if len(matches[0].Syntax) != 2 {
		t.Fatalf("expected two delimiter ranges, got %d", len(matches[0].Syntax))
	}
}

func TestTodoMarkers(t *testing.T) {
	cases := []struct {
		name    Name
		text    string
		matches int
	}{
		{TodoUnchecked, "- [ ] buy milk", 1},
		{TodoUnchecked, "* [ ] buy milk", 1},
		{TodoUnchecked, "- [x] done", 0},
		{TodoChecked, "- [x] done", 1},
		{TodoChecked, "- [X] done", 1},
		{TodoChecked, "* [x] done", 1},
		{TodoUnchecked, "  - [ ] indented does not count", 0},
	}
	for _, tc := range cases {
		got, err := Find(tc.name, tc.text)
		if err != nil {
			t.Fatalf("match %s: %v", tc.name, err)
		}
		if len(got) != tc.matches {
			t.Fatalf("%s on %q: expected %d matches, got %d", tc.name, tc.text, tc.matches, len(got))
		}
		if tc.matches == 1 && got[0].Syntax[0].Len() != TodoMarkerLen {
			t.Fatalf("marker length = %d, want %d", got[0].Syntax[0].Len(), TodoMarkerLen)
		}
	}
}

func TestIsTodoLine(t *testing.T) {
	content, checked, ok := IsTodoLine("- [ ] buy milk")
	if !ok || checked || content != " buy milk" {
		t.Fatalf("unexpected result: %q %v %v", content, checked, ok)
	}
	content, checked, ok = IsTodoLine("- [x] done")
	if !ok || !checked || content != " done" {
		t.Fatalf("unexpected result: %q %v %v", content, checked, ok)
	}
	if _, _, ok := IsTodoLine("plain line"); ok {
		t.Fatal("plain line should not match")
	}
}

func TestLineAt(t *testing.T) {
	text := "first\nsecond\nthird"
	cases := []struct {
		off        int
		start, end int
	}{
		{0, 0, 5},
		{5, 0, 5},
		{6, 6, 12},
		{18, 13, 18},
	}
	for _, tc := range cases {
		got := LineAt(text, tc.off)
		if got.Start != tc.start || got.End != tc.end {
			t.Fatalf("LineAt(%d) = %+v, want [%d,%d)", tc.off, got, tc.start, tc.end)
		}
	}
}

func TestMatchUnknownPattern(t *testing.T) {
	if _, err := Find(Name("nope"), "text"); err == nil {
		t.Fatal("expected error for unknown pattern")
	}
	if _, err := Find(DateMention, "text"); err == nil {
		t.Fatal("expected error for dateMention without reference time")
	}
}
