package overlay

import (
	"testing"
	"time"

	"github.com/sandeepkv93/noted/internal/editor"
	"github.com/sandeepkv93/noted/internal/pattern"
	"github.com/sandeepkv93/noted/internal/restyle"
)

var testNow = time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)

// lineColMeasurer maps a byte range to (line, byte column): good enough
// geometry for exercising reconcile and hit testing.
type lineColMeasurer struct {
	text string
}

func (m lineColMeasurer) MeasureRange(r pattern.Range) (Geometry, bool) {
	if r.Start < 0 || r.Start > len(m.text) {
		return Geometry{}, false
	}
	line, col := 0, 0
	for i := 0; i < r.Start; i++ {
		if m.text[i] == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	width := r.Len()
	if width < 1 {
		width = 1
	}
	return Geometry{Line: line, Col: col, Width: width}, true
}

func newStyled(text string) restyle.Result {
	r := restyle.New(restyle.DefaultTheme(), restyle.WithClock(func() time.Time { return testNow }))
	return r.Restyle(text)
}

func TestReconcileRebuildsWholesale(t *testing.T) {
	m := NewManager()
	first := newStyled("- [ ] one\n- [x] two")
	m.Reconcile(first, lineColMeasurer{text: first.Text})
	if len(m.Controls()) != 2 {
		t.Fatalf("controls = %+v", m.Controls())
	}

	second := newStyled("plain text")
	m.Reconcile(second, lineColMeasurer{text: second.Text})
	if len(m.Controls()) != 0 {
		t.Fatalf("stale controls survived reconcile: %+v", m.Controls())
	}
}

func TestControlAtHitTest(t *testing.T) {
	m := NewManager()
	res := newStyled("intro\n- [ ] buy milk")
	m.Reconcile(res, lineColMeasurer{text: res.Text})

	ctrl, ok := m.ControlAt(1, 0)
	if !ok || ctrl.Descriptor.Kind != restyle.OverlayCheckbox {
		t.Fatalf("hit test missed checkbox: %+v %v", ctrl, ok)
	}
	if _, ok := m.ControlAt(0, 0); ok {
		t.Fatal("hit on a line without controls")
	}
	if _, ok := m.ControlAt(1, 40); ok {
		t.Fatal("hit outside control bounds")
	}
}

func TestCheckboxActivationTogglesThroughController(t *testing.T) {
	r := restyle.New(restyle.DefaultTheme(), restyle.WithClock(func() time.Time { return testNow }))
	ed := editor.NewController(r, editor.Callbacks{})
	ed.Attach("- [ ] buy milk")

	m := NewManager()
	res := ed.Styled()
	m.Reconcile(res, lineColMeasurer{text: res.Text})
	ctrl, ok := m.ControlOnLine(0, restyle.OverlayCheckbox)
	if !ok {
		t.Fatal("no checkbox control")
	}

	pending, toggled := m.Activate(ctrl, ed)
	if pending != nil {
		t.Fatalf("checkbox activation produced pending date: %+v", pending)
	}
	if !toggled {
		t.Fatal("activation did not toggle")
	}
	if ed.Text() != "- [x] buy milk" {
		t.Fatalf("text = %q", ed.Text())
	}
}

func TestStaleActivationIsSilentNoOp(t *testing.T) {
	r := restyle.New(restyle.DefaultTheme(), restyle.WithClock(func() time.Time { return testNow }))
	ed := editor.NewController(r, editor.Callbacks{})
	ed.Attach("- [ ] buy milk")

	m := NewManager()
	res := ed.Styled()
	m.Reconcile(res, lineColMeasurer{text: res.Text})
	ctrl, _ := m.ControlOnLine(0, restyle.OverlayCheckbox)

	// The buffer changes between materialization and the tap.
	ed.Replace(0, len(ed.Text()), "rewritten entirely")
	if _, toggled := m.Activate(ctrl, ed); toggled {
		t.Fatal("stale activation mutated the buffer")
	}
	if ed.Text() != "rewritten entirely" {
		t.Fatalf("text = %q", ed.Text())
	}
}

func TestDateLinkActivationIsDeferred(t *testing.T) {
	r := restyle.New(restyle.DefaultTheme(), restyle.WithClock(func() time.Time { return testNow }))
	ed := editor.NewController(r, editor.Callbacks{})
	ed.Attach("dentist tomorrow")

	m := NewManager()
	res := ed.Styled()
	m.Reconcile(res, lineColMeasurer{text: res.Text})
	ctrl, ok := m.ControlOnLine(0, restyle.OverlayDateLink)
	if !ok {
		t.Fatal("no date link control")
	}

	pending, toggled := m.Activate(ctrl, ed)
	if toggled {
		t.Fatal("date link must not mutate")
	}
	if pending == nil || pending.Context != "dentist tomorrow" {
		t.Fatalf("pending = %+v", pending)
	}
	if ed.Text() != "dentist tomorrow" {
		t.Fatalf("text = %q", ed.Text())
	}
}

func TestDescriptorsAreCarriedByValue(t *testing.T) {
	m := NewManager()
	res := newStyled("- [ ] item")
	m.Reconcile(res, lineColMeasurer{text: res.Text})
	ctrl, _ := m.ControlOnLine(0, restyle.OverlayCheckbox)

	res.Overlays[0].Checked = true
	if ctrl.Descriptor.Checked {
		t.Fatal("control shares state with the descriptor slice")
	}
}
