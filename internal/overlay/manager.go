package overlay

import (
	"time"

	"github.com/sandeepkv93/noted/internal/pattern"
	"github.com/sandeepkv93/noted/internal/restyle"
)

// Geometry is a control's position in host cells: a line, a starting
// column and a width, all in visible-glyph coordinates.
type Geometry struct {
	Line  int
	Col   int
	Width int
}

// Measurer is the host capability the manager needs: resolve a buffer
// range to rendered glyph geometry. Must answer synchronously once the
// styled text is rendered. ok is false when the range is not addressable
// (e.g. out of the rendered area).
type Measurer interface {
	MeasureRange(r pattern.Range) (geo Geometry, ok bool)
}

// Toggler is the slice of the edit controller the manager dispatches
// checkbox activations to.
type Toggler interface {
	ToggleCheckboxAt(start int) bool
}

// Control is one materialized overlay: the descriptor it was built from,
// held by value so a later activation cannot observe newer state, plus its
// resolved geometry.
type Control struct {
	Descriptor restyle.OverlayDescriptor
	Bounds     Geometry
}

// PendingDate is a date-link activation awaiting user confirmation. The
// buffer is never mutated by a date link; confirmation only raises the
// owner's callback.
type PendingDate struct {
	Date    time.Time
	Context string
}

// Manager owns the materialized overlay controls. Every restyle discards
// the whole set and rebuilds it from the new descriptors — no diffing
// against the previous generation, so no stale-overlay bookkeeping.
type Manager struct {
	controls []Control
}

func NewManager() *Manager {
	return &Manager{}
}

// Reconcile rebuilds all controls from a restyle result. Descriptors whose
// anchors cannot be measured are skipped this cycle; the next restyle will
// try again.
func (m *Manager) Reconcile(res restyle.Result, measure Measurer) {
	m.controls = m.controls[:0]
	for _, desc := range res.Overlays {
		geo, ok := measure.MeasureRange(desc.Anchor)
		if !ok {
			continue
		}
		m.controls = append(m.controls, Control{Descriptor: desc, Bounds: geo})
	}
}

// Clear drops every control, used when the editor detaches.
func (m *Manager) Clear() {
	m.controls = nil
}

func (m *Manager) Controls() []Control {
	return m.controls
}

// ControlAt hit-tests a host cell against the materialized controls.
func (m *Manager) ControlAt(line, col int) (Control, bool) {
	for _, ctrl := range m.controls {
		if ctrl.Bounds.Line != line {
			continue
		}
		if col >= ctrl.Bounds.Col && col < ctrl.Bounds.Col+ctrl.Bounds.Width {
			return ctrl, true
		}
	}
	return Control{}, false
}

// ControlOnLine returns the first control of the given kind on a line,
// for keyboard-driven activation.
func (m *Manager) ControlOnLine(line int, kind restyle.OverlayKind) (Control, bool) {
	for _, ctrl := range m.controls {
		if ctrl.Bounds.Line == line && ctrl.Descriptor.Kind == kind {
			return ctrl, true
		}
	}
	return Control{}, false
}

// Activate dispatches a control's activation. A checkbox routes a toggle
// through the edit controller, which verifies the marker is still there (a
// stale tap is a silent no-op). A date link mutates nothing: it returns a
// PendingDate for the host to confirm or dismiss.
func (m *Manager) Activate(ctrl Control, ed Toggler) (pending *PendingDate, toggled bool) {
	switch ctrl.Descriptor.Kind {
	case restyle.OverlayCheckbox:
		return nil, ed.ToggleCheckboxAt(ctrl.Descriptor.Anchor.Start)
	case restyle.OverlayDateLink:
		return &PendingDate{
			Date:    ctrl.Descriptor.Date,
			Context: ctrl.Descriptor.Context,
		}, false
	default:
		return nil, false
	}
}
