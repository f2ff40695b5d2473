package editor

import (
	"strings"
	"time"

	"github.com/sandeepkv93/noted/internal/pattern"
	"github.com/sandeepkv93/noted/internal/restyle"
)

// Selection is a cursor with an optional extent, in byte offsets into the
// buffer. Length zero is a plain caret.
type Selection struct {
	Start  int
	Length int
}

// Callbacks are the editor's outward contract. OnTextChanged fires after
// every committed mutation; OnDateDetected fires only when the user has
// explicitly confirmed a date-link activation.
type Callbacks struct {
	OnTextChanged  func(text string)
	OnDateDetected func(date time.Time, context string)
}

// Controller owns the canonical plain-text buffer and the selection. It is
// the only path by which the buffer changes: every mutation restyles the
// new text, clamps the selection, and notifies the owner.
type Controller struct {
	buf      string
	sel      Selection
	restyler *restyle.Restyler
	cb       Callbacks
	styled   restyle.Result
}

func NewController(restyler *restyle.Restyler, cb Callbacks) *Controller {
	c := &Controller{restyler: restyler, cb: cb}
	c.styled = restyler.Restyle("")
	return c
}

// Attach resets the controller onto a note's initial text. Attaching does
// not fire OnTextChanged: the text came from the owner.
func (c *Controller) Attach(initialText string) {
	c.buf = initialText
	c.sel = Selection{Start: len(initialText)}
	c.styled = c.restyler.Restyle(c.buf)
}

// SetRestyler swaps the restyler (e.g. toggling receipt mode) and re-derives
// the styled result from the unchanged buffer.
func (c *Controller) SetRestyler(r *restyle.Restyler) {
	c.restyler = r
	c.styled = r.Restyle(c.buf)
}

func (c *Controller) Text() string { return c.buf }

func (c *Controller) Selection() Selection { return c.sel }

// Styled returns the current styled representation. It is recomputed on
// every mutation, never patched.
func (c *Controller) Styled() restyle.Result { return c.styled }

// SetSelection clamps sel into the buffer and stores it.
func (c *Controller) SetSelection(sel Selection) {
	c.sel = clampSelection(sel, len(c.buf))
}

// Replace substitutes buffer[start:end) with replacement: the plain
// mutation path shared by typing, paste, checkbox toggles and list
// continuation. The selection is shifted when the edit lands before it,
// then clamped into the new bounds.
func (c *Controller) Replace(start, end int, replacement string) {
	if start < 0 {
		start = 0
	}
	if end > len(c.buf) {
		end = len(c.buf)
	}
	if end < start {
		start, end = end, start
	}

	sel := c.sel
	delta := len(replacement) - (end - start)
	switch {
	case sel.Start >= end:
		sel.Start += delta
	case sel.Start >= start:
		// Selection began inside the replaced range: park it at the end
		// of the replacement.
		sel.Start = start + len(replacement)
		sel.Length = 0
	}

	c.buf = c.buf[:start] + replacement + c.buf[end:]
	c.commit(sel)
}

// InsertText replaces the current selection with s and leaves the caret
// after the inserted text.
func (c *Controller) InsertText(s string) {
	start := c.sel.Start
	end := start + c.sel.Length
	c.buf = c.buf[:start] + s + c.buf[end:]
	c.commit(Selection{Start: start + len(s)})
}

// DeleteBackward removes the selection, or the byte before the caret when
// the selection is empty. A caret at offset zero is a no-op.
func (c *Controller) DeleteBackward() {
	if c.sel.Length > 0 {
		start := c.sel.Start
		c.buf = c.buf[:start] + c.buf[start+c.sel.Length:]
		c.commit(Selection{Start: start})
		return
	}
	if c.sel.Start == 0 {
		return
	}
	start := prevOffset(c.buf, c.sel.Start)
	c.buf = c.buf[:start] + c.buf[c.sel.Start:]
	c.commit(Selection{Start: start})
}

// InsertNewline is the Enter key: smart list continuation. When the caret's
// line is a to-do item the default newline is suppressed and replaced:
//
//   - empty item  -> the line collapses to a single newline (exit the list)
//   - non-empty   -> "\n- [ ] " extends the list with an unchecked item
//
// Any other line gets a plain newline.
func (c *Controller) InsertNewline() {
	pos := c.sel.Start
	line := pattern.LineAt(c.buf, pos)
	content, _, isTodo := pattern.IsTodoLine(c.buf[line.Start:line.End])
	if !isTodo {
		c.InsertText("\n")
		return
	}

	if strings.TrimSpace(content) == "" {
		// Exit the list: the empty item and the newline that introduced it
		// collapse into a single newline.
		start := line.Start
		if start > 0 {
			start--
		}
		c.buf = c.buf[:start] + "\n" + c.buf[line.End:]
		c.commit(Selection{Start: start + 1})
		return
	}

	c.buf = c.buf[:pos] + pattern.Continuation + c.buf[pos+c.sel.Length:]
	c.commit(Selection{Start: pos + len(pattern.Continuation)})
}

// ToggleCheckboxAt flips the 5-character to-do marker starting at offset
// start. A stale activation — the buffer no longer holds a marker there —
// is a silent no-op: the next restyle has already dropped the overlay.
func (c *Controller) ToggleCheckboxAt(start int) bool {
	if start < 0 || start+pattern.TodoMarkerLen > len(c.buf) {
		return false
	}
	marker := c.buf[start : start+pattern.TodoMarkerLen]
	toggled, ok := toggledMarker(marker)
	if !ok {
		return false
	}
	c.Replace(start, start+pattern.TodoMarkerLen, toggled)
	return true
}

// NotifyDateDetected forwards a confirmed date-link activation to the
// owner. The buffer is not touched.
func (c *Controller) NotifyDateDetected(date time.Time, context string) {
	if c.cb.OnDateDetected != nil {
		c.cb.OnDateDetected(date, context)
	}
}

// commit restyles after a mutation, clamps the selection into the new
// buffer and notifies the owner.
func (c *Controller) commit(sel Selection) {
	c.styled = c.restyler.Restyle(c.buf)
	c.sel = clampSelection(sel, len(c.buf))
	if c.cb.OnTextChanged != nil {
		c.cb.OnTextChanged(c.buf)
	}
}

func toggledMarker(marker string) (string, bool) {
	if len(marker) != pattern.TodoMarkerLen {
		return "", false
	}
	bullet := marker[0]
	if bullet != '-' && bullet != '*' {
		return "", false
	}
	switch marker[1:] {
	case " [ ]":
		return string(bullet) + " [x]", true
	case " [x]", " [X]":
		return string(bullet) + " [ ]", true
	default:
		return "", false
	}
}

func clampSelection(sel Selection, bufLen int) Selection {
	if sel.Start < 0 {
		sel.Start = 0
	}
	if sel.Start > bufLen {
		sel.Start = bufLen
	}
	if sel.Length < 0 {
		sel.Length = 0
	}
	if sel.Start+sel.Length > bufLen {
		sel.Length = bufLen - sel.Start
	}
	return sel
}

// prevOffset steps back over one UTF-8 rune ending at off.
func prevOffset(s string, off int) int {
	if off <= 0 {
		return 0
	}
	off--
	for off > 0 && s[off]&0xC0 == 0x80 {
		off--
	}
	return off
}
