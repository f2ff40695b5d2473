package update

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sandeepkv93/noted/internal/overlay"
	"github.com/sandeepkv93/noted/internal/pattern"
	"github.com/sandeepkv93/noted/internal/restyle"
)

// To-do markers render as a two-cell glyph in place of the hidden "- [ ]"
// source text.
const checkboxWidth = 2

const (
	uncheckedGlyph = "☐ "
	checkedGlyph   = "☑ "
)

type cellPos struct {
	line int
	col  int
}

// hostBinding projects one styled buffer snapshot onto terminal cells. It
// is rebuilt on every restyle, renders the editor lines, and answers the
// geometry queries overlay reconciliation needs. Columns count visible
// glyphs: syntax markers occupy zero cells, checkbox glyphs two.
type hostBinding struct {
	res        restyle.Result
	theme      restyle.TypographyTheme
	pos        []cellPos // render cell of each byte, plus the end sentinel
	lineEnds   []int     // final column of each rendered line
	checkboxAt map[int]bool
	dateSpans  []pattern.Range
	visible    []bool
	roles      []restyle.Role
}

func newHostBinding(res restyle.Result, theme restyle.TypographyTheme) *hostBinding {
	h := &hostBinding{
		res:        res,
		theme:      theme,
		checkboxAt: make(map[int]bool),
	}
	for _, ov := range res.Overlays {
		switch ov.Kind {
		case restyle.OverlayCheckbox:
			h.checkboxAt[ov.Anchor.Start] = ov.Checked
		case restyle.OverlayDateLink:
			h.dateSpans = append(h.dateSpans, ov.Anchor)
		}
	}
	h.index()
	return h
}

func (h *hostBinding) index() {
	text := h.res.Text
	h.visible = make([]bool, len(text))
	h.roles = make([]restyle.Role, len(text))
	for _, run := range h.res.Runs {
		for i := run.Range.Start; i < run.Range.End && i < len(text); i++ {
			h.visible[i] = run.Visible
			h.roles[i] = run.Role
		}
	}

	h.pos = make([]cellPos, len(text)+1)
	line, col := 0, 0
	i := 0
	for i < len(text) {
		if _, ok := h.checkboxAt[i]; ok {
			for j := i; j < i+pattern.TodoMarkerLen; j++ {
				h.pos[j] = cellPos{line: line, col: col}
			}
			col += checkboxWidth
			i += pattern.TodoMarkerLen
			continue
		}
		if text[i] == '\n' {
			h.pos[i] = cellPos{line: line, col: col}
			h.lineEnds = append(h.lineEnds, col)
			line++
			col = 0
			i++
			continue
		}
		if !h.visible[i] {
			h.pos[i] = cellPos{line: line, col: col}
			i++
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		for j := i; j < i+size; j++ {
			h.pos[j] = cellPos{line: line, col: col}
		}
		col++
		i += size
	}
	h.pos[len(text)] = cellPos{line: line, col: col}
	h.lineEnds = append(h.lineEnds, col)
}

// MeasureRange resolves a buffer range to glyph geometry. A range that is
// out of bounds or renders to zero cells is not addressable.
func (h *hostBinding) MeasureRange(r pattern.Range) (overlay.Geometry, bool) {
	if r.Start < 0 || r.End < r.Start || r.End > len(h.res.Text) {
		return overlay.Geometry{}, false
	}
	start := h.pos[r.Start]
	end := h.pos[r.End]
	width := end.col - start.col
	if end.line != start.line {
		width = h.lineEnds[start.line] - start.col
	}
	if width <= 0 {
		return overlay.Geometry{}, false
	}
	return overlay.Geometry{Line: start.line, Col: start.col, Width: width}, true
}

// CaretCell maps a byte offset to the cell where the caret renders.
func (h *hostBinding) CaretCell(off int) (line, col int) {
	if off < 0 {
		off = 0
	}
	if off > len(h.res.Text) {
		off = len(h.res.Text)
	}
	c := h.pos[off]
	return c.line, c.col
}

// OffsetAt finds the byte offset whose caret cell is closest to (line, col)
// from the left. Offsets sharing a cell resolve to the last one, which
// parks the caret after any zero-width syntax run.
func (h *hostBinding) OffsetAt(line, col int) (int, bool) {
	if line < 0 || line >= len(h.lineEnds) {
		return 0, false
	}
	best := 0
	found := false
	for off := 0; off <= len(h.res.Text); off++ {
		c := h.pos[off]
		if c.line < line {
			continue
		}
		if c.line > line {
			break
		}
		if c.col <= col {
			best = off
			found = true
		}
	}
	return best, found
}

// LineCount reports how many lines the buffer renders to.
func (h *hostBinding) LineCount() int {
	return len(h.lineEnds)
}

// RenderLines produces the styled editor lines. The caret renders in
// reverse video when the editor has focus; a caret sitting in a zero-width
// syntax run draws on the next visible glyph.
func (h *hostBinding) RenderLines(caret int, focused bool) []string {
	text := h.res.Text
	caretStyle := lipgloss.NewStyle().Reverse(true)
	cursorDrawn := !focused

	var out []string
	var b strings.Builder
	flush := func() {
		out = append(out, b.String())
		b.Reset()
	}

	i := 0
	for i < len(text) {
		if checked, ok := h.checkboxAt[i]; ok {
			glyph, style := uncheckedGlyph, h.theme.Checkbox
			if checked {
				glyph, style = checkedGlyph, h.theme.CheckboxDone
			}
			b.WriteString(style.Render(glyph))
			i += pattern.TodoMarkerLen
			continue
		}
		if text[i] == '\n' {
			if !cursorDrawn && caret <= i {
				b.WriteString(caretStyle.Render(" "))
				cursorDrawn = true
			}
			flush()
			i++
			continue
		}
		if !h.visible[i] {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if !cursorDrawn && caret < i+size {
			b.WriteString(caretStyle.Render(string(r)))
			cursorDrawn = true
		} else {
			b.WriteString(h.styleAt(i).Render(string(r)))
		}
		i += size
	}
	if !cursorDrawn {
		b.WriteString(caretStyle.Render(" "))
	}
	flush()
	return out
}

func (h *hostBinding) styleAt(off int) lipgloss.Style {
	for _, span := range h.dateSpans {
		if span.Contains(off) {
			return h.theme.DateLink
		}
	}
	return h.theme.StyleFor(h.roles[off])
}
