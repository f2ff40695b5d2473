package update

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/editor"
	"github.com/sandeepkv93/noted/internal/overlay"
	"github.com/sandeepkv93/noted/internal/restyle"
	"github.com/sandeepkv93/noted/internal/storage"
	"github.com/sandeepkv93/noted/internal/views"
)

// Offsets from the program's top-left cell to the first buffer cell inside
// the editor panel: header row, panel border, editor title and actions
// lines; border plus padding on the left.
const (
	editorOriginRow = 4
	editorOriginCol = 2
)

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.CurrentView = ViewNotes
		if m.Dirty {
			m.Status = StatusBar{Text: "unsaved changes, ctrl+s to save", IsError: false}
		}
		return m, nil
	case "ctrl+s":
		return m.saveCurrentNote()
	case "ctrl+t":
		return m.activateOnCaretLine(restyle.OverlayCheckbox)
	case "ctrl+d":
		return m.activateOnCaretLine(restyle.OverlayDateLink)
	case "enter":
		m.Editor.InsertNewline()
		m.afterEdit()
		return m, nil
	case "backspace":
		m.Editor.DeleteBackward()
		m.afterEdit()
		return m, nil
	case "left":
		m.moveCaret(-1)
		return m, nil
	case "right":
		m.moveCaret(1)
		return m, nil
	case "up":
		m.moveCaretVertical(-1)
		return m, nil
	case "down":
		m.moveCaretVertical(1)
		return m, nil
	case "tab":
		m.Editor.InsertText("  ")
		m.afterEdit()
		return m, nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		m.Editor.InsertText(text)
		m.afterEdit()
	}
	return m, nil
}

func (m Model) handleEditorMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.binding == nil {
		return m, nil
	}
	line := msg.Y - editorOriginRow
	col := msg.X - editorOriginCol
	if ctrl, ok := m.Overlays.ControlAt(line, col); ok {
		return m.activateControl(ctrl)
	}
	if off, ok := m.binding.OffsetAt(line, col); ok {
		m.Editor.SetSelection(editor.Selection{Start: off})
	}
	return m, nil
}

// activateOnCaretLine routes a keyboard activation to the first control of
// the given kind on the caret's line.
func (m Model) activateOnCaretLine(kind restyle.OverlayKind) (tea.Model, tea.Cmd) {
	if m.binding == nil {
		return m, nil
	}
	line, _ := m.binding.CaretCell(m.Editor.Selection().Start)
	ctrl, ok := m.Overlays.ControlOnLine(line, kind)
	if !ok {
		m.Status = StatusBar{Text: "nothing to activate on this line", IsError: false}
		return m, nil
	}
	return m.activateControl(ctrl)
}

func (m Model) activateControl(ctrl overlay.Control) (tea.Model, tea.Cmd) {
	pending, toggled := m.Overlays.Activate(ctrl, m.Editor)
	if pending != nil {
		m.DatePrompt = DatePromptState{
			Active:  true,
			Date:    pending.Date,
			Context: pending.Context,
		}
		return m, nil
	}
	if toggled {
		m.afterEdit()
		m.Status = StatusBar{Text: "checkbox toggled", IsError: false}
	}
	return m, nil
}

func (m Model) handleDatePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		prompt := m.DatePrompt
		m.DatePrompt = DatePromptState{}
		m.Editor.NotifyDateDetected(prompt.Date, prompt.Context)
		pending := m.signals.confirmedDate
		m.signals.confirmedDate = nil
		if pending == nil {
			return m, nil
		}
		event := storage.CalendarEvent{
			ID:        m.newID("event"),
			NoteID:    m.CurrentNote.ID,
			Title:     eventTitle(pending.Context, m.CurrentNote.Title),
			StartAt:   pending.Date,
			Context:   pending.Context,
			CreatedAt: m.now().UTC(),
		}
		return m, m.createEventCmd(event)
	case "n", "esc":
		m.DatePrompt = DatePromptState{}
		m.Status = StatusBar{Text: "date dismissed", IsError: false}
	}
	return m, nil
}

// afterEdit runs after every buffer mutation: pick up the dirty flag and
// rebuild the host projection and preview from the new styled result.
func (m *Model) afterEdit() {
	m.Dirty = m.signals.dirty
	m.refreshEditorBinding()
	m.refreshPreview()
}

func (m *Model) refreshPreview() {
	if m.Editor == nil {
		return
	}
	m.previewViewport.SetContent(views.RenderMarkdown(m.Editor.Text(), m.cfg.PreviewStyle))
}

func (m *Model) moveCaret(delta int) {
	sel := m.Editor.Selection()
	text := m.Editor.Text()
	off := sel.Start
	if delta < 0 && off > 0 {
		_, size := utf8.DecodeLastRuneInString(text[:off])
		off -= size
	}
	if delta > 0 && off < len(text) {
		_, size := utf8.DecodeRuneInString(text[off:])
		off += size
	}
	m.Editor.SetSelection(editor.Selection{Start: off})
}

func (m *Model) moveCaretVertical(delta int) {
	if m.binding == nil {
		return
	}
	line, col := m.binding.CaretCell(m.Editor.Selection().Start)
	if off, ok := m.binding.OffsetAt(line+delta, col); ok {
		m.Editor.SetSelection(editor.Selection{Start: off})
	}
}

func (m Model) renderEditorView() string {
	var lines []string
	caretLine, caretCol := 0, 0
	if m.binding != nil {
		caret := m.Editor.Selection().Start
		lines = m.binding.RenderLines(caret, !m.DatePrompt.Active)
		caretLine, caretCol = m.binding.CaretCell(caret)
	}

	saving := ""
	if m.spinnerActive {
		saving = m.saveSpinner.View()
	}
	prompt := ""
	if m.DatePrompt.Active {
		prompt = views.RenderDatePrompt(
			m.DatePrompt.Date.Format("Mon Jan 2 15:04"),
			m.DatePrompt.Context,
		)
	}

	return views.RenderEditorPanel(views.EditorPanelData{
		Title:      m.CurrentNote.Title,
		Receipt:    m.ReceiptMode,
		Dirty:      m.Dirty,
		Lines:      lines,
		CursorLine: caretLine,
		CursorCol:  caretCol,
		SavingView: saving,
		DatePrompt: prompt,
	})
}
