package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	case "backspace":
		v := m.commandInput.Value()
		if v != "" {
			m.commandInput.SetValue(v[:len(v)-1])
		}
		m.Palette.Input = m.commandInput.Value()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			text := string(msg.Runes)
			if msg.Type == tea.KeySpace {
				text = " "
			}
			m.commandInput.SetValue(m.commandInput.Value() + text)
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
	return m, nil
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var pending []tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		New: func(a commands.NewArgs) (commands.Result, error) {
			pending = append(pending, m.createNoteCmd(a.Title))
			return commands.Result{Message: fmt.Sprintf("creating note: %s", a.Title)}, nil
		},
		Open: func(a commands.OpenArgs) (commands.Result, error) {
			for _, n := range m.Notes {
				if strings.EqualFold(n.Title, a.Title) {
					pending = append(pending, m.openNoteCmd(n.ID))
					return commands.Result{Message: fmt.Sprintf("opening: %s", n.Title)}, nil
				}
			}
			return commands.Result{}, &commands.CommandError{
				Code:    commands.ErrCodeInvalidArgument,
				Message: fmt.Sprintf("no note titled %q", a.Title),
			}
		},
		Delete: func() (commands.Result, error) {
			if !m.NoteOpen {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: "delete requires an open note",
				}
			}
			pending = append(pending, m.deleteNoteCmd(m.CurrentNote.ID))
			return commands.Result{Message: fmt.Sprintf("deleting: %s", m.CurrentNote.Title)}, nil
		},
		Save: func() (commands.Result, error) {
			if !m.NoteOpen {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: "save requires an open note",
				}
			}
			note := m.CurrentNote
			note.Body = m.Editor.Text()
			note.IsReceipt = m.ReceiptMode
			note.UpdatedAt = m.now().UTC()
			pending = append(pending, m.saveNoteCmd(note))
			return commands.Result{Message: fmt.Sprintf("saving: %s", note.Title)}, nil
		},
		Receipt: func(a commands.ReceiptArgs) (commands.Result, error) {
			if !m.NoteOpen {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: "receipt mode requires an open note",
				}
			}
			m.setReceiptMode(a.Enabled)
			state := "off"
			if a.Enabled {
				state = "on"
			}
			return commands.Result{Message: "receipt mode " + state}, nil
		},
		Events: func() (commands.Result, error) {
			m.CurrentView = ViewAgenda
			pending = append(pending, m.loadAgendaCmd())
			return commands.Result{Message: "upcoming events"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message, IsError: false}
	return m, tea.Batch(pending...)
}

// setReceiptMode swaps the restyler so date detection tracks the mode, then
// re-derives everything from the unchanged buffer.
func (m *Model) setReceiptMode(enabled bool) {
	m.ReceiptMode = enabled
	m.CurrentNote.IsReceipt = enabled
	m.Editor.SetRestyler(m.newRestyler())
	m.Dirty = true
	m.signals.dirty = true
	m.refreshEditorBinding()
	m.refreshPreview()
}
