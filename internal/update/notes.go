package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/model"
	"github.com/sandeepkv93/noted/internal/storage"
)

func (m Model) handleNotesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.NotesCursor > 0 {
			m.NotesCursor--
		}
		return m, nil
	case "down":
		if m.NotesCursor < len(m.Notes)-1 {
			m.NotesCursor++
		}
		return m, nil
	case "enter":
		note, ok := m.selectedNote()
		if !ok {
			return m, nil
		}
		return m, m.openNoteCmd(note.ID)
	case "ctrl+x":
		note, ok := m.selectedNote()
		if !ok {
			return m, nil
		}
		return m, m.deleteNoteCmd(note.ID)
	case "backspace":
		if m.SearchQuery != "" {
			m.SearchQuery = m.SearchQuery[:len(m.SearchQuery)-1]
			return m, m.loadNotesCmd()
		}
		return m, nil
	}
	if msg.Type == tea.KeyRunes {
		m.SearchQuery += string(msg.Runes)
		m.NotesCursor = 0
		return m, m.loadNotesCmd()
	}
	if msg.Type == tea.KeySpace {
		m.SearchQuery += " "
		return m, m.loadNotesCmd()
	}
	return m, nil
}

// openNote attaches the editor onto a loaded note and switches the view.
func (m *Model) openNote(n storage.Note) {
	m.CurrentNote = n
	m.NoteOpen = true
	m.ReceiptMode = n.IsReceipt
	m.Editor.SetRestyler(m.newRestyler())
	m.Editor.Attach(n.Body)
	m.signals.dirty = false
	m.Dirty = false
	m.refreshEditorBinding()
	m.refreshPreview()
	m.CurrentView = ViewEditor
	m.Status = StatusBar{Text: fmt.Sprintf("opened: %s", n.Title), IsError: false}
}

func (m *Model) closeNote() {
	m.CurrentNote = storage.Note{}
	m.NoteOpen = false
	m.Dirty = false
	m.ReceiptMode = false
	m.Editor.Attach("")
	m.Overlays.Clear()
	m.binding = nil
	m.CurrentView = ViewNotes
}

func (m Model) saveCurrentNote() (tea.Model, tea.Cmd) {
	if !m.NoteOpen {
		m.Status = StatusBar{Text: "no note open", IsError: true}
		return m, nil
	}
	note := m.CurrentNote
	note.Body = m.Editor.Text()
	note.IsReceipt = m.ReceiptMode
	note.UpdatedAt = m.now().UTC()
	m.spinnerActive = true
	return m, tea.Batch(m.saveSpinner.Tick, m.saveNoteCmd(note))
}

func (m Model) loadNotesCmd() tea.Cmd {
	repo := m.Repo
	if repo == nil {
		return nil
	}
	query := strings.TrimSpace(m.SearchQuery)
	return func() tea.Msg {
		notes, err := repo.ListNotes(context.Background(), storage.NoteListFilter{TitleContains: query})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return NotesLoadedMsg{Notes: notes}
	}
}

func (m Model) openNoteCmd(id string) tea.Cmd {
	repo := m.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		note, err := repo.GetNote(context.Background(), id)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return NoteOpenedMsg{Note: note}
	}
}

func (m Model) createNoteCmd(title string) tea.Cmd {
	repo := m.Repo
	if repo == nil {
		return nil
	}
	now := m.now().UTC()
	note := storage.Note{
		ID:        m.newID("note"),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return func() tea.Msg {
		domain := model.Note{
			ID:        note.ID,
			Title:     note.Title,
			Body:      note.Body,
			IsReceipt: note.IsReceipt,
			CreatedAt: note.CreatedAt,
			UpdatedAt: note.UpdatedAt,
		}
		if err := domain.Validate(); err != nil {
			return AppErrorMsg{Err: err}
		}
		if err := repo.CreateNote(context.Background(), note); err != nil {
			return AppErrorMsg{Err: err}
		}
		return NoteOpenedMsg{Note: note}
	}
}

func (m Model) saveNoteCmd(note storage.Note) tea.Cmd {
	repo := m.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		if err := repo.UpdateNote(context.Background(), note); err != nil {
			return AppErrorMsg{Err: err}
		}
		return NoteSavedMsg{Note: note}
	}
}

// deleteNoteCmd cancels any alerts for the note's events before the delete
// cascades them away.
func (m Model) deleteNoteCmd(id string) tea.Cmd {
	repo := m.Repo
	engine := m.Alerts
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		if engine != nil {
			events, err := repo.ListEvents(context.Background(), storage.EventListFilter{NoteID: id})
			if err == nil {
				for _, ev := range events {
					engine.Cancel(ev.ID)
				}
			}
		}
		if err := repo.DeleteNote(context.Background(), id); err != nil {
			return AppErrorMsg{Err: err}
		}
		return NoteDeletedMsg{ID: id}
	}
}
