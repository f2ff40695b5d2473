package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadNotesCmd()}
	if m.Alerts != nil {
		cmds = append(cmds, waitForAlertCmd(m.Alerts.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.DatePrompt.Active {
			return m.handleDatePromptKey(typed)
		}
		if m.CurrentView == ViewEditor {
			return m.handleEditorKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, m.commandInput.Focus()
		case m.Keys.Notes:
			m.CurrentView = ViewNotes
			return m, m.loadNotesCmd()
		case m.Keys.Editor:
			if m.NoteOpen {
				m.CurrentView = ViewEditor
			} else {
				m.Status = StatusBar{Text: "no note open", IsError: true}
			}
			return m, nil
		case m.Keys.Agenda:
			m.CurrentView = ViewAgenda
			return m, m.loadAgendaCmd()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewNotes:
			return m.handleNotesKey(typed)
		case ViewAgenda:
			return m.handleAgendaKey(typed)
		}
	case tea.MouseMsg:
		if m.CurrentView == ViewEditor && !m.DatePrompt.Active {
			return m.handleEditorMouse(typed)
		}
	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.saveSpinner, cmd = m.saveSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			if typed.View == ViewEditor && !m.NoteOpen {
				return m, nil
			}
			m.CurrentView = typed.View
			if typed.View == ViewAgenda {
				return m, m.loadAgendaCmd()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		m.spinnerActive = false
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case NotesLoadedMsg:
		m.Notes = typed.Notes
		if m.NotesCursor >= len(m.Notes) {
			m.NotesCursor = len(m.Notes) - 1
		}
		if m.NotesCursor < 0 {
			m.NotesCursor = 0
		}
		return m, nil
	case NoteOpenedMsg:
		m.openNote(typed.Note)
		return m, nil
	case NoteSavedMsg:
		m.spinnerActive = false
		m.CurrentNote = typed.Note
		m.Dirty = false
		m.signals.dirty = false
		m.Status = StatusBar{Text: fmt.Sprintf("saved: %s", typed.Note.Title), IsError: false}
		return m, m.loadNotesCmd()
	case NoteDeletedMsg:
		m.spinnerActive = false
		if m.NoteOpen && m.CurrentNote.ID == typed.ID {
			m.closeNote()
		}
		m.Status = StatusBar{Text: "note deleted", IsError: false}
		return m, m.loadNotesCmd()
	case EventCreatedMsg:
		m.Status = StatusBar{
			Text:    fmt.Sprintf("event added: %s @ %s", typed.Event.Title, typed.Event.StartAt.Format("2006-01-02 15:04")),
			IsError: false,
		}
		m.scheduleAlert(typed.Event)
		return m, nil
	case EventsLoadedMsg:
		m.Agenda = typed.Events
		if m.AgendaCursor >= len(m.Agenda) {
			m.AgendaCursor = len(m.Agenda) - 1
		}
		if m.AgendaCursor < 0 {
			m.AgendaCursor = 0
		}
		return m, nil
	case EventDeletedMsg:
		m.Status = StatusBar{Text: "event removed", IsError: false}
		return m, m.loadAgendaCmd()
	case AlertDueMsg:
		m.AlertLog = append(m.AlertLog, typed.Alert)
		if len(m.AlertLog) > 20 {
			m.AlertLog = m.AlertLog[len(m.AlertLog)-20:]
		}
		m.Status = StatusBar{Text: fmt.Sprintf("event due: %s", typed.Alert.Title), IsError: false}
		if m.Alerts != nil {
			return m, waitForAlertCmd(m.Alerts.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewNotes:
		leftPane = views.RenderNotesPanel(views.NotesPanelData{
			SearchView: m.searchInput.View(),
			ListView:   m.notesList.View(),
		})
		rightPane = m.renderPalette() + m.renderHelpIfVisible()
	case ViewEditor:
		leftPane = m.renderEditorView()
		rightPane = views.RenderPreviewPanel(views.PreviewPanelData{
			Title:        m.CurrentNote.Title,
			ViewportView: m.previewViewport.View(),
		}) + m.renderHelpIfVisible()
	case ViewAgenda:
		leftPane = m.renderAgendaView()
		rightPane = m.renderPalette() + m.renderHelpIfVisible()
	}

	notification := ""
	if len(m.AlertLog) > 0 {
		last := m.AlertLog[len(m.AlertLog)-1]
		notification = fmt.Sprintf("last-alert: %s @ %s", last.Title, last.StartAt.Format("15:04"))
	}
	if m.spinnerActive {
		spin := m.saveSpinner.View()
		notification = strings.TrimSpace(strings.Join([]string{notification, "saving: " + spin}, "\n"))
	}

	noteLabel := "(none)"
	if m.NoteOpen {
		noteLabel = m.CurrentNote.Title
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("noted | view: %s | note: %s", m.CurrentView, noteLabel),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notification,
		Footer:       fmt.Sprintf("keys: %s notes | %s editor | %s agenda | %s help | %s quit", m.Keys.Notes, m.Keys.Editor, m.Keys.Agenda, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

// eventTitle derives a calendar event title from the mention's enclosing
// line, falling back when the line carried nothing but the date itself.
func eventTitle(context string, fallback string) string {
	title := strings.TrimSpace(context)
	if title == "" {
		title = strings.TrimSpace(fallback)
	}
	if title == "" {
		title = "Note event"
	}
	if len(title) > 60 {
		title = title[:60]
	}
	return title
}
