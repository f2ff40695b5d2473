package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/noted/internal/alerts"
	"github.com/sandeepkv93/noted/internal/editor"
	"github.com/sandeepkv93/noted/internal/overlay"
	"github.com/sandeepkv93/noted/internal/restyle"
	"github.com/sandeepkv93/noted/internal/storage"
)

type View string

const (
	ViewNotes  View = "Notes"
	ViewEditor View = "Editor"
	ViewAgenda View = "Agenda"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Notes  string
	Editor string
	Agenda string
	Help   string
	Quit   string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// DatePromptState is a date-link activation waiting for the user's answer.
// Nothing is written until the user confirms.
type DatePromptState struct {
	Active  bool
	Date    time.Time
	Context string
}

// editorSignals collects what the editor callbacks report. The bubbletea
// model is copied by value through Update, so the callbacks need a stable
// target to write into.
type editorSignals struct {
	dirty         bool
	confirmedDate *overlay.PendingDate
}

type Model struct {
	CurrentView View
	Repo        storage.Repository
	Alerts      *alerts.Engine
	Theme       restyle.TypographyTheme

	Notes       []storage.Note
	NotesCursor int
	SearchQuery string

	CurrentNote storage.Note
	NoteOpen    bool
	Dirty       bool
	ReceiptMode bool

	Editor   *editor.Controller
	Overlays *overlay.Manager
	binding  *hostBinding
	signals  *editorSignals

	Agenda       []storage.CalendarEvent
	AgendaCursor int
	AlertLog     []alerts.EventAlert

	Palette     CommandPaletteState
	DatePrompt  DatePromptState
	Status      StatusBar
	Keys        GlobalKeyMap
	HelpVisible bool
	Quitting    bool
	LastError   error

	// Bubble components used for rich TUI controls
	notesList       list.Model
	searchInput     textinput.Model
	commandInput    textinput.Model
	previewViewport viewport.Model
	helpModel       help.Model
	saveSpinner     spinner.Model
	spinnerActive   bool

	cfg   RuntimeConfig
	now   func() time.Time
	newID func(prefix string) string
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type NotesLoadedMsg struct {
	Notes []storage.Note
}

type NoteOpenedMsg struct {
	Note storage.Note
}

type NoteSavedMsg struct {
	Note storage.Note
}

type NoteDeletedMsg struct {
	ID string
}

type EventCreatedMsg struct {
	Event storage.CalendarEvent
}

type EventsLoadedMsg struct {
	Events []storage.CalendarEvent
}

type EventDeletedMsg struct {
	ID string
}

type AlertDueMsg struct {
	Alert alerts.EventAlert
}

func NewModel() Model {
	return NewModelWithRuntime(nil, nil, DefaultRuntimeConfig())
}

func NewModelWithRuntime(repo storage.Repository, engine *alerts.Engine, cfg RuntimeConfig) Model {
	m := Model{
		CurrentView: ViewNotes,
		Repo:        repo,
		Alerts:      engine,
		Theme:       restyle.DefaultTheme(),
		Overlays:    overlay.NewManager(),
		signals:     &editorSignals{},
		Keys: GlobalKeyMap{
			Notes:  "1",
			Editor: "2",
			Agenda: "3",
			Help:   "?",
			Quit:   "q",
		},
		cfg:   cfg,
		now:   time.Now,
		newID: defaultNewID,
	}
	sig := m.signals
	m.Editor = editor.NewController(m.newRestyler(), editor.Callbacks{
		OnTextChanged: func(string) {
			sig.dirty = true
		},
		OnDateDetected: func(date time.Time, context string) {
			sig.confirmedDate = &overlay.PendingDate{Date: date, Context: context}
		},
	})
	m.initBubbleComponents()
	return m
}

// newRestyler builds a restyler for the current receipt mode. Receipt notes
// keep markdown typography but drop date detection.
func (m Model) newRestyler() *restyle.Restyler {
	detect := m.cfg.DateDetection && !m.ReceiptMode
	return restyle.New(m.Theme,
		restyle.WithDateDetection(detect),
		restyle.WithClock(m.now),
	)
}

func (m *Model) initBubbleComponents() {
	m.notesList = list.New([]list.Item{}, list.NewDefaultDelegate(), 58, 14)
	m.notesList.Title = "Notes"
	m.notesList.SetShowHelp(false)
	m.notesList.SetFilteringEnabled(false)

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search> "
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.previewViewport = viewport.New(50, 14)

	m.helpModel = help.New()

	m.saveSpinner = spinner.New()
	m.saveSpinner.Spinner = spinner.Dot
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Notes))
	for _, n := range m.Notes {
		desc := n.UpdatedAt.Format("2006-01-02 15:04")
		if n.IsReceipt {
			desc += " [receipt]"
		}
		items = append(items, listItem{title: n.Title, description: desc})
	}
	m.notesList.SetItems(items)
	if len(items) > 0 && m.NotesCursor < len(items) {
		m.notesList.Select(m.NotesCursor)
	}

	m.searchInput.SetValue(m.SearchQuery)
	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}
}

// refreshEditorBinding rebuilds the host projection and reconciles the
// overlay controls after any change to the styled result.
func (m *Model) refreshEditorBinding() {
	if m.Editor == nil {
		return
	}
	m.binding = newHostBinding(m.Editor.Styled(), m.Theme)
	m.Overlays.Reconcile(m.Editor.Styled(), m.binding)
}

func (m *Model) selectedNote() (storage.Note, bool) {
	if m.NotesCursor < 0 || m.NotesCursor >= len(m.Notes) {
		return storage.Note{}, false
	}
	return m.Notes[m.NotesCursor], true
}

func defaultNewID(prefix string) string {
	return fmt.Sprintf("%s-%x", prefix, time.Now().UnixNano())
}

func isKnownView(v View) bool {
	switch v {
	case ViewNotes, ViewEditor, ViewAgenda:
		return true
	default:
		return false
	}
}
