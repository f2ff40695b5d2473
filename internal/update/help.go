package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/noted/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Notes, Action: "switch to Notes"},
		{Key: m.Keys.Editor, Action: "switch to Editor"},
		{Key: m.Keys.Agenda, Action: "switch to Agenda"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewNotes:
		return []KeyBinding{
			{Key: "up/down", Action: "move selection"},
			{Key: "enter", Action: "open note"},
			{Key: "ctrl+x", Action: "delete note"},
			{Key: "typing", Action: "filter by title"},
		}
	case ViewEditor:
		return []KeyBinding{
			{Key: "ctrl+s", Action: "save note"},
			{Key: "ctrl+t", Action: "toggle checkbox on line"},
			{Key: "ctrl+d", Action: "activate date link on line"},
			{Key: "esc", Action: "back to notes"},
		}
	case ViewAgenda:
		return []KeyBinding{
			{Key: "j/k", Action: "move cursor"},
			{Key: "x", Action: "delete event"},
			{Key: "esc", Action: "back to notes"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
