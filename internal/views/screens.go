package views

import (
	"fmt"
	"sort"
	"strings"
)

type NotesPanelData struct {
	SearchView string
	ListView   string
}

type EditorPanelData struct {
	Title      string
	Receipt    bool
	Dirty      bool
	Lines      []string
	CursorLine int
	CursorCol  int
	SavingView string
	DatePrompt string
}

type AgendaItemData struct {
	ID      string
	Title   string
	Date    string
	Time    string
	Context string
}

type AgendaPanelData struct {
	Items      []AgendaItemData
	SelectedID string
}

type PreviewPanelData struct {
	Title        string
	ViewportView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderNotesPanel(data NotesPanelData) string {
	var b strings.Builder
	b.WriteString("notes:\n")
	b.WriteString(data.SearchView + "\n")
	b.WriteString("actions: [enter]open [j/k]move [/]command\n")
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderEditorPanel(data EditorPanelData) string {
	var b strings.Builder
	title := data.Title
	if title == "" {
		title = "(untitled)"
	}
	marker := ""
	if data.Receipt {
		marker = " [receipt]"
	}
	if data.Dirty {
		marker += " *"
	}
	b.WriteString(fmt.Sprintf("editor: %s%s\n", title, marker))
	b.WriteString("actions: [ctrl+s]save [ctrl+t]checkbox [ctrl+d]date [esc]back\n")
	for _, line := range data.Lines {
		b.WriteString(line + "\n")
	}
	b.WriteString(fmt.Sprintf("\ncursor: %d:%d", data.CursorLine+1, data.CursorCol+1))
	if data.SavingView != "" {
		b.WriteString("\nsaving: " + data.SavingView)
	}
	if data.DatePrompt != "" {
		b.WriteString("\n" + data.DatePrompt)
	}
	return strings.TrimSpace(b.String())
}

func RenderAgendaPanel(data AgendaPanelData) string {
	var b strings.Builder
	b.WriteString("agenda:\n")
	b.WriteString("actions: [j/k]move [x]delete [esc]back\n")
	if len(data.Items) == 0 {
		b.WriteString("(no upcoming events)")
		return b.String()
	}

	grouped := make(map[string][]AgendaItemData)
	days := make([]string, 0)
	for _, item := range data.Items {
		if _, ok := grouped[item.Date]; !ok {
			days = append(days, item.Date)
		}
		grouped[item.Date] = append(grouped[item.Date], item)
	}
	sort.Strings(days)

	for _, day := range days {
		b.WriteString(fmt.Sprintf("\n%s:\n", day))
		items := grouped[day]
		sort.SliceStable(items, func(i, j int) bool { return items[i].Time < items[j].Time })
		for _, item := range items {
			cursor := " "
			if item.ID == data.SelectedID {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, item.Time, item.Title))
			if item.Context != "" {
				b.WriteString(fmt.Sprintf("    from: %s\n", item.Context))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderPreviewPanel(data PreviewPanelData) string {
	var b strings.Builder
	b.WriteString("preview:\n")
	if strings.TrimSpace(data.ViewportView) == "" {
		b.WriteString("(empty note)")
		return b.String()
	}
	b.WriteString(data.ViewportView)
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderDatePrompt(when string, context string) string {
	var b strings.Builder
	b.WriteString("add to calendar?\n")
	b.WriteString(fmt.Sprintf("when: %s\n", when))
	if context != "" {
		b.WriteString(fmt.Sprintf("what: %s\n", context))
	}
	b.WriteString("[y]es [n]o")
	return b.String()
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
