package update

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/noted/internal/alerts"
	"github.com/sandeepkv93/noted/internal/storage"
	"github.com/sandeepkv93/noted/internal/views"
)

func (m Model) handleAgendaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.AgendaCursor < len(m.Agenda)-1 {
			m.AgendaCursor++
		}
	case "k", "up":
		if m.AgendaCursor > 0 {
			m.AgendaCursor--
		}
	case "x":
		if m.AgendaCursor >= 0 && m.AgendaCursor < len(m.Agenda) {
			return m, m.deleteEventCmd(m.Agenda[m.AgendaCursor].ID)
		}
	case "esc":
		m.CurrentView = ViewNotes
	}
	return m, nil
}

// loadAgendaCmd lists events from the start of the current calendar day
// onward. An event earlier today still counts as upcoming.
func (m Model) loadAgendaCmd() tea.Cmd {
	repo := m.Repo
	if repo == nil {
		return nil
	}
	now := m.now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return func() tea.Msg {
		events, err := repo.ListEvents(context.Background(), storage.EventListFilter{After: &cutoff})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return EventsLoadedMsg{Events: events}
	}
}

func (m Model) createEventCmd(event storage.CalendarEvent) tea.Cmd {
	repo := m.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		if err := repo.CreateEvent(context.Background(), event); err != nil {
			return AppErrorMsg{Err: err}
		}
		return EventCreatedMsg{Event: event}
	}
}

func (m Model) deleteEventCmd(id string) tea.Cmd {
	repo := m.Repo
	engine := m.Alerts
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		if engine != nil {
			engine.Cancel(id)
		}
		if err := repo.DeleteEvent(context.Background(), id); err != nil {
			return AppErrorMsg{Err: err}
		}
		return EventDeletedMsg{ID: id}
	}
}

func (m *Model) scheduleAlert(event storage.CalendarEvent) {
	if m.Alerts == nil {
		return
	}
	_ = m.Alerts.Schedule(alerts.EventAlert{
		EventID: event.ID,
		Title:   event.Title,
		StartAt: event.StartAt,
	})
}

func waitForAlertCmd(ch <-chan alerts.EventAlert) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		alert, ok := <-ch
		if !ok {
			return nil
		}
		return AlertDueMsg{Alert: alert}
	}
}

func (m Model) renderAgendaView() string {
	items := make([]views.AgendaItemData, 0, len(m.Agenda))
	selectedID := ""
	if m.AgendaCursor >= 0 && m.AgendaCursor < len(m.Agenda) {
		selectedID = m.Agenda[m.AgendaCursor].ID
	}
	for _, ev := range m.Agenda {
		items = append(items, views.AgendaItemData{
			ID:      ev.ID,
			Title:   ev.Title,
			Date:    ev.StartAt.Format("2006-01-02"),
			Time:    ev.StartAt.Format("15:04"),
			Context: ev.Context,
		})
	}
	return views.RenderAgendaPanel(views.AgendaPanelData{
		Items:      items,
		SelectedID: selectedID,
	})
}
