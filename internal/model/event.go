package model

import (
	"errors"
	"strings"
	"time"
)

// CalendarEvent is created when the user confirms a detected date mention
// in a note. Context preserves the line of text the date was found in.
type CalendarEvent struct {
	ID        string
	NoteID    string
	Title     string
	StartAt   time.Time
	Context   string
	CreatedAt time.Time
}

func (e CalendarEvent) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return errors.New("model: event id is required")
	}
	if strings.TrimSpace(e.NoteID) == "" {
		return errors.New("model: event note_id is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	if e.StartAt.IsZero() {
		return errors.New("model: event start_at is required")
	}
	if e.CreatedAt.IsZero() {
		return errors.New("model: event created_at is required")
	}
	return nil
}
