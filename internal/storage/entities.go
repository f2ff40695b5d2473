package storage

import "time"

type Note struct {
	ID        string
	Title     string
	Body      string
	IsReceipt bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CalendarEvent struct {
	ID        string
	NoteID    string
	Title     string
	StartAt   time.Time
	Context   string
	CreatedAt time.Time
}

type NoteListFilter struct {
	TitleContains string
	Limit         int
	Offset        int
}

type EventListFilter struct {
	NoteID string
	After  *time.Time
	Limit  int
	Offset int
}
