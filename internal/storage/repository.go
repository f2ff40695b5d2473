package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateNote(ctx context.Context, in Note) error
	GetNote(ctx context.Context, id string) (Note, error)
	UpdateNote(ctx context.Context, in Note) error
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, filter NoteListFilter) ([]Note, error)

	CreateEvent(ctx context.Context, in CalendarEvent) error
	GetEvent(ctx context.Context, id string) (CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, filter EventListFilter) ([]CalendarEvent, error)
}
