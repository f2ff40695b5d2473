package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "noted-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Keep the FK pragma pinned to the single pooled connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	return repo
}

func testNote(id string, at time.Time) Note {
	return Note{
		ID:        id,
		Title:     "Groceries " + id,
		Body:      "# Groceries\n- [ ] milk",
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestNoteCRUD(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	note := testNote("note-1", at)
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != note.Title || got.Body != note.Body || got.IsReceipt {
		t.Fatalf("got %+v", got)
	}
	if !got.CreatedAt.Equal(at) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, at)
	}

	got.Body = "- [x] milk"
	got.IsReceipt = true
	got.UpdatedAt = at.Add(time.Hour)
	if err := repo.UpdateNote(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := repo.GetNote(ctx, "note-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if updated.Body != "- [x] milk" || !updated.IsReceipt {
		t.Fatalf("updated = %+v", updated)
	}

	if err := repo.DeleteNote(ctx, "note-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetNote(ctx, "note-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateMissingNoteReturnsNotFound(t *testing.T) {
	repo := newTestRepository(t)
	at := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	err := repo.UpdateNote(context.Background(), testNote("ghost", at))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNotesOrderAndFilter(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	old := testNote("note-old", base)
	recent := testNote("note-new", base.Add(2*time.Hour))
	receipt := Note{
		ID: "receipt-1", Title: "Hardware receipt", Body: "total 42.00",
		IsReceipt: true, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
	}
	for _, n := range []Note{old, recent, receipt} {
		if err := repo.CreateNote(ctx, n); err != nil {
			t.Fatalf("create %s: %v", n.ID, err)
		}
	}

	all, err := repo.ListNotes(ctx, NoteListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "note-new" || all[2].ID != "note-old" {
		t.Fatalf("unexpected order: %+v", all)
	}

	filtered, err := repo.ListNotes(ctx, NoteListFilter{TitleContains: "receipt"})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "receipt-1" {
		t.Fatalf("filtered = %+v", filtered)
	}

	limited, err := repo.ListNotes(ctx, NoteListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "receipt-1" {
		t.Fatalf("limited = %+v", limited)
	}
}

func TestEventLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	if err := repo.CreateNote(ctx, testNote("note-1", at)); err != nil {
		t.Fatalf("create note: %v", err)
	}

	early := CalendarEvent{
		ID: "event-1", NoteID: "note-1", Title: "dentist",
		StartAt: at.AddDate(0, 0, 1), Context: "dentist tomorrow", CreatedAt: at,
	}
	late := CalendarEvent{
		ID: "event-2", NoteID: "note-1", Title: "review",
		StartAt: at.AddDate(0, 0, 3), Context: "review friday", CreatedAt: at,
	}
	for _, e := range []CalendarEvent{late, early} {
		if err := repo.CreateEvent(ctx, e); err != nil {
			t.Fatalf("create event %s: %v", e.ID, err)
		}
	}

	got, err := repo.GetEvent(ctx, "event-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.Context != "dentist tomorrow" || !got.StartAt.Equal(early.StartAt) {
		t.Fatalf("event = %+v", got)
	}

	listed, err := repo.ListEvents(ctx, EventListFilter{NoteID: "note-1"})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "event-1" || listed[1].ID != "event-2" {
		t.Fatalf("events not ordered by start_at: %+v", listed)
	}

	cutoff := at.AddDate(0, 0, 2)
	upcoming, err := repo.ListEvents(ctx, EventListFilter{After: &cutoff})
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != "event-2" {
		t.Fatalf("upcoming = %+v", upcoming)
	}

	if err := repo.DeleteEvent(ctx, "event-1"); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if _, err := repo.GetEvent(ctx, "event-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventOrderingKeepsSubSecondTimes(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	if err := repo.CreateNote(ctx, testNote("note-1", at)); err != nil {
		t.Fatalf("create note: %v", err)
	}
	whole := CalendarEvent{
		ID: "event-whole", NoteID: "note-1", Title: "standup",
		StartAt: at, CreatedAt: at,
	}
	half := CalendarEvent{
		ID: "event-half", NoteID: "note-1", Title: "followup",
		StartAt: at.Add(500 * time.Millisecond), CreatedAt: at,
	}
	for _, e := range []CalendarEvent{half, whole} {
		if err := repo.CreateEvent(ctx, e); err != nil {
			t.Fatalf("create event %s: %v", e.ID, err)
		}
	}

	listed, err := repo.ListEvents(ctx, EventListFilter{NoteID: "note-1"})
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != "event-whole" || listed[1].ID != "event-half" {
		t.Fatalf("sub-second events mis-ordered: %+v", listed)
	}
	if !listed[1].StartAt.Equal(half.StartAt) {
		t.Fatalf("start_at lost precision: %v", listed[1].StartAt)
	}

	cutoff := at.Add(250 * time.Millisecond)
	upcoming, err := repo.ListEvents(ctx, EventListFilter{After: &cutoff})
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != "event-half" {
		t.Fatalf("sub-second cutoff mis-filtered: %+v", upcoming)
	}
}

func TestDeletingNoteCascadesEvents(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	at := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	if err := repo.CreateNote(ctx, testNote("note-1", at)); err != nil {
		t.Fatalf("create note: %v", err)
	}
	event := CalendarEvent{
		ID: "event-1", NoteID: "note-1", Title: "dentist",
		StartAt: at.AddDate(0, 0, 1), CreatedAt: at,
	}
	if err := repo.CreateEvent(ctx, event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := repo.DeleteNote(ctx, "note-1"); err != nil {
		t.Fatalf("delete note: %v", err)
	}
	if _, err := repo.GetEvent(ctx, "event-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cascade delete, got %v", err)
	}
}

func TestMigrateDownRemovesTables(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "noted-migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if _, err := db.Exec(`SELECT COUNT(*) FROM notes`); err == nil {
		t.Fatal("notes table still exists after migrate down")
	}
}
