package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Times are written zero-padded to nanosecond precision so the TEXT
// columns order chronologically under SQL string comparison. RFC3339Nano
// trims trailing zeros and would mis-order sub-second values.
const sqliteTimeWriteLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB { return r.db }

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateNote(ctx context.Context, in Note) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, title, body, is_receipt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Body, boolInt(in.IsReceipt), mustTime(in.CreatedAt), mustTime(in.UpdatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetNote(ctx context.Context, id string) (Note, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, body, is_receipt, created_at, updated_at
		FROM notes WHERE id = ?`, id)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	return note, nil
}

func (r *SQLiteRepository) UpdateNote(ctx context.Context, in Note) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, body = ?, is_receipt = ?, updated_at = ?
		WHERE id = ?`,
		in.Title, in.Body, boolInt(in.IsReceipt), mustTime(in.UpdatedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListNotes(ctx context.Context, filter NoteListFilter) ([]Note, error) {
	query := `SELECT id, title, body, is_receipt, created_at, updated_at FROM notes`
	args := make([]any, 0, 3)
	if filter.TitleContains != "" {
		query += ` WHERE title LIKE ?`
		args = append(args, "%"+filter.TitleContains+"%")
	}
	query += ` ORDER BY updated_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0)
	for rows.Next() {
		note, scanErr := scanNote(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, note)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateEvent(ctx context.Context, in CalendarEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, note_id, title, start_at, context, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.NoteID, in.Title, mustTime(in.StartAt), in.Context, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, id string) (CalendarEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, note_id, title, start_at, context, created_at
		FROM events WHERE id = ?`, id)
	item, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CalendarEvent{}, ErrNotFound
		}
		return CalendarEvent{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, filter EventListFilter) ([]CalendarEvent, error) {
	query := `SELECT id, note_id, title, start_at, context, created_at FROM events`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.NoteID != "" {
		clauses = append(clauses, "note_id = ?")
		args = append(args, filter.NoteID)
	}
	if filter.After != nil {
		clauses = append(clauses, "start_at >= ?")
		args = append(args, mustTime(*filter.After))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY start_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CalendarEvent, 0)
	for rows.Next() {
		item, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeWriteLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (Note, error) {
	var out Note
	var isReceipt int
	var created, updated string
	if err := s.Scan(&out.ID, &out.Title, &out.Body, &isReceipt, &created, &updated); err != nil {
		return Note{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Note{}, err
	}
	updatedAt, err := parseRequiredTime(updated)
	if err != nil {
		return Note{}, err
	}
	out.IsReceipt = isReceipt == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	return out, nil
}

func scanEvent(s scanner) (CalendarEvent, error) {
	var out CalendarEvent
	var start, created string
	if err := s.Scan(&out.ID, &out.NoteID, &out.Title, &start, &out.Context, &created); err != nil {
		return CalendarEvent{}, err
	}
	startAt, err := parseRequiredTime(start)
	if err != nil {
		return CalendarEvent{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return CalendarEvent{}, err
	}
	out.StartAt = startAt
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
