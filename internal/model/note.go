package model

import (
	"errors"
	"strings"
	"time"
)

type Note struct {
	ID        string
	Title     string
	Body      string
	IsReceipt bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return errors.New("model: note id is required")
	}
	if strings.TrimSpace(n.Title) == "" {
		return errors.New("model: note title is required")
	}
	if n.CreatedAt.IsZero() {
		return errors.New("model: note created_at is required")
	}
	if n.UpdatedAt.IsZero() {
		return errors.New("model: note updated_at is required")
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		return errors.New("model: note updated_at must not precede created_at")
	}
	return nil
}
