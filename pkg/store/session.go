package store

import (
	"context"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
)

// SessionStore is a store for sessions.
type SessionStore interface {
	// EnsureSession creates the session unless it exists and reports
	// whether it was created.
	EnsureSession(ctx context.Context, h db.Handler, id, name string, at time.Time) (bool, error)
	GetSession(ctx context.Context, h db.Handler, id string) (models.Session, error)
	ListSessions(ctx context.Context, h db.Handler) ([]models.Session, error)
	// LockSession takes the write lock on the session row for the rest of
	// the transaction. It returns db.ErrRecordNotFound for unknown sessions.
	LockSession(ctx context.Context, h db.Handler, id string, at time.Time) error
	SetSessionStatus(ctx context.Context, h db.Handler, id string, status string, at time.Time) error
	MarkTeamsFormed(ctx context.Context, h db.Handler, id string, at time.Time) error
}
