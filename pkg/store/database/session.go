package database

import (
	"context"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/gridcrew/mapathon/pkg/store"
)

type sessionStore struct{}

var _ store.SessionStore = (*sessionStore)(nil)

// EnsureSession implements store.SessionStore.
func (*sessionStore) EnsureSession(ctx context.Context, h db.Handler, id, name string, at time.Time) (bool, error) {
	query := h.Rebind(`
		INSERT INTO sessions (id, name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	res, err := h.ExecContext(ctx, query, id, name, string(proto.SessionRegistering), at, at)
	if err != nil {
		return false, err
	}
	n, err := affected(res)
	return n > 0, err
}

// GetSession implements store.SessionStore.
func (*sessionStore) GetSession(ctx context.Context, h db.Handler, id string) (models.Session, error) {
	var m models.Session
	err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM sessions WHERE id = ?`), id)
	return m, err
}

// ListSessions implements store.SessionStore.
func (*sessionStore) ListSessions(ctx context.Context, h db.Handler) ([]models.Session, error) {
	var ms []models.Session
	err := h.SelectContext(ctx, &ms, `SELECT * FROM sessions ORDER BY created_at, id`)
	return ms, err
}

// LockSession implements store.SessionStore.
func (*sessionStore) LockSession(ctx context.Context, h db.Handler, id string, at time.Time) error {
	res, err := h.ExecContext(ctx, h.Rebind(`UPDATE sessions SET updated_at = ? WHERE id = ?`), at, id)
	if err != nil {
		return err
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}

// SetSessionStatus implements store.SessionStore.
func (*sessionStore) SetSessionStatus(ctx context.Context, h db.Handler, id string, status string, at time.Time) error {
	query := h.Rebind(`UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?`)
	_, err := h.ExecContext(ctx, query, status, at, id)
	return err
}

// MarkTeamsFormed implements store.SessionStore.
func (*sessionStore) MarkTeamsFormed(ctx context.Context, h db.Handler, id string, at time.Time) error {
	query := h.Rebind(`
		UPDATE sessions
		SET
		  status = ?,
		  teams_formed_at = ?,
		  updated_at = ?
		WHERE
		  id = ?
	`)
	_, err := h.ExecContext(ctx, query, string(proto.SessionTeamsFormed), at, at, id)
	return err
}
