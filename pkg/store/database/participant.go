package database

import (
	"context"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/store"
)

type participantStore struct{}

var _ store.ParticipantStore = (*participantStore)(nil)

// CreateParticipant implements store.ParticipantStore.
func (*participantStore) CreateParticipant(ctx context.Context, h db.Handler, p models.Participant) error {
	query := h.Rebind(`
		INSERT INTO
		  participants (id, session_id, name, handle, created_at)
		VALUES
		  (?, ?, ?, ?, ?)
	`)
	_, err := h.ExecContext(ctx, query, p.ID, p.SessionID, p.Name, p.Handle, p.CreatedAt)
	return err
}

// GetParticipant implements store.ParticipantStore.
func (*participantStore) GetParticipant(ctx context.Context, h db.Handler, id string) (models.Participant, error) {
	var m models.Participant
	err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM participants WHERE id = ?`), id)
	return m, err
}

// ListParticipants implements store.ParticipantStore.
func (*participantStore) ListParticipants(ctx context.Context, h db.Handler, session string) ([]models.Participant, error) {
	var ms []models.Participant
	query := h.Rebind(`
		SELECT
		  *
		FROM
		  participants
		WHERE
		  session_id = ?
		ORDER BY
		  created_at, id
	`)
	err := h.SelectContext(ctx, &ms, query, session)
	return ms, err
}

// CountParticipants implements store.ParticipantStore.
func (*participantStore) CountParticipants(ctx context.Context, h db.Handler, session string) (int, error) {
	var n int
	err := h.GetContext(ctx, &n, h.Rebind(`SELECT COUNT(*) FROM participants WHERE session_id = ?`), session)
	return n, err
}
