package store

import (
	"context"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
)

// ParticipantStore is a store for participants.
type ParticipantStore interface {
	CreateParticipant(ctx context.Context, h db.Handler, p models.Participant) error
	GetParticipant(ctx context.Context, h db.Handler, id string) (models.Participant, error)
	ListParticipants(ctx context.Context, h db.Handler, session string) ([]models.Participant, error)
	CountParticipants(ctx context.Context, h db.Handler, session string) (int, error)
}
