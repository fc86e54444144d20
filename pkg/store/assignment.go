package store

import (
	"context"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
)

// AssignmentStore is a store for territory assignments.
//
// CreateAssignment and ReassignAssignment are the only ways to bind a team
// to an assignment. Both reject a team outside the assignment's session with
// a *proto.IsolationViolation.
type AssignmentStore interface {
	CreateAssignment(ctx context.Context, h db.Handler, session string, team, region int64, at time.Time) (models.TerritoryAssignment, error)
	ReassignAssignment(ctx context.Context, h db.Handler, id, team int64, at time.Time) error
	GetAssignment(ctx context.Context, h db.Handler, id int64) (models.TerritoryAssignmentView, error)
	// UpdateAssignmentState writes status, notes, and progress timestamps.
	UpdateAssignmentState(ctx context.Context, h db.Handler, m models.TerritoryAssignment, at time.Time) error
	ListAssignments(ctx context.Context, h db.Handler, session string) ([]models.TerritoryAssignmentView, error)
	ListTeamAssignments(ctx context.Context, h db.Handler, team int64) ([]models.TerritoryAssignmentView, error)
	CountAssignments(ctx context.Context, h db.Handler, session string) (int, error)
}
