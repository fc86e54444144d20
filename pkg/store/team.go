package store

import (
	"context"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/proto"
)

// TeamStore is a store for teams and memberships.
//
// AddTeamMember and MoveTeamMember are the only ways to write a membership.
// Both reject a participant and team from different sessions with a
// *proto.IsolationViolation and leave the database untouched.
type TeamStore interface {
	CreateTeam(ctx context.Context, h db.Handler, session, name string, idx int, at time.Time) (models.Team, error)
	GetTeam(ctx context.Context, h db.Handler, id int64) (models.Team, error)
	ListTeams(ctx context.Context, h db.Handler, session string) ([]models.Team, error)
	CountTeams(ctx context.Context, h db.Handler, session string) (int, error)

	AddTeamMember(ctx context.Context, h db.Handler, team int64, participant string, role proto.Role, position int, at time.Time) error
	MoveTeamMember(ctx context.Context, h db.Handler, participant string, team int64, at time.Time) error
	GetTeamMember(ctx context.Context, h db.Handler, participant string) (models.TeamMember, error)
	ListTeamMembers(ctx context.Context, h db.Handler, team int64) ([]models.TeamMemberView, error)
	ListSessionMembers(ctx context.Context, h db.Handler, session string) ([]models.TeamMemberView, error)
}
