package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/proto"
)

// guard enforces session isolation on every membership and assignment
// write. Each write pairs a pre-check, which produces a descriptive error,
// with a conditional statement that only matches rows of the same session.
// When the statement matches nothing, the check is repeated so a row deleted
// in between surfaces as not found instead of being silently skipped.
type guard struct {
	logger *log.Logger
}

func (g *guard) sessionOf(ctx context.Context, h db.Handler, resource string, query string, id interface{}) (string, error) {
	var session string
	if err := h.GetContext(ctx, &session, h.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", proto.NotFound(resource, id)
		}
		return "", err //nolint:wrapcheck
	}
	return session, nil
}

func (g *guard) participantSession(ctx context.Context, h db.Handler, participant string) (string, error) {
	return g.sessionOf(ctx, h, "participant", `SELECT session_id FROM participants WHERE id = ?`, participant)
}

func (g *guard) teamSession(ctx context.Context, h db.Handler, team int64) (string, error) {
	return g.sessionOf(ctx, h, "team", `SELECT session_id FROM teams WHERE id = ?`, team)
}

func (g *guard) assignmentSession(ctx context.Context, h db.Handler, assignment int64) (string, error) {
	return g.sessionOf(ctx, h, "assignment", `SELECT session_id FROM territory_assignments WHERE id = ?`, assignment)
}

func (g *guard) violation(subject, subjectSession, target, targetSession string) error {
	err := &proto.IsolationViolation{
		Subject:        subject,
		SubjectSession: subjectSession,
		Target:         target,
		TargetSession:  targetSession,
	}
	g.logger.Warn("rejected cross-session write", "err", err)
	return err
}

// checkMembership verifies participant and team belong to the same session.
func (g *guard) checkMembership(ctx context.Context, h db.Handler, participant string, team int64) error {
	ps, err := g.participantSession(ctx, h, participant)
	if err != nil {
		return err
	}
	ts, err := g.teamSession(ctx, h, team)
	if err != nil {
		return err
	}
	if ps != ts {
		return g.violation("participant "+participant, ps, fmt.Sprintf("team %d", team), ts)
	}
	return nil
}

// checkTeamInSession verifies team belongs to session.
func (g *guard) checkTeamInSession(ctx context.Context, h db.Handler, session string, team int64) error {
	ts, err := g.teamSession(ctx, h, team)
	if err != nil {
		return err
	}
	if ts != session {
		return g.violation(fmt.Sprintf("team %d", team), ts, fmt.Sprintf("session %s", session), session)
	}
	return nil
}

// checkParticipantInSession verifies participant belongs to session.
func (g *guard) checkParticipantInSession(ctx context.Context, h db.Handler, session string, participant string) error {
	ps, err := g.participantSession(ctx, h, participant)
	if err != nil {
		return err
	}
	if ps != session {
		return g.violation("participant "+participant, ps, fmt.Sprintf("session %s", session), session)
	}
	return nil
}

// failClosed is called when a conditional write matched no row. It returns
// the reason found by recheck, or errLost when the rows look valid again.
func failClosed(recheck func() error, lost error) error {
	if err := recheck(); err != nil {
		return err
	}
	return lost
}
