package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/gridcrew/mapathon/pkg/store"
)

type assignmentStore struct {
	*guard
}

var _ store.AssignmentStore = (*assignmentStore)(nil)

const assignmentViewColumns = `
	a.*,
	COALESCE(t.name, '') AS team_name,
	COALESCE(r.name, '') AS region_name,
	COALESCE(r.code, '') AS region_code
`

const assignmentViewJoins = `
	territory_assignments a
	LEFT JOIN teams t ON t.id = a.team_id
	LEFT JOIN regions r ON r.id = a.region_id
`

func (s *assignmentStore) checkRegion(ctx context.Context, h db.Handler, region int64) error {
	var id int64
	err := h.GetContext(ctx, &id, h.Rebind(`SELECT id FROM regions WHERE id = ?`), region)
	if errors.Is(err, sql.ErrNoRows) {
		return proto.NotFound("region", region)
	}
	return err
}

// CreateAssignment implements store.AssignmentStore.
func (s *assignmentStore) CreateAssignment(ctx context.Context, h db.Handler, session string, team, region int64, at time.Time) (models.TerritoryAssignment, error) {
	var m models.TerritoryAssignment
	check := func() error {
		if err := s.checkTeamInSession(ctx, h, session, team); err != nil {
			return err
		}
		return s.checkRegion(ctx, h, region)
	}
	if err := check(); err != nil {
		return m, err
	}

	query := h.Rebind(`
		INSERT INTO territory_assignments (
		  session_id, team_id, region_id, status, notes, assigned_at, updated_at
		)
		SELECT
		  t.session_id, t.id, r.id, ?, '', ?, ?
		FROM
		  teams t
		  CROSS JOIN regions r
		WHERE
		  t.id = ?
		  AND t.session_id = ?
		  AND r.id = ?
		RETURNING id
	`)
	var id int64
	err := h.GetContext(ctx, &id, query, string(proto.StatusAvailable), at, at, team, session, region)
	if errors.Is(err, sql.ErrNoRows) {
		return m, failClosed(check, fmt.Errorf("assign region %d to team %d: no row written", region, team))
	}
	if err != nil {
		return m, err
	}

	err = h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM territory_assignments WHERE id = ?`), id)
	return m, err
}

// ReassignAssignment implements store.AssignmentStore.
func (s *assignmentStore) ReassignAssignment(ctx context.Context, h db.Handler, id, team int64, at time.Time) error {
	check := func() error {
		as, err := s.assignmentSession(ctx, h, id)
		if err != nil {
			return err
		}
		ts, err := s.teamSession(ctx, h, team)
		if err != nil {
			return err
		}
		if as != ts {
			return s.violation(fmt.Sprintf("team %d", team), ts, fmt.Sprintf("assignment %d", id), as)
		}
		return nil
	}
	if err := check(); err != nil {
		return err
	}

	query := h.Rebind(`
		UPDATE territory_assignments
		SET
		  team_id = ?,
		  updated_at = ?
		WHERE
		  id = ?
		  AND session_id = (SELECT session_id FROM teams WHERE id = ?)
	`)
	res, err := h.ExecContext(ctx, query, team, at, id, team)
	if err != nil {
		return err
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return failClosed(check, fmt.Errorf("reassign assignment %d to team %d: no row written", id, team))
	}

	return nil
}

// GetAssignment implements store.AssignmentStore.
func (*assignmentStore) GetAssignment(ctx context.Context, h db.Handler, id int64) (models.TerritoryAssignmentView, error) {
	var m models.TerritoryAssignmentView
	query := h.Rebind(`SELECT ` + assignmentViewColumns + ` FROM ` + assignmentViewJoins + ` WHERE a.id = ?`)
	err := h.GetContext(ctx, &m, query, id)
	return m, err
}

// UpdateAssignmentState implements store.AssignmentStore.
func (s *assignmentStore) UpdateAssignmentState(ctx context.Context, h db.Handler, m models.TerritoryAssignment, at time.Time) error {
	if m.CompletedBy.Valid {
		if err := s.checkParticipantInSession(ctx, h, m.SessionID, m.CompletedBy.String); err != nil {
			return err
		}
	}

	query := h.Rebind(`
		UPDATE territory_assignments
		SET
		  status = ?,
		  notes = ?,
		  started_at = ?,
		  completed_at = ?,
		  completed_by = ?,
		  updated_at = ?
		WHERE
		  id = ?
		  AND session_id = ?
	`)
	res, err := h.ExecContext(ctx, query,
		m.Status, m.Notes, m.StartedAt, m.CompletedAt, m.CompletedBy, at,
		m.ID, m.SessionID)
	if err != nil {
		return err
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return proto.NotFound("assignment", m.ID)
	}

	return nil
}

// ListAssignments implements store.AssignmentStore.
func (*assignmentStore) ListAssignments(ctx context.Context, h db.Handler, session string) ([]models.TerritoryAssignmentView, error) {
	var ms []models.TerritoryAssignmentView
	query := h.Rebind(`SELECT ` + assignmentViewColumns + ` FROM ` + assignmentViewJoins + `
		WHERE a.session_id = ?
		ORDER BY region_name, a.id`)
	err := h.SelectContext(ctx, &ms, query, session)
	return ms, err
}

// ListTeamAssignments implements store.AssignmentStore.
func (*assignmentStore) ListTeamAssignments(ctx context.Context, h db.Handler, team int64) ([]models.TerritoryAssignmentView, error) {
	var ms []models.TerritoryAssignmentView
	query := h.Rebind(`SELECT ` + assignmentViewColumns + ` FROM ` + assignmentViewJoins + `
		WHERE a.team_id = ?
		ORDER BY region_name, a.id`)
	err := h.SelectContext(ctx, &ms, query, team)
	return ms, err
}

// CountAssignments implements store.AssignmentStore.
func (*assignmentStore) CountAssignments(ctx context.Context, h db.Handler, session string) (int, error) {
	var n int
	err := h.GetContext(ctx, &n, h.Rebind(`SELECT COUNT(*) FROM territory_assignments WHERE session_id = ?`), session)
	return n, err
}
