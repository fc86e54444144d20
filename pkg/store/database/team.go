package database

import (
	"context"
	"fmt"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/gridcrew/mapathon/pkg/store"
)

type teamStore struct {
	*guard
}

var _ store.TeamStore = (*teamStore)(nil)

// CreateTeam implements store.TeamStore.
func (s *teamStore) CreateTeam(ctx context.Context, h db.Handler, session, name string, idx int, at time.Time) (models.Team, error) {
	var id int64
	query := h.Rebind(`
		INSERT INTO
		  teams (session_id, name, idx, created_at)
		VALUES
		  (?, ?, ?, ?)
		RETURNING id
	`)
	if err := h.GetContext(ctx, &id, query, session, name, idx, at); err != nil {
		return models.Team{}, err
	}
	return s.GetTeam(ctx, h, id)
}

// GetTeam implements store.TeamStore.
func (*teamStore) GetTeam(ctx context.Context, h db.Handler, id int64) (models.Team, error) {
	var m models.Team
	err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM teams WHERE id = ?`), id)
	return m, err
}

// ListTeams implements store.TeamStore.
func (*teamStore) ListTeams(ctx context.Context, h db.Handler, session string) ([]models.Team, error) {
	var ms []models.Team
	err := h.SelectContext(ctx, &ms, h.Rebind(`SELECT * FROM teams WHERE session_id = ? ORDER BY idx`), session)
	return ms, err
}

// CountTeams implements store.TeamStore.
func (*teamStore) CountTeams(ctx context.Context, h db.Handler, session string) (int, error) {
	var n int
	err := h.GetContext(ctx, &n, h.Rebind(`SELECT COUNT(*) FROM teams WHERE session_id = ?`), session)
	return n, err
}

// AddTeamMember implements store.TeamStore.
func (s *teamStore) AddTeamMember(ctx context.Context, h db.Handler, team int64, participant string, role proto.Role, position int, at time.Time) error {
	if err := s.checkMembership(ctx, h, participant, team); err != nil {
		return err
	}

	// The join only yields a row when both sides share a session.
	query := h.Rebind(`
		INSERT INTO team_members (
		  team_id, participant_id, role_name, role_description, role_icon,
		  position, created_at, updated_at
		)
		SELECT
		  t.id, p.id, ?, ?, ?, ?, ?, ?
		FROM
		  teams t
		  INNER JOIN participants p ON p.session_id = t.session_id
		WHERE
		  t.id = ?
		  AND p.id = ?
	`)
	res, err := h.ExecContext(ctx, query,
		role.Name, role.Description, role.Icon, position, at, at,
		team, participant)
	if err != nil {
		return err
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return failClosed(func() error {
			return s.checkMembership(ctx, h, participant, team)
		}, fmt.Errorf("add participant %s to team %d: no row written", participant, team))
	}

	return nil
}

// MoveTeamMember implements store.TeamStore.
func (s *teamStore) MoveTeamMember(ctx context.Context, h db.Handler, participant string, team int64, at time.Time) error {
	if err := s.checkMembership(ctx, h, participant, team); err != nil {
		return err
	}

	query := h.Rebind(`
		UPDATE team_members
		SET
		  team_id = ?,
		  updated_at = ?
		WHERE
		  participant_id = ?
		  AND EXISTS (
		    SELECT 1
		    FROM teams t
		      INNER JOIN participants p ON p.session_id = t.session_id
		    WHERE t.id = ? AND p.id = ?
		  )
	`)
	res, err := h.ExecContext(ctx, query, team, at, participant, team, participant)
	if err != nil {
		return err
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return failClosed(func() error {
			return s.checkMembership(ctx, h, participant, team)
		}, proto.NotFound("membership of participant", participant))
	}

	return nil
}

// GetTeamMember implements store.TeamStore.
func (*teamStore) GetTeamMember(ctx context.Context, h db.Handler, participant string) (models.TeamMember, error) {
	var m models.TeamMember
	err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM team_members WHERE participant_id = ?`), participant)
	return m, err
}

// ListTeamMembers implements store.TeamStore.
func (*teamStore) ListTeamMembers(ctx context.Context, h db.Handler, team int64) ([]models.TeamMemberView, error) {
	var ms []models.TeamMemberView
	query := h.Rebind(`
		SELECT
		  tm.*,
		  p.name AS participant_name,
		  p.handle AS participant_handle
		FROM
		  team_members tm
		  INNER JOIN participants p ON p.id = tm.participant_id
		WHERE
		  tm.team_id = ?
		ORDER BY
		  tm.position
	`)
	err := h.SelectContext(ctx, &ms, query, team)
	return ms, err
}

// ListSessionMembers implements store.TeamStore.
func (*teamStore) ListSessionMembers(ctx context.Context, h db.Handler, session string) ([]models.TeamMemberView, error) {
	var ms []models.TeamMemberView
	query := h.Rebind(`
		SELECT
		  tm.*,
		  p.name AS participant_name,
		  p.handle AS participant_handle
		FROM
		  team_members tm
		  INNER JOIN teams t ON t.id = tm.team_id
		  INNER JOIN participants p ON p.id = tm.participant_id
		WHERE
		  t.session_id = ?
		ORDER BY
		  t.idx, tm.position
	`)
	err := h.SelectContext(ctx, &ms, query, session)
	return ms, err
}
