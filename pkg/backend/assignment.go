package backend

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/gridcrew/mapathon/pkg/territory"
)

// SetAssignmentStatus moves an assignment to status on behalf of actor, an
// optional participant of the assignment's session. Notes replace the
// current notes only when non-nil. Setting the current status again only
// updates the notes.
func (d *Backend) SetAssignmentStatus(ctx context.Context, id int64, status string, actor string, notes *string) (a proto.Assignment, err error) {
	defer observe("set_assignment_status", time.Now())

	to, err := proto.ParseAssignmentStatus(status)
	if err != nil {
		return proto.Assignment{}, err
	}

	var from proto.AssignmentStatus
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		v, err := d.store.GetAssignment(ctx, tx, id)
		if err != nil {
			return storeError(err, "assignment", id)
		}

		if actor != "" {
			p, err := d.store.GetParticipant(ctx, tx, actor)
			if err != nil {
				return storeError(err, "participant", actor)
			}
			if p.SessionID != v.SessionID {
				return &proto.IsolationViolation{
					Subject:        "participant " + actor,
					SubjectSession: p.SessionID,
					Target:         fmt.Sprintf("assignment %d", id),
					TargetSession:  v.SessionID,
				}
			}
		}

		at := d.now()
		from = proto.AssignmentStatus(v.Status)
		next := territory.Apply(assignmentState(v.TerritoryAssignment), territory.Change{
			To:    to,
			Actor: actor,
			Notes: notes,
			At:    at,
		})

		m := v.TerritoryAssignment
		m.Status = string(next.Status)
		m.Notes = next.Notes
		m.StartedAt = nullTime(next.StartedAt)
		m.CompletedAt = nullTime(next.CompletedAt)
		m.CompletedBy = sql.NullString{String: next.CompletedBy, Valid: next.CompletedBy != ""}
		if err := d.store.UpdateAssignmentState(ctx, tx, m, at); err != nil {
			return storeError(err, "assignment", id)
		}

		s, err := d.store.GetSession(ctx, tx, v.SessionID)
		if err != nil {
			return storeError(err, "session", v.SessionID)
		}
		if s.Status != string(proto.SessionActive) && to != proto.StatusAvailable {
			if err := d.store.SetSessionStatus(ctx, tx, s.ID, string(proto.SessionActive), at); err != nil {
				return err
			}
		}

		v, err = d.store.GetAssignment(ctx, tx, id)
		if err != nil {
			return storeError(err, "assignment", id)
		}
		a = assignmentProto(v)
		return nil
	}); err != nil {
		countIsolation(err)
		return proto.Assignment{}, err
	}

	if from != to {
		transitionCounter.WithLabelValues(string(from), string(to)).Inc()
		d.logger.Debug("assignment status changed", "assignment", id, "from", from, "to", to, "actor", actor)
	}

	return a, nil
}

// GetAssignment returns a snapshot of the assignment.
func (d *Backend) GetAssignment(ctx context.Context, id int64) (proto.Assignment, error) {
	v, err := d.store.GetAssignment(ctx, d.db, id)
	if err != nil {
		return proto.Assignment{}, storeError(err, "assignment", id)
	}
	return assignmentProto(v), nil
}

// ListAssignments lists the assignments of a session by region name.
func (d *Backend) ListAssignments(ctx context.Context, session string) ([]proto.Assignment, error) {
	if _, err := d.store.GetSession(ctx, d.db, session); err != nil {
		return nil, storeError(err, "session", session)
	}
	vs, err := d.store.ListAssignments(ctx, d.db, session)
	if err != nil {
		return nil, db.WrapError(err)
	}
	return assignmentsProto(vs), nil
}

// ReassignTerritory hands an assignment to another team of the same
// session. Status and timestamps are kept.
func (d *Backend) ReassignTerritory(ctx context.Context, id, team int64) (a proto.Assignment, err error) {
	defer observe("reassign_territory", time.Now())

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if err := d.store.ReassignAssignment(ctx, tx, id, team, d.now()); err != nil {
			return storeError(err, "assignment", id)
		}
		v, err := d.store.GetAssignment(ctx, tx, id)
		if err != nil {
			return storeError(err, "assignment", id)
		}
		a = assignmentProto(v)
		return nil
	}); err != nil {
		countIsolation(err)
		return proto.Assignment{}, err
	}

	d.logger.Info("territory reassigned", "assignment", id, "team", team)

	return a, nil
}

func assignmentState(m models.TerritoryAssignment) territory.State {
	return territory.State{
		Status:      proto.AssignmentStatus(m.Status),
		Notes:       m.Notes,
		StartedAt:   timePtr(m.StartedAt),
		CompletedAt: timePtr(m.CompletedAt),
		CompletedBy: m.CompletedBy.String,
	}
}

func assignmentProto(v models.TerritoryAssignmentView) proto.Assignment {
	return proto.Assignment{
		ID:          v.ID,
		SessionID:   v.SessionID,
		TeamID:      v.TeamID,
		TeamName:    v.TeamName,
		RegionID:    v.RegionID,
		RegionName:  v.RegionName,
		RegionCode:  v.RegionCode,
		Status:      proto.AssignmentStatus(v.Status),
		Notes:       v.Notes,
		AssignedAt:  v.AssignedAt,
		StartedAt:   timePtr(v.StartedAt),
		CompletedAt: timePtr(v.CompletedAt),
		CompletedBy: v.CompletedBy.String,
	}
}

func assignmentsProto(vs []models.TerritoryAssignmentView) []proto.Assignment {
	as := make([]proto.Assignment, 0, len(vs))
	for _, v := range vs {
		as = append(as, assignmentProto(v))
	}
	return as
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
