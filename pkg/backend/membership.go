package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/proto"
)

// MoveParticipant moves a participant to another team. The participant keeps
// their role. Moving to a team of another session is an isolation violation
// and changes nothing.
func (d *Backend) MoveParticipant(ctx context.Context, participant string, team int64) (t proto.Team, err error) {
	defer observe("move_participant", time.Now())

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetTeamMember(ctx, tx, participant); err != nil {
			if !errors.Is(db.WrapError(err), db.ErrRecordNotFound) {
				return db.WrapError(err)
			}
			p, err := d.store.GetParticipant(ctx, tx, participant)
			if err != nil {
				return storeError(err, "participant", participant)
			}
			return &proto.PreconditionError{
				Session: p.SessionID,
				Cause:   proto.ErrNotMember,
				Hint:    fmt.Sprintf("participant %s joined after teams were formed", participant),
			}
		}

		return storeError(d.store.MoveTeamMember(ctx, tx, participant, team, d.now()), "participant", participant)
	}); err != nil {
		countIsolation(err)
		return proto.Team{}, err
	}

	d.logger.Info("participant moved", "participant", participant, "team", team)

	return d.GetTeam(ctx, team)
}

// MoveTeamMembers moves every member of one team to another. Either all
// members move or none do.
func (d *Backend) MoveTeamMembers(ctx context.Context, from, to int64) (moved int, err error) {
	defer observe("move_team_members", time.Now())

	if from == to {
		return 0, &proto.ValidationError{Field: "team", Value: to, Reason: "source and destination are the same team"}
	}

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetTeam(ctx, tx, from); err != nil {
			return storeError(err, "team", from)
		}
		members, err := d.store.ListTeamMembers(ctx, tx, from)
		if err != nil {
			return db.WrapError(err)
		}
		at := d.now()
		for _, m := range members {
			if err := d.store.MoveTeamMember(ctx, tx, m.ParticipantID, to, at); err != nil {
				return storeError(err, "participant", m.ParticipantID)
			}
			moved++
		}
		return nil
	}); err != nil {
		countIsolation(err)
		return 0, err
	}

	d.logger.Info("team members moved", "from", from, "to", to, "members", moved)

	return moved, nil
}
