package backend

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/formation"
	"github.com/gridcrew/mapathon/pkg/proto"
)

var handleRegexp = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateParticipant checks a participant's display name and handle.
func ValidateParticipant(name, handle string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &proto.ValidationError{Field: "name", Value: name, Reason: "must not be empty"}
	case utf8.RuneCountInString(name) > maxNameLength:
		return &proto.ValidationError{Field: "name", Value: name, Reason: "must be at most 100 characters"}
	case handle == "":
		return &proto.ValidationError{Field: "handle", Value: handle, Reason: "must not be empty"}
	case len(handle) > maxNameLength:
		return &proto.ValidationError{Field: "handle", Value: handle, Reason: "must be at most 100 characters"}
	case !handleRegexp.MatchString(handle):
		return &proto.ValidationError{Field: "handle", Value: handle, Reason: "may only contain letters, digits, '_', '.', and '-'"}
	}
	return nil
}

// RegisterParticipant adds a participant to an existing session. Handles are
// unique within a session.
func (d *Backend) RegisterParticipant(ctx context.Context, session, name, handle string) (proto.Participant, error) {
	name = strings.TrimSpace(name)
	handle = strings.TrimSpace(handle)
	if err := ValidateParticipant(name, handle); err != nil {
		return proto.Participant{}, err
	}

	m := models.Participant{
		ID:        uuid.NewString(),
		SessionID: session,
		Name:      name,
		Handle:    handle,
		CreatedAt: d.now(),
	}

	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		if _, err := d.store.GetSession(ctx, tx, session); err != nil {
			return storeError(err, "session", session)
		}
		if err := d.store.CreateParticipant(ctx, tx, m); err != nil {
			if errors.Is(db.WrapError(err), db.ErrDuplicateKey) {
				return &proto.PreconditionError{
					Session: session,
					Cause:   proto.ErrDuplicateParticipant,
					Hint:    fmt.Sprintf("handle %q is already registered", handle),
				}
			}
			return db.WrapError(err)
		}
		return nil
	}); err != nil {
		return proto.Participant{}, err
	}

	d.logger.Debug("participant registered", "session", session, "participant", m.ID, "handle", handle)

	return participantProto(m), nil
}

// GetParticipant returns the participant.
func (d *Backend) GetParticipant(ctx context.Context, id string) (proto.Participant, error) {
	m, err := d.store.GetParticipant(ctx, d.db, id)
	if err != nil {
		return proto.Participant{}, storeError(err, "participant", id)
	}
	return participantProto(m), nil
}

// ListParticipants lists the participants of a session in registration
// order.
func (d *Backend) ListParticipants(ctx context.Context, session string) ([]proto.Participant, error) {
	if _, err := d.store.GetSession(ctx, d.db, session); err != nil {
		return nil, storeError(err, "session", session)
	}
	ms, err := d.store.ListParticipants(ctx, d.db, session)
	if err != nil {
		return nil, db.WrapError(err)
	}
	ps := make([]proto.Participant, 0, len(ms))
	for _, m := range ms {
		ps = append(ps, participantProto(m))
	}
	return ps, nil
}

// Readiness tells whether teams can be formed for a session.
type Readiness struct {
	Session      string `json:"session"`
	Participants int    `json:"participants"`
	TeamSize     int    `json:"team_size"`
	Teams        int    `json:"teams"`
	// Missing is how many more participants formation needs.
	Missing int `json:"missing"`
	// OpenSlots is how many seats the last team would leave empty.
	OpenSlots   int  `json:"open_slots"`
	TeamsFormed bool `json:"teams_formed"`
	Ready       bool `json:"ready"`
}

// FormationReadiness reports whether FormTeams would succeed for the
// session with the given team size.
func (d *Backend) FormationReadiness(ctx context.Context, session string, size int) (Readiness, error) {
	if err := formation.ValidateTeamSize(size); err != nil {
		return Readiness{}, err
	}
	if _, err := d.store.GetSession(ctx, d.db, session); err != nil {
		return Readiness{}, storeError(err, "session", session)
	}

	n, err := d.store.CountParticipants(ctx, d.db, session)
	if err != nil {
		return Readiness{}, db.WrapError(err)
	}
	teams, err := d.store.CountTeams(ctx, d.db, session)
	if err != nil {
		return Readiness{}, db.WrapError(err)
	}

	r := Readiness{
		Session:      session,
		Participants: n,
		TeamSize:     size,
		Teams:        formation.TeamCount(n, size),
		TeamsFormed:  teams > 0,
	}
	if n < 1 {
		r.Missing = 1 - n
	}
	r.OpenSlots = r.Teams*size - n
	r.Ready = r.Missing == 0 && !r.TeamsFormed

	return r, nil
}

func participantProto(m models.Participant) proto.Participant {
	return proto.Participant{
		ID:        m.ID,
		SessionID: m.SessionID,
		Name:      m.Name,
		Handle:    m.Handle,
		CreatedAt: m.CreatedAt,
	}
}
