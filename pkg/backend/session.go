package backend

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/proto"
)

const maxNameLength = 100

// ValidateSessionID checks a session identifier.
func ValidateSessionID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return &proto.ValidationError{Field: "session", Value: id, Reason: "must not be empty"}
	case id != strings.TrimSpace(id):
		return &proto.ValidationError{Field: "session", Value: id, Reason: "must not have surrounding spaces"}
	case utf8.RuneCountInString(id) > maxNameLength:
		return &proto.ValidationError{Field: "session", Value: id, Reason: "must be at most 100 characters"}
	}
	return nil
}

// EnsureSession creates the session unless it already exists. An empty name
// defaults to the id. It reports whether the session was created.
func (d *Backend) EnsureSession(ctx context.Context, id, name string) (proto.Session, bool, error) {
	if err := ValidateSessionID(id); err != nil {
		return proto.Session{}, false, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = id
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return proto.Session{}, false, &proto.ValidationError{Field: "name", Value: name, Reason: "must be at most 100 characters"}
	}

	var (
		m       models.Session
		created bool
	)
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		var err error
		created, err = d.store.EnsureSession(ctx, tx, id, name, d.now())
		if err != nil {
			return err
		}
		m, err = d.store.GetSession(ctx, tx, id)
		return err
	}); err != nil {
		return proto.Session{}, false, storeError(err, "session", id)
	}

	if created {
		d.logger.Info("session created", "session", id)
	}

	return sessionProto(m), created, nil
}

// GetSession returns the session.
func (d *Backend) GetSession(ctx context.Context, id string) (proto.Session, error) {
	m, err := d.store.GetSession(ctx, d.db, id)
	if err != nil {
		return proto.Session{}, storeError(err, "session", id)
	}
	return sessionProto(m), nil
}

// ListSessions lists all sessions, oldest first.
func (d *Backend) ListSessions(ctx context.Context) ([]proto.Session, error) {
	ms, err := d.store.ListSessions(ctx, d.db)
	if err != nil {
		return nil, db.WrapError(err)
	}
	sessions := make([]proto.Session, 0, len(ms))
	for _, m := range ms {
		sessions = append(sessions, sessionProto(m))
	}
	return sessions, nil
}

func sessionProto(m models.Session) proto.Session {
	s := proto.Session{
		ID:        m.ID,
		Name:      m.Name,
		Status:    proto.SessionStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
	if m.TeamsFormedAt.Valid {
		t := m.TeamsFormedAt.Time
		s.TeamsFormedAt = &t
	}
	return s
}
