package backend

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/formation"
	"github.com/gridcrew/mapathon/pkg/proto"
)

// DefaultTeamSize returns the configured team size.
func (d *Backend) DefaultTeamSize() int {
	return d.cfg.Formation.DefaultTeamSize
}

// FormTeams partitions the session's participants into teams of the given
// size. It succeeds at most once per session. A nil rng is seeded from the
// configured seed, or from the clock when that is zero.
func (d *Backend) FormTeams(ctx context.Context, session string, size int, rng *rand.Rand) (f proto.Formation, err error) {
	defer observe("form_teams", time.Now())
	defer func() {
		formationCounter.WithLabelValues(result(err)).Inc()
		countIsolation(err)
	}()

	if err := formation.ValidateTeamSize(size); err != nil {
		return proto.Formation{}, err
	}
	if rng == nil {
		rng = formation.NewRand(d.cfg.Formation.Seed)
	}

	f = proto.Formation{Session: session}
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		at := d.now()
		if err := d.store.LockSession(ctx, tx, session, at); err != nil {
			return storeError(err, "session", session)
		}

		n, err := d.store.CountTeams(ctx, tx, session)
		if err != nil {
			return db.WrapError(err)
		}
		if n > 0 {
			return alreadyFormed(session)
		}

		ps, err := d.store.ListParticipants(ctx, tx, session)
		if err != nil {
			return db.WrapError(err)
		}
		ids := make([]string, len(ps))
		byID := make(map[string]models.Participant, len(ps))
		for i, p := range ps {
			ids[i] = p.ID
			byID[p.ID] = p
		}

		plan, err := formation.New(session, ids, size, rng)
		if err != nil {
			return err
		}

		for _, pt := range plan.Teams {
			m, err := d.store.CreateTeam(ctx, tx, session, pt.Name, pt.Index, at)
			if err != nil {
				if errors.Is(db.WrapError(err), db.ErrDuplicateKey) {
					return alreadyFormed(session)
				}
				return db.WrapError(err)
			}

			team := teamProto(m)
			for _, mem := range pt.Members {
				if err := d.store.AddTeamMember(ctx, tx, m.ID, mem.ParticipantID, mem.Role, mem.Position, at); err != nil {
					return storeError(err, "participant", mem.ParticipantID)
				}
				p := byID[mem.ParticipantID]
				team.Members = append(team.Members, proto.Member{
					ParticipantID: p.ID,
					Name:          p.Name,
					Handle:        p.Handle,
					Role:          mem.Role,
					Position:      mem.Position,
				})
			}
			f.Teams = append(f.Teams, team)
		}

		return d.store.MarkTeamsFormed(ctx, tx, session, at)
	}); err != nil {
		d.logger.Debug("formation rejected", "session", session, "err", err)
		return proto.Formation{}, err
	}

	f.TeamsCreated = len(f.Teams)
	d.logger.Info("teams formed", "session", session, "teams", f.TeamsCreated, "size", size)

	return f, nil
}

func alreadyFormed(session string) error {
	return &proto.PreconditionError{
		Session: session,
		Cause:   proto.ErrTeamsAlreadyFormed,
		Hint:    "already formed, refresh",
	}
}

// ListTeams lists the teams of a session with their members.
func (d *Backend) ListTeams(ctx context.Context, session string) ([]proto.Team, error) {
	if _, err := d.store.GetSession(ctx, d.db, session); err != nil {
		return nil, storeError(err, "session", session)
	}
	ms, err := d.store.ListTeams(ctx, d.db, session)
	if err != nil {
		return nil, db.WrapError(err)
	}
	members, err := d.store.ListSessionMembers(ctx, d.db, session)
	if err != nil {
		return nil, db.WrapError(err)
	}

	byTeam := make(map[int64][]proto.Member)
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], memberProto(m))
	}

	teams := make([]proto.Team, 0, len(ms))
	for _, m := range ms {
		t := teamProto(m)
		t.Members = append(t.Members, byTeam[m.ID]...)
		teams = append(teams, t)
	}
	return teams, nil
}

// GetTeam returns a team with its members.
func (d *Backend) GetTeam(ctx context.Context, id int64) (proto.Team, error) {
	m, err := d.store.GetTeam(ctx, d.db, id)
	if err != nil {
		return proto.Team{}, storeError(err, "team", id)
	}
	members, err := d.store.ListTeamMembers(ctx, d.db, id)
	if err != nil {
		return proto.Team{}, db.WrapError(err)
	}
	t := teamProto(m)
	for _, mem := range members {
		t.Members = append(t.Members, memberProto(mem))
	}
	return t, nil
}

func teamProto(m models.Team) proto.Team {
	return proto.Team{
		ID:        m.ID,
		SessionID: m.SessionID,
		Name:      m.Name,
		Index:     m.Index,
		Members:   []proto.Member{},
	}
}

func memberProto(m models.TeamMemberView) proto.Member {
	return proto.Member{
		ParticipantID: m.ParticipantID,
		Name:          m.ParticipantName,
		Handle:        m.ParticipantHandle,
		Role: proto.Role{
			Name:        m.RoleName,
			Description: m.RoleDescription,
			Icon:        m.RoleIcon,
		},
		Position: m.Position,
	}
}
