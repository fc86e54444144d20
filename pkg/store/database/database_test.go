package database_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/migrate"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/gridcrew/mapathon/pkg/store"
	"github.com/gridcrew/mapathon/pkg/store/database"
	"github.com/gridcrew/mapathon/pkg/test"
	"github.com/matryer/is"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx context.Context
	db  *db.DB
	st  store.Store
}

func setup(t *testing.T) fixture {
	t.Helper()
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)
	is.NoErr(migrate.Migrate(ctx, dbx))
	return fixture{ctx: ctx, db: dbx, st: database.New(ctx, dbx)}
}

func (f fixture) session(t *testing.T, id string) {
	t.Helper()
	if _, err := f.st.EnsureSession(f.ctx, f.db, id, id, now); err != nil {
		t.Fatal(err)
	}
}

func (f fixture) participant(t *testing.T, session, id string) {
	t.Helper()
	p := models.Participant{ID: id, SessionID: session, Name: id, Handle: id, CreatedAt: now}
	if err := f.st.CreateParticipant(f.ctx, f.db, p); err != nil {
		t.Fatal(err)
	}
}

func (f fixture) team(t *testing.T, session string, idx int) models.Team {
	t.Helper()
	m, err := f.st.CreateTeam(f.ctx, f.db, session, "team", idx, now)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func (f fixture) region(t *testing.T, code string) models.Region {
	t.Helper()
	if _, err := f.st.UpsertRegion(f.ctx, f.db, models.Region{Name: code, Code: code, Active: true}, now); err != nil {
		t.Fatal(err)
	}
	regions, err := f.st.ListRegions(f.ctx, f.db, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range regions {
		if r.Code == code {
			return r
		}
	}
	t.Fatalf("region %s not found", code)
	return models.Region{}
}

func TestEnsureSession(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	created, err := f.st.EnsureSession(f.ctx, f.db, "s1", "First", now)
	is.NoErr(err)
	is.True(created)

	created, err = f.st.EnsureSession(f.ctx, f.db, "s1", "Renamed", now)
	is.NoErr(err)
	is.True(!created)

	s, err := f.st.GetSession(f.ctx, f.db, "s1")
	is.NoErr(err)
	is.Equal(s.Name, "First")
	is.Equal(s.Status, string(proto.SessionRegistering))

	is.True(errors.Is(f.st.LockSession(f.ctx, f.db, "missing", now), db.ErrRecordNotFound))
}

func TestAddTeamMember(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	f.session(t, "a")
	f.session(t, "b")
	f.participant(t, "a", "pa")
	f.participant(t, "b", "pb")
	ta := f.team(t, "a", 0)

	is.NoErr(f.st.AddTeamMember(f.ctx, f.db, ta.ID, "pa", proto.RoleAt(0), 0, now))

	err := f.st.AddTeamMember(f.ctx, f.db, ta.ID, "pb", proto.RoleAt(1), 1, now)
	var iv *proto.IsolationViolation
	is.True(errors.As(err, &iv))
	is.Equal(iv.SubjectSession, "b")
	is.Equal(iv.TargetSession, "a")

	_, err = f.st.GetTeamMember(f.ctx, f.db, "pb")
	is.True(errors.Is(err, sql.ErrNoRows))

	err = f.st.AddTeamMember(f.ctx, f.db, ta.ID, "ghost", proto.RoleAt(1), 1, now)
	is.True(errors.Is(err, proto.ErrNotFound))

	members, err := f.st.ListTeamMembers(f.ctx, f.db, ta.ID)
	is.NoErr(err)
	is.Equal(len(members), 1)
	is.Equal(members[0].ParticipantHandle, "pa")
	is.Equal(members[0].RoleName, "Pioneer")
}

func TestMoveTeamMember(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	f.session(t, "a")
	f.session(t, "b")
	f.participant(t, "a", "pa")
	ta0 := f.team(t, "a", 0)
	ta1 := f.team(t, "a", 1)
	tb := f.team(t, "b", 0)
	is.NoErr(f.st.AddTeamMember(f.ctx, f.db, ta0.ID, "pa", proto.RoleAt(2), 2, now))

	err := f.st.MoveTeamMember(f.ctx, f.db, "pa", tb.ID, now)
	is.True(errors.Is(err, proto.ErrIsolation))
	m, err := f.st.GetTeamMember(f.ctx, f.db, "pa")
	is.NoErr(err)
	is.Equal(m.TeamID, ta0.ID)

	is.NoErr(f.st.MoveTeamMember(f.ctx, f.db, "pa", ta1.ID, now))
	m, err = f.st.GetTeamMember(f.ctx, f.db, "pa")
	is.NoErr(err)
	is.Equal(m.TeamID, ta1.ID)
	is.Equal(m.RoleName, "Seeker")
}

func TestAssignmentGuard(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	f.session(t, "a")
	f.session(t, "b")
	f.participant(t, "b", "pb")
	ta := f.team(t, "a", 0)
	tb := f.team(t, "b", 0)
	r := f.region(t, "R1")

	_, err := f.st.CreateAssignment(f.ctx, f.db, "a", tb.ID, r.ID, now)
	is.True(errors.Is(err, proto.ErrIsolation))

	_, err = f.st.CreateAssignment(f.ctx, f.db, "a", ta.ID, 9999, now)
	is.True(errors.Is(err, proto.ErrNotFound))

	m, err := f.st.CreateAssignment(f.ctx, f.db, "a", ta.ID, r.ID, now)
	is.NoErr(err)
	is.Equal(m.Status, string(proto.StatusAvailable))
	is.Equal(m.SessionID, "a")

	is.True(errors.Is(f.st.ReassignAssignment(f.ctx, f.db, m.ID, tb.ID, now), proto.ErrIsolation))

	m.Status = string(proto.StatusCompleted)
	m.CompletedBy = sql.NullString{String: "pb", Valid: true}
	is.True(errors.Is(f.st.UpdateAssignmentState(f.ctx, f.db, m, now), proto.ErrIsolation))

	v, err := f.st.GetAssignment(f.ctx, f.db, m.ID)
	is.NoErr(err)
	is.Equal(v.TeamID, ta.ID)
	is.Equal(v.Status, string(proto.StatusAvailable))
	is.Equal(v.RegionCode, "R1")

	n, err := f.st.CountIsolationViolations(f.ctx, f.db, "a")
	is.NoErr(err)
	is.Equal(n, 0)
}

func TestIntegrityCounts(t *testing.T) {
	is := is.New(t)
	f := setup(t)
	f.session(t, "a")
	f.session(t, "b")
	f.participant(t, "a", "pa")
	ta := f.team(t, "a", 0)
	tb := f.team(t, "b", 0)
	r1 := f.region(t, "R1")
	r2 := f.region(t, "R2")

	_, err := f.st.CreateAssignment(f.ctx, f.db, "a", ta.ID, r1.ID, now)
	is.NoErr(err)
	orphan, err := f.st.CreateAssignment(f.ctx, f.db, "a", ta.ID, r2.ID, now)
	is.NoErr(err)

	// Corrupt the database behind the store's back.
	_, err = f.db.ExecContext(f.ctx, `INSERT INTO team_members (team_id, participant_id, role_name, role_description, role_icon, position, created_at, updated_at)
		VALUES (?, 'pa', 'Pioneer', '', '', 0, ?, ?)`, tb.ID, now, now)
	is.NoErr(err)
	_, err = f.db.ExecContext(f.ctx, `DROP INDEX territory_assignments_session_region`)
	is.NoErr(err)
	_, err = f.db.ExecContext(f.ctx, `INSERT INTO territory_assignments (session_id, team_id, region_id, status, notes, assigned_at, updated_at)
		VALUES ('a', ?, ?, 'available', '', ?, ?)`, ta.ID, r1.ID, now, now)
	is.NoErr(err)
	_, err = f.db.ExecContext(f.ctx, `UPDATE territory_assignments SET team_id = 4242 WHERE id = ?`, orphan.ID)
	is.NoErr(err)

	n, err := f.st.CountIsolationViolations(f.ctx, f.db, "a")
	is.NoErr(err)
	is.Equal(n, 1)

	n, err = f.st.CountDuplicateRegions(f.ctx, f.db, "a")
	is.NoErr(err)
	is.Equal(n, 1)

	n, err = f.st.CountOrphanAssignments(f.ctx, f.db, "a")
	is.NoErr(err)
	is.Equal(n, 1)

	n, err = f.st.CountDuplicateRegions(f.ctx, f.db, "b")
	is.NoErr(err)
	is.Equal(n, 0)
}

func TestUpsertRegion(t *testing.T) {
	is := is.New(t)
	f := setup(t)

	inserted, err := f.st.UpsertRegion(f.ctx, f.db, models.Region{Name: "Zeta", Code: "Z", Active: true}, now)
	is.NoErr(err)
	is.True(inserted)
	inserted, err = f.st.UpsertRegion(f.ctx, f.db, models.Region{Name: "Alpha", Code: "A", Active: true}, now)
	is.NoErr(err)
	is.True(inserted)
	inserted, err = f.st.UpsertRegion(f.ctx, f.db, models.Region{Name: "Zeta Prime", Code: "Z", Classification: "district"}, now)
	is.NoErr(err)
	is.True(!inserted)

	all, err := f.st.ListRegions(f.ctx, f.db, false)
	is.NoErr(err)
	is.Equal(len(all), 2)
	is.Equal(all[0].Name, "Alpha")
	is.Equal(all[1].Name, "Zeta Prime")
	is.Equal(all[1].Classification, "district")

	active, err := f.st.ListRegions(f.ctx, f.db, true)
	is.NoErr(err)
	is.Equal(len(active), 1)

	is.NoErr(f.st.SetRegionActive(f.ctx, f.db, all[1].ID, true, now))
	active, err = f.st.ListRegions(f.ctx, f.db, true)
	is.NoErr(err)
	is.Equal(len(active), 2)

	is.True(errors.Is(f.st.SetRegionActive(f.ctx, f.db, 9999, true, now), db.ErrRecordNotFound))
}

// racingHandler runs hook once, right before the first statement containing
// match, to change rows between a guard's check and its write.
type racingHandler struct {
	db.Handler
	match string
	hook  func()
	fired bool
}

func (h *racingHandler) race(query string) {
	if !h.fired && strings.Contains(query, h.match) {
		h.fired = true
		h.hook()
	}
}

func (h *racingHandler) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	h.race(query)
	return h.Handler.GetContext(ctx, dest, query, args...)
}

func (h *racingHandler) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	h.race(query)
	return h.Handler.ExecContext(ctx, query, args...)
}

func (f fixture) racing(t *testing.T, match, deleteQuery string, args ...interface{}) *racingHandler {
	t.Helper()
	return &racingHandler{Handler: f.db, match: match, hook: func() {
		if _, err := f.db.ExecContext(f.ctx, deleteQuery, args...); err != nil {
			t.Fatal(err)
		}
	}}
}

func TestGuardFailsClosed(t *testing.T) {
	t.Run("add member after participant deleted", func(t *testing.T) {
		is := is.New(t)
		f := setup(t)
		f.session(t, "a")
		f.participant(t, "a", "pa")
		ta := f.team(t, "a", 0)

		h := f.racing(t, "INSERT INTO team_members", `DELETE FROM participants WHERE id = ?`, "pa")
		err := f.st.AddTeamMember(f.ctx, h, ta.ID, "pa", proto.RoleAt(0), 0, now)
		is.True(h.fired)
		var nf *proto.NotFoundError
		is.True(errors.As(err, &nf))
		is.Equal(nf.Resource, "participant")

		members, err := f.st.ListTeamMembers(f.ctx, f.db, ta.ID)
		is.NoErr(err)
		is.Equal(len(members), 0)
	})

	t.Run("move member after team deleted", func(t *testing.T) {
		is := is.New(t)
		f := setup(t)
		f.session(t, "a")
		f.participant(t, "a", "pa")
		ta0 := f.team(t, "a", 0)
		ta1 := f.team(t, "a", 1)
		is.NoErr(f.st.AddTeamMember(f.ctx, f.db, ta0.ID, "pa", proto.RoleAt(0), 0, now))

		h := f.racing(t, "UPDATE team_members", `DELETE FROM teams WHERE id = ?`, ta1.ID)
		err := f.st.MoveTeamMember(f.ctx, h, "pa", ta1.ID, now)
		is.True(h.fired)
		var nf *proto.NotFoundError
		is.True(errors.As(err, &nf))
		is.Equal(nf.Resource, "team")

		m, err := f.st.GetTeamMember(f.ctx, f.db, "pa")
		is.NoErr(err)
		is.Equal(m.TeamID, ta0.ID)
	})

	t.Run("move without membership", func(t *testing.T) {
		is := is.New(t)
		f := setup(t)
		f.session(t, "a")
		f.participant(t, "a", "late")
		ta := f.team(t, "a", 0)

		// Both sides check out, but there is no row to update.
		err := f.st.MoveTeamMember(f.ctx, f.db, "late", ta.ID, now)
		is.True(errors.Is(err, proto.ErrNotFound))
		_, err = f.st.GetTeamMember(f.ctx, f.db, "late")
		is.True(errors.Is(err, sql.ErrNoRows))
	})

	t.Run("create assignment after team deleted", func(t *testing.T) {
		is := is.New(t)
		f := setup(t)
		f.session(t, "a")
		ta := f.team(t, "a", 0)
		r := f.region(t, "R1")

		h := f.racing(t, "INSERT INTO territory_assignments", `DELETE FROM teams WHERE id = ?`, ta.ID)
		_, err := f.st.CreateAssignment(f.ctx, h, "a", ta.ID, r.ID, now)
		is.True(h.fired)
		var nf *proto.NotFoundError
		is.True(errors.As(err, &nf))
		is.Equal(nf.Resource, "team")

		n, err := f.st.CountAssignments(f.ctx, f.db, "a")
		is.NoErr(err)
		is.Equal(n, 0)
	})

	t.Run("reassign after team deleted", func(t *testing.T) {
		is := is.New(t)
		f := setup(t)
		f.session(t, "a")
		ta0 := f.team(t, "a", 0)
		ta1 := f.team(t, "a", 1)
		r := f.region(t, "R1")
		m, err := f.st.CreateAssignment(f.ctx, f.db, "a", ta0.ID, r.ID, now)
		is.NoErr(err)

		h := f.racing(t, "UPDATE territory_assignments", `DELETE FROM teams WHERE id = ?`, ta1.ID)
		err = f.st.ReassignAssignment(f.ctx, h, m.ID, ta1.ID, now)
		is.True(h.fired)
		var nf *proto.NotFoundError
		is.True(errors.As(err, &nf))
		is.Equal(nf.Resource, "team")

		v, err := f.st.GetAssignment(f.ctx, f.db, m.ID)
		is.NoErr(err)
		is.Equal(v.TeamID, ta0.ID)
	})
}
