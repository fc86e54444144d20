package backend

import (
	"errors"
	"testing"

	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/matryer/is"
)

func TestVerifyDetectsCorruption(t *testing.T) {
	is := is.New(t)
	ctx, b := setup(t)
	xs, as := distributed(t, ctx, b, "X", 2, 1, 4)
	distributed(t, ctx, b, "Y", 2, 1, 4)
	yTeams, err := b.ListTeams(ctx, "Y")
	is.NoErr(err)

	iso, err := b.VerifyIsolation(ctx, "X")
	is.NoErr(err)
	is.Equal(iso.ViolationsFound, 0)

	// Write around the guarded store functions.
	_, err = b.db.ExecContext(ctx, `UPDATE team_members SET team_id = ? WHERE participant_id = ?`, yTeams[0].ID, xs[0].ID)
	is.NoErr(err)
	_, err = b.db.ExecContext(ctx, `DROP INDEX territory_assignments_session_region`)
	is.NoErr(err)
	_, err = b.db.ExecContext(ctx, `INSERT INTO territory_assignments (session_id, team_id, region_id, status, notes, assigned_at, updated_at)
		SELECT session_id, team_id, region_id, status, notes, assigned_at, updated_at FROM territory_assignments WHERE id = ?`, as[0].ID)
	is.NoErr(err)
	_, err = b.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, as[1].TeamID)
	is.NoErr(err)

	iso, err = b.VerifyIsolation(ctx, "X")
	is.NoErr(err)
	is.Equal(iso.ViolationsFound, 1)

	dist, err := b.VerifyDistribution(ctx, "X")
	is.NoErr(err)
	is.Equal(dist.Duplicates, 1)
	// as[1] and every other assignment of the deleted team are orphaned.
	is.True(dist.Orphans >= 1)

	dist, err = b.VerifyDistribution(ctx, "Y")
	is.NoErr(err)
	is.Equal(dist.Duplicates, 0)
	is.Equal(dist.Orphans, 0)

	report, err := b.Sweep(ctx)
	is.NoErr(err)
	is.Equal(report.Sessions, 2)
	is.True(!report.Clean())
	is.Equal(report.Duplicates, 1)

	_, err = b.VerifyIsolation(ctx, "missing")
	is.True(errors.Is(err, proto.ErrNotFound))
}
