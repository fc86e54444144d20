package migrate

import (
	"context"
	"testing"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/test"
	"github.com/matryer/is"
)

func TestMigrate(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)
	is.NoErr(Migrate(ctx, dbx))

	v, err := Version(ctx, dbx)
	is.NoErr(err)
	is.Equal(v, int64(len(migrations)))

	// Running again is a no-op.
	is.NoErr(Migrate(ctx, dbx))

	for _, table := range []string{"sessions", "participants", "teams", "team_members", "regions", "territory_assignments"} {
		is.NoErr(dbx.TransactionContext(ctx, func(tx *db.Tx) error {
			if !hasTable(ctx, tx, table) {
				t.Errorf("table %q missing after migration", table)
			}
			return nil
		}))
	}
}

func TestRollback(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)
	is.NoErr(Migrate(ctx, dbx))

	is.NoErr(Rollback(ctx, dbx))
	v, err := Version(ctx, dbx)
	is.NoErr(err)
	is.Equal(v, int64(createTablesVersion))

	is.NoErr(Rollback(ctx, dbx))
	is.NoErr(dbx.TransactionContext(ctx, func(tx *db.Tx) error {
		is.True(!hasTable(ctx, tx, "sessions"))
		return nil
	}))

	is.True(Rollback(ctx, dbx) != nil) // nothing left
}

func TestPostgresize(t *testing.T) {
	is := is.New(t)
	out := postgresize([]string{"id INTEGER PRIMARY KEY AUTOINCREMENT, at DATETIME, team_id INTEGER NOT NULL REFERENCES teams (id)"})
	is.Equal(out[0], "id BIGSERIAL PRIMARY KEY, at TIMESTAMPTZ, team_id BIGINT NOT NULL REFERENCES teams (id)")
}
