// Package test provides testing utilities.
package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gridcrew/mapathon/pkg/db"
)

// SqliteDSNOptions are appended to the temp database path. Foreign keys are
// left off so tests can corrupt state and exercise diagnostics.
const SqliteDSNOptions = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// OpenSqlite opens a new temp SQLite database for testing.
// It removes the database file when the test is done using tb.Cleanup.
// If ctx is nil, context.TODO() is used.
func OpenSqlite(ctx context.Context, tb testing.TB) (*db.DB, error) {
	if ctx == nil {
		ctx = context.TODO()
	}
	dbpath := filepath.Join(tb.TempDir(), "test.db")
	dbx, err := db.Open(ctx, db.DriverSQLite, dbpath+SqliteDSNOptions)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	tb.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			tb.Error(err)
		}
	})
	return dbx, nil
}
