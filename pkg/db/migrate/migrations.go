package migrate

import (
	"context"
	"strings"

	"github.com/gridcrew/mapathon/pkg/db"
)

// Keep this in order of execution, oldest to newest.
var migrations = []Migration{
	createTables,
	createIndexes,
}

// dialect holds one statement list per SQL dialect.
type dialect struct {
	sqlite   []string
	postgres []string
}

func (d dialect) exec(ctx context.Context, h db.Handler) error {
	stmts := d.sqlite
	if db.IsPostgres(h.DriverName()) {
		stmts = d.postgres
	}
	for _, stmt := range stmts {
		if _, err := h.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// postgresize rewrites the sqlite flavored DDL for postgres.
func postgresize(stmts []string) []string {
	r := strings.NewReplacer(
		"INTEGER PRIMARY KEY AUTOINCREMENT", "BIGSERIAL PRIMARY KEY",
		"DATETIME", "TIMESTAMPTZ",
		"INTEGER NOT NULL REFERENCES", "BIGINT NOT NULL REFERENCES",
	)
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = r.Replace(s)
	}
	return out
}
