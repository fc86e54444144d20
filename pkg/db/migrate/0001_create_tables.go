package migrate

import (
	"context"

	"github.com/gridcrew/mapathon/pkg/db"
)

const (
	createTablesName    = "create tables"
	createTablesVersion = 1
)

var createTablesUp = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'registering',
		teams_formed_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS participants (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		handle TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		idx INTEGER NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS team_members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id INTEGER NOT NULL REFERENCES teams (id) ON DELETE CASCADE,
		participant_id TEXT NOT NULL REFERENCES participants (id) ON DELETE CASCADE,
		role_name TEXT NOT NULL,
		role_description TEXT NOT NULL,
		role_icon TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS regions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		classification TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS territory_assignments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
		team_id INTEGER NOT NULL REFERENCES teams (id) ON DELETE RESTRICT,
		region_id INTEGER NOT NULL REFERENCES regions (id) ON DELETE RESTRICT,
		status TEXT NOT NULL DEFAULT 'available',
		notes TEXT NOT NULL DEFAULT '',
		assigned_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		started_at DATETIME,
		completed_at DATETIME,
		completed_by TEXT REFERENCES participants (id) ON DELETE SET NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (status IN ('available', 'current', 'completed'))
	);`,
}

var createTablesDown = []string{
	`DROP TABLE IF EXISTS territory_assignments;`,
	`DROP TABLE IF EXISTS regions;`,
	`DROP TABLE IF EXISTS team_members;`,
	`DROP TABLE IF EXISTS teams;`,
	`DROP TABLE IF EXISTS participants;`,
	`DROP TABLE IF EXISTS sessions;`,
}

var createTables = Migration{
	Version: createTablesVersion,
	Name:    createTablesName,
	Migrate: func(ctx context.Context, tx *db.Tx) error {
		return dialect{
			sqlite:   createTablesUp,
			postgres: postgresize(createTablesUp),
		}.exec(ctx, tx)
	},
	Rollback: func(ctx context.Context, tx *db.Tx) error {
		return dialect{
			sqlite:   createTablesDown,
			postgres: createTablesDown,
		}.exec(ctx, tx)
	},
}
