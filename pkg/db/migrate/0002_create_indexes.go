package migrate

import (
	"context"

	"github.com/gridcrew/mapathon/pkg/db"
)

const (
	createIndexesName    = "create indexes"
	createIndexesVersion = 2
)

// The unique indexes back the one-shot and no-duplication rules at the
// storage level. They are named so operators can inspect them.
var createIndexesUp = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS participants_session_handle ON participants (session_id, handle);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS teams_session_idx ON teams (session_id, idx);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS team_members_participant ON team_members (participant_id);`,
	`CREATE INDEX IF NOT EXISTS team_members_team ON team_members (team_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS territory_assignments_session_region ON territory_assignments (session_id, region_id);`,
	`CREATE INDEX IF NOT EXISTS territory_assignments_team ON territory_assignments (team_id);`,
}

var createIndexesDown = []string{
	`DROP INDEX IF EXISTS territory_assignments_team;`,
	`DROP INDEX IF EXISTS territory_assignments_session_region;`,
	`DROP INDEX IF EXISTS team_members_team;`,
	`DROP INDEX IF EXISTS team_members_participant;`,
	`DROP INDEX IF EXISTS teams_session_idx;`,
	`DROP INDEX IF EXISTS participants_session_handle;`,
}

var createIndexes = Migration{
	Version: createIndexesVersion,
	Name:    createIndexesName,
	Migrate: func(ctx context.Context, tx *db.Tx) error {
		return dialect{
			sqlite:   createIndexesUp,
			postgres: createIndexesUp,
		}.exec(ctx, tx)
	},
	Rollback: func(ctx context.Context, tx *db.Tx) error {
		return dialect{
			sqlite:   createIndexesDown,
			postgres: createIndexesDown,
		}.exec(ctx, tx)
	},
}
