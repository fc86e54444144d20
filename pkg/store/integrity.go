package store

import (
	"context"

	"github.com/gridcrew/mapathon/pkg/db"
)

// IntegrityStore runs read-only consistency checks.
type IntegrityStore interface {
	// CountIsolationViolations counts memberships and assignments of the
	// session that reference an entity of another session.
	CountIsolationViolations(ctx context.Context, h db.Handler, session string) (int, error)
	// CountDuplicateRegions counts regions assigned more than once in the
	// session.
	CountDuplicateRegions(ctx context.Context, h db.Handler, session string) (int, error)
	// CountOrphanAssignments counts assignments of the session whose team
	// or region no longer exists.
	CountOrphanAssignments(ctx context.Context, h db.Handler, session string) (int, error)
}
