package database

import (
	"context"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/store"
)

type integrityStore struct{}

var _ store.IntegrityStore = (*integrityStore)(nil)

// CountIsolationViolations implements store.IntegrityStore.
func (*integrityStore) CountIsolationViolations(ctx context.Context, h db.Handler, session string) (int, error) {
	var n int
	query := h.Rebind(`
		SELECT
		  (
		    SELECT COUNT(*)
		    FROM team_members tm
		      INNER JOIN teams t ON t.id = tm.team_id
		      INNER JOIN participants p ON p.id = tm.participant_id
		    WHERE (t.session_id = ? OR p.session_id = ?)
		      AND t.session_id <> p.session_id
		  ) + (
		    SELECT COUNT(*)
		    FROM territory_assignments a
		      INNER JOIN teams t ON t.id = a.team_id
		    WHERE a.session_id = ?
		      AND t.session_id <> a.session_id
		  ) + (
		    SELECT COUNT(*)
		    FROM territory_assignments a
		      INNER JOIN participants p ON p.id = a.completed_by
		    WHERE a.session_id = ?
		      AND p.session_id <> a.session_id
		  )
	`)
	err := h.GetContext(ctx, &n, query, session, session, session, session)
	return n, err
}

// CountDuplicateRegions implements store.IntegrityStore.
func (*integrityStore) CountDuplicateRegions(ctx context.Context, h db.Handler, session string) (int, error) {
	var n int
	query := h.Rebind(`
		SELECT COUNT(*)
		FROM (
		  SELECT region_id
		  FROM territory_assignments
		  WHERE session_id = ?
		  GROUP BY region_id
		  HAVING COUNT(*) > 1
		) dup
	`)
	err := h.GetContext(ctx, &n, query, session)
	return n, err
}

// CountOrphanAssignments implements store.IntegrityStore.
func (*integrityStore) CountOrphanAssignments(ctx context.Context, h db.Handler, session string) (int, error) {
	var n int
	query := h.Rebind(`
		SELECT COUNT(*)
		FROM territory_assignments a
		  LEFT JOIN teams t ON t.id = a.team_id
		  LEFT JOIN regions r ON r.id = a.region_id
		WHERE a.session_id = ?
		  AND (t.id IS NULL OR r.id IS NULL)
	`)
	err := h.GetContext(ctx, &n, query, session)
	return n, err
}
