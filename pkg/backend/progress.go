package backend

import (
	"context"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/progress"
)

// GetProgress derives the progress view of a session from its assignments.
func (d *Backend) GetProgress(ctx context.Context, session string) (progress.Progress, error) {
	defer observe("get_progress", time.Now())

	if _, err := d.store.GetSession(ctx, d.db, session); err != nil {
		return progress.Progress{}, storeError(err, "session", session)
	}
	ms, err := d.store.ListTeams(ctx, d.db, session)
	if err != nil {
		return progress.Progress{}, db.WrapError(err)
	}
	vs, err := d.store.ListAssignments(ctx, d.db, session)
	if err != nil {
		return progress.Progress{}, db.WrapError(err)
	}

	teams := make([]progress.Team, 0, len(ms))
	for _, m := range ms {
		teams = append(teams, progressTeam(m))
	}

	return progress.Summarize(session, teams, assignmentsProto(vs)), nil
}

// TeamDetail lists a team's assignments split by status.
func (d *Backend) TeamDetail(ctx context.Context, team int64) (progress.Detail, error) {
	m, err := d.store.GetTeam(ctx, d.db, team)
	if err != nil {
		return progress.Detail{}, storeError(err, "team", team)
	}
	vs, err := d.store.ListTeamAssignments(ctx, d.db, team)
	if err != nil {
		return progress.Detail{}, db.WrapError(err)
	}
	return progress.TeamDetail(progressTeam(m), assignmentsProto(vs)), nil
}

func progressTeam(m models.Team) progress.Team {
	return progress.Team{ID: m.ID, Name: m.Name, Index: m.Index}
}
