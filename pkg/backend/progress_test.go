package backend

import (
	"errors"
	"testing"

	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/matryer/is"
)

func TestGetProgress(t *testing.T) {
	is := is.New(t)
	ctx, b := setup(t)
	ps, as := distributed(t, ctx, b, "s", 2, 1, 8)
	teams, err := b.ListTeams(ctx, "s")
	is.NoErr(err)

	p, err := b.GetProgress(ctx, "s")
	is.NoErr(err)
	is.Equal(p.Overall.Total, 8)
	is.Equal(p.Overall.Percent, 0.0)
	is.True(!p.Complete)

	// Team 1 completes three of its four regions, team 0 starts one.
	done, started := 0, 0
	for _, a := range as {
		switch {
		case a.TeamID == teams[1].ID && done < 3:
			_, err := b.SetAssignmentStatus(ctx, a.ID, "completed", ps[0].ID, nil)
			is.NoErr(err)
			done++
		case a.TeamID == teams[0].ID && started == 0:
			_, err := b.SetAssignmentStatus(ctx, a.ID, "current", "", nil)
			is.NoErr(err)
			started++
		}
	}

	p, err = b.GetProgress(ctx, "s")
	is.NoErr(err)
	is.Equal(p.Overall.Completed, 3)
	is.Equal(p.Overall.Current, 1)
	is.Equal(p.Overall.Percent, 37.5)
	is.Equal(p.Leaderboard[0].TeamID, teams[1].ID)
	is.Equal(p.Leaderboard[0].Rank, 1)
	is.Equal(p.Leaderboard[0].Percent, 75.0)
	is.Equal(p.Leaderboard[1].Percent, 0.0)

	d, err := b.TeamDetail(ctx, teams[1].ID)
	is.NoErr(err)
	is.Equal(len(d.Completed), 3)
	is.Equal(len(d.Available), 1)
	is.Equal(d.Counts.Percent, 75.0)

	_, err = b.GetProgress(ctx, "missing")
	is.True(errors.Is(err, proto.ErrNotFound))
	_, err = b.TeamDetail(ctx, 9999)
	is.True(errors.Is(err, proto.ErrNotFound))
}
