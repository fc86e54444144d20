package backend

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/gridcrew/mapathon/pkg/formation"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/matryer/is"
)

func TestFormTeamsSevenByThree(t *testing.T) {
	is := is.New(t)
	ctx, b := setup(t)
	ps := seedSession(t, ctx, b, "s", 7)

	f, err := b.FormTeams(ctx, "s", 3, formation.NewRand(7))
	is.NoErr(err)
	is.Equal(f.TeamsCreated, 3)

	teams, err := b.ListTeams(ctx, "s")
	is.NoErr(err)
	is.Equal(len(teams), 3)

	sizes := []int{}
	seen := map[string]int{}
	for i, team := range teams {
		is.Equal(team.Index, i)
		is.Equal(team.Name, formation.TeamName(i))
		sizes = append(sizes, len(team.Members))
		for _, m := range team.Members {
			seen[m.ParticipantID]++
			// Round-robin by shuffled position, roles by global position.
			is.Equal(m.Position%3, i)
			is.Equal(m.Role, proto.RoleAt(m.Position))
		}
	}
	is.Equal(sizes, []int{3, 2, 2})
	is.Equal(len(seen), len(ps))
	for _, p := range ps {
		is.Equal(seen[p.ID], 1)
	}

	// Roles in shuffled order: Pioneer, Technician, Seeker, Pioneer, ...
	roles := make([]string, 7)
	for _, team := range teams {
		for _, m := range team.Members {
			roles[m.Position] = m.Role.Name
		}
	}
	is.Equal(roles, []string{"Pioneer", "Technician", "Seeker", "Pioneer", "Technician", "Seeker", "Pioneer"})

	s, err := b.GetSession(ctx, "s")
	is.NoErr(err)
	is.Equal(s.Status, proto.SessionTeamsFormed)
	is.True(s.TeamsFormedAt != nil)
}

func TestFormTeamsCoverage(t *testing.T) {
	for _, tc := range []struct {
		n, k int
	}{
		{1, 1}, {1, 5}, {5, 1}, {6, 3}, {10, 4}, {13, 5},
	} {
		tc := tc
		t.Run(fmt.Sprintf("%d by %d", tc.n, tc.k), func(t *testing.T) {
			is := is.New(t)
			ctx, b := setup(t)
			seedSession(t, ctx, b, "s", tc.n)

			f, err := b.FormTeams(ctx, "s", tc.k, nil)
			is.NoErr(err)
			is.Equal(f.TeamsCreated, formation.TeamCount(tc.n, tc.k))

			total, lo, hi := 0, tc.n, 0
			for _, team := range f.Teams {
				total += len(team.Members)
				if len(team.Members) < lo {
					lo = len(team.Members)
				}
				if len(team.Members) > hi {
					hi = len(team.Members)
				}
			}
			is.Equal(total, tc.n)
			is.True(hi-lo <= 1)
		})
	}
}

func TestFormTeamsOneShot(t *testing.T) {
	is := is.New(t)
	ctx, b := setup(t)
	seedSession(t, ctx, b, "s", 4)

	_, err := b.FormTeams(ctx, "s", 2, nil)
	is.NoErr(err)

	_, err = b.FormTeams(ctx, "s", 1, nil)
	is.True(errors.Is(err, proto.ErrTeamsAlreadyFormed))
	is.True(errors.Is(err, proto.ErrPrecondition))

	teams, err := b.ListTeams(ctx, "s")
	is.NoErr(err)
	is.Equal(len(teams), 2)
}

func TestFormTeamsRejects(t *testing.T) {
	is := is.New(t)
	ctx, b := setup(t)
	seedSession(t, ctx, b, "empty", 0)
	seedSession(t, ctx, b, "s", 2)

	_, err := b.FormTeams(ctx, "s", 0, nil)
	is.True(errors.Is(err, proto.ErrValidation))

	_, err = b.FormTeams(ctx, "missing", 3, nil)
	is.True(errors.Is(err, proto.ErrNotFound))

	_, err = b.FormTeams(ctx, "empty", 3, nil)
	var pe *proto.PreconditionError
	is.True(errors.As(err, &pe))
	is.True(errors.Is(err, proto.ErrTooFewParticipants))
	is.Equal(pe.Missing, 1)

	s, err := b.GetSession(ctx, "empty")
	is.NoErr(err)
	is.Equal(s.Status, proto.SessionRegistering)
}

func TestFormTeamsConcurrent(t *testing.T) {
	is := is.New(t)
	ctx, b := setup(t)
	seedSession(t, ctx, b, "s", 9)

	const callers = 6
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.FormTeams(ctx, "s", 3, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		is.True(errors.Is(err, proto.ErrTeamsAlreadyFormed))
	}
	is.Equal(wins, 1)

	teams, err := b.ListTeams(ctx, "s")
	is.NoErr(err)
	is.Equal(len(teams), 3)
}
