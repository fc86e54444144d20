package backend

import (
	"errors"
	"testing"

	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/matryer/is"
)

func TestRegisterParticipant(t *testing.T) {
	is := is.New(t)
	ctx, b := setup(t)
	seedSession(t, ctx, b, "s", 0)

	p, err := b.RegisterParticipant(ctx, "s", " Ada ", "ada.l")
	is.NoErr(err)
	is.Equal(p.Name, "Ada")
	is.Equal(p.SessionID, "s")
	is.True(p.ID != "")

	_, err = b.RegisterParticipant(ctx, "s", "Ada again", "ada.l")
	var pe *proto.PreconditionError
	is.True(errors.As(err, &pe))
	is.True(errors.Is(err, proto.ErrDuplicateParticipant))
	is.Equal(pe.Session, "s")

	_, err = b.RegisterParticipant(ctx, "nope", "Bob", "bob")
	is.True(errors.Is(err, proto.ErrNotFound))

	for _, bad := range [][2]string{{"", "x"}, {"Bob", ""}, {"Bob", "has space"}, {"Bob", "ünicode"}} {
		_, err := b.RegisterParticipant(ctx, "s", bad[0], bad[1])
		is.True(errors.Is(err, proto.ErrValidation))
	}

	ps, err := b.ListParticipants(ctx, "s")
	is.NoErr(err)
	is.Equal(len(ps), 1)
}

func TestFormationReadiness(t *testing.T) {
	is := is.New(t)
	ctx, b := setup(t)
	seedSession(t, ctx, b, "s", 0)

	r, err := b.FormationReadiness(ctx, "s", 3)
	is.NoErr(err)
	is.Equal(r.Missing, 1)
	is.True(!r.Ready)

	seedSession(t, ctx, b, "t", 7)
	r, err = b.FormationReadiness(ctx, "t", 3)
	is.NoErr(err)
	is.Equal(r.Participants, 7)
	is.Equal(r.Teams, 3)
	is.Equal(r.OpenSlots, 2)
	is.True(r.Ready)

	_, err = b.FormTeams(ctx, "t", 3, nil)
	is.NoErr(err)
	r, err = b.FormationReadiness(ctx, "t", 3)
	is.NoErr(err)
	is.True(r.TeamsFormed)
	is.True(!r.Ready)

	_, err = b.FormationReadiness(ctx, "t", 0)
	is.True(errors.Is(err, proto.ErrValidation))
}
