package proto

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestErrorKinds(t *testing.T) {
	is := is.New(t)
	cases := map[string]error{
		"validation":   &ValidationError{Field: "team_size", Value: 0, Reason: "must be at least 1"},
		"precondition": &PreconditionError{Session: "x", Cause: ErrTeamsAlreadyFormed},
		"isolation":    &IsolationViolation{Subject: "participant p", SubjectSession: "X", Target: "team 2", TargetSession: "Y"},
		"not_found":    NotFound("session", "x"),
		"internal":     errors.New("connection reset"),
	}
	for want, err := range cases {
		is.Equal(Kind(err), want)
		is.Equal(Kind(fmt.Errorf("wrapped: %w", err)), want)
	}
}

func TestPreconditionUnwrap(t *testing.T) {
	is := is.New(t)
	err := error(&PreconditionError{Session: "s1", Cause: ErrTooFewParticipants, Missing: 2})
	is.True(errors.Is(err, ErrPrecondition))
	is.True(errors.Is(err, ErrTooFewParticipants))
	is.True(!errors.Is(err, ErrTeamsAlreadyFormed))
	is.True(strings.Contains(err.Error(), "need 2 more"))
	is.True(strings.Contains(err.Error(), `"s1"`))
}

func TestIsolationMessage(t *testing.T) {
	is := is.New(t)
	err := &IsolationViolation{Subject: "participant p1", SubjectSession: "X", Target: "team 7", TargetSession: "Y"}
	is.Equal(err.Error(), `session isolation violation: participant p1 belongs to session "X" but team 7 belongs to session "Y"`)
}

func TestParseAssignmentStatus(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"available", "current", "completed", " Completed "} {
		_, err := ParseAssignmentStatus(s)
		is.NoErr(err)
	}
	_, err := ParseAssignmentStatus("done")
	is.True(errors.Is(err, ErrValidation))
}

func TestRoleAt(t *testing.T) {
	is := is.New(t)
	names := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		names = append(names, RoleAt(i).Name)
	}
	is.Equal(names, []string{"Pioneer", "Technician", "Seeker", "Pioneer", "Technician", "Seeker", "Pioneer"})
}
