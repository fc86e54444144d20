package proto

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine matches exactly one of
// these with errors.Is.
var (
	// ErrValidation is returned when an input has a bad shape or range.
	ErrValidation = errors.New("validation error")
	// ErrPrecondition is returned when an operation was already performed or
	// its precondition is unmet.
	ErrPrecondition = errors.New("precondition failed")
	// ErrIsolation is returned when a cross-session reference is attempted.
	ErrIsolation = errors.New("session isolation violation")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)

// Preconditions. A PreconditionError unwraps to one of these.
var (
	// ErrTeamsAlreadyFormed is returned when teams exist for the session.
	ErrTeamsAlreadyFormed = errors.New("teams already formed")
	// ErrTooFewParticipants is returned when a session has no participants to form teams from.
	ErrTooFewParticipants = errors.New("too few participants")
	// ErrNoTeams is returned when territories are distributed before teams exist.
	ErrNoTeams = errors.New("no teams")
	// ErrAlreadyDistributed is returned when territories were already distributed.
	ErrAlreadyDistributed = errors.New("territories already distributed")
	// ErrNoRegions is returned when the catalog has no active region.
	ErrNoRegions = errors.New("no active regions")
	// ErrDuplicateParticipant is returned when a handle is already registered in the session.
	ErrDuplicateParticipant = errors.New("participant already registered")
	// ErrNotMember is returned when a participant has no team membership.
	ErrNotMember = errors.New("participant has no team")
)

// ValidationError reports a malformed or out of range input.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PreconditionError reports an operation that cannot run in the current
// session state.
type PreconditionError struct {
	Session string
	Cause   error
	// Missing is the number of participants still needed, if relevant.
	Missing int
	Hint    string
}

// Error implements error.
func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("session %q: %v", e.Session, e.Cause)
	if e.Missing > 0 {
		msg += fmt.Sprintf(" (need %d more)", e.Missing)
	}
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Is reports whether target is ErrPrecondition.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// Unwrap returns the specific precondition.
func (e *PreconditionError) Unwrap() error {
	return e.Cause
}

// IsolationViolation reports an attempted reference between entities that
// belong to different sessions.
type IsolationViolation struct {
	Subject        string
	SubjectSession string
	Target         string
	TargetSession  string
}

// Error implements error.
func (e *IsolationViolation) Error() string {
	return fmt.Sprintf("session isolation violation: %s belongs to session %q but %s belongs to session %q",
		e.Subject, e.SubjectSession, e.Target, e.TargetSession)
}

// Is reports whether target is ErrIsolation.
func (e *IsolationViolation) Is(target error) bool {
	return target == ErrIsolation
}

// NotFoundError reports a missing session, participant, team, region, or
// assignment.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

// Error implements error.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NotFound returns a NotFoundError for the resource and id.
func NotFound(resource string, id interface{}) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Kind returns the kind name of err: "validation", "precondition",
// "isolation", "not_found", or "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrPrecondition):
		return "precondition"
	case errors.Is(err, ErrIsolation):
		return "isolation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
