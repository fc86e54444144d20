package territory

import (
	"time"

	"github.com/gridcrew/mapathon/pkg/proto"
)

// State is the mutable part of a territory assignment.
type State struct {
	Status      proto.AssignmentStatus
	Notes       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	CompletedBy string
}

// Change is a requested status change.
type Change struct {
	To proto.AssignmentStatus
	// Actor is the participant performing the change. May be empty.
	Actor string
	// Notes replaces the current notes when non-nil.
	Notes *string
	At    time.Time
}

// Apply returns the state after applying c to s.
//
//	available -> current     start set if unset
//	available -> completed   start set if unset, completion set
//	current   -> completed   completion set, start untouched
//	completed -> available   timestamps kept
//	same      -> same        no-op apart from notes
//
// Other moves only change the status; timestamps are never cleared.
func Apply(s State, c Change) State {
	next := s
	if c.Notes != nil {
		next.Notes = *c.Notes
	}
	if c.To == s.Status {
		return next
	}

	at := c.At
	next.Status = c.To
	switch c.To {
	case proto.StatusCurrent:
		if next.StartedAt == nil {
			next.StartedAt = &at
		}
	case proto.StatusCompleted:
		if next.StartedAt == nil {
			next.StartedAt = &at
		}
		next.CompletedAt = &at
		next.CompletedBy = c.Actor
	}

	return next
}
