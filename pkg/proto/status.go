package proto

import "strings"

// SessionStatus is the lifecycle status of a session.
type SessionStatus string

// Session lifecycle.
const (
	SessionRegistering SessionStatus = "registering"
	SessionTeamsFormed SessionStatus = "teams_formed"
	SessionActive      SessionStatus = "active"
)

// AssignmentStatus is the progress status of a territory assignment.
type AssignmentStatus string

// Assignment statuses.
const (
	StatusAvailable AssignmentStatus = "available"
	StatusCurrent   AssignmentStatus = "current"
	StatusCompleted AssignmentStatus = "completed"
)

// AssignmentStatuses lists every valid assignment status.
var AssignmentStatuses = []AssignmentStatus{StatusAvailable, StatusCurrent, StatusCompleted}

// ParseAssignmentStatus parses s into an AssignmentStatus. Labels outside the
// three-value enum are rejected.
func ParseAssignmentStatus(s string) (AssignmentStatus, error) {
	st := AssignmentStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range AssignmentStatuses {
		if st == v {
			return st, nil
		}
	}
	return "", &ValidationError{Field: "status", Value: s, Reason: "must be one of available, current, completed"}
}

// String implements fmt.Stringer.
func (s AssignmentStatus) String() string {
	return string(s)
}
