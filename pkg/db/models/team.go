package models

import (
	"time"
)

// Team represents a team of a session.
type Team struct {
	ID        int64     `db:"id"`
	SessionID string    `db:"session_id"`
	Name      string    `db:"name"`
	Index     int       `db:"idx"`
	CreatedAt time.Time `db:"created_at"`
}

// TeamMember represents the membership of a participant in a team.
type TeamMember struct {
	ID              int64     `db:"id"`
	TeamID          int64     `db:"team_id"`
	ParticipantID   string    `db:"participant_id"`
	RoleName        string    `db:"role_name"`
	RoleDescription string    `db:"role_description"`
	RoleIcon        string    `db:"role_icon"`
	Position        int       `db:"position"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// TeamMemberView is a membership joined with its participant.
type TeamMemberView struct {
	TeamMember
	ParticipantName   string `db:"participant_name"`
	ParticipantHandle string `db:"participant_handle"`
}
