package models

import "time"

// Participant represents a registrant of a session.
type Participant struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Name      string    `db:"name"`
	Handle    string    `db:"handle"`
	CreatedAt time.Time `db:"created_at"`
}
