// Package models holds the database row models.
package models

import (
	"database/sql"
	"time"
)

// Session represents a mapping campaign.
type Session struct {
	ID            string       `db:"id"`
	Name          string       `db:"name"`
	Status        string       `db:"status"`
	TeamsFormedAt sql.NullTime `db:"teams_formed_at"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}
