package models

import (
	"database/sql"
	"time"
)

// TerritoryAssignment binds a region to a team within a session.
type TerritoryAssignment struct {
	ID          int64          `db:"id"`
	SessionID   string         `db:"session_id"`
	TeamID      int64          `db:"team_id"`
	RegionID    int64          `db:"region_id"`
	Status      string         `db:"status"`
	Notes       string         `db:"notes"`
	AssignedAt  time.Time      `db:"assigned_at"`
	StartedAt   sql.NullTime   `db:"started_at"`
	CompletedAt sql.NullTime   `db:"completed_at"`
	CompletedBy sql.NullString `db:"completed_by"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// TerritoryAssignmentView is an assignment joined with its team and region.
type TerritoryAssignmentView struct {
	TerritoryAssignment
	TeamName   string `db:"team_name"`
	RegionName string `db:"region_name"`
	RegionCode string `db:"region_code"`
}
