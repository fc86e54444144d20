package models

import "time"

// Region is a catalog entry for an assignable geographic unit.
type Region struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	Code           string    `db:"code"`
	Classification string    `db:"classification"`
	Active         bool      `db:"active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
