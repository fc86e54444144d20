// Package database implements store.Store on top of a SQL database.
package database

import (
	"context"
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/store"
)

type datastore struct {
	ctx    context.Context
	db     *db.DB
	logger *log.Logger

	*sessionStore
	*participantStore
	*teamStore
	*regionStore
	*assignmentStore
	*integrityStore
}

var _ store.Store = (*datastore)(nil)

// New returns a new store.Store database.
func New(ctx context.Context, db *db.DB) store.Store {
	logger := log.FromContext(ctx).WithPrefix("store")
	guard := &guard{logger: logger}

	s := &datastore{
		ctx:    ctx,
		db:     db,
		logger: logger,

		sessionStore:     &sessionStore{},
		participantStore: &participantStore{},
		teamStore:        &teamStore{guard},
		regionStore:      &regionStore{},
		assignmentStore:  &assignmentStore{guard},
		integrityStore:   &integrityStore{},
	}

	return s
}

// affected returns the number of rows touched by res.
func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err //nolint:wrapcheck
	}
	return n, nil
}
