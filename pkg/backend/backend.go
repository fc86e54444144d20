// Package backend is the mapathon engine. It runs every session operation
// against the store, inside a transaction where the operation must be
// atomic.
package backend

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gridcrew/mapathon/pkg/config"
	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/store"
	"github.com/gridcrew/mapathon/pkg/task"
)

// Backend is the mapathon backend that handles sessions, participants,
// teams, and territory assignments.
type Backend struct {
	ctx     context.Context
	cfg     *config.Config
	db      *db.DB
	store   store.Store
	logger  *log.Logger
	cache   *cache
	manager *task.Manager
	now     func() time.Time
}

// New returns a new mapathon backend. A nil cfg uses the defaults.
func New(ctx context.Context, cfg *config.Config, db *db.DB, st store.Store) *Backend {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	logger := log.FromContext(ctx).WithPrefix("backend")
	b := &Backend{
		ctx:     ctx,
		cfg:     cfg,
		db:      db,
		store:   st,
		logger:  logger,
		manager: task.NewManager(ctx),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}

	b.cache = newCache(b, 1000)

	return b
}

// Ping checks that the database is reachable.
func (d *Backend) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}
