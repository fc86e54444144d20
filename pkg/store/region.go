package store

import (
	"context"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
)

// RegionStore is a store for the region catalog.
type RegionStore interface {
	// UpsertRegion inserts the region or updates the one with the same
	// code. It reports whether a row was inserted.
	UpsertRegion(ctx context.Context, h db.Handler, r models.Region, at time.Time) (bool, error)
	GetRegion(ctx context.Context, h db.Handler, id int64) (models.Region, error)
	// ListRegions lists regions ordered by name, then code.
	ListRegions(ctx context.Context, h db.Handler, activeOnly bool) ([]models.Region, error)
	SetRegionActive(ctx context.Context, h db.Handler, id int64, active bool, at time.Time) error
}
