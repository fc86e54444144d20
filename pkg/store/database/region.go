package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/store"
)

type regionStore struct{}

var _ store.RegionStore = (*regionStore)(nil)

// UpsertRegion implements store.RegionStore.
func (*regionStore) UpsertRegion(ctx context.Context, h db.Handler, r models.Region, at time.Time) (bool, error) {
	var id int64
	err := h.GetContext(ctx, &id, h.Rebind(`SELECT id FROM regions WHERE code = ?`), r.Code)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		query := h.Rebind(`
			INSERT INTO
			  regions (name, code, classification, active, created_at, updated_at)
			VALUES
			  (?, ?, ?, ?, ?, ?)
		`)
		_, err := h.ExecContext(ctx, query, r.Name, r.Code, r.Classification, r.Active, at, at)
		return err == nil, err
	case err != nil:
		return false, err
	}

	query := h.Rebind(`
		UPDATE regions
		SET
		  name = ?,
		  classification = ?,
		  active = ?,
		  updated_at = ?
		WHERE
		  id = ?
	`)
	_, err = h.ExecContext(ctx, query, r.Name, r.Classification, r.Active, at, id)
	return false, err
}

// GetRegion implements store.RegionStore.
func (*regionStore) GetRegion(ctx context.Context, h db.Handler, id int64) (models.Region, error) {
	var m models.Region
	err := h.GetContext(ctx, &m, h.Rebind(`SELECT * FROM regions WHERE id = ?`), id)
	return m, err
}

// ListRegions implements store.RegionStore.
func (*regionStore) ListRegions(ctx context.Context, h db.Handler, activeOnly bool) ([]models.Region, error) {
	var ms []models.Region
	var err error
	if activeOnly {
		query := h.Rebind(`SELECT * FROM regions WHERE active = ? ORDER BY name, code, id`)
		err = h.SelectContext(ctx, &ms, query, true)
	} else {
		err = h.SelectContext(ctx, &ms, `SELECT * FROM regions ORDER BY name, code, id`)
	}
	return ms, err
}

// SetRegionActive implements store.RegionStore.
func (*regionStore) SetRegionActive(ctx context.Context, h db.Handler, id int64, active bool, at time.Time) error {
	query := h.Rebind(`UPDATE regions SET active = ?, updated_at = ? WHERE id = ?`)
	res, err := h.ExecContext(ctx, query, active, at, id)
	if err != nil {
		return err
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return db.ErrRecordNotFound
	}
	return nil
}
