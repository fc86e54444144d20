package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/db/models"
	"github.com/gridcrew/mapathon/pkg/proto"
)

// ImportResult counts the rows written by ImportRegions.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

const importTask = "catalog-import"

// ImportRegions upserts catalog rows by code. The whole batch is validated
// first and written in one transaction. Concurrent imports are rejected with
// task.ErrAlreadyRunning.
func (d *Backend) ImportRegions(ctx context.Context, regions []proto.Region) (ImportResult, error) {
	seen := make(map[string]int, len(regions))
	for i, r := range regions {
		if err := validateRegion(r); err != nil {
			return ImportResult{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		code := strings.TrimSpace(r.Code)
		if j, ok := seen[code]; ok {
			return ImportResult{}, &proto.ValidationError{
				Field:  "code",
				Value:  r.Code,
				Reason: fmt.Sprintf("rows %d and %d share the code", j+1, i+1),
			}
		}
		seen[code] = i
	}

	var res ImportResult
	err := d.manager.Run(importTask, func(ctx context.Context) error {
		return d.db.TransactionContext(ctx, func(tx *db.Tx) error {
			at := d.now()
			for _, r := range regions {
				inserted, err := d.store.UpsertRegion(ctx, tx, models.Region{
					Name:           strings.TrimSpace(r.Name),
					Code:           strings.TrimSpace(r.Code),
					Classification: strings.TrimSpace(r.Classification),
					Active:         r.Active,
				}, at)
				if err != nil {
					return db.WrapError(err)
				}
				if inserted {
					res.Inserted++
				} else {
					res.Updated++
				}
			}
			return nil
		})
	})
	if err != nil {
		return ImportResult{}, err
	}

	d.cache.Purge()
	d.logger.Info("catalog imported", "inserted", res.Inserted, "updated", res.Updated)

	return res, nil
}

func validateRegion(r proto.Region) error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return &proto.ValidationError{Field: "name", Value: r.Name, Reason: "must not be empty"}
	case strings.TrimSpace(r.Code) == "":
		return &proto.ValidationError{Field: "code", Value: r.Code, Reason: "must not be empty"}
	}
	return nil
}

// ListRegions lists catalog regions ordered by name.
func (d *Backend) ListRegions(ctx context.Context, activeOnly bool) ([]proto.Region, error) {
	ms, err := d.store.ListRegions(ctx, d.db, activeOnly)
	if err != nil {
		return nil, db.WrapError(err)
	}
	rs := make([]proto.Region, 0, len(ms))
	for _, m := range ms {
		r := regionProto(m)
		d.cache.Set(r)
		rs = append(rs, r)
	}
	return rs, nil
}

// GetRegion returns a catalog region.
func (d *Backend) GetRegion(ctx context.Context, id int64) (proto.Region, error) {
	if r, ok := d.cache.Get(id); ok {
		return r, nil
	}
	m, err := d.store.GetRegion(ctx, d.db, id)
	if err != nil {
		return proto.Region{}, storeError(err, "region", id)
	}
	r := regionProto(m)
	d.cache.Set(r)
	return r, nil
}

// SetRegionActive includes or excludes a region from future distributions.
// Existing assignments are not touched.
func (d *Backend) SetRegionActive(ctx context.Context, id int64, active bool) (proto.Region, error) {
	if err := d.store.SetRegionActive(ctx, d.db, id, active, d.now()); err != nil {
		return proto.Region{}, storeError(err, "region", id)
	}
	d.cache.Delete(id)
	return d.GetRegion(ctx, id)
}

func regionProto(m models.Region) proto.Region {
	return proto.Region{
		ID:             m.ID,
		Name:           m.Name,
		Code:           m.Code,
		Classification: m.Classification,
		Active:         m.Active,
	}
}
