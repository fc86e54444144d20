package backend

import (
	"context"
	"errors"
	"time"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/gridcrew/mapathon/pkg/territory"
)

// DistributeTerritories hands every active region to the session's teams
// round-robin, in region name order. It succeeds at most once per session.
func (d *Backend) DistributeTerritories(ctx context.Context, session string) (dist proto.Distribution, err error) {
	defer observe("distribute_territories", time.Now())
	defer func() {
		distributionCounter.WithLabelValues(result(err)).Inc()
		countIsolation(err)
	}()

	dist = proto.Distribution{Session: session}
	if err := d.db.TransactionContext(ctx, func(tx *db.Tx) error {
		at := d.now()
		if err := d.store.LockSession(ctx, tx, session, at); err != nil {
			return storeError(err, "session", session)
		}

		teams, err := d.store.ListTeams(ctx, tx, session)
		if err != nil {
			return db.WrapError(err)
		}
		ids := make([]int64, len(teams))
		names := make(map[int64]string, len(teams))
		for i, t := range teams {
			ids[i] = t.ID
			names[t.ID] = t.Name
		}
		if len(ids) == 0 {
			return &proto.PreconditionError{
				Session: session,
				Cause:   proto.ErrNoTeams,
				Hint:    "form teams first",
			}
		}

		n, err := d.store.CountAssignments(ctx, tx, session)
		if err != nil {
			return db.WrapError(err)
		}
		if n > 0 {
			return alreadyDistributed(session)
		}

		regions, err := d.store.ListRegions(ctx, tx, true)
		if err != nil {
			return db.WrapError(err)
		}
		if len(regions) == 0 {
			return &proto.PreconditionError{
				Session: session,
				Cause:   proto.ErrNoRegions,
				Hint:    "import or activate catalog regions first",
			}
		}
		rids := make([]int64, len(regions))
		for i, r := range regions {
			rids[i] = r.ID
		}

		allocs, err := territory.Distribute(session, ids, rids)
		if err != nil {
			return err
		}
		for _, a := range allocs {
			if _, err := d.store.CreateAssignment(ctx, tx, session, a.TeamID, a.RegionID, at); err != nil {
				if errors.Is(db.WrapError(err), db.ErrDuplicateKey) {
					return alreadyDistributed(session)
				}
				return storeError(err, "region", a.RegionID)
			}
		}

		counts := territory.Counts(allocs)
		for _, id := range ids {
			dist.PerTeam = append(dist.PerTeam, proto.TeamShare{
				TeamID:   id,
				TeamName: names[id],
				Regions:  counts[id],
			})
		}
		dist.TeamsCount = len(ids)
		dist.RegionsDistributed = len(allocs)

		return d.store.SetSessionStatus(ctx, tx, session, string(proto.SessionActive), at)
	}); err != nil {
		d.logger.Debug("distribution rejected", "session", session, "err", err)
		return proto.Distribution{}, err
	}

	d.logger.Info("territories distributed", "session", session, "teams", dist.TeamsCount, "regions", dist.RegionsDistributed)

	return dist, nil
}

func alreadyDistributed(session string) error {
	return &proto.PreconditionError{
		Session: session,
		Cause:   proto.ErrAlreadyDistributed,
		Hint:    "already distributed, refresh",
	}
}
