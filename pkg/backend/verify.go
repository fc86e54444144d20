package backend

import (
	"context"

	"github.com/gridcrew/mapathon/pkg/db"
	"github.com/gridcrew/mapathon/pkg/proto"
)

// VerifyIsolation counts memberships and assignments of the session that
// reference an entity of another session. It never writes.
func (d *Backend) VerifyIsolation(ctx context.Context, session string) (proto.IsolationReport, error) {
	if _, err := d.store.GetSession(ctx, d.db, session); err != nil {
		return proto.IsolationReport{}, storeError(err, "session", session)
	}
	n, err := d.store.CountIsolationViolations(ctx, d.db, session)
	if err != nil {
		return proto.IsolationReport{}, db.WrapError(err)
	}
	return proto.IsolationReport{Session: session, ViolationsFound: n}, nil
}

// VerifyDistribution counts regions assigned more than once and assignments
// whose team or region is gone. It never writes.
func (d *Backend) VerifyDistribution(ctx context.Context, session string) (proto.DistributionReport, error) {
	if _, err := d.store.GetSession(ctx, d.db, session); err != nil {
		return proto.DistributionReport{}, storeError(err, "session", session)
	}
	dup, err := d.store.CountDuplicateRegions(ctx, d.db, session)
	if err != nil {
		return proto.DistributionReport{}, db.WrapError(err)
	}
	orphans, err := d.store.CountOrphanAssignments(ctx, d.db, session)
	if err != nil {
		return proto.DistributionReport{}, db.WrapError(err)
	}
	return proto.DistributionReport{Session: session, Duplicates: dup, Orphans: orphans}, nil
}

// SweepReport is the outcome of an integrity sweep over every session.
type SweepReport struct {
	Sessions   int `json:"sessions"`
	Violations int `json:"violations"`
	Duplicates int `json:"duplicates"`
	Orphans    int `json:"orphans"`
}

// Clean reports whether the sweep found nothing.
func (r SweepReport) Clean() bool {
	return r.Violations == 0 && r.Duplicates == 0 && r.Orphans == 0
}

const sweepTask = "integrity-sweep"

// Sweep runs both verifications on every session and exports the totals as
// metrics. Overlapping sweeps are rejected with task.ErrAlreadyRunning.
func (d *Backend) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	err := d.manager.Run(sweepTask, func(ctx context.Context) error {
		sessions, err := d.ListSessions(ctx)
		if err != nil {
			return err
		}
		for _, s := range sessions {
			iso, err := d.VerifyIsolation(ctx, s.ID)
			if err != nil {
				return err
			}
			dist, err := d.VerifyDistribution(ctx, s.ID)
			if err != nil {
				return err
			}
			report.Sessions++
			report.Violations += iso.ViolationsFound
			report.Duplicates += dist.Duplicates
			report.Orphans += dist.Orphans
			if iso.ViolationsFound > 0 || dist.Duplicates > 0 || dist.Orphans > 0 {
				d.logger.Warn("integrity findings", "session", s.ID,
					"violations", iso.ViolationsFound, "duplicates", dist.Duplicates, "orphans", dist.Orphans)
			}
		}
		return nil
	})
	if err != nil {
		return SweepReport{}, err
	}

	integrityGauge.WithLabelValues("isolation").Set(float64(report.Violations))
	integrityGauge.WithLabelValues("duplicates").Set(float64(report.Duplicates))
	integrityGauge.WithLabelValues("orphans").Set(float64(report.Orphans))

	return report, nil
}
