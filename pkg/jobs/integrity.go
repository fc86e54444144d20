package jobs

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/gridcrew/mapathon/pkg/backend"
	"github.com/gridcrew/mapathon/pkg/config"
	"github.com/gridcrew/mapathon/pkg/task"
)

func init() {
	Register("integrity-sweep", integritySweep{})
}

// integritySweep verifies isolation and distribution of every session. It
// only reads.
type integritySweep struct{}

var _ Runner = integritySweep{}

// Spec implements Runner.
func (integritySweep) Spec(ctx context.Context) string {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return ""
	}
	return cfg.Jobs.IntegritySweep
}

// Func implements Runner.
func (integritySweep) Func(ctx context.Context) func() {
	return func() {
		logger := log.FromContext(ctx).WithPrefix("jobs.integrity")
		be := backend.FromContext(ctx)
		if be == nil {
			logger.Error("no backend in context")
			return
		}

		report, err := be.Sweep(ctx)
		switch {
		case errors.Is(err, task.ErrAlreadyRunning):
			logger.Debug("sweep already running")
		case err != nil:
			logger.Error("integrity sweep failed", "err", err)
		case report.Clean():
			logger.Debug("integrity sweep clean", "sessions", report.Sessions)
		default:
			logger.Warn("integrity sweep found problems",
				"sessions", report.Sessions,
				"violations", report.Violations,
				"duplicates", report.Duplicates,
				"orphans", report.Orphans)
		}
	}
}
