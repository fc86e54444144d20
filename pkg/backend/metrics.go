package backend

import (
	"time"

	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	formationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapathon",
		Name:      "formations_total",
		Help:      "The total number of team formation attempts",
	}, []string{"result"})

	distributionCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapathon",
		Name:      "distributions_total",
		Help:      "The total number of territory distribution attempts",
	}, []string{"result"})

	transitionCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapathon",
		Name:      "status_transitions_total",
		Help:      "The total number of assignment status changes",
	}, []string{"from", "to"})

	isolationCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mapathon",
		Name:      "isolation_violations_total",
		Help:      "The total number of rejected cross-session writes",
	})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapathon",
		Name:      "operation_duration_seconds",
		Help:      "The duration of engine operations",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	integrityGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "mapathon",
		Name:      "integrity_findings",
		Help:      "The findings of the last integrity sweep",
	}, []string{"kind"})
)

func observe(op string, start time.Time) {
	operationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// result returns the metric label for err.
func result(err error) string {
	if err == nil {
		return "ok"
	}
	return proto.Kind(err)
}

// countIsolation counts err when it is a rejected cross-session write.
func countIsolation(err error) {
	if proto.Kind(err) == "isolation" {
		isolationCounter.Inc()
	}
}
