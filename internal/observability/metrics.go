package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation directions.
const (
	DirectionDecode = "decode"
	DirectionEncode = "encode"
)

// Operation outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeBusy  = "busy"
)

var (
	registerOnce sync.Once

	parserOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vcardcodec",
			Subsystem: "parser",
			Name:      "operations_total",
			Help:      "Decode and encode operations by outcome.",
		},
		[]string{"direction", "outcome"},
	)
	parserDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vcardcodec",
			Subsystem: "parser",
			Name:      "operation_duration_seconds",
			Help:      "Decode and encode run time in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction", "outcome"},
	)
	parserItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vcardcodec",
			Subsystem: "parser",
			Name:      "items_total",
			Help:      "Contacts decoded and records encoded.",
		},
		[]string{"direction"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(parserOperations, parserDuration, parserItems)
	})
}

// RecordOperation counts one finished decode or encode run.
func RecordOperation(direction, outcome string, items int, duration time.Duration) {
	RegisterMetrics()
	parserOperations.WithLabelValues(direction, outcome).Inc()
	parserDuration.WithLabelValues(direction, outcome).Observe(duration.Seconds())
	if items > 0 {
		parserItems.WithLabelValues(direction).Add(float64(items))
	}
}

// RecordBusy counts a request rejected because one was already in flight.
func RecordBusy(direction string) {
	RegisterMetrics()
	parserOperations.WithLabelValues(direction, OutcomeBusy).Inc()
}
