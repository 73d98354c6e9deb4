package revision

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"forum-reader/internal/domain/entity"
)

var (
	// HistoriesTotal counts rendered histories by node type.
	HistoriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_revision_histories_total",
			Help: "Total number of rendered revision histories",
		},
		[]string{"node_type"},
	)

	// RevisionsPerHistory tracks history length.
	RevisionsPerHistory = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forum_revision_history_length",
			Help:    "Number of revisions per rendered history",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		},
	)

	// HistoryDuration tracks render plus diff time of a whole history.
	HistoryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forum_revision_history_duration_seconds",
			Help:    "Time to render and diff one revision history",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FailuresTotal counts histories that failed to render or diff.
	FailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forum_revision_failures_total",
			Help: "Total number of revision histories that failed to render",
		},
	)
)

func recordHistory(t entity.NodeType, n int, d time.Duration) {
	HistoriesTotal.WithLabelValues(string(t)).Inc()
	RevisionsPerHistory.Observe(float64(n))
	HistoryDuration.Observe(d.Seconds())
}

func recordFailure() {
	FailuresTotal.Inc()
}
