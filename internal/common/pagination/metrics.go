package pagination

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesTotal counts materialized pages.
	// Labels: sort (active sort key), page_range (page bucket: 1-10, 11-50, etc.)
	PagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_pagination_pages_total",
			Help: "Total number of materialized listing pages",
		},
		[]string{"sort", "page_range"},
	)

	// DurationSeconds tracks the time to count and slice one page.
	DurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forum_pagination_duration_seconds",
			Help:    "Time to count and fetch one listing page",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
		},
		[]string{"sort"},
	)

	// ClampedTotal counts requests whose page number was out of range.
	ClampedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forum_pagination_clamped_total",
			Help: "Total number of out-of-range page requests clamped to a valid page",
		},
	)

	// ErrorsTotal counts pagination errors by type.
	// Labels: type (store, preference)
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forum_pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"type"},
	)
)

// RecordPage records one materialized page.
func RecordPage(sort string, page int, d time.Duration) {
	PagesTotal.WithLabelValues(sort, getPageRangeBucket(page)).Inc()
	DurationSeconds.WithLabelValues(sort).Observe(d.Seconds())
}

// RecordClamp records an out-of-range page request.
func RecordClamp() {
	ClampedTotal.Inc()
}

// RecordError records an error metric.
// errorType should be one of: "store", "preference"
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// getPageRangeBucket returns the page range bucket for a given page number.
func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
