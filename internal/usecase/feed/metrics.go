package feed

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RendersTotal counts rendered feeds.
	RendersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forum_feed_renders_total",
			Help: "Total number of rendered RSS feeds",
		},
	)

	// ItemsPerFeed tracks how many entries each feed carries.
	ItemsPerFeed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forum_feed_items",
			Help:    "Number of items per rendered feed",
			Buckets: []float64{0, 5, 10, 20, 30, 50, 100},
		},
	)

	// RenderDuration tracks fetch plus encode time.
	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forum_feed_render_duration_seconds",
			Help:    "Time to fetch and encode one feed",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	// ErrorsTotal counts failed feed renders.
	ErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forum_feed_errors_total",
			Help: "Total number of failed feed renders",
		},
	)
)

func recordRender(items int, d time.Duration) {
	RendersTotal.Inc()
	ItemsPerFeed.Observe(float64(items))
	RenderDuration.Observe(d.Seconds())
}

func recordError() {
	ErrorsTotal.Inc()
}
