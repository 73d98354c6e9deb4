package metrics

import (
	"strconv"
	"time"
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration, responseSize int) {
	code := strconv.Itoa(status)
	HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordRateLimited records a request rejected by the named limiter.
func RecordRateLimited(limiter string) {
	HTTPRateLimited.WithLabelValues(limiter).Inc()
}

// RecordListing records a listing request. feed reports whether the
// listing was rendered as a feed.
func RecordListing(listing string, feed bool) {
	format := "page"
	if feed {
		format = "feed"
	}
	ListingRequestsTotal.WithLabelValues(listing, format).Inc()
}

// RecordPreferencesSwept records expired preferences removed by a sweep.
func RecordPreferencesSwept(n int) {
	PreferencesSwept.Add(float64(n))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

// RecordBreakerState records a circuit breaker transition.
func RecordBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
