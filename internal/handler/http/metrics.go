package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"forum-reader/internal/handler/http/responsewriter"
	"forum-reader/internal/observability/metrics"
)

// unmatchedRoute labels requests no route matched, keeping arbitrary
// paths out of the label set.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request count, latency, response size and
// in-flight requests. Requests are labelled by route pattern, which needs
// responsewriter.CapturePattern around the mux.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)

		route := rw.Pattern()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.RecordHTTPRequest(r.Method, route, rw.StatusCode(), time.Since(start), rw.BytesWritten())
	})
}

// MetricsHandler serves the Prometheus exposition format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
