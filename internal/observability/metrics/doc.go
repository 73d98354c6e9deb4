// Package metrics holds the process-wide Prometheus metrics that are not
// owned by a single package: HTTP traffic, record-store queries, circuit
// breaker state and listing requests.
//
// All metrics are registered with the default registry and exposed on
// /metrics.
//
// Example usage:
//
//	start := time.Now()
//	rows, err := db.QueryContext(ctx, stmt, args...)
//	metrics.RecordDBQuery("select", time.Since(start))
package metrics
