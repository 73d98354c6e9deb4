// Package resilience groups the fault tolerance helpers of the server:
// a circuit breaker around record-store reads and retry with backoff for
// dependencies that come up after the server starts.
package resilience
