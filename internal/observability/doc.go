// Package observability groups the logging, metrics and tracing helpers
// shared by the forum reader.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: process-wide Prometheus collectors and recorders
//   - tracing: OpenTelemetry tracer, provider setup and HTTP middleware
package observability
