// Package http holds the forum reader's cross-cutting HTTP plumbing:
// middleware, metrics, rate limiting and health probes. Page handlers live
// in the forum subpackage.
package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"forum-reader/internal/handler/http/respond"
)

// Health states reported per check and overall.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse is the JSON body of /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the outcome of one check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Probe checks one external dependency such as the preference cache.
type Probe func(ctx context.Context) error

// HealthHandler reports the health of the record store and any extra
// dependencies. A nil DB means the process serves from memory and no
// database check is reported.
type HealthHandler struct {
	DB      *sql.DB
	Probes  map[string]Probe
	Version string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus, len(h.Probes)+1)
	if h.DB != nil {
		checks["database"] = checkDatabase(ctx, h.DB)
	}
	for name, probe := range h.Probes {
		checks[name] = runProbe(ctx, probe)
	}

	status, code := StatusHealthy, http.StatusOK
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			status, code = StatusUnhealthy, http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func runProbe(ctx context.Context, probe Probe) CheckStatus {
	if err := probe(ctx); err != nil {
		return CheckStatus{Status: StatusUnhealthy, Message: respond.SanitizeError(err)}
	}
	return CheckStatus{Status: StatusHealthy}
}

// checkDatabase pings the database and reports pool statistics. A pool at
// 80% or more of its limit is degraded, which does not fail the probe.
func checkDatabase(ctx context.Context, db *sql.DB) CheckStatus {
	if err := db.PingContext(ctx); err != nil {
		return CheckStatus{Status: StatusUnhealthy, Message: respond.SanitizeError(err)}
	}

	stats := db.Stats()
	details := map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
	if stats.MaxOpenConnections == 0 {
		return CheckStatus{Status: StatusHealthy, Details: details}
	}

	utilization := float64(stats.InUse) / float64(stats.MaxOpenConnections) * 100
	details["utilization_percent"] = utilization
	if utilization >= 80.0 {
		return CheckStatus{
			Status:  StatusDegraded,
			Message: "connection pool utilization above 80%",
			Details: details,
		}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

// ReadyHandler answers readiness probes. It is ready when the database
// (if any) and every probe respond.
type ReadyHandler struct {
	DB     *sql.DB
	Probes map[string]Probe
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			notReady(w, "database", err)
			return
		}
	}
	for name, probe := range h.Probes {
		if err := probe(ctx); err != nil {
			notReady(w, name, err)
			return
		}
	}
	writeText(w, http.StatusOK, "ready")
}

func notReady(w http.ResponseWriter, name string, err error) {
	slog.Default().Warn("readiness check failed",
		slog.String("check", name),
		slog.String("error", respond.SanitizeError(err)))
	writeText(w, http.StatusServiceUnavailable, name+" not ready")
}

// LiveHandler answers liveness probes and always succeeds.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "alive")
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(body)); err != nil {
		slog.Default().Debug("failed to write probe response", slog.Any("error", err))
	}
}
