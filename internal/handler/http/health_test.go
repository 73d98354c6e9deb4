package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPingDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func failing(msg string) Probe {
	return func(context.Context) error { return errors.New(msg) }
}

func healthyProbe(context.Context) error { return nil }

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

/* ───────── /health ───────── */

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		probes     map[string]Probe
		wantCode   int
		wantStatus string
	}{
		{
			name:       "database and cache healthy",
			probes:     map[string]Probe{"preferences": healthyProbe},
			wantCode:   http.StatusOK,
			wantStatus: StatusHealthy,
		},
		{
			name:       "database down",
			pingErr:    sql.ErrConnDone,
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
		},
		{
			name:       "cache down",
			probes:     map[string]Probe{"preferences": failing("dial redis://u:pw@cache:6379: refused")},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusUnhealthy,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingDB(t)
			exp := mock.ExpectPing()
			if tt.pingErr != nil {
				exp.WillReturnError(tt.pingErr)
			}

			h := &HealthHandler{DB: db, Probes: tt.probes, Version: "test-version"}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
			resp := decodeHealth(t, rec)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "test-version", resp.Version)
			assert.Contains(t, resp.Checks, "database")
			if p, ok := resp.Checks["preferences"]; ok {
				assert.NotContains(t, p.Message, "pw")
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHealthHandler_MemoryMode(t *testing.T) {
	h := &HealthHandler{Version: "dev"}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Empty(t, resp.Checks)
}

func TestHealthHandler_PoolDetails(t *testing.T) {
	tests := []struct {
		name            string
		maxOpen         int
		wantUtilization bool
	}{
		{name: "unlimited pool", maxOpen: 0},
		{name: "bounded pool", maxOpen: 10, wantUtilization: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingDB(t)
			db.SetMaxOpenConns(tt.maxOpen)
			mock.ExpectPing()

			rec := httptest.NewRecorder()
			(&HealthHandler{DB: db}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			check := decodeHealth(t, rec).Checks["database"]
			assert.Equal(t, StatusHealthy, check.Status)
			assert.Equal(t, float64(tt.maxOpen), check.Details["max_open_connections"])
			_, has := check.Details["utilization_percent"]
			assert.Equal(t, tt.wantUtilization, has)
		})
	}
}

/* ───────── /ready and /live ───────── */

func TestReadyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		probes   map[string]Probe
		wantCode int
		wantBody string
	}{
		{name: "ready", wantCode: http.StatusOK, wantBody: "ready"},
		{name: "database not ready", pingErr: sql.ErrConnDone, wantCode: http.StatusServiceUnavailable, wantBody: "database not ready"},
		{
			name:     "probe not ready",
			probes:   map[string]Probe{"preferences": failing("timeout")},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "preferences not ready",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newPingDB(t)
			exp := mock.ExpectPing()
			if tt.pingErr != nil {
				exp.WillReturnError(tt.pingErr)
			}

			rec := httptest.NewRecorder()
			(&ReadyHandler{DB: db, Probes: tt.probes}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestReadyHandler_MemoryMode(t *testing.T) {
	rec := httptest.NewRecorder()
	(&ReadyHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}
