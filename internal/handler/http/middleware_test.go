package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-reader/internal/handler/http/requestid"
	"forum-reader/internal/handler/http/responsewriter"
	"forum-reader/internal/observability/logging"
)

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

/* ───────── Chain ───────── */

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(okHandler), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}

/* ───────── Logging ───────── */

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Options{Output: &buf})

	var fromCtx *slog.Logger
	mux := http.NewServeMux()
	mux.HandleFunc("GET /questions/{id}", func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logging.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("body"))
	})
	h := Chain(responsewriter.CapturePattern(mux), requestid.Middleware, Logging(logger))

	req := httptest.NewRequest(http.MethodGet, "/questions/7?page=2", nil)
	req.Header.Set(requestid.RequestIDHeader, "req-1")
	req.RemoteAddr = "192.168.1.1:12345"
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, fromCtx)
	assert.NotSame(t, slog.Default(), fromCtx)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "GET /questions/{id}", entry["route"])
	assert.Equal(t, "page=2", entry["query"])
	assert.Equal(t, "192.168.1.1", entry["remote_addr"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
	assert.Equal(t, float64(4), entry["bytes"])
}

func TestLogging_ServerErrorsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(logging.Options{Output: &buf})

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

/* ───────── Recover ───────── */

func TestRecover(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
	}{
		{
			name:     "string panic",
			handler:  func(http.ResponseWriter, *http.Request) { panic("boom") },
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "no panic",
			handler:  okHandler,
			wantCode: http.StatusOK,
		},
		{
			name: "panic after headers",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
				panic("late")
			},
			wantCode: http.StatusAccepted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			assert.NotPanics(t, func() {
				Recover(logger)(tt.handler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			})
			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}

func TestRecover_AbortHandlerPropagates(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

/* ───────── RateLimiter ───────── */

func hit(h http.Handler, ip, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = ip + ":40000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter("test", 60, 3)
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return frozen }
	h := rl.Limit(http.HandlerFunc(okHandler))

	var codes []int
	for i := 0; i < 5; i++ {
		codes = append(codes, hit(h, "10.0.0.1", "/feeds/rss").Code)
	}
	assert.Equal(t, []int{200, 200, 200, 429, 429}, codes)

	rr := hit(h, "10.0.0.1", "/feeds/rss")
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), "rate limit exceeded")

	// a different client has its own bucket
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2", "/feeds/rss").Code)

	// one token per second refills
	frozen = frozen.Add(time.Second)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1", "/feeds/rss").Code)
}

func TestRateLimiter_Only(t *testing.T) {
	rl := NewRateLimiter("feeds", 1, 1)
	rl.Only = func(r *http.Request) bool { return strings.HasPrefix(r.URL.Path, "/feeds") }
	h := rl.Limit(http.HandlerFunc(okHandler))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1", "/questions").Code)
	}
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1", "/feeds/rss").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1", "/feeds/rss").Code)
	assert.Equal(t, 1, rl.Clients())
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter("test", 60, 0)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	h := rl.Limit(http.HandlerFunc(okHandler))

	hit(h, "10.0.0.1", "/")
	now = now.Add(10 * time.Minute)
	hit(h, "10.0.0.2", "/")

	assert.Equal(t, 1, rl.Cleanup(5*time.Minute))
	assert.Equal(t, 1, rl.Clients())
}

func TestRateLimiter_Concurrent(t *testing.T) {
	rl := NewRateLimiter("test", 60, 50)
	h := rl.Limit(http.HandlerFunc(okHandler))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if hit(h, "10.0.0.9", "/").Code == http.StatusOK {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// the burst may refill by a token or two while the goroutines run
	assert.GreaterOrEqual(t, allowed, 50)
	assert.LessOrEqual(t, allowed, 55)
}

/* ───────── ClientIP ───────── */

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.168.1.1:1234", want: "192.168.1.1"},
		{name: "forwarded first hop", xff: "203.0.113.1, 10.0.0.1", remoteAddr: "10.0.0.1:1", want: "203.0.113.1"},
		{name: "forwarded with spaces", xff: " 203.0.113.5", remoteAddr: "10.0.0.1:1", want: "203.0.113.5"},
		{name: "invalid forwarded falls back to real ip", xff: "garbage", xri: "198.51.100.2", remoteAddr: "10.0.0.1:1", want: "198.51.100.2"},
		{name: "ipv6", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "no port", remoteAddr: "192.168.1.9", want: "192.168.1.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}
