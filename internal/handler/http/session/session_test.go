package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, m Manager, cookie *http.Cookie) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/questions", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return seen, rr
}

func TestMiddleware_NewSession(t *testing.T) {
	id, rr := run(t, Manager{MaxAge: 24 * time.Hour, Secure: true}, nil)

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, id, c.Value)
	assert.Equal(t, 86400, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
}

func TestMiddleware_ExistingSession(t *testing.T) {
	existing := uuid.NewString()
	id, rr := run(t, Manager{}, &http.Cookie{Name: CookieName, Value: existing})

	assert.Equal(t, existing, id)
	assert.Empty(t, rr.Result().Cookies())
}

func TestMiddleware_TamperedCookie(t *testing.T) {
	id, rr := run(t, Manager{}, &http.Cookie{Name: CookieName, Value: "<script>"})

	assert.NotEqual(t, "<script>", id)
	assert.Len(t, rr.Result().Cookies(), 1)
}
