// Package session gives anonymous visitors a stable identifier so their
// sort and page size choices persist between requests.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie.
const CookieName = "forum_sid"

type ctxKey string

const ctxSession ctxKey = "session"

// FromContext returns the session ID, or "".
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxSession).(string); ok {
		return id
	}
	return ""
}

// WithSession stores id in ctx.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxSession, id)
}

// Manager issues and reads session cookies.
type Manager struct {
	MaxAge time.Duration
	Secure bool
}

// Middleware reuses a well-formed session cookie or sets a new one.
func (m Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(CookieName); err == nil {
			if _, perr := uuid.Parse(c.Value); perr == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(m.MaxAge / time.Second),
				HttpOnly: true,
				Secure:   m.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
	})
}
