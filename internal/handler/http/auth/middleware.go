// Package auth identifies the caller behind a request from an optional
// bearer token. Every page of the forum is readable anonymously, so a
// missing token is not an error; a present but invalid one is.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"forum-reader/internal/domain/entity"
	"forum-reader/internal/handler/http/respond"
	"forum-reader/internal/observability/logging"
)

type ctxKey string

const ctxCaller ctxKey = "caller"

// FromContext returns the caller stored by Identify, or entity.Anonymous.
func FromContext(ctx context.Context) entity.Caller {
	if c, ok := ctx.Value(ctxCaller).(entity.Caller); ok {
		return c
	}
	return entity.Anonymous
}

// WithCaller stores caller in ctx.
func WithCaller(ctx context.Context, caller entity.Caller) context.Context {
	return context.WithValue(ctx, ctxCaller, caller)
}

// Identifier verifies bearer tokens signed with Secret.
type Identifier struct {
	Secret []byte
	// Leeway tolerates clock skew on exp and nbf.
	Leeway time.Duration
}

// Identify resolves the caller of every request. Requests without an
// Authorization header continue as anonymous; a malformed, expired or
// forged token is rejected with 401. Without a secret, tokens are ignored
// and everyone is anonymous.
func (id Identifier) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || len(id.Secret) == 0 {
			recordIdentification("anonymous")
			next.ServeHTTP(w, r)
			return
		}

		caller, err := id.caller(header)
		if err != nil {
			recordIdentification("rejected")
			logging.FromContext(r.Context()).Warn("rejected bearer token",
				slog.String("error", respond.SanitizeError(err)))
			w.Header().Set("WWW-Authenticate", `Bearer realm="forum"`)
			respond.JSON(w, http.StatusUnauthorized, respond.ErrorBody{Error: "unauthorized"})
			return
		}

		if caller.IsSuperuser {
			recordIdentification(RoleAdmin)
		} else {
			recordIdentification(RoleMember)
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

func (id Identifier) caller(header string) (entity.Caller, error) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return entity.Anonymous, errMissingBearer
	}
	claims, err := parseToken(strings.TrimSpace(header[len(prefix):]), id.Secret, id.Leeway)
	if err != nil {
		return entity.Anonymous, err
	}
	return claims.Caller()
}
