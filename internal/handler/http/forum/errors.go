package forum

import (
	"errors"
	"log/slog"
	"net/http"

	"forum-reader/internal/domain/entity"
	"forum-reader/internal/handler/http/auth"
	"forum-reader/internal/handler/http/respond"
)

// writeError maps domain errors to status codes. Hidden and missing
// records are indistinguishable to the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := statusFor(r, err)
	if code >= http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", respond.SanitizeError(err)))
	}
	respond.SafeError(w, code, err)
}

func statusFor(r *http.Request, err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrUnauthorized):
		if auth.FromContext(r.Context()).IsAuthenticated() {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
