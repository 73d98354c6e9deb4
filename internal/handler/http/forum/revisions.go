package forum

import (
	"log/slog"
	"net/http"

	"forum-reader/internal/handler/http/respond"
	"forum-reader/internal/observability/logging"
	"forum-reader/internal/usecase/revision"
)

// RevisionsHandler serves the edit history of a question or answer.
type RevisionsHandler struct {
	Svc    *revision.Service
	Logger *slog.Logger
}

func (h RevisionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	node, err := revision.ParseNode(r.PathValue("type"), id)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	entries, err := h.Svc.History(r.Context(), node)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}

	out := make([]RevisionDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, revisionDTO(e))
	}
	respond.JSON(w, http.StatusOK, out)
}
