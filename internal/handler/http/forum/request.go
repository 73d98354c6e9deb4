package forum

import (
	"net/http"
	"strconv"

	"forum-reader/internal/domain/entity"
	"forum-reader/internal/handler/http/auth"
	"forum-reader/internal/handler/http/session"
	"forum-reader/internal/usecase/feed"
	"forum-reader/internal/usecase/listing"
	"forum-reader/internal/usecase/question"
)

// preferenceOwner keys stored pagination preferences: the user when signed
// in, otherwise the session. Without either nothing is persisted.
func preferenceOwner(r *http.Request) string {
	if c := auth.FromContext(r.Context()); c.IsAuthenticated() {
		return "user:" + strconv.FormatInt(c.UserID, 10)
	}
	if sid := session.FromContext(r.Context()); sid != "" {
		return "session:" + sid
	}
	return ""
}

func listingRequest(r *http.Request) listing.Request {
	return listing.Request{
		Caller: auth.FromContext(r.Context()),
		Owner:  preferenceOwner(r),
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
	}
}

func questionRequest(r *http.Request) question.Request {
	return question.Request{
		Caller: auth.FromContext(r.Context()),
		Owner:  preferenceOwner(r),
		Path:   r.URL.Path,
		Slug:   r.PathValue("slug"),
		Query:  r.URL.Query(),
	}
}

// pathID parses a positive numeric path segment. Anything else is reported
// as not found, like an unknown record.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, entity.ErrNotFound
	}
	return id, nil
}

func writeFeed(w http.ResponseWriter, doc *feed.Document) {
	w.Header().Set("Content-Type", feed.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc.Body))
}
