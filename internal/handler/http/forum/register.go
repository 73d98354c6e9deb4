package forum

import (
	"context"
	"log/slog"
	"net/http"

	"forum-reader/internal/usecase/listing"
	"forum-reader/internal/usecase/question"
	"forum-reader/internal/usecase/revision"
)

// Services bundles the use cases behind the forum routes.
type Services struct {
	Listings  *listing.Service
	Questions *question.Service
	Revisions *revision.Service
}

// Register registers the forum's read routes with mux. Every question
// listing also answers with RSS when called with type=rss.
func Register(mux *http.ServeMux, svc Services, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	ls := svc.Listings
	list := func(name string, fn listFunc) http.Handler {
		return ListingHandler{Name: name, List: fn, Logger: logger}
	}

	mux.Handle("GET /{$}", list("index",
		func(ctx context.Context, req listing.Request, _ *http.Request) (*listing.Result, error) {
			return ls.Index(ctx, req)
		}))
	mux.Handle("GET /questions", list("questions",
		func(ctx context.Context, req listing.Request, _ *http.Request) (*listing.Result, error) {
			return ls.AllQuestions(ctx, req)
		}))
	mux.Handle("GET /unanswered", list("unanswered",
		func(ctx context.Context, req listing.Request, _ *http.Request) (*listing.Result, error) {
			return ls.Unanswered(ctx, req)
		}))
	mux.Handle("GET /search", list("search",
		func(ctx context.Context, req listing.Request, _ *http.Request) (*listing.Result, error) {
			return ls.Search(ctx, req)
		}))
	mux.Handle("GET /tags/{tag}", list("tag",
		func(ctx context.Context, req listing.Request, r *http.Request) (*listing.Result, error) {
			return ls.Tag(ctx, req, r.PathValue("tag"))
		}))

	user := list("user",
		func(ctx context.Context, req listing.Request, r *http.Request) (*listing.Result, error) {
			id, err := pathID(r, "id")
			if err != nil {
				return nil, err
			}
			return ls.User(ctx, req, id, r.PathValue("mode"))
		})
	mux.Handle("GET /users/{id}/{mode}", user)
	mux.Handle("GET /users/{id}/{mode}/{slug}", user)

	mux.Handle("GET /tags", TagListHandler{Svc: ls, Logger: logger})
	mux.Handle("GET /feeds/rss", LatestFeedHandler{Svc: ls, Logger: logger})

	q := QuestionHandler{Svc: svc.Questions, Logger: logger}
	mux.Handle("GET /questions/{id}", q)
	mux.Handle("GET /questions/{id}/{slug}", q)
	mux.Handle("GET /questions/{id}/answers/{answer}", AnswerPermalinkHandler{Svc: svc.Questions, Logger: logger})

	mux.Handle("GET /revisions/{type}/{id}", RevisionsHandler{Svc: svc.Revisions, Logger: logger})
}
