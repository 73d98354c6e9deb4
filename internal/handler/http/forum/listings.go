package forum

import (
	"context"
	"log/slog"
	"net/http"

	"forum-reader/internal/handler/http/respond"
	"forum-reader/internal/observability/logging"
	"forum-reader/internal/observability/metrics"
	"forum-reader/internal/usecase/listing"
)

// listFunc runs one kind of question listing.
type listFunc func(ctx context.Context, req listing.Request, r *http.Request) (*listing.Result, error)

// ListingHandler serves a question listing as JSON, as an RSS feed when
// type=rss is requested, or as a redirect.
type ListingHandler struct {
	Name   string
	List   listFunc
	Logger *slog.Logger
}

func (h ListingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	res, err := h.List(ctx, listingRequest(r), r)
	if err != nil {
		writeError(w, r, logger, err)
		return
	}

	switch {
	case res.Redirect != "":
		http.Redirect(w, r, res.Redirect, http.StatusFound)
	case res.Feed != nil:
		metrics.RecordListing(h.Name, true)
		writeFeed(w, res.Feed)
	default:
		metrics.RecordListing(h.Name, false)
		l := res.Listing
		logger.Debug("listing served",
			slog.String("listing", h.Name),
			slog.String("sort", l.Selection.SortKey),
			slog.Int("page", l.Page.Metadata.Page),
			slog.Int("items", len(l.Page.Items)))
		respond.JSON(w, http.StatusOK, listingDTO(l))
	}
}

func listingDTO(l *listing.QuestionListing) ListingDTO {
	out := ListingDTO{
		Title:       l.Title,
		Description: l.Description,
		FeedURL:     l.FeedURL,
		Keywords:    l.Keywords,
		User:        userDTO(l.User),
		Questions:   questionDTOs(l.Page.Items),
		Pagination:  paginationDTO(l.Page.Metadata, l.Selection, l.Sorts, l.Links, l.Navigation),
	}
	if l.Tag != nil {
		t := tagDTO(l.Tag)
		out.Tag = &t
	}
	return out
}

// TagListHandler serves the tag directory.
type TagListHandler struct {
	Svc    *listing.Service
	Logger *slog.Logger
}

func (h TagListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	l, err := h.Svc.TagList(r.Context(), listingRequest(r))
	if err != nil {
		writeError(w, r, logger, err)
		return
	}
	metrics.RecordListing("tags", false)

	tags := make([]TagDTO, 0, len(l.Page.Items))
	for _, t := range l.Page.Items {
		tags = append(tags, tagDTO(t))
	}
	respond.JSON(w, http.StatusOK, TagListDTO{
		Keywords:   l.Keywords,
		Tags:       tags,
		Pagination: paginationDTO(l.Page.Metadata, l.Selection, l.Sorts, l.Links, l.Navigation),
	})
}

// LatestFeedHandler serves the site-wide feed of recently active questions.
type LatestFeedHandler struct {
	Svc    *listing.Service
	Logger *slog.Logger
}

func (h LatestFeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Svc.LatestFeed(r.Context())
	if err != nil {
		writeError(w, r, logging.WithRequestID(r.Context(), h.Logger), err)
		return
	}
	metrics.RecordListing("latest", true)
	writeFeed(w, doc)
}
