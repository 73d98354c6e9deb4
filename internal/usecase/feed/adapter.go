// Package feed renders listing collections as RSS 2.0 documents. A feed
// is never paginated: it is the first N records of the collection under
// its own ordering, newest first unless the caller supplies one.
package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"forum-reader/internal/common/query"
	"forum-reader/internal/observability/tracing"
)

// DefaultMaxItems bounds feeds when no cap is configured.
const DefaultMaxItems = 30

// ContentType is the media type of rendered feeds.
const ContentType = "application/rss+xml; charset=utf-8"

// Channel describes the feed itself.
type Channel struct {
	Title       string
	Description string
	Link        string // Path or absolute URL of the listing
}

// Item is one feed entry.
type Item struct {
	ID        string
	Title     string
	Link      string // Path or absolute URL
	Author    string
	Published time.Time
	Summary   string
}

// Document is a rendered feed.
type Document struct {
	Body  string
	Items int
}

// NewestFirst is the default feed ordering.
var NewestFirst = []query.Order{query.Desc(query.FieldAddedAt)}

// Adapter turns collections into feed documents.
type Adapter struct {
	// BaseURL makes relative links absolute, e.g. "https://forum.example".
	BaseURL string
	// MaxItems caps every feed independently of page sizes.
	MaxItems int
	// Now stamps the channel; defaults to time.Now.
	Now func() time.Time
}

// NewAdapter creates an adapter. A non-positive maxItems uses DefaultMaxItems.
func NewAdapter(baseURL string, maxItems int) *Adapter {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Adapter{BaseURL: strings.TrimRight(baseURL, "/"), MaxItems: maxItems, Now: time.Now}
}

// Absolute resolves a path against BaseURL. Absolute URLs pass through.
func (a *Adapter) Absolute(link string) string {
	if link == "" || strings.Contains(link, "://") {
		return link
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return a.BaseURL + link
}

// Render orders base by ordering (NewestFirst when empty, id tie-break
// appended), takes the first MaxItems records and encodes them with item.
// The base query's own ordering is replaced.
func Render[T any](ctx context.Context, a *Adapter, src query.Source[T], base query.Query,
	ordering []query.Order, ch Channel, item func(T) Item) (*Document, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "feed.Render")
	defer span.End()
	start := time.Now()

	if len(ordering) == 0 {
		ordering = NewestFirst
	}
	q := base.Distinct().OrderBy(query.WithTieBreak(ordering)...)

	records, err := src.Fetch(ctx, q, 0, a.MaxItems)
	if err != nil {
		recordError()
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, fmt.Errorf("feed %q: %w", ch.Title, err)
	}

	items := make([]Item, 0, len(records))
	for _, r := range records {
		items = append(items, item(r))
	}

	body, err := a.encode(ch, items)
	if err != nil {
		recordError()
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode failed")
		return nil, fmt.Errorf("feed %q: %w", ch.Title, err)
	}

	span.SetAttributes(attribute.Int("feed.items", len(items)))
	recordRender(len(items), time.Since(start))
	return &Document{Body: body, Items: len(items)}, nil
}

func (a *Adapter) encode(ch Channel, items []Item) (string, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	f := &feeds.Feed{
		Title:       ch.Title,
		Link:        &feeds.Link{Href: a.Absolute(ch.Link)},
		Description: ch.Description,
		Created:     now().UTC(),
	}
	for _, it := range items {
		link := a.Absolute(it.Link)
		entry := &feeds.Item{
			Id:          link,
			Title:       it.Title,
			Link:        &feeds.Link{Href: link},
			Description: it.Summary,
			Created:     it.Published.UTC(),
		}
		if it.ID != "" {
			entry.Id = it.ID
		}
		if it.Author != "" {
			entry.Author = &feeds.Author{Name: it.Author}
		}
		f.Items = append(f.Items, entry)
	}
	return f.ToRss()
}
