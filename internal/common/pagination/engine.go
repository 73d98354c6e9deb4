package pagination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"forum-reader/internal/common/query"
	"forum-reader/internal/observability/tracing"
)

// Paginate sorts base with the selected strategy and materializes the
// requested page. Records are deduplicated by identifier before counting.
// The requested page is clamped into [1, TotalPages]; an empty listing
// is a single empty page.
//
// Store errors are returned wrapped and never retried.
func Paginate[T any](ctx context.Context, src query.Source[T], base query.Query, sel Selection) (*Page[T], error) {
	ctx, span := tracing.GetTracer().Start(ctx, "pagination.Paginate")
	defer span.End()
	start := time.Now()

	q := sel.Sort.Apply(base.Distinct())

	total, err := src.Count(ctx, q)
	if err != nil {
		RecordError("store")
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return nil, fmt.Errorf("count: %w", err)
	}

	totalPages := CalculateTotalPages(total, sel.PageSize)
	page := ClampPage(sel.Page, totalPages)
	if page != sel.Page {
		RecordClamp()
	}

	items := []T{}
	if total > 0 {
		items, err = src.Fetch(ctx, q, CalculateOffset(page, sel.PageSize), sel.PageSize)
		if err != nil {
			RecordError("store")
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
	}

	span.SetAttributes(
		attribute.String("pagination.sort", sel.SortKey),
		attribute.Int("pagination.page", page),
		attribute.Int("pagination.page_size", sel.PageSize),
		attribute.Int64("pagination.total", total),
	)
	RecordPage(sel.SortKey, page, time.Since(start))

	return &Page[T]{
		Items: items,
		Metadata: Metadata{
			Total:      total,
			Page:       page,
			PageSize:   sel.PageSize,
			TotalPages: totalPages,
			Sort:       sel.SortKey,
		},
	}, nil
}

// ErrUnpositionable is returned when a sort cannot locate a record
// without materializing the listing.
var ErrUnpositionable = errors.New("sort cannot position records")

// Position returns the 1-based page on which target lands when base is
// sorted by s and sliced into pages of pageSize. Only records strictly
// ahead of target are counted; the listing is never materialized.
//
// s must be an Orderer. Strategies with a derived or external ordering
// return ErrUnpositionable.
func Position[T any](ctx context.Context, src query.Source[T], base query.Query, s SortStrategy, target query.Record, pageSize int) (int, error) {
	return position(ctx, src.Count, base, s, target, pageSize)
}

func position(ctx context.Context, count func(context.Context, query.Query) (int64, error), base query.Query, s SortStrategy, target query.Record, pageSize int) (int, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "pagination.Position")
	defer span.End()

	o, ok := s.(Orderer)
	if !ok {
		return 0, fmt.Errorf("%w: sort %q has no static ordering", ErrUnpositionable, s.Key())
	}
	ahead, err := query.AheadOf(o.Ordering(), target)
	if err != nil {
		return 0, fmt.Errorf("position of %d: %w", target.Key(), err)
	}

	n, err := count(ctx, s.Apply(base.Distinct()).Where(ahead))
	if err != nil {
		RecordError("store")
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return 0, fmt.Errorf("count ahead of %d: %w", target.Key(), err)
	}

	page := PageForPosition(n, pageSize)
	span.SetAttributes(
		attribute.String("pagination.sort", s.Key()),
		attribute.Int64("pagination.ahead", n),
		attribute.Int("pagination.page", page),
	)
	return page, nil
}
