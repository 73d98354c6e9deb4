package pagination_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-reader/internal/common/pagination"
)

type brokenStore struct{}

func (brokenStore) Load(context.Context, string, string) (*pagination.Preference, error) {
	return nil, errors.New("redis: connection refused")
}

func (brokenStore) Save(context.Context, string, string, pagination.Preference) error {
	return errors.New("redis: connection refused")
}

func TestResolver_PersistsResolvedPreference(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := pagination.NewMemoryPreferenceStore(time.Hour)
	r := &pagination.Resolver{Store: store}
	pc := newQuestionContext(t)

	sel := r.Resolve(ctx, pc, "sid", url.Values{"sort": {"newest"}, "pagesize": {"50"}, "page": {"2"}})
	assert.Equal(t, "newest", sel.SortKey)
	assert.Equal(t, 50, sel.PageSize)
	assert.Equal(t, 2, sel.Page)

	// The next request without parameters reuses the stored choice.
	sel = r.Resolve(ctx, pc, "sid", url.Values{})
	assert.Equal(t, "newest", sel.SortKey)
	assert.Equal(t, 50, sel.PageSize)
	assert.Equal(t, 1, sel.Page)

	// Invalid parameters never raise and never overwrite with garbage.
	sel = r.Resolve(ctx, pc, "sid", url.Values{"sort": {"xyz"}, "pagesize": {"99999"}, "page": {"abc"}})
	assert.Equal(t, "newest", sel.SortKey)
	assert.Equal(t, 50, sel.PageSize)

	got, err := store.Load(ctx, "sid", pc.Key())
	require.NoError(t, err)
	assert.Equal(t, &pagination.Preference{SortKey: "newest", PageSize: 50}, got)
}

func TestResolver_ForcedSortIsNotPersisted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := pagination.NewMemoryPreferenceStore(time.Hour)
	r := &pagination.Resolver{Store: store}
	pc, err := newQuestionContext(t).With(pagination.NewRelevanceSort("ranking", "relevance", "", nil)).Forced("ranking")
	require.NoError(t, err)

	sel := r.Resolve(ctx, pc, "sid", url.Values{"sort": {"mostvoted"}})
	assert.Equal(t, "ranking", sel.SortKey)

	got, err := store.Load(ctx, "sid", pc.Key())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mostvoted", got.SortKey)
}

func TestResolver_StoreFailuresDegrade(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := &pagination.Resolver{Store: brokenStore{}, Logger: logger}

	sel := r.Resolve(context.Background(), newQuestionContext(t), "sid", url.Values{"sort": {"newest"}})
	assert.Equal(t, "newest", sel.SortKey)
	assert.Contains(t, buf.String(), "pagination preference unavailable")
}

func TestResolver_AnonymousSkipsStore(t *testing.T) {
	t.Parallel()

	store := pagination.NewMemoryPreferenceStore(time.Hour)
	r := &pagination.Resolver{Store: store}

	r.Resolve(context.Background(), newQuestionContext(t), "", url.Values{"sort": {"newest"}})
	assert.Equal(t, 0, store.Len())
}
