package pagination_test

import (
	"errors"
	"testing"

	"forum-reader/internal/common/pagination"
	"forum-reader/internal/common/query"
)

func questionSorts() []pagination.SortStrategy {
	return []pagination.SortStrategy{
		pagination.NewSimpleSort("active", "active", "", query.Desc(query.FieldLastActivityAt)),
		pagination.NewSimpleSort("newest", "newest", "", query.Desc(query.FieldAddedAt)),
		pagination.NewSimpleSort("mostvoted", "most voted", "", query.Desc(query.FieldScore)),
	}
}

func newQuestionContext(t *testing.T, opts ...pagination.Option) *pagination.Context {
	t.Helper()
	base := []pagination.Option{
		pagination.WithSorts(questionSorts()...),
		pagination.WithPageSizes(15, 30, 50),
		pagination.WithDefaultPageSize(30),
	}
	pc, err := pagination.NewContext("QUESTIONS_LIST", append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return pc
}

func TestNewContext_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		opts    []pagination.Option
		wantErr bool
	}{
		{
			name: "valid with implicit defaults",
			id:   "QUESTIONS_LIST",
			opts: []pagination.Option{pagination.WithSorts(questionSorts()...), pagination.WithPageSizes(15, 30)},
		},
		{
			name:    "empty id",
			id:      "",
			opts:    []pagination.Option{pagination.WithSorts(questionSorts()...), pagination.WithPageSizes(15)},
			wantErr: true,
		},
		{
			name:    "no sorts",
			id:      "X",
			opts:    []pagination.Option{pagination.WithPageSizes(15)},
			wantErr: true,
		},
		{
			name: "unknown default sort",
			id:   "X",
			opts: []pagination.Option{
				pagination.WithSorts(questionSorts()...), pagination.WithPageSizes(15),
				pagination.WithDefaultSort("hottest"),
			},
			wantErr: true,
		},
		{
			name: "unknown forced sort",
			id:   "X",
			opts: []pagination.Option{
				pagination.WithSorts(questionSorts()...), pagination.WithPageSizes(15),
				pagination.WithForcedSort("ranking"),
			},
			wantErr: true,
		},
		{
			name: "default page size not allowed",
			id:   "X",
			opts: []pagination.Option{
				pagination.WithSorts(questionSorts()...), pagination.WithPageSizes(15, 30),
				pagination.WithDefaultPageSize(20),
			},
			wantErr: true,
		},
		{
			name:    "non-positive page size",
			id:      "X",
			opts:    []pagination.Option{pagination.WithSorts(questionSorts()...), pagination.WithPageSizes(0)},
			wantErr: true,
		},
		{
			name: "duplicate sort key",
			id:   "X",
			opts: []pagination.Option{
				pagination.WithSorts(questionSorts()...),
				pagination.WithSorts(pagination.NewSimpleSort("newest", "again", "")),
				pagination.WithPageSizes(15),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pagination.NewContext(tt.id, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewContext() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, pagination.ErrInvalidContext) {
				t.Errorf("error %v does not wrap ErrInvalidContext", err)
			}
		})
	}
}

func TestContext_Resolve(t *testing.T) {
	t.Parallel()

	pc := newQuestionContext(t)
	forced, err := pc.With(pagination.NewRelevanceSort("ranking", "relevance", "", nil)).Forced("ranking")
	if err != nil {
		t.Fatalf("Forced: %v", err)
	}

	tests := []struct {
		name          string
		pc            *pagination.Context
		params        pagination.Params
		stored        *pagination.Preference
		wantSort      string
		wantPreferred string
		wantSize      int
		wantPage      int
		wantForced    bool
	}{
		{
			name:          "defaults",
			pc:            pc,
			wantSort:      "active",
			wantPreferred: "active",
			wantSize:      30,
			wantPage:      1,
		},
		{
			name:          "request wins",
			pc:            pc,
			params:        pagination.Params{Sort: "newest", Page: 3, PageSize: 50},
			stored:        &pagination.Preference{SortKey: "mostvoted", PageSize: 15},
			wantSort:      "newest",
			wantPreferred: "newest",
			wantSize:      50,
			wantPage:      3,
		},
		{
			name:          "stored preference",
			pc:            pc,
			stored:        &pagination.Preference{SortKey: "mostvoted", PageSize: 15},
			wantSort:      "mostvoted",
			wantPreferred: "mostvoted",
			wantSize:      15,
			wantPage:      1,
		},
		{
			name:          "invalid request falls back to stored",
			pc:            pc,
			params:        pagination.Params{Sort: "xyz", PageSize: 99999},
			stored:        &pagination.Preference{SortKey: "newest", PageSize: 50},
			wantSort:      "newest",
			wantPreferred: "newest",
			wantSize:      50,
			wantPage:      1,
		},
		{
			name:          "invalid request and stale store fall back to defaults",
			pc:            pc,
			params:        pagination.Params{Sort: "xyz", PageSize: 99999},
			stored:        &pagination.Preference{SortKey: "gone", PageSize: 7},
			wantSort:      "active",
			wantPreferred: "active",
			wantSize:      30,
			wantPage:      1,
		},
		{
			name:          "forced sort overrides request but keeps preference",
			pc:            forced,
			params:        pagination.Params{Sort: "newest"},
			wantSort:      "ranking",
			wantPreferred: "newest",
			wantSize:      30,
			wantPage:      1,
			wantForced:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := tt.pc.Resolve(tt.params, tt.stored)
			if sel.SortKey != tt.wantSort || sel.Sort.Key() != tt.wantSort {
				t.Errorf("sort = %q (%q), want %q", sel.SortKey, sel.Sort.Key(), tt.wantSort)
			}
			if sel.PreferredSortKey != tt.wantPreferred {
				t.Errorf("preferred = %q, want %q", sel.PreferredSortKey, tt.wantPreferred)
			}
			if sel.PageSize != tt.wantSize {
				t.Errorf("page size = %d, want %d", sel.PageSize, tt.wantSize)
			}
			if sel.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", sel.Page, tt.wantPage)
			}
			if sel.Forced != tt.wantForced {
				t.Errorf("forced = %v, want %v", sel.Forced, tt.wantForced)
			}
		})
	}
}

func TestContext_WithDoesNotMutate(t *testing.T) {
	t.Parallel()

	pc := newQuestionContext(t, pagination.WithPrefix("q_"))
	extended := pc.With(pagination.NewRelevanceSort("ranking", "relevance", "", nil))

	if _, ok := pc.Sort("ranking"); ok {
		t.Error("With mutated the original context")
	}
	if _, ok := extended.Sort("ranking"); !ok {
		t.Error("With did not add the sort")
	}
	if got := len(extended.Sorts()); got != 4 {
		t.Errorf("len(Sorts()) = %d, want 4", got)
	}
	if extended.Key() != "q_QUESTIONS_LIST" || extended.Param("page") != "q_page" {
		t.Errorf("prefix lost: key=%q param=%q", extended.Key(), extended.Param("page"))
	}
	if _, err := pc.Forced("ranking"); !errors.Is(err, pagination.ErrInvalidContext) {
		t.Errorf("Forced(unknown) error = %v, want ErrInvalidContext", err)
	}
}
