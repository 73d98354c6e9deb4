package query_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"forum-reader/internal/common/query"
)

type fakeRecord struct {
	id     int64
	fields map[query.Field]any
}

func (r fakeRecord) Key() int64 { return r.id }

func (r fakeRecord) Value(f query.Field) (any, bool) {
	if f == query.FieldID {
		return r.id, true
	}
	v, ok := r.fields[f]
	return v, ok
}

func TestQuery_BuildersDoNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := query.New().Where(query.Eq(query.FieldDeleted, false))
	narrowed := base.Where(query.Eq(query.FieldAuthorID, int64(7)))
	_ = base.OrderBy(query.Desc(query.FieldScore))
	_ = base.Annotate(query.Activity{Since: time.Now()})
	_ = base.Match([]string{"go"})

	if got := len(base.Conditions()); got != 1 {
		t.Fatalf("base conditions = %d, want 1", got)
	}
	if got := len(narrowed.Conditions()); got != 2 {
		t.Fatalf("narrowed conditions = %d, want 2", got)
	}
	if len(base.Ordering()) != 0 {
		t.Errorf("base ordering mutated: %v", base.Ordering())
	}
	if _, ok := base.Activity(); ok {
		t.Error("base activity mutated")
	}
	if _, ok := base.Search(); ok {
		t.Error("base search mutated")
	}
}

func TestQuery_SiblingsDoNotShareBackingArray(t *testing.T) {
	t.Parallel()

	base := query.New().Where(query.Eq(query.FieldDeleted, false), query.Eq(query.FieldMarked, false))
	a := base.Where(query.Eq(query.FieldAuthorID, int64(1)))
	b := base.Where(query.Eq(query.FieldAuthorID, int64(2)))

	if diff := cmp.Diff(int64(1), a.Conditions()[2].Value); diff != "" {
		t.Errorf("sibling a overwritten (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(int64(2), b.Conditions()[2].Value); diff != "" {
		t.Errorf("sibling b overwritten (-want +got):\n%s", diff)
	}
}

func TestQuery_Exclude(t *testing.T) {
	t.Parallel()

	q := query.New().Exclude(query.Eq(query.FieldDeleted, true), query.AnyOf(query.FieldTagIDs, []int64{3}))
	conds := q.Conditions()
	if len(conds) != 2 {
		t.Fatalf("len = %d, want 2", len(conds))
	}
	for _, c := range conds {
		if !c.Negate {
			t.Errorf("condition %v not negated", c)
		}
	}
	if query.Not(conds[0]).Negate {
		t.Error("double negation should cancel out")
	}
}

func TestWithTieBreak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []query.Order
		want []query.Order
	}{
		{
			name: "appends id",
			in:   []query.Order{query.Desc(query.FieldScore)},
			want: []query.Order{query.Desc(query.FieldScore), query.Asc(query.FieldID)},
		},
		{
			name: "keeps existing id",
			in:   []query.Order{query.Desc(query.FieldID)},
			want: []query.Order{query.Desc(query.FieldID)},
		},
		{
			name: "empty ordering",
			in:   nil,
			want: []query.Order{query.Asc(query.FieldID)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.WithTieBreak(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WithTieBreak mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrder_String(t *testing.T) {
	t.Parallel()

	if got := query.Desc(query.FieldScore).String(); got != "-score" {
		t.Errorf("Desc = %q, want -score", got)
	}
	if got := query.Asc(query.FieldAddedAt).String(); got != "added_at" {
		t.Errorf("Asc = %q, want added_at", got)
	}
}

func TestAheadOf(t *testing.T) {
	t.Parallel()

	added := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	target := fakeRecord{id: 9, fields: map[query.Field]any{
		query.FieldScore:   int64(4),
		query.FieldAddedAt: added,
	}}
	orders := []query.Order{query.Desc(query.FieldScore), query.Asc(query.FieldAddedAt), query.Asc(query.FieldID)}

	got, err := query.AheadOf(orders, target)
	if err != nil {
		t.Fatalf("AheadOf err=%v", err)
	}

	want := query.Or(
		query.And(query.Gt(query.FieldScore, int64(4))),
		query.And(query.Eq(query.FieldScore, int64(4)), query.Lt(query.FieldAddedAt, added)),
		query.And(query.Eq(query.FieldScore, int64(4)), query.Eq(query.FieldAddedAt, added), query.Lt(query.FieldID, int64(9))),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AheadOf mismatch (-want +got):\n%s", diff)
	}
}

func TestAheadOf_MissingField(t *testing.T) {
	t.Parallel()

	_, err := query.AheadOf([]query.Order{query.Desc(query.FieldRank)}, fakeRecord{id: 1})
	if !errors.Is(err, query.ErrMissingField) {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}
}
