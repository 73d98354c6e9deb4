// Package query describes record-store reads as immutable values.
// Filters, annotations and ordering compose without touching the store;
// nothing is executed until a Source is asked to Count or Fetch.
package query

import (
	"context"
	"slices"
	"time"
)

// Source executes queries against a concrete record store.
// Implementations must honour every part of the descriptor: conditions,
// annotations, text search, ordering and distinctness.
type Source[T any] interface {
	// Count returns the number of distinct records matching q.
	Count(ctx context.Context, q Query) (int64, error)
	// Fetch returns at most limit records matching q, skipping offset,
	// in the order described by q.
	Fetch(ctx context.Context, q Query, offset, limit int) ([]T, error)
}

// Record is a listing item whose fields can be read generically.
// Stores use it to evaluate conditions; the position resolver uses it to
// build keyset predicates from a target record.
type Record interface {
	Key() int64
	Value(f Field) (any, bool)
}

// Activity annotates each record with the number of child records added
// after Since, exposed as FieldRecentChildren.
type Activity struct {
	Since time.Time
}

// TextSearch restricts records to those matching every term and exposes a
// relevance score as FieldRank when the store can rank.
type TextSearch struct {
	Terms []string
}

// Query is an immutable query descriptor. Every builder method returns a
// modified copy and leaves the receiver untouched, so a base query can be
// shared between a page, its count and a feed.
type Query struct {
	conds    []Condition
	activity *Activity
	search   *TextSearch
	order    []Order
	distinct bool
}

// New returns an empty query matching every record.
func New() Query {
	return Query{}
}

// Where narrows the query with conditions joined by AND.
func (q Query) Where(conds ...Condition) Query {
	q.conds = append(slices.Clone(q.conds), conds...)
	return q
}

// Exclude drops records matching any of the given conditions.
func (q Query) Exclude(conds ...Condition) Query {
	negated := make([]Condition, 0, len(conds))
	for _, c := range conds {
		negated = append(negated, Not(c))
	}
	return q.Where(negated...)
}

// Annotate attaches a child-activity count to each record.
func (q Query) Annotate(a Activity) Query {
	q.activity = &a
	return q
}

// Match restricts the query to a keyword search.
func (q Query) Match(terms []string) Query {
	q.search = &TextSearch{Terms: slices.Clone(terms)}
	return q
}

// OrderBy replaces the ordering of the query.
func (q Query) OrderBy(orders ...Order) Query {
	q.order = slices.Clone(orders)
	return q
}

// Distinct collapses duplicate records by identifier.
func (q Query) Distinct() Query {
	q.distinct = true
	return q
}

// Conditions returns a copy of the query's conditions.
func (q Query) Conditions() []Condition {
	return slices.Clone(q.conds)
}

// Activity returns the activity annotation, if any.
func (q Query) Activity() (Activity, bool) {
	if q.activity == nil {
		return Activity{}, false
	}
	return *q.activity, true
}

// Search returns the text search, if any.
func (q Query) Search() (TextSearch, bool) {
	if q.search == nil {
		return TextSearch{}, false
	}
	return TextSearch{Terms: slices.Clone(q.search.Terms)}, true
}

// Ordering returns a copy of the query's ordering.
func (q Query) Ordering() []Order {
	return slices.Clone(q.order)
}

// IsDistinct reports whether Distinct was applied.
func (q Query) IsDistinct() bool {
	return q.distinct
}
