package pagination

import (
	"time"

	"forum-reader/internal/common/query"
)

// SortStrategy is a named transformation from a base query to an ordered
// one. Apply may annotate or filter before ordering.
type SortStrategy interface {
	Key() string
	Label() string
	Description() string
	Apply(q query.Query) query.Query
}

// Orderer is implemented by strategies whose ordering is a static, total
// field list. Only these can locate a record without materializing the
// listing (see query.AheadOf).
type Orderer interface {
	Ordering() []query.Order
}

// SimpleSort orders by a fixed field list with an id tie-break.
type SimpleSort struct {
	key         string
	label       string
	description string
	orders      []query.Order
}

// NewSimpleSort creates a strategy ordering by orders, then by id.
func NewSimpleSort(key, label, description string, orders ...query.Order) SimpleSort {
	return SimpleSort{
		key:         key,
		label:       label,
		description: description,
		orders:      query.WithTieBreak(orders),
	}
}

func (s SimpleSort) Key() string         { return s.key }
func (s SimpleSort) Label() string       { return s.label }
func (s SimpleSort) Description() string { return s.description }

// Ordering returns the full ordering including the tie-break.
func (s SimpleSort) Ordering() []query.Order {
	out := make([]query.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Apply orders q by the strategy's fields.
func (s SimpleSort) Apply(q query.Query) query.Query {
	return q.OrderBy(s.orders...)
}

// HottestSort ranks records by the number of children added within a
// trailing window. Records without any such child are dropped.
type HottestSort struct {
	key         string
	label       string
	description string
	window      time.Duration
	now         func() time.Time
}

// NewHottestSort creates a hottest strategy over the given trailing window.
// now defaults to time.Now when nil.
func NewHottestSort(key, label, description string, window time.Duration, now func() time.Time) HottestSort {
	if now == nil {
		now = time.Now
	}
	return HottestSort{key: key, label: label, description: description, window: window, now: now}
}

func (s HottestSort) Key() string         { return s.key }
func (s HottestSort) Label() string       { return s.label }
func (s HottestSort) Description() string { return s.description }

// Apply annotates, then filters, then orders.
func (s HottestSort) Apply(q query.Query) query.Query {
	return q.
		Annotate(query.Activity{Since: s.now().Add(-s.window)}).
		Where(query.Gt(query.FieldRecentChildren, int64(0))).
		OrderBy(query.Desc(query.FieldRecentChildren), query.Asc(query.FieldID))
}

// acceptedFirst pins accepted records ahead of the wrapped ordering.
type acceptedFirst struct {
	inner SimpleSort
}

// PinAccepted decorates s so that accepted (marked) records always come
// first. When accepting is disabled s is returned unchanged.
func PinAccepted(s SimpleSort, acceptingEnabled bool) SortStrategy {
	if !acceptingEnabled {
		return s
	}
	return acceptedFirst{inner: s}
}

func (s acceptedFirst) Key() string         { return s.inner.Key() }
func (s acceptedFirst) Label() string       { return s.inner.Label() }
func (s acceptedFirst) Description() string { return s.inner.Description() }

func (s acceptedFirst) Ordering() []query.Order {
	return append([]query.Order{query.Desc(query.FieldMarked)}, s.inner.Ordering()...)
}

func (s acceptedFirst) Apply(q query.Query) query.Query {
	return q.OrderBy(s.Ordering()...)
}

// RelevanceSort orders by a ranking supplied by the search backend. With no
// ranking the backend's own order is kept and only the tie-break is added.
type RelevanceSort struct {
	key         string
	label       string
	description string
	ranking     []query.Order
}

// NewRelevanceSort creates a relevance strategy over an external ranking.
func NewRelevanceSort(key, label, description string, ranking []query.Order) RelevanceSort {
	r := make([]query.Order, len(ranking))
	copy(r, ranking)
	return RelevanceSort{key: key, label: label, description: description, ranking: r}
}

func (s RelevanceSort) Key() string         { return s.key }
func (s RelevanceSort) Label() string       { return s.label }
func (s RelevanceSort) Description() string { return s.description }

func (s RelevanceSort) Apply(q query.Query) query.Query {
	if len(s.ranking) == 0 {
		return q.OrderBy(query.WithTieBreak(q.Ordering())...)
	}
	return q.OrderBy(query.WithTieBreak(s.ranking)...)
}
