// Package memory is an in-process record store. It evaluates query
// descriptors directly against Go values and backs the demo server and
// the pagination property tests.
package memory

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"forum-reader/internal/common/query"
)

// ErrUnsupported is returned for conditions the store cannot evaluate.
var ErrUnsupported = errors.New("memory store: unsupported condition")

// RelationFunc reports whether rec is related to arg through a relation field.
type RelationFunc[T query.Record] func(rec T, arg any) bool

// evaluator runs query descriptors over a slice of records.
type evaluator[T query.Record] struct {
	relations map[query.Field]RelationFunc[T]
	children  func(rec T) []time.Time
}

type row[T query.Record] struct {
	rec    T
	recent int64
	rank   int64
}

func (r *row[T]) value(f query.Field) (any, bool) {
	switch f {
	case query.FieldRecentChildren:
		return r.recent, true
	case query.FieldRank:
		return r.rank, true
	default:
		return r.rec.Value(f)
	}
}

// run filters, annotates, deduplicates and orders recs.
func (e evaluator[T]) run(recs []T, q query.Query) ([]T, error) {
	activity, annotate := q.Activity()
	search, searching := q.Search()
	conds := q.Conditions()

	rows := make([]*row[T], 0, len(recs))
	seen := make(map[int64]struct{}, len(recs))
	for _, rec := range recs {
		if q.IsDistinct() {
			if _, dup := seen[rec.Key()]; dup {
				continue
			}
			seen[rec.Key()] = struct{}{}
		}

		r := &row[T]{rec: rec}
		if annotate && e.children != nil {
			for _, at := range e.children(rec) {
				if at.After(activity.Since) {
					r.recent++
				}
			}
		}
		if searching {
			rank, ok := textRank(rec, search.Terms)
			if !ok {
				continue
			}
			r.rank = rank
		}

		ok := true
		for _, c := range conds {
			m, err := e.match(r, c)
			if err != nil {
				return nil, err
			}
			if !m {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, r)
		}
	}

	orders := q.Ordering()
	var sortErr error
	slices.SortStableFunc(rows, func(a, b *row[T]) int {
		for _, o := range orders {
			av, _ := a.value(o.Field)
			bv, _ := b.value(o.Field)
			c, err := compare(av, bv)
			if err != nil && sortErr == nil {
				sortErr = fmt.Errorf("order by %s: %w", o.Field, err)
			}
			if c != 0 {
				if o.Desc {
					return -c
				}
				return c
			}
		}
		return 0
	})
	if sortErr != nil {
		return nil, sortErr
	}

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.rec
	}
	return out, nil
}

func (e evaluator[T]) match(r *row[T], c query.Condition) (bool, error) {
	m, err := e.matchPositive(r, c)
	if err != nil {
		return false, err
	}
	return m != c.Negate, nil
}

func (e evaluator[T]) matchPositive(r *row[T], c query.Condition) (bool, error) {
	switch {
	case c.Any != nil:
		for _, child := range c.Any {
			m, err := e.match(r, child)
			if err != nil || m {
				return m, err
			}
		}
		return false, nil
	case c.All != nil:
		for _, child := range c.All {
			m, err := e.match(r, child)
			if err != nil || !m {
				return m, err
			}
		}
		return true, nil
	}

	if c.Op == query.OpExists {
		rel, ok := e.relations[c.Field]
		if !ok {
			return false, fmt.Errorf("%w: relation %s", ErrUnsupported, c.Field)
		}
		return rel(r.rec, c.Value), nil
	}

	v, ok := r.value(c.Field)
	if !ok {
		return false, fmt.Errorf("%w: field %s", ErrUnsupported, c.Field)
	}

	switch c.Op {
	case query.OpEq, query.OpLt, query.OpGt:
		cmp, err := compare(v, c.Value)
		if err != nil {
			return false, fmt.Errorf("%s %s: %w", c.Field, c.Op, err)
		}
		switch c.Op {
		case query.OpEq:
			return cmp == 0, nil
		case query.OpLt:
			return cmp < 0, nil
		default:
			return cmp > 0, nil
		}
	case query.OpIn:
		id, ok := toInt64(v)
		list, listOK := c.Value.([]int64)
		if !ok || !listOK {
			return false, fmt.Errorf("%w: %s in %T", ErrUnsupported, c.Field, c.Value)
		}
		return slices.Contains(list, id), nil
	case query.OpAnyOf:
		set, ok := v.([]int64)
		list, listOK := c.Value.([]int64)
		if !ok || !listOK {
			return false, fmt.Errorf("%w: %s any of %T", ErrUnsupported, c.Field, c.Value)
		}
		return slices.ContainsFunc(set, func(id int64) bool { return slices.Contains(list, id) }), nil
	case query.OpContains:
		s, ok := v.(string)
		sub, subOK := c.Value.(string)
		if !ok || !subOK {
			return false, fmt.Errorf("%w: %s contains %T", ErrUnsupported, c.Field, c.Value)
		}
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub)), nil
	default:
		return false, fmt.Errorf("%w: op %s", ErrUnsupported, c.Op)
	}
}

// textRank counts case-insensitive term hits in the record's text. Every
// term must occur at least once.
func textRank(rec query.Record, terms []string) (int64, bool) {
	v, ok := rec.Value(query.FieldText)
	if !ok {
		return 0, false
	}
	text := strings.ToLower(v.(string))
	var rank int64
	for _, term := range terms {
		n := strings.Count(text, strings.ToLower(term))
		if n == 0 {
			return 0, false
		}
		rank += int64(n)
	}
	return rank, true
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}

// compare orders two field values of the same kind.
func compare(a, b any) (int, error) {
	if ai, ok := toInt64(a); ok {
		bi, ok := toInt64(b)
		if !ok {
			return 0, fmt.Errorf("%w: compare %T with %T", ErrUnsupported, a, b)
		}
		switch {
		case ai < bi:
			return -1, nil
		case ai > bi:
			return 1, nil
		}
		return 0, nil
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			break
		}
		return strings.Compare(av, bv), nil
	case bool:
		bv, ok := b.(bool)
		if !ok {
			break
		}
		switch {
		case av == bv:
			return 0, nil
		case !av:
			return -1, nil
		}
		return 1, nil
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			break
		}
		return av.Compare(bv), nil
	case float64:
		bv, ok := b.(float64)
		if !ok {
			break
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: compare %T with %T", ErrUnsupported, a, b)
}
