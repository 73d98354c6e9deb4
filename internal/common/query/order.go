package query

import (
	"errors"
	"fmt"
)

// ErrMissingField is returned when a record cannot supply a value needed
// to build a keyset predicate.
var ErrMissingField = errors.New("record does not expose field")

// Order is one (field, direction) pair of an ordering.
type Order struct {
	Field Field
	Desc  bool
}

// Asc orders by f ascending.
func Asc(f Field) Order { return Order{Field: f} }

// Desc orders by f descending.
func Desc(f Field) Order { return Order{Field: f, Desc: true} }

// String renders the order in the "-field" shorthand.
func (o Order) String() string {
	if o.Desc {
		return "-" + string(o.Field)
	}
	return string(o.Field)
}

// WithTieBreak appends FieldID ascending unless the ordering already
// references FieldID, making the ordering total.
func WithTieBreak(orders []Order) []Order {
	for _, o := range orders {
		if o.Field == FieldID {
			out := make([]Order, len(orders))
			copy(out, orders)
			return out
		}
	}
	out := make([]Order, 0, len(orders)+1)
	out = append(out, orders...)
	return append(out, Asc(FieldID))
}

// AheadOf builds the predicate matching every record that sorts strictly
// before target under orders:
//
//	f1 ahead  OR  (f1 = v1 AND f2 ahead)  OR  (f1 = v1 AND f2 = v2 AND f3 ahead) ...
//
// where "ahead" is > for descending fields and < for ascending ones.
// orders should be total (see WithTieBreak) for the result to be exact.
func AheadOf(orders []Order, target Record) (Condition, error) {
	branches := make([]Condition, 0, len(orders))
	prefix := make([]Condition, 0, len(orders))

	for _, o := range orders {
		v, ok := target.Value(o.Field)
		if !ok {
			return Condition{}, fmt.Errorf("ahead of %d: %w: %s", target.Key(), ErrMissingField, o.Field)
		}

		step := Lt(o.Field, v)
		if o.Desc {
			step = Gt(o.Field, v)
		}

		branch := make([]Condition, 0, len(prefix)+1)
		branch = append(branch, prefix...)
		branch = append(branch, step)
		branches = append(branches, And(branch...))

		prefix = append(prefix, Eq(o.Field, v))
	}

	return Or(branches...), nil
}
