package sqlstore

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"forum-reader/internal/common/query"
	"forum-reader/internal/pkg/search"
)

// ErrUnsupported is returned for query parts a table cannot express in SQL.
var ErrUnsupported = errors.New("sqlstore: unsupported query")

// table maps query fields of one record type onto SQL.
type table struct {
	name    string
	alias   string
	columns map[query.Field]string
	// text lists the columns searched by FieldText and TextSearch.
	text []string
	// sets renders membership tests on set-valued fields (OpAnyOf).
	sets map[query.Field]func(b *builder, ids []int64) string
	// relations render OpExists conditions.
	relations map[query.Field]func(b *builder, arg any) (string, error)
	// activity renders the recent-children count for an Activity annotation.
	activity func(b *builder, since time.Time) string
}

func (t table) from() string {
	return t.name + " " + t.alias
}

// builder accumulates bind arguments while rendering SQL fragments. SQL
// must be rendered in textual order so positional placeholders line up.
type builder struct {
	d    Dialect
	t    table
	q    query.Query
	args []interface{}
}

func newBuilder(d Dialect, t table, q query.Query) *builder {
	return &builder{d: d, t: t, q: q}
}

func (b *builder) bind(v interface{}) string {
	b.args = append(b.args, v)
	return b.d.Placeholder(len(b.args))
}

func (b *builder) bindList(ids []int64) string {
	marks := make([]string, len(ids))
	for i, id := range ids {
		marks[i] = b.bind(id)
	}
	return strings.Join(marks, ", ")
}

// expr renders a scalar field, including derived ones.
func (b *builder) expr(f query.Field) (string, error) {
	switch f {
	case query.FieldRecentChildren:
		a, ok := b.q.Activity()
		if !ok || b.t.activity == nil {
			return "", fmt.Errorf("%w: %s without activity annotation on %s", ErrUnsupported, f, b.t.name)
		}
		return b.t.activity(b, a.Since), nil
	case query.FieldRank:
		s, ok := b.q.Search()
		if !ok || !b.d.CanRank || len(b.t.text) == 0 {
			return "", fmt.Errorf("%w: ranking on %s (%s)", ErrUnsupported, b.t.name, b.d.Name)
		}
		doc := strings.Join(b.t.text, " || ' ' || ")
		return fmt.Sprintf("ts_rank(to_tsvector('simple', %s), plainto_tsquery('simple', %s))",
			doc, b.bind(strings.Join(s.Terms, " "))), nil
	}
	col, ok := b.t.columns[f]
	if !ok {
		return "", fmt.Errorf("%w: field %s on %s", ErrUnsupported, f, b.t.name)
	}
	return col, nil
}

// where renders the WHERE clause, or "" when nothing filters.
func (b *builder) where() (string, error) {
	var parts []string

	if s, ok := b.q.Search(); ok {
		for _, term := range s.Terms {
			parts = append(parts, b.textMatch(search.ContainsPattern(term)))
		}
	}
	for _, c := range b.q.Conditions() {
		sql, err := b.cond(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, sql)
	}

	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}

func (b *builder) textMatch(pattern string) string {
	ors := make([]string, len(b.t.text))
	for i, col := range b.t.text {
		ors[i] = fmt.Sprintf("%s %s %s ESCAPE '%s'", col, b.d.Like, b.bind(pattern), search.LikeEscape)
	}
	return "(" + strings.Join(ors, " OR ") + ")"
}

func (b *builder) cond(c query.Condition) (string, error) {
	sql, err := b.condPositive(c)
	if err != nil {
		return "", err
	}
	if c.Negate {
		return "NOT (" + sql + ")", nil
	}
	return sql, nil
}

func (b *builder) group(children []query.Condition, sep, empty string) (string, error) {
	if len(children) == 0 {
		return empty, nil
	}
	parts := make([]string, len(children))
	for i, child := range children {
		sql, err := b.cond(child)
		if err != nil {
			return "", err
		}
		parts[i] = sql
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func (b *builder) condPositive(c query.Condition) (string, error) {
	switch {
	case c.Any != nil:
		return b.group(c.Any, " OR ", "1=0")
	case c.All != nil:
		return b.group(c.All, " AND ", "1=1")
	}

	switch c.Op {
	case query.OpExists:
		rel, ok := b.t.relations[c.Field]
		if !ok {
			return "", fmt.Errorf("%w: relation %s on %s", ErrUnsupported, c.Field, b.t.name)
		}
		return rel(b, c.Value)

	case query.OpAnyOf:
		set, ok := b.t.sets[c.Field]
		ids, idsOK := c.Value.([]int64)
		if !ok || !idsOK {
			return "", fmt.Errorf("%w: %s any of %T on %s", ErrUnsupported, c.Field, c.Value, b.t.name)
		}
		if len(ids) == 0 {
			return "1=0", nil
		}
		return set(b, ids), nil

	case query.OpContains:
		s, ok := c.Value.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s contains %T", ErrUnsupported, c.Field, c.Value)
		}
		if c.Field == query.FieldText {
			return b.textMatch(search.ContainsPattern(s)), nil
		}
		col, err := b.expr(c.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s ESCAPE '%s'", col, b.d.Like, b.bind(search.ContainsPattern(s)), search.LikeEscape), nil

	case query.OpIn:
		ids, ok := c.Value.([]int64)
		if !ok {
			return "", fmt.Errorf("%w: %s in %T", ErrUnsupported, c.Field, c.Value)
		}
		if len(ids) == 0 {
			return "1=0", nil
		}
		col, err := b.expr(c.Field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s IN (%s)", col, b.bindList(ids)), nil
	}

	var op string
	switch c.Op {
	case query.OpEq:
		op = "="
	case query.OpLt:
		op = "<"
	case query.OpGt:
		op = ">"
	default:
		return "", fmt.Errorf("%w: op %s", ErrUnsupported, c.Op)
	}
	col, err := b.expr(c.Field)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s", col, op, b.bind(c.Value)), nil
}

func (b *builder) orderBy() (string, error) {
	orders := b.q.Ordering()
	if len(orders) == 0 {
		return "", nil
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		col, err := b.expr(o.Field)
		if err != nil {
			return "", err
		}
		if o.Desc {
			col += " DESC"
		} else {
			col += " ASC"
		}
		parts[i] = col
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// countSQL compiles the COUNT statement for the query. Relations are
// rendered as EXISTS subqueries, so rows never multiply; DISTINCT is still
// honoured for queries that ask for it.
func countSQL(d Dialect, t table, q query.Query) (string, []interface{}, error) {
	b := newBuilder(d, t, q)
	where, err := b.where()
	if err != nil {
		return "", nil, err
	}
	count := "COUNT(*)"
	if q.IsDistinct() {
		count = "COUNT(DISTINCT " + t.alias + ".id)"
	}
	return "SELECT " + count + " FROM " + t.from() + where, b.args, nil
}

// selectSQL compiles the SELECT statement for one window of the query.
func selectSQL(d Dialect, t table, q query.Query, columns string, offset, limit int) (string, []interface{}, error) {
	b := newBuilder(d, t, q)
	where, err := b.where()
	if err != nil {
		return "", nil, err
	}
	order, err := b.orderBy()
	if err != nil {
		return "", nil, err
	}
	stmt := "SELECT " + columns + " FROM " + t.from() + where + order +
		" LIMIT " + b.bind(limit) + " OFFSET " + b.bind(offset)
	return stmt, b.args, nil
}
