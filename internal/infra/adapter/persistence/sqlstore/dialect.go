// Package sqlstore implements the record-store interfaces on database/sql.
// One query builder serves PostgreSQL and SQLite; the Dialect captures
// where they differ. COUNT and SELECT statements are compiled from the
// same query descriptor so pages and totals always agree.
package sqlstore

import (
	"context"
	"database/sql"
	"strconv"
)

// Dialect describes the SQL flavour of a backing database.
type Dialect struct {
	Name string
	// Like is the case-insensitive LIKE operator.
	Like string
	// CanRank reports whether full-text relevance ranking is available.
	CanRank bool
	// numbered placeholders ($1) instead of positional ones (?)
	numbered bool
}

var (
	// Postgres uses $N placeholders, ILIKE and ts_rank.
	Postgres = Dialect{Name: "postgres", Like: "ILIKE", CanRank: true, numbered: true}
	// SQLite uses ? placeholders and LIKE, which is case-insensitive for ASCII.
	SQLite = Dialect{Name: "sqlite", Like: "LIKE"}
)

// Placeholder returns the bind marker for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Querier is satisfied by *sql.DB and by circuitbreaker.DBCircuitBreaker.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Rebind rewrites a statement written with $N placeholders for d. Each $N
// must appear once and in ascending order.
func (d Dialect) Rebind(stmt string) string {
	if d.numbered {
		return stmt
	}
	out := make([]byte, 0, len(stmt))
	for i := 0; i < len(stmt); i++ {
		if stmt[i] == '$' && i+1 < len(stmt) && stmt[i+1] >= '0' && stmt[i+1] <= '9' {
			out = append(out, '?')
			for i+1 < len(stmt) && stmt[i+1] >= '0' && stmt[i+1] <= '9' {
				i++
			}
			continue
		}
		out = append(out, stmt[i])
	}
	return string(out)
}
