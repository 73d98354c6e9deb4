package sqlstore

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"forum-reader/internal/common/query"
)

func TestCountSQL(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		d        Dialect
		q        query.Query
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "no conditions",
			d:        Postgres,
			q:        query.New(),
			wantSQL:  "SELECT COUNT(*) FROM questions q",
			wantArgs: nil,
		},
		{
			name:     "distinct live questions",
			d:        Postgres,
			q:        query.New().Where(query.Eq(query.FieldDeleted, false)).Distinct(),
			wantSQL:  "SELECT COUNT(DISTINCT q.id) FROM questions q WHERE q.deleted = $1",
			wantArgs: []interface{}{false},
		},
		{
			name: "muted tags excluded",
			d:    Postgres,
			q:    query.New().Exclude(query.AnyOf(query.FieldTagIDs, []int64{3, 4})),
			wantSQL: "SELECT COUNT(*) FROM questions q WHERE NOT (EXISTS (SELECT 1 FROM question_tags qt " +
				"WHERE qt.question_id = q.id AND qt.tag_id IN ($1, $2)))",
			wantArgs: []interface{}{int64(3), int64(4)},
		},
		{
			name:     "empty muted list matches nothing",
			d:        Postgres,
			q:        query.New().Where(query.AnyOf(query.FieldTagIDs, nil)),
			wantSQL:  "SELECT COUNT(*) FROM questions q WHERE 1=0",
			wantArgs: nil,
		},
		{
			name: "unanswered",
			d:    SQLite,
			q: query.New().
				Exclude(query.Exists(query.FieldLiveAnswers, nil)).
				Exclude(query.Eq(query.FieldMarked, true)),
			wantSQL: "SELECT COUNT(*) FROM questions q WHERE NOT (EXISTS (SELECT 1 FROM answers a " +
				"WHERE a.question_id = q.id AND NOT a.deleted)) AND NOT (q.marked = ?)",
			wantArgs: []interface{}{true},
		},
		{
			name: "answered by",
			d:    SQLite,
			q:    query.New().Where(query.Exists(query.FieldAnsweredBy, int64(9))),
			wantSQL: "SELECT COUNT(*) FROM questions q WHERE EXISTS (SELECT 1 FROM answers a " +
				"WHERE a.question_id = q.id AND a.author_id = ?)",
			wantArgs: []interface{}{int64(9)},
		},
		{
			name: "hottest filter",
			d:    Postgres,
			q: query.New().Annotate(query.Activity{Since: since}).
				Where(query.Gt(query.FieldRecentChildren, int64(0))),
			wantSQL: "SELECT COUNT(*) FROM questions q WHERE (SELECT COUNT(*) FROM answers c " +
				"WHERE c.question_id = q.id AND c.added_at > $1) > $2",
			wantArgs: []interface{}{since, int64(0)},
		},
		{
			name:     "keyword search",
			d:        SQLite,
			q:        query.New().Match([]string{"50%"}),
			wantSQL:  `SELECT COUNT(*) FROM questions q WHERE (q.title LIKE ? ESCAPE '\' OR q.body LIKE ? ESCAPE '\')`,
			wantArgs: []interface{}{`%50\%%`, `%50\%%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs, err := countSQL(tt.d, questionTable, tt.q)
			if err != nil {
				t.Fatalf("countSQL() error = %v", err)
			}
			if gotSQL != tt.wantSQL {
				t.Errorf("countSQL() sql =\n%s\nwant\n%s", gotSQL, tt.wantSQL)
			}
			if diff := cmp.Diff(tt.wantArgs, gotArgs); diff != "" {
				t.Errorf("countSQL() args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectSQL_KeysetAndOrdering(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	ahead := query.Or(
		query.And(query.Gt(query.FieldMarked, false)),
		query.And(query.Eq(query.FieldMarked, false), query.Gt(query.FieldScore, int64(3))),
		query.And(query.Eq(query.FieldMarked, false), query.Eq(query.FieldScore, int64(3)), query.Lt(query.FieldAddedAt, at)),
	)
	q := query.New().
		Where(query.Eq(query.FieldParentID, int64(1)), ahead).
		OrderBy(query.Desc(query.FieldMarked), query.Desc(query.FieldScore), query.Asc(query.FieldID))

	gotSQL, gotArgs, err := selectSQL(SQLite, answerTable, q, answerColumns, 20, 10)
	if err != nil {
		t.Fatalf("selectSQL() error = %v", err)
	}

	wantSQL := "SELECT " + answerColumns + " FROM answers a WHERE a.question_id = ? AND " +
		"((a.marked > ?) OR (a.marked = ? AND a.score > ?) OR (a.marked = ? AND a.score = ? AND a.added_at < ?)) " +
		"ORDER BY a.marked DESC, a.score DESC, a.id ASC LIMIT ? OFFSET ?"
	if gotSQL != wantSQL {
		t.Errorf("selectSQL() sql =\n%s\nwant\n%s", gotSQL, wantSQL)
	}
	wantArgs := []interface{}{int64(1), false, false, int64(3), false, int64(3), at, 10, 20}
	if diff := cmp.Diff(wantArgs, gotArgs); diff != "" {
		t.Errorf("selectSQL() args mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectSQL_Ranking(t *testing.T) {
	t.Parallel()

	q := query.New().Match([]string{"go", "maps"}).
		OrderBy(query.Desc(query.FieldRank), query.Asc(query.FieldID))

	gotSQL, gotArgs, err := selectSQL(Postgres, questionTable, q, "q.id", 0, 30)
	if err != nil {
		t.Fatalf("selectSQL() error = %v", err)
	}
	wantSQL := `SELECT q.id FROM questions q WHERE (q.title ILIKE $1 ESCAPE '\' OR q.body ILIKE $2 ESCAPE '\') ` +
		`AND (q.title ILIKE $3 ESCAPE '\' OR q.body ILIKE $4 ESCAPE '\') ` +
		`ORDER BY ts_rank(to_tsvector('simple', q.title || ' ' || q.body), plainto_tsquery('simple', $5)) DESC, q.id ASC ` +
		`LIMIT $6 OFFSET $7`
	if gotSQL != wantSQL {
		t.Errorf("selectSQL() sql =\n%s\nwant\n%s", gotSQL, wantSQL)
	}
	if len(gotArgs) != 7 || gotArgs[4] != "go maps" {
		t.Errorf("selectSQL() args = %v", gotArgs)
	}

	_, _, err = selectSQL(SQLite, questionTable, q, "q.id", 0, 30)
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("SQLite ranking error = %v, want ErrUnsupported", err)
	}
}

func TestBuilder_Unsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		t    table
		q    query.Query
	}{
		{name: "unknown field", t: tagTable, q: query.New().Where(query.Eq(query.FieldScore, 1))},
		{name: "relation on answers", t: answerTable, q: query.New().Where(query.Exists(query.FieldAnsweredBy, 1))},
		{name: "recent children without annotation", t: questionTable, q: query.New().OrderBy(query.Desc(query.FieldRecentChildren))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := selectSQL(Postgres, tt.t, tt.q, "1", 0, 1)
			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("error = %v, want ErrUnsupported", err)
			}
		})
	}
}

func TestDialect_Rebind(t *testing.T) {
	t.Parallel()

	stmt := "SELECT 1 FROM t WHERE a = $1 AND b = $2 AND c = $10"
	if got := Postgres.Rebind(stmt); got != stmt {
		t.Errorf("Postgres.Rebind() = %q", got)
	}
	if got, want := SQLite.Rebind(stmt), "SELECT 1 FROM t WHERE a = ? AND b = ? AND c = ?"; got != want {
		t.Errorf("SQLite.Rebind() = %q, want %q", got, want)
	}
}
