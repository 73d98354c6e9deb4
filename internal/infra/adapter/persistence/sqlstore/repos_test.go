package sqlstore_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
	"forum-reader/internal/infra/adapter/persistence/sqlstore"
)

func TestAnswerRepo_Fetch(t *testing.T) {
	db, mock := newMock(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := []*entity.Answer{
		{ID: 4, QuestionID: 1, AuthorID: 2, Body: "x", Score: 9, Marked: true, AddedAt: now},
		{ID: 2, QuestionID: 1, AuthorID: 3, Body: "y", Score: 1, AddedAt: now},
	}
	rows := sqlmock.NewRows([]string{"id", "question_id", "author_id", "body", "score", "marked", "deleted", "added_at"})
	for _, a := range want {
		rows.AddRow(a.ID, a.QuestionID, a.AuthorID, a.Body, a.Score, a.Marked, a.Deleted, a.AddedAt)
	}

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM answers a WHERE a.question_id = ? AND a.deleted = ? ORDER BY a.marked DESC, a.score DESC, a.added_at ASC, a.id ASC LIMIT ? OFFSET ?")).
		WithArgs(int64(1), false, 10, 0).
		WillReturnRows(rows)

	repo := sqlstore.NewAnswerRepo(db, sqlstore.SQLite)
	q := query.New().
		Where(query.Eq(query.FieldParentID, int64(1)), query.Eq(query.FieldDeleted, false)).
		OrderBy(query.Desc(query.FieldMarked), query.Desc(query.FieldScore), query.Asc(query.FieldAddedAt), query.Asc(query.FieldID))
	got, err := repo.Fetch(context.Background(), q, 0, 10)
	if err != nil {
		t.Fatalf("Fetch err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestAnswerRepo_Get_NotFound(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := sqlstore.NewAnswerRepo(db, sqlstore.Postgres).Get(context.Background(), 5)
	if err != nil || got != nil {
		t.Fatalf("Get = %v, %v; want nil, nil", got, err)
	}
}

func TestTagRepo_GetActiveByName(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.name = $1 AND NOT t.deleted")).
		WithArgs("go").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "used_count", "deleted"}).
			AddRow(int64(1), "go", int64(12), false))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.name = $1 AND NOT t.deleted")).
		WithArgs("rust").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "used_count", "deleted"}))

	repo := sqlstore.NewTagRepo(db, sqlstore.Postgres)
	got, err := repo.GetActiveByName(context.Background(), "go")
	if err != nil {
		t.Fatalf("GetActiveByName err=%v", err)
	}
	if diff := cmp.Diff(&entity.Tag{ID: 1, Name: "go", UsedCount: 12}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	missing, err := repo.GetActiveByName(context.Background(), "rust")
	if err != nil || missing != nil {
		t.Fatalf("GetActiveByName(rust) = %v, %v; want nil, nil", missing, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTagRepo_Fetch_ByUsage(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tags t WHERE t.deleted = $1 ORDER BY t.used_count DESC, t.id ASC LIMIT $2 OFFSET $3")).
		WithArgs(false, 60, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "used_count", "deleted"}).
			AddRow(int64(2), "sql", int64(40), false))

	repo := sqlstore.NewTagRepo(db, sqlstore.Postgres)
	q := query.New().Where(query.Eq(query.FieldDeleted, false)).
		OrderBy(query.Desc(query.FieldUsedCount), query.Asc(query.FieldID))
	got, err := repo.Fetch(context.Background(), q, 0, 60)
	if err != nil || len(got) != 1 || got[0].Name != "sql" {
		t.Fatalf("Fetch = %v, %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUserRepo(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ? LIMIT 1")).
		WithArgs("gopher").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "is_superuser"}).
			AddRow(int64(3), "gopher", false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_tag_marks WHERE user_id = ? AND reason = ?")).
		WithArgs(int64(3), sqlstore.ReasonBad).
		WillReturnRows(sqlmock.NewRows([]string{"tag_id"}).AddRow(int64(4)).AddRow(int64(9)))

	repo := sqlstore.NewUserRepo(db, sqlstore.SQLite)
	u, err := repo.GetByUsername(context.Background(), "gopher")
	if err != nil {
		t.Fatalf("GetByUsername err=%v", err)
	}
	if diff := cmp.Diff(&entity.User{ID: 3, Username: "gopher"}, u); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	ids, err := repo.BadTagIDs(context.Background(), 3)
	if err != nil {
		t.Fatalf("BadTagIDs err=%v", err)
	}
	if diff := cmp.Diff([]int64{4, 9}, ids); diff != "" {
		t.Fatalf("BadTagIDs mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRevisionRepo_ListByNode(t *testing.T) {
	db, mock := newMock(t)

	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE node_type = $1 AND node_id = $2")).
		WithArgs("question", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"revision", "author_id", "revised_at", "title", "body", "tagnames", "summary"}).
			AddRow(1, int64(2), t1, "Maps", "first", "go maps", "").
			AddRow(2, int64(2), t2, "Maps in Go", "second", "go  maps runtime", "retag"))

	node := entity.NodeRef{Type: entity.NodeQuestion, ID: 7}
	got, err := sqlstore.NewRevisionRepo(db, sqlstore.Postgres).ListByNode(context.Background(), node)
	if err != nil {
		t.Fatalf("ListByNode err=%v", err)
	}
	want := []*entity.Revision{
		{Node: node, Number: 1, AuthorID: 2, RevisedAt: t1, Title: "Maps", Body: "first", Tags: []string{"go", "maps"}},
		{Node: node, Number: 2, AuthorID: 2, RevisedAt: t2, Title: "Maps in Go", Body: "second", Tags: []string{"go", "maps", "runtime"}, Summary: "retag"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
