package db

import (
	"database/sql"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum-reader/internal/infra/adapter/persistence/sqlstore"
)

var tableNames = []string{
	"users", "tags", "questions", "answers",
	"question_tags", "user_tag_marks", "subscriptions", "revisions",
}

func expectSchema(mock sqlmock.Sqlmock) {
	for _, name := range tableNames {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS " + name + " (")).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for range indexes {
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func TestMigrateUp_Postgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expectSchema(mock)
	// Full-text index only exists on PostgreSQL; its failure is ignored
	mock.ExpectExec("idx_questions_fts").WillReturnError(sql.ErrConnDone)

	err = MigrateUp(db, sqlstore.Postgres)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_SQLite(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	expectSchema(mock)

	err = MigrateUp(db, sqlstore.SQLite)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_TableError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS tags").
		WillReturnError(sql.ErrTxDone)

	err = MigrateUp(db, sqlstore.Postgres)
	assert.Equal(t, sql.ErrTxDone, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnTypes(t *testing.T) {
	tests := []struct {
		name    string
		d       sqlstore.Dialect
		want    []string
		notWant []string
	}{
		{
			name:    "postgres",
			d:       sqlstore.Postgres,
			want:    []string{"BIGSERIAL PRIMARY KEY", "TIMESTAMPTZ"},
			notWant: []string{"AUTOINCREMENT", "{{"},
		},
		{
			name:    "sqlite",
			d:       sqlstore.SQLite,
			want:    []string{"INTEGER PRIMARY KEY AUTOINCREMENT", "DATETIME"},
			notWant: []string{"SERIAL", "TIMESTAMPTZ", "{{"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ddl := columnTypes(tt.d).Replace(strings.Join(tables, ";"))
			for _, s := range tt.want {
				assert.Contains(t, ddl, s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, ddl, s)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, Seed(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	for i := len(tableNames) - 1; i >= 0; i-- {
		mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS " + tableNames[i])).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	assert.NoError(t, MigrateDown(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
