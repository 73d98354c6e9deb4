package db

import (
	"database/sql"
	_ "embed"
	"strings"

	"forum-reader/internal/infra/adapter/persistence/sqlstore"
)

//go:embed seeds/demo.sql
var seedDemoSQL string

// columnTypes maps portable column markers onto each dialect.
func columnTypes(d sqlstore.Dialect) *strings.Replacer {
	if d.Name == sqlstore.SQLite.Name {
		return strings.NewReplacer(
			"{{serial}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{timestamp}}", "DATETIME",
		)
	}
	return strings.NewReplacer(
		"{{serial}}", "BIGSERIAL PRIMARY KEY",
		"{{timestamp}}", "TIMESTAMPTZ",
	)
}

var tables = []string{`
CREATE TABLE IF NOT EXISTS users (
    id           {{serial}},
    username     TEXT NOT NULL UNIQUE,
    is_superuser BOOLEAN NOT NULL DEFAULT FALSE
)`, `
CREATE TABLE IF NOT EXISTS tags (
    id         {{serial}},
    name       TEXT NOT NULL,
    used_count BIGINT NOT NULL DEFAULT 0,
    deleted    BOOLEAN NOT NULL DEFAULT FALSE
)`, `
CREATE TABLE IF NOT EXISTS questions (
    id               {{serial}},
    author_id        BIGINT NOT NULL REFERENCES users(id),
    title            TEXT NOT NULL,
    body             TEXT NOT NULL DEFAULT '',
    slug             TEXT NOT NULL DEFAULT '',
    score            BIGINT NOT NULL DEFAULT 0,
    marked           BOOLEAN NOT NULL DEFAULT FALSE,
    deleted          BOOLEAN NOT NULL DEFAULT FALSE,
    added_at         {{timestamp}} NOT NULL,
    last_activity_at {{timestamp}} NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS answers (
    id          {{serial}},
    question_id BIGINT NOT NULL REFERENCES questions(id),
    author_id   BIGINT NOT NULL REFERENCES users(id),
    body        TEXT NOT NULL DEFAULT '',
    score       BIGINT NOT NULL DEFAULT 0,
    marked      BOOLEAN NOT NULL DEFAULT FALSE,
    deleted     BOOLEAN NOT NULL DEFAULT FALSE,
    added_at    {{timestamp}} NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS question_tags (
    question_id BIGINT NOT NULL REFERENCES questions(id),
    tag_id      BIGINT NOT NULL REFERENCES tags(id),
    PRIMARY KEY (question_id, tag_id)
)`, `
CREATE TABLE IF NOT EXISTS user_tag_marks (
    user_id BIGINT NOT NULL REFERENCES users(id),
    tag_id  BIGINT NOT NULL REFERENCES tags(id),
    reason  TEXT NOT NULL,
    PRIMARY KEY (user_id, tag_id)
)`, `
CREATE TABLE IF NOT EXISTS subscriptions (
    question_id BIGINT NOT NULL REFERENCES questions(id),
    user_id     BIGINT NOT NULL REFERENCES users(id),
    PRIMARY KEY (question_id, user_id)
)`, `
CREATE TABLE IF NOT EXISTS revisions (
    node_type  TEXT NOT NULL,
    node_id    BIGINT NOT NULL,
    revision   INTEGER NOT NULL,
    author_id  BIGINT NOT NULL REFERENCES users(id),
    revised_at {{timestamp}} NOT NULL,
    title      TEXT NOT NULL DEFAULT '',
    body       TEXT NOT NULL DEFAULT '',
    tagnames   TEXT NOT NULL DEFAULT '',
    summary    TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (node_type, node_id, revision)
)`}

var indexes = []string{
	// Listing orders
	`CREATE INDEX IF NOT EXISTS idx_questions_last_activity ON questions(last_activity_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_added_at ON questions(added_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_author ON questions(author_id)`,
	// Answer pages and the hottest window
	`CREATE INDEX IF NOT EXISTS idx_answers_question ON answers(question_id, added_at)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_author ON answers(author_id)`,
	`CREATE INDEX IF NOT EXISTS idx_question_tags_tag ON question_tags(tag_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_name ON tags(name)`,
	`CREATE INDEX IF NOT EXISTS idx_subscriptions_user ON subscriptions(user_id)`,
}

// MigrateUp creates the forum schema for dialect d. It is idempotent.
func MigrateUp(db *sql.DB, d sqlstore.Dialect) error {
	types := columnTypes(d)
	for _, stmt := range tables {
		if _, err := db.Exec(types.Replace(stmt)); err != nil {
			return err
		}
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	if d.CanRank {
		// Full-text index for ranked search; ignored without privileges
		_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_questions_fts ON questions
    USING gin(to_tsvector('simple', title || ' ' || body))`)
	}
	return nil
}

// Seed loads a small demo forum. Rows that already exist are skipped.
func Seed(db *sql.DB) error {
	_, err := db.Exec(seedDemoSQL)
	return err
}

// MigrateDown drops the forum schema in reverse order of creation.
// Use with caution: this deletes all data.
func MigrateDown(db *sql.DB) error {
	drops := []string{
		`DROP TABLE IF EXISTS revisions`,
		`DROP TABLE IF EXISTS subscriptions`,
		`DROP TABLE IF EXISTS user_tag_marks`,
		`DROP TABLE IF EXISTS question_tags`,
		`DROP TABLE IF EXISTS answers`,
		`DROP TABLE IF EXISTS questions`,
		`DROP TABLE IF EXISTS tags`,
		`DROP TABLE IF EXISTS users`,
	}
	for _, stmt := range drops {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
