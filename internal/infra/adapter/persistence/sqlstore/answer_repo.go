package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
	"forum-reader/internal/repository"
)

const answerColumns = `a.id, a.question_id, a.author_id, a.body, a.score, a.marked, a.deleted, a.added_at`

type AnswerRepo struct {
	db Querier
	d  Dialect
}

func NewAnswerRepo(db Querier, d Dialect) repository.AnswerRepository {
	return &AnswerRepo{db: db, d: d}
}

func scanAnswer(sc interface{ Scan(...interface{}) error }) (*entity.Answer, error) {
	var a entity.Answer
	if err := sc.Scan(&a.ID, &a.QuestionID, &a.AuthorID, &a.Body, &a.Score,
		&a.Marked, &a.Deleted, &a.AddedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (repo *AnswerRepo) Count(ctx context.Context, q query.Query) (int64, error) {
	stmt, args, err := countSQL(repo.d, answerTable, q)
	if err != nil {
		return 0, fmt.Errorf("CountAnswers: %w", err)
	}
	var n int64
	if err := repo.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountAnswers: %w", err)
	}
	return n, nil
}

func (repo *AnswerRepo) Fetch(ctx context.Context, q query.Query, offset, limit int) ([]*entity.Answer, error) {
	stmt, args, err := selectSQL(repo.d, answerTable, q, answerColumns, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("FetchAnswers: %w", err)
	}
	rows, err := repo.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("FetchAnswers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	answers := make([]*entity.Answer, 0, limit)
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("FetchAnswers: Scan: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (repo *AnswerRepo) Get(ctx context.Context, id int64) (*entity.Answer, error) {
	stmt := repo.d.Rebind(`SELECT ` + answerColumns + `
FROM answers a
WHERE a.id = $1
LIMIT 1`)
	a, err := scanAnswer(repo.db.QueryRowContext(ctx, stmt, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetAnswer: %w", err)
	}
	return a, nil
}
