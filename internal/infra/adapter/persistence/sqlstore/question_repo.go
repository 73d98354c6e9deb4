package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
	"forum-reader/internal/pkg/search"
	"forum-reader/internal/repository"
)

const questionColumns = `q.id, q.author_id, q.title, q.body, q.slug, q.score, q.marked, q.deleted, q.added_at, q.last_activity_at,
(SELECT COUNT(*) FROM answers la WHERE la.question_id = q.id AND NOT la.deleted) AS answer_count`

type QuestionRepo struct {
	db Querier
	d  Dialect
}

func NewQuestionRepo(db Querier, d Dialect) repository.QuestionRepository {
	return &QuestionRepo{db: db, d: d}
}

func scanQuestion(sc interface{ Scan(...interface{}) error }) (*entity.Question, error) {
	var q entity.Question
	err := sc.Scan(&q.ID, &q.AuthorID, &q.Title, &q.Body, &q.Slug, &q.Score,
		&q.Marked, &q.Deleted, &q.AddedAt, &q.LastActivityAt, &q.AnswerCount)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Count returns the number of questions matching q.
func (repo *QuestionRepo) Count(ctx context.Context, q query.Query) (int64, error) {
	stmt, args, err := countSQL(repo.d, questionTable, q)
	if err != nil {
		return 0, fmt.Errorf("CountQuestions: %w", err)
	}
	var n int64
	if err := repo.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountQuestions: %w", err)
	}
	return n, nil
}

// Fetch returns one window of questions with their tags loaded.
func (repo *QuestionRepo) Fetch(ctx context.Context, q query.Query, offset, limit int) ([]*entity.Question, error) {
	stmt, args, err := selectSQL(repo.d, questionTable, q, questionColumns, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("FetchQuestions: %w", err)
	}
	questions, err := repo.list(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("FetchQuestions: %w", err)
	}
	if err := repo.loadTags(ctx, questions); err != nil {
		return nil, fmt.Errorf("FetchQuestions: %w", err)
	}
	return questions, nil
}

func (repo *QuestionRepo) list(ctx context.Context, stmt string, args ...interface{}) ([]*entity.Question, error) {
	rows, err := repo.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	questions := make([]*entity.Question, 0, 32)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// loadTags fills TagIDs and Tags for a page of questions in one query.
func (repo *QuestionRepo) loadTags(ctx context.Context, questions []*entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.Question, len(questions))
	marks := make([]string, len(questions))
	args := make([]interface{}, len(questions))
	for i, q := range questions {
		byID[q.ID] = q
		marks[i] = repo.d.Placeholder(i + 1)
		args[i] = q.ID
	}

	stmt := `
SELECT qt.question_id, t.id, t.name
FROM question_tags qt
INNER JOIN tags t ON t.id = qt.tag_id
WHERE qt.question_id IN (` + strings.Join(marks, ", ") + `)
ORDER BY qt.question_id, t.name`
	rows, err := repo.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("loadTags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var qid, tid int64
		var name string
		if err := rows.Scan(&qid, &tid, &name); err != nil {
			return fmt.Errorf("loadTags: Scan: %w", err)
		}
		if q, ok := byID[qid]; ok {
			q.TagIDs = append(q.TagIDs, tid)
			q.Tags = append(q.Tags, name)
		}
	}
	return rows.Err()
}

func (repo *QuestionRepo) Get(ctx context.Context, id int64) (*entity.Question, error) {
	stmt := repo.d.Rebind(`SELECT ` + questionColumns + `
FROM questions q
WHERE q.id = $1
LIMIT 1`)
	q, err := scanQuestion(repo.db.QueryRowContext(ctx, stmt, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetQuestion: %w", err)
	}
	if err := repo.loadTags(ctx, []*entity.Question{q}); err != nil {
		return nil, fmt.Errorf("GetQuestion: %w", err)
	}
	return q, nil
}

// FindBySlug narrows candidates by stored slug or by the slug's first word
// as a title prefix, then compares the derived slug of each.
func (repo *QuestionRepo) FindBySlug(ctx context.Context, slug string) (*entity.Question, error) {
	if slug == "" {
		return nil, nil
	}
	first, _, _ := strings.Cut(slug, "-")
	stmt := repo.d.Rebind(`SELECT ` + questionColumns + `
FROM questions q
WHERE q.slug = $1 OR (q.slug = '' AND LOWER(q.title) LIKE $2 ESCAPE '` + search.LikeEscape + `')
ORDER BY q.id ASC`)
	candidates, err := repo.list(ctx, stmt, slug, search.EscapeLike(first)+"%")
	if err != nil {
		return nil, fmt.Errorf("FindQuestionBySlug: %w", err)
	}
	for _, q := range candidates {
		if q.Slug == slug || (q.Slug == "" && entity.Slugify(q.Title) == slug) {
			if err := repo.loadTags(ctx, []*entity.Question{q}); err != nil {
				return nil, fmt.Errorf("FindQuestionBySlug: %w", err)
			}
			return q, nil
		}
	}
	return nil, nil
}

// Search matches every keyword against title and body. Only PostgreSQL
// can rank the matches.
func (repo *QuestionRepo) Search(_ context.Context, keywords string) (repository.SearchResult, error) {
	res := repository.SearchResult{
		Query:   query.New().Match(search.Keywords(keywords)),
		CanRank: repo.d.CanRank,
	}
	if repo.d.CanRank {
		res.Ranking = []query.Order{query.Desc(query.FieldRank)}
	}
	return res, nil
}

func (repo *QuestionRepo) Related(ctx context.Context, q *entity.Question, limit int) ([]*entity.Question, error) {
	if len(q.TagIDs) == 0 || limit <= 0 {
		return []*entity.Question{}, nil
	}
	args := []interface{}{q.ID}
	marks := make([]string, len(q.TagIDs))
	for i, id := range q.TagIDs {
		args = append(args, id)
		marks[i] = repo.d.Placeholder(len(args))
	}
	args = append(args, limit)

	stmt := `SELECT ` + questionColumns + `
FROM questions q
INNER JOIN (
    SELECT qt.question_id, COUNT(*) AS shared
    FROM question_tags qt
    WHERE qt.question_id <> ` + repo.d.Placeholder(1) + ` AND qt.tag_id IN (` + strings.Join(marks, ", ") + `)
    GROUP BY qt.question_id
) r ON r.question_id = q.id
WHERE NOT q.deleted
ORDER BY r.shared DESC, q.id ASC
LIMIT ` + repo.d.Placeholder(len(args))

	questions, err := repo.list(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("RelatedQuestions: %w", err)
	}
	return questions, nil
}

func (repo *QuestionRepo) IsSubscribed(ctx context.Context, questionID, userID int64) (bool, error) {
	stmt := repo.d.Rebind(`SELECT EXISTS (SELECT 1 FROM subscriptions WHERE question_id = $1 AND user_id = $2)`)
	var ok bool
	if err := repo.db.QueryRowContext(ctx, stmt, questionID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("IsSubscribed: %w", err)
	}
	return ok, nil
}
