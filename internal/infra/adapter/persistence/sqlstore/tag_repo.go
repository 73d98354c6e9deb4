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

const tagColumns = `t.id, t.name, t.used_count, t.deleted`

type TagRepo struct {
	db Querier
	d  Dialect
}

func NewTagRepo(db Querier, d Dialect) repository.TagRepository {
	return &TagRepo{db: db, d: d}
}

func (repo *TagRepo) Count(ctx context.Context, q query.Query) (int64, error) {
	stmt, args, err := countSQL(repo.d, tagTable, q)
	if err != nil {
		return 0, fmt.Errorf("CountTags: %w", err)
	}
	var n int64
	if err := repo.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountTags: %w", err)
	}
	return n, nil
}

func (repo *TagRepo) Fetch(ctx context.Context, q query.Query, offset, limit int) ([]*entity.Tag, error) {
	stmt, args, err := selectSQL(repo.d, tagTable, q, tagColumns, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("FetchTags: %w", err)
	}
	rows, err := repo.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("FetchTags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := make([]*entity.Tag, 0, limit)
	for rows.Next() {
		var t entity.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.UsedCount, &t.Deleted); err != nil {
			return nil, fmt.Errorf("FetchTags: Scan: %w", err)
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

func (repo *TagRepo) GetActiveByName(ctx context.Context, name string) (*entity.Tag, error) {
	stmt := repo.d.Rebind(`SELECT ` + tagColumns + `
FROM tags t
WHERE t.name = $1 AND NOT t.deleted
LIMIT 1`)
	var t entity.Tag
	err := repo.db.QueryRowContext(ctx, stmt, name).Scan(&t.ID, &t.Name, &t.UsedCount, &t.Deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetActiveTag: %w", err)
	}
	return &t, nil
}
