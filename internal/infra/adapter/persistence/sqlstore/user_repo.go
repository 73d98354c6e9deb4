package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"forum-reader/internal/domain/entity"
	"forum-reader/internal/repository"
)

// ReasonBad marks a tag the user chose to ignore.
const ReasonBad = "bad"

type UserRepo struct {
	db Querier
	d  Dialect
}

func NewUserRepo(db Querier, d Dialect) repository.UserRepository {
	return &UserRepo{db: db, d: d}
}

func (repo *UserRepo) get(ctx context.Context, op, where string, arg interface{}) (*entity.User, error) {
	stmt := repo.d.Rebind(`SELECT id, username, is_superuser FROM users WHERE ` + where + ` LIMIT 1`)
	var u entity.User
	err := repo.db.QueryRowContext(ctx, stmt, arg).Scan(&u.ID, &u.Username, &u.IsSuperuser)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func (repo *UserRepo) Get(ctx context.Context, id int64) (*entity.User, error) {
	return repo.get(ctx, "GetUser", "id = $1", id)
}

func (repo *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.get(ctx, "GetUserByUsername", "username = $1", username)
}

func (repo *UserRepo) BadTagIDs(ctx context.Context, userID int64) ([]int64, error) {
	stmt := repo.d.Rebind(`SELECT tag_id FROM user_tag_marks WHERE user_id = $1 AND reason = $2 ORDER BY tag_id`)
	rows, err := repo.db.QueryContext(ctx, stmt, userID, ReasonBad)
	if err != nil {
		return nil, fmt.Errorf("BadTagIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("BadTagIDs: Scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
