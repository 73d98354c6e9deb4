package repository

import (
	"context"

	"forum-reader/internal/domain/entity"
)

type UserRepository interface {
	// Get returns (nil, nil) if the user does not exist.
	Get(ctx context.Context, id int64) (*entity.User, error)
	// GetByUsername returns (nil, nil) if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// BadTagIDs returns the tags the user chose to ignore.
	BadTagIDs(ctx context.Context, userID int64) ([]int64, error)
}
