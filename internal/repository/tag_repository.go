package repository

import (
	"context"

	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
)

type TagRepository interface {
	query.Source[*entity.Tag]
	// GetActiveByName returns (nil, nil) if no live tag has that name.
	GetActiveByName(ctx context.Context, name string) (*entity.Tag, error)
}
