package repository

import (
	"context"

	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
)

type AnswerRepository interface {
	query.Source[*entity.Answer]
	// Get returns (nil, nil) if the answer does not exist.
	Get(ctx context.Context, id int64) (*entity.Answer, error)
}
