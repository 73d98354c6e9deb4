// Package repository declares the record-store interfaces consumed by the
// use cases. Listing stores are lazy query.Source implementations; single
// record lookups return (nil, nil) when nothing matches.
package repository

import (
	"context"

	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
)

// SearchResult is the outcome of preparing a keyword search.
type SearchResult struct {
	// Query restricts questions to the matches. Further filters compose on it.
	Query query.Query
	// CanRank is true when the store can order matches by relevance.
	CanRank bool
	// Ranking is the relevance ordering. It may be empty when CanRank is
	// true, in which case the store's natural match order applies.
	Ranking []query.Order
}

type QuestionRepository interface {
	query.Source[*entity.Question]
	// Get returns (nil, nil) if the question does not exist. Deleted
	// questions are returned; visibility is decided by the caller.
	Get(ctx context.Context, id int64) (*entity.Question, error)
	// FindBySlug returns the lowest-numbered question whose URL slug is
	// slug, or (nil, nil). Deleted questions are included.
	FindBySlug(ctx context.Context, slug string) (*entity.Question, error)
	// Search prepares a keyword search over question titles and bodies.
	Search(ctx context.Context, keywords string) (SearchResult, error)
	// Related returns up to limit live questions sharing tags with q,
	// most shared tags first.
	Related(ctx context.Context, q *entity.Question, limit int) ([]*entity.Question, error)
	// IsSubscribed reports whether userID follows the question.
	IsSubscribed(ctx context.Context, questionID, userID int64) (bool, error)
}
