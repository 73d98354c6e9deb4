package repository

import (
	"context"

	"forum-reader/internal/domain/entity"
)

type RevisionRepository interface {
	// ListByNode returns the node's revisions oldest first. An empty
	// slice means the node has no history.
	ListByNode(ctx context.Context, node entity.NodeRef) ([]*entity.Revision, error)
}
