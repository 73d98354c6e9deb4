package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"forum-reader/internal/domain/entity"
	"forum-reader/internal/repository"
)

type RevisionRepo struct {
	db Querier
	d  Dialect
}

func NewRevisionRepo(db Querier, d Dialect) repository.RevisionRepository {
	return &RevisionRepo{db: db, d: d}
}

// ListByNode returns the revision chain oldest first. Tags are stored as
// a space-separated list.
func (repo *RevisionRepo) ListByNode(ctx context.Context, node entity.NodeRef) ([]*entity.Revision, error) {
	stmt := repo.d.Rebind(`
SELECT revision, author_id, revised_at, title, body, tagnames, summary
FROM revisions
WHERE node_type = $1 AND node_id = $2
ORDER BY revised_at ASC, revision ASC`)
	rows, err := repo.db.QueryContext(ctx, stmt, string(node.Type), node.ID)
	if err != nil {
		return nil, fmt.Errorf("ListRevisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	revs := []*entity.Revision{}
	for rows.Next() {
		r := entity.Revision{Node: node}
		var tagnames string
		if err := rows.Scan(&r.Number, &r.AuthorID, &r.RevisedAt, &r.Title, &r.Body, &tagnames, &r.Summary); err != nil {
			return nil, fmt.Errorf("ListRevisions: Scan: %w", err)
		}
		r.Tags = strings.Fields(tagnames)
		revs = append(revs, &r)
	}
	return revs, rows.Err()
}
