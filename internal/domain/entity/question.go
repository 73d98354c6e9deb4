// Package entity defines the forum's domain records: questions, answers,
// tags, users and revisions, plus domain errors. Listing records expose
// their fields to the query layer through query.Record.
package entity

import (
	"time"

	"forum-reader/internal/common/query"
)

// Question is a top-level forum post.
type Question struct {
	ID             int64
	AuthorID       int64
	Title          string
	Body           string // Rendered HTML
	Slug           string
	Score          int64
	Marked         bool // Has an accepted answer
	Deleted        bool
	AddedAt        time.Time
	LastActivityAt time.Time
	TagIDs         []int64
	Tags           []string // Tag names, filled by stores for display
	AnswerCount    int64
}

// Key implements query.Record.
func (q *Question) Key() int64 { return q.ID }

// Value implements query.Record.
func (q *Question) Value(f query.Field) (any, bool) {
	switch f {
	case query.FieldID:
		return q.ID, true
	case query.FieldAuthorID:
		return q.AuthorID, true
	case query.FieldTitle:
		return q.Title, true
	case query.FieldScore:
		return q.Score, true
	case query.FieldMarked:
		return q.Marked, true
	case query.FieldDeleted:
		return q.Deleted, true
	case query.FieldAddedAt:
		return q.AddedAt, true
	case query.FieldLastActivityAt:
		return q.LastActivityAt, true
	case query.FieldTagIDs:
		return q.TagIDs, true
	case query.FieldText:
		return q.Title + "\n" + q.Body, true
	default:
		return nil, false
	}
}
