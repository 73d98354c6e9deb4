package entity

import (
	"time"

	"forum-reader/internal/common/query"
)

// Answer is a reply to a question. Marked answers are accepted solutions.
type Answer struct {
	ID         int64
	QuestionID int64
	AuthorID   int64
	Body       string // Rendered HTML
	Score      int64
	Marked     bool
	Deleted    bool
	AddedAt    time.Time
}

// Key implements query.Record.
func (a *Answer) Key() int64 { return a.ID }

// Value implements query.Record.
func (a *Answer) Value(f query.Field) (any, bool) {
	switch f {
	case query.FieldID:
		return a.ID, true
	case query.FieldParentID:
		return a.QuestionID, true
	case query.FieldAuthorID:
		return a.AuthorID, true
	case query.FieldScore:
		return a.Score, true
	case query.FieldMarked:
		return a.Marked, true
	case query.FieldDeleted:
		return a.Deleted, true
	case query.FieldAddedAt:
		return a.AddedAt, true
	case query.FieldText:
		return a.Body, true
	default:
		return nil, false
	}
}
