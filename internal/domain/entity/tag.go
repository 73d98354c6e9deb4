package entity

import (
	"net/url"

	"forum-reader/internal/common/query"
)

// Tag labels questions.
type Tag struct {
	ID        int64
	Name      string
	UsedCount int64
	Deleted   bool
}

// Path returns the URL path of the tag's question listing.
func (t *Tag) Path() string { return "/tags/" + url.PathEscape(t.Name) }

// Key implements query.Record.
func (t *Tag) Key() int64 { return t.ID }

// Value implements query.Record.
func (t *Tag) Value(f query.Field) (any, bool) {
	switch f {
	case query.FieldID:
		return t.ID, true
	case query.FieldName, query.FieldText:
		return t.Name, true
	case query.FieldUsedCount:
		return t.UsedCount, true
	case query.FieldDeleted:
		return t.Deleted, true
	default:
		return nil, false
	}
}
