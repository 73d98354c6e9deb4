package sqlstore

import (
	"fmt"
	"time"

	"forum-reader/internal/common/query"
)

var questionTable = table{
	name:  "questions",
	alias: "q",
	columns: map[query.Field]string{
		query.FieldID:             "q.id",
		query.FieldAuthorID:       "q.author_id",
		query.FieldTitle:          "q.title",
		query.FieldScore:          "q.score",
		query.FieldMarked:         "q.marked",
		query.FieldDeleted:        "q.deleted",
		query.FieldAddedAt:        "q.added_at",
		query.FieldLastActivityAt: "q.last_activity_at",
	},
	text: []string{"q.title", "q.body"},
	sets: map[query.Field]func(b *builder, ids []int64) string{
		query.FieldTagIDs: func(b *builder, ids []int64) string {
			return fmt.Sprintf("EXISTS (SELECT 1 FROM question_tags qt WHERE qt.question_id = q.id AND qt.tag_id IN (%s))",
				b.bindList(ids))
		},
	},
	relations: map[query.Field]func(b *builder, arg any) (string, error){
		query.FieldAnsweredBy: func(b *builder, arg any) (string, error) {
			return "EXISTS (SELECT 1 FROM answers a WHERE a.question_id = q.id AND a.author_id = " + b.bind(arg) + ")", nil
		},
		query.FieldSubscribedBy: func(b *builder, arg any) (string, error) {
			return "EXISTS (SELECT 1 FROM subscriptions s WHERE s.question_id = q.id AND s.user_id = " + b.bind(arg) + ")", nil
		},
		query.FieldLiveAnswers: func(_ *builder, _ any) (string, error) {
			return "EXISTS (SELECT 1 FROM answers a WHERE a.question_id = q.id AND NOT a.deleted)", nil
		},
	},
	activity: func(b *builder, since time.Time) string {
		return "(SELECT COUNT(*) FROM answers c WHERE c.question_id = q.id AND c.added_at > " + b.bind(since) + ")"
	},
}

var answerTable = table{
	name:  "answers",
	alias: "a",
	columns: map[query.Field]string{
		query.FieldID:       "a.id",
		query.FieldParentID: "a.question_id",
		query.FieldAuthorID: "a.author_id",
		query.FieldScore:    "a.score",
		query.FieldMarked:   "a.marked",
		query.FieldDeleted:  "a.deleted",
		query.FieldAddedAt:  "a.added_at",
	},
	text: []string{"a.body"},
}

var tagTable = table{
	name:  "tags",
	alias: "t",
	columns: map[query.Field]string{
		query.FieldID:        "t.id",
		query.FieldName:      "t.name",
		query.FieldUsedCount: "t.used_count",
		query.FieldDeleted:   "t.deleted",
	},
	text: []string{"t.name"},
}
