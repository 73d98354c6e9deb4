package feed

import (
	"strconv"

	"forum-reader/internal/domain/entity"
)

// Summarizer turns an HTML body into a feed description.
type Summarizer func(html string) string

func keep(html string) string { return html }

// QuestionItem maps questions to feed entries.
func QuestionItem(summarize Summarizer) func(*entity.Question) Item {
	if summarize == nil {
		summarize = keep
	}
	return func(q *entity.Question) Item {
		return Item{
			ID:        "question-" + strconv.FormatInt(q.ID, 10),
			Title:     q.Title,
			Link:      q.Path(),
			Published: q.AddedAt,
			Summary:   summarize(q.Body),
		}
	}
}

// AnswerItem maps the answers of q to feed entries titled after q.
func AnswerItem(q *entity.Question, summarize Summarizer) func(*entity.Answer) Item {
	if summarize == nil {
		summarize = keep
	}
	return func(a *entity.Answer) Item {
		return Item{
			ID:        "answer-" + strconv.FormatInt(a.ID, 10),
			Title:     "Answer to: " + q.Title,
			Link:      a.Path(),
			Published: a.AddedAt,
			Summary:   summarize(a.Body),
		}
	}
}
