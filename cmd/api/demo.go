package main

import (
	"time"

	"forum-reader/internal/domain/entity"
	"forum-reader/internal/infra/adapter/persistence/memory"
)

// demoStore builds a small forum anchored at now so that every sort,
// the hottest window included, has something to show.
func demoStore(now time.Time) *memory.Store {
	hoursAgo := func(h int) time.Time { return now.Add(-time.Duration(h) * time.Hour) }

	s := memory.NewStore()
	s.AddUser(entity.User{ID: 1, Username: "admin", IsSuperuser: true})
	s.AddUser(entity.User{ID: 2, Username: "gopher"})
	s.AddUser(entity.User{ID: 3, Username: "newcomer"})

	s.AddTag(entity.Tag{ID: 1, Name: "go", UsedCount: 3})
	s.AddTag(entity.Tag{ID: 2, Name: "concurrency", UsedCount: 2})
	s.AddTag(entity.Tag{ID: 3, Name: "http", UsedCount: 1})

	s.AddQuestion(entity.Question{ID: 1, AuthorID: 3, Title: "How do I stop a goroutine?",
		Body: "<p>I start a worker with <code>go work()</code>. How do I stop it cleanly?</p>",
		Score: 12, Marked: true, TagIDs: []int64{1, 2}, AddedAt: hoursAgo(72), LastActivityAt: hoursAgo(2)})
	s.AddQuestion(entity.Question{ID: 2, AuthorID: 2, Title: "Buffered or unbuffered channels?",
		Body: "<p>When should a channel have a buffer?</p>",
		Score: 5, TagIDs: []int64{1, 2}, AddedAt: hoursAgo(30), LastActivityAt: hoursAgo(5)})
	s.AddQuestion(entity.Question{ID: 3, AuthorID: 3, Title: "Routing with path wildcards",
		Body: "<p>Can ServeMux match <code>/items/{id}</code>?</p>",
		Score: 1, TagIDs: []int64{1, 3}, AddedAt: hoursAgo(4), LastActivityAt: hoursAgo(4)})

	s.AddAnswer(entity.Answer{ID: 1, QuestionID: 1, AuthorID: 2, Score: 15, Marked: true,
		Body: "<p>Pass a <code>context.Context</code> and return when it is done.</p>", AddedAt: hoursAgo(70)})
	s.AddAnswer(entity.Answer{ID: 2, QuestionID: 1, AuthorID: 1, Score: 4,
		Body: "<p>Close a quit channel.</p>", AddedAt: hoursAgo(2)})
	s.AddAnswer(entity.Answer{ID: 3, QuestionID: 2, AuthorID: 1, Score: 2,
		Body: "<p>Unbuffered unless you measured a reason.</p>", AddedAt: hoursAgo(5)})

	s.Subscribe(1, 3)

	node := entity.NodeRef{Type: entity.NodeQuestion, ID: 1}
	s.AddRevision(entity.Revision{Node: node, Number: 1, AuthorID: 3, RevisedAt: hoursAgo(72),
		Title: "stop goroutine", Body: "How to stop a goroutine", Tags: []string{"go"}})
	s.AddRevision(entity.Revision{Node: node, Number: 2, AuthorID: 3, RevisedAt: hoursAgo(71),
		Title: "How do I stop a goroutine?",
		Body:  "I start a worker with `go work()`. How do I stop it cleanly?",
		Tags:  []string{"go", "concurrency"}, Summary: "clarified"})
	return s
}
