package listing

import (
	"fmt"
	"time"

	"forum-reader/internal/common/pagination"
	"forum-reader/internal/common/query"
)

// Question sort keys.
const (
	SortActive    = "active"
	SortNewest    = "newest"
	SortHottest   = "hottest"
	SortMostVoted = "mostvoted"
	SortRanking   = "ranking"
)

// Answer sort keys.
const (
	AnswerOldest = "oldest"
	AnswerNewest = "newest"
	AnswerVotes  = "votes"
)

// Tag sort keys.
const (
	TagByName = "name"
	TagByUse  = "used"
)

// PageSizes configures the page sizes of one paginator context. Zero
// values keep the built-in defaults.
type PageSizes struct {
	Allowed []int
	Default int
}

func (p PageSizes) or(def PageSizes) PageSizes {
	if len(p.Allowed) == 0 {
		p.Allowed = def.Allowed
	}
	if p.Default == 0 {
		p.Default = def.Default
	}
	return p
}

// ContextOptions configures the paginator contexts.
type ContextOptions struct {
	// HottestWindow is the trailing window of the hottest sort.
	HottestWindow time.Duration
	// Now is the clock of the hottest sort; defaults to time.Now.
	Now func() time.Time
	// AcceptingEnabled pins accepted answers first in every answer sort.
	AcceptingEnabled bool

	QuestionPages PageSizes
	AnswerPages   PageSizes
	TagPages      PageSizes
}

// Contexts are the paginator contexts shared by every request.
type Contexts struct {
	Questions *pagination.Context
	Answers   *pagination.Context
	Tags      *pagination.Context
}

// NewContexts builds and validates the question, answer and tag contexts.
func NewContexts(opts ContextOptions) (*Contexts, error) {
	if opts.HottestWindow <= 0 {
		opts.HottestWindow = 24 * time.Hour
	}
	qp := opts.QuestionPages.or(PageSizes{Allowed: []int{15, 30, 50}, Default: 30})
	ap := opts.AnswerPages.or(PageSizes{Allowed: []int{5, 10, 20}, Default: 10})
	tp := opts.TagPages.or(PageSizes{Allowed: []int{30, 60, 120}, Default: 30})

	questions, err := pagination.NewContext("questions",
		pagination.WithSorts(
			pagination.NewSimpleSort(SortActive, "active", "Most recently updated questions",
				query.Desc(query.FieldLastActivityAt)),
			pagination.NewSimpleSort(SortNewest, "newest", "Most recently asked questions",
				query.Desc(query.FieldAddedAt)),
			pagination.NewHottestSort(SortHottest, "hottest", "Most active questions in the last 24 hours",
				opts.HottestWindow, opts.Now),
			pagination.NewSimpleSort(SortMostVoted, "most voted", "Most highly voted questions",
				query.Desc(query.FieldScore)),
		),
		pagination.WithPageSizes(qp.Allowed...),
		pagination.WithDefaultPageSize(qp.Default),
	)
	if err != nil {
		return nil, fmt.Errorf("question context: %w", err)
	}

	pin := func(s pagination.SimpleSort) pagination.SortStrategy {
		return pagination.PinAccepted(s, opts.AcceptingEnabled)
	}
	answers, err := pagination.NewContext("answers",
		pagination.WithSorts(
			pin(pagination.NewSimpleSort(AnswerOldest, "oldest answers", "oldest answers will be shown first",
				query.Asc(query.FieldAddedAt))),
			pin(pagination.NewSimpleSort(AnswerNewest, "newest answers", "newest answers will be shown first",
				query.Desc(query.FieldAddedAt))),
			pin(pagination.NewSimpleSort(AnswerVotes, "popular answers", "most voted answers will be shown first",
				query.Desc(query.FieldScore), query.Asc(query.FieldAddedAt))),
		),
		pagination.WithDefaultSort(AnswerVotes),
		pagination.WithPageSizes(ap.Allowed...),
		pagination.WithDefaultPageSize(ap.Default),
	)
	if err != nil {
		return nil, fmt.Errorf("answer context: %w", err)
	}

	tags, err := pagination.NewContext("tags",
		pagination.WithSorts(
			pagination.NewSimpleSort(TagByName, "by name", "sorted alphabetically",
				query.Asc(query.FieldName)),
			pagination.NewSimpleSort(TagByUse, "by popularity", "sorted by frequency of tag use",
				query.Desc(query.FieldUsedCount)),
		),
		pagination.WithDefaultSort(TagByUse),
		pagination.WithPageSizes(tp.Allowed...),
		pagination.WithDefaultPageSize(tp.Default),
	)
	if err != nil {
		return nil, fmt.Errorf("tag context: %w", err)
	}

	return &Contexts{Questions: questions, Answers: answers, Tags: tags}, nil
}

// rankedQuestions returns the question context with a forced relevance
// sort over ranking.
func (c *Contexts) rankedQuestions(ranking []query.Order) (*pagination.Context, error) {
	return c.Questions.
		With(pagination.NewRelevanceSort(SortRanking, "relevance", "most relevant questions", ranking)).
		Forced(SortRanking)
}
