package question

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"forum-reader/internal/common/pagination"
	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
	"forum-reader/internal/repository"
	"forum-reader/internal/usecase/feed"
)

// DefaultRelatedLimit is the number of related questions shown by default.
const DefaultRelatedLimit = 10

// Request carries what the question page needs from the HTTP request.
type Request struct {
	Caller entity.Caller
	Owner  string // Preference owner; empty disables persistence
	Path   string
	Slug   string // Slug segment of the requested URL, if any
	Query  url.Values
}

// Page is a question with one page of its answers.
type Page struct {
	Question   *entity.Question
	Answers    *pagination.Page[*entity.Answer]
	Selection  pagination.Selection
	Sorts      []pagination.SortStrategy
	Links      pagination.Links
	Navigation pagination.Navigation
	FeedURL    string
	Subscribed bool
	Related    []*entity.Question
}

// Result is the outcome of Show. Exactly one of Page, Feed and Redirect
// is set.
type Result struct {
	Page     *Page
	Feed     *feed.Document
	Redirect string
	// Permanent is set for redirects to the canonical URL of the same
	// question.
	Permanent bool
}

// Service provides the question page use cases.
type Service struct {
	Questions repository.QuestionRepository
	Answers   repository.AnswerRepository
	// Context is the answer paginator context.
	Context  *pagination.Context
	Resolver *pagination.Resolver
	Feeds    *feed.Adapter

	Summarize        feed.Summarizer
	AcceptingEnabled bool
	// ForceSingleURL redirects non-canonical question URLs.
	ForceSingleURL   bool
	RelatedLimit     int
	NavigationWindow int
}

// visible loads a question the caller is allowed to see.
func (s *Service) visible(ctx context.Context, caller entity.Caller, id int64) (*entity.Question, error) {
	q, err := s.Questions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}
	if q == nil {
		return nil, fmt.Errorf("%w: %w: %d", ErrQuestionNotFound, errUnknownQuestion, id)
	}
	if q.Deleted && !caller.CanViewDeleted(q.AuthorID) {
		return nil, fmt.Errorf("%w: %d", ErrQuestionNotFound, id)
	}
	return q, nil
}

// answers is the base collection of a question's answers. Deleted answers
// are listed for superusers only. The answer page and the position of a
// single answer must share it.
func answers(caller entity.Caller, questionID int64) query.Query {
	q := query.New().Where(query.Eq(query.FieldParentID, questionID))
	if !caller.IsSuperuser {
		q = q.Where(query.Eq(query.FieldDeleted, false))
	}
	return q
}

// Show renders a question page, the question's answer feed or a redirect
// to its canonical URL. An unknown id whose slug names another question
// redirects there.
func (s *Service) Show(ctx context.Context, req Request, id int64) (*Result, error) {
	q, err := s.visible(ctx, req.Caller, id)
	if errors.Is(err, errUnknownQuestion) && req.Slug != "" {
		match, ferr := s.Questions.FindBySlug(ctx, req.Slug)
		if ferr != nil {
			return nil, fmt.Errorf("find question by slug %q: %w", req.Slug, ferr)
		}
		if match != nil {
			return &Result{Redirect: match.Path()}, nil
		}
	}
	if err != nil {
		return nil, err
	}
	base := answers(req.Caller, q.ID)

	if pagination.IsFeedRequest(req.Query) {
		doc, err := feed.Render(ctx, s.Feeds, s.Answers, base, nil,
			feed.Channel{Title: q.Title, Description: s.summarize(q.Body), Link: q.Path()},
			feed.AnswerItem(q, s.Summarize))
		if err != nil {
			return nil, err
		}
		return &Result{Feed: doc}, nil
	}

	if s.ForceSingleURL && req.Path != q.Path() {
		target := q.Path()
		if len(req.Query) > 0 {
			target += "?" + req.Query.Encode()
		}
		return &Result{Redirect: target, Permanent: true}, nil
	}

	page := &Page{Question: q, Sorts: s.Context.Sorts()}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page.Selection = s.resolver().Resolve(gctx, s.Context, req.Owner, req.Query)
		p, err := pagination.Paginate[*entity.Answer](gctx, s.Answers, base, page.Selection)
		if err != nil {
			return fmt.Errorf("list answers of %d: %w", q.ID, err)
		}
		page.Answers = p
		return nil
	})
	if req.Caller.IsAuthenticated() {
		g.Go(func() error {
			ok, err := s.Questions.IsSubscribed(gctx, q.ID, req.Caller.UserID)
			if err != nil {
				return fmt.Errorf("subscription of %d: %w", q.ID, err)
			}
			page.Subscribed = ok
			return nil
		})
	}
	g.Go(func() error {
		related, err := s.Questions.Related(gctx, q, s.relatedLimit())
		if err != nil {
			return fmt.Errorf("related to %d: %w", q.ID, err)
		}
		page.Related = related
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	page.Links = pagination.NewLinks(req.Path, req.Query, s.Context)
	page.Navigation = pagination.NewNavigation(page.Answers.Metadata, s.NavigationWindow)
	page.FeedURL = q.Path() + "?" + url.Values{pagination.FeedParam: {pagination.FeedValue}}.Encode()
	return &Result{Page: page}, nil
}

// AnswerURL returns where the permalink of an answer leads: the question
// itself for an accepted answer, otherwise the page of the question that
// lists the answer under the caller's sort and page size.
func (s *Service) AnswerURL(ctx context.Context, req Request, questionID, answerID int64) (string, error) {
	q, err := s.visible(ctx, req.Caller, questionID)
	if err != nil {
		return "", err
	}
	a, err := s.Answers.Get(ctx, answerID)
	if err != nil {
		return "", fmt.Errorf("get answer %d: %w", answerID, err)
	}
	// Deleted answers are located only for callers whose answer pages list them.
	if a == nil || a.QuestionID != q.ID || (a.Deleted && !req.Caller.IsSuperuser) {
		return "", fmt.Errorf("%w: %d", ErrAnswerNotFound, answerID)
	}

	if a.Marked && s.AcceptingEnabled {
		return q.Path(), nil
	}

	sel := s.resolver().Resolve(ctx, s.Context, req.Owner, req.Query)
	n, err := pagination.Position[*entity.Answer](ctx, s.Answers, answers(req.Caller, q.ID), sel.Sort, a, sel.PageSize)
	if err != nil {
		return "", fmt.Errorf("locate answer %d: %w", a.ID, err)
	}
	v := url.Values{s.Context.Param(pagination.ParamPage): {strconv.Itoa(n)}}
	return q.Path() + "?" + v.Encode() + "#" + strconv.FormatInt(a.ID, 10), nil
}

func (s *Service) summarize(html string) string {
	if s.Summarize == nil {
		return html
	}
	return s.Summarize(html)
}

func (s *Service) relatedLimit() int {
	if s.RelatedLimit > 0 {
		return s.RelatedLimit
	}
	return DefaultRelatedLimit
}

func (s *Service) resolver() *pagination.Resolver {
	if s.Resolver == nil {
		return &pagination.Resolver{}
	}
	return s.Resolver
}
