package listing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"forum-reader/internal/common/pagination"
	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
	"forum-reader/internal/usecase/feed"
)

// User listing modes.
const (
	ModeAskedBy      = "asked-by"
	ModeAnsweredBy   = "answered-by"
	ModeSubscribedBy = "subscribed-by"
)

// Search targets selected by the t parameter.
const (
	SearchTags  = "tag"
	SearchUsers = "user"
)

// IndexFeedPath is the site-wide latest questions feed.
const IndexFeedPath = "/feeds/rss"

func (s *Service) questions(base query.Query, title, description string) listingSpec {
	return listingSpec{
		base:          base,
		title:         title,
		description:   description,
		muteTags:      true,
		matchKeywords: true,
		pc:            s.Contexts.Questions,
		feedOrder:     feed.NewestFirst,
	}
}

// Index lists every live question on the front page.
func (s *Service) Index(ctx context.Context, req Request) (*Result, error) {
	sp := s.questions(query.New(), "All questions", s.AppDescription)
	sp.feedURL = IndexFeedPath
	return s.run(ctx, req, sp)
}

// AllQuestions lists every live question.
func (s *Service) AllQuestions(ctx context.Context, req Request) (*Result, error) {
	return s.run(ctx, req, s.questions(query.New(), "All questions", "all questions"))
}

// Unanswered lists questions with no live answer and no accepted answer.
func (s *Service) Unanswered(ctx context.Context, req Request) (*Result, error) {
	base := query.New().Exclude(
		query.Exists(query.FieldLiveAnswers, nil),
		query.Eq(query.FieldMarked, true),
	)
	return s.run(ctx, req, s.questions(base,
		"Be the first to answer these questions", "unanswered questions"))
}

// Tag lists the questions carrying a tag, optionally restricted to one
// author through the user parameter. Ignored tags are not muted here.
func (s *Service) Tag(ctx context.Context, req Request, name string) (*Result, error) {
	tag, err := s.Tags.GetActiveByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get tag %q: %w", name, err)
	}
	if tag == nil {
		return nil, fmt.Errorf("%w: %s", ErrTagNotFound, name)
	}

	base := query.New().Where(query.AnyOf(query.FieldTagIDs, []int64{tag.ID}))
	sp := s.questions(base,
		fmt.Sprintf("Questions Tagged With %s", tag.Name),
		fmt.Sprintf("questions tagged %s", tag.Name))
	sp.muteTags = false
	sp.tag = tag

	if username := strings.TrimSpace(req.Query.Get("user")); username != "" {
		u, err := s.Users.GetByUsername(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("get user %q: %w", username, err)
		}
		if u == nil {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		sp.base = sp.base.Where(query.Eq(query.FieldAuthorID, u.ID))
		sp.user = u
	}
	return s.run(ctx, req, sp)
}

// User lists questions related to a user. The subscribed-by mode is only
// visible to the user themselves and to superusers.
func (s *Service) User(ctx context.Context, req Request, userID int64, mode string) (*Result, error) {
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}

	var sp listingSpec
	switch mode {
	case ModeAskedBy:
		sp = s.questions(query.New().Where(query.Eq(query.FieldAuthorID, u.ID)),
			fmt.Sprintf("Questions asked by %s", u.Username),
			fmt.Sprintf("questions asked by %s", u.Username))
	case ModeAnsweredBy:
		sp = s.questions(query.New().Where(query.Exists(query.FieldAnsweredBy, u.ID)),
			fmt.Sprintf("Questions answered by %s", u.Username),
			fmt.Sprintf("questions answered by %s", u.Username))
	case ModeSubscribedBy:
		if !req.Caller.IsSuperuser && !req.Caller.Is(u.ID) {
			return nil, ErrSubscriptionsHidden
		}
		title := fmt.Sprintf("Questions subscribed by %s", u.Username)
		if req.Caller.Is(u.ID) {
			title = "Questions you subscribed"
		}
		sp = s.questions(query.New().Where(query.Exists(query.FieldSubscribedBy, u.ID)),
			title, fmt.Sprintf("questions subscribed by %s", u.Username))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	sp.user = u
	return s.run(ctx, req, sp)
}

// Search dispatches a keyword search. Tag and user searches redirect to
// their own listings; question searches are ranked when the store can.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	keywords := req.keywords()
	if keywords == "" {
		return &Result{Redirect: "/"}, nil
	}
	switch req.Query.Get("t") {
	case SearchTags:
		return &Result{Redirect: "/tags?" + url.Values{ParamKeywords: {keywords}}.Encode()}, nil
	case SearchUsers:
		return &Result{Redirect: "/users?" + url.Values{ParamKeywords: {keywords}}.Encode()}, nil
	}

	found, err := s.Questions.Search(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keywords, err)
	}

	label := fmt.Sprintf("questions matching '%s'", keywords)
	sp := s.questions(found.Query, label, label)
	sp.matchKeywords = false
	sp.feedURL = req.Path + "?" + url.Values{
		pagination.FeedParam: {pagination.FeedValue},
		ParamKeywords:        {keywords},
	}.Encode()

	if found.CanRank {
		sp.pc, err = s.Contexts.rankedQuestions(found.Ranking)
		if err != nil {
			return nil, err
		}
		if len(found.Ranking) > 0 {
			sp.feedOrder = found.Ranking
		}
	}
	return s.run(ctx, req, sp)
}

// LatestFeed renders the site-wide feed of recently active questions.
func (s *Service) LatestFeed(ctx context.Context) (*feed.Document, error) {
	base := query.New().Where(query.Eq(query.FieldDeleted, false))
	return feed.Render(ctx, s.Feeds, s.Questions, base,
		[]query.Order{query.Desc(query.FieldLastActivityAt)},
		feed.Channel{
			Title:       s.AppTitle + " - latest questions",
			Description: s.AppDescription,
			Link:        "/",
		},
		feed.QuestionItem(s.Summarize))
}

// TagListing is a page of tags.
type TagListing struct {
	Keywords   string
	Page       *pagination.Page[*entity.Tag]
	Selection  pagination.Selection
	Sorts      []pagination.SortStrategy
	Links      pagination.Links
	Navigation pagination.Navigation
}

// TagList lists live tags, optionally those whose name contains q.
func (s *Service) TagList(ctx context.Context, req Request) (*TagListing, error) {
	q := query.New().Where(query.Eq(query.FieldDeleted, false))
	keywords := req.keywords()
	if keywords != "" {
		q = q.Where(query.Contains(query.FieldName, keywords))
	}

	pc := s.Contexts.Tags
	sel := s.resolver().Resolve(ctx, pc, req.Owner, req.Query)
	page, err := pagination.Paginate[*entity.Tag](ctx, s.Tags, q, sel)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return &TagListing{
		Keywords:   keywords,
		Page:       page,
		Selection:  sel,
		Sorts:      pc.Sorts(),
		Links:      pagination.NewLinks(req.Path, req.Query, pc),
		Navigation: pagination.NewNavigation(page.Metadata, s.NavigationWindow),
	}, nil
}
