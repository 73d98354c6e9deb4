package listing

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"forum-reader/internal/common/pagination"
	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
	"forum-reader/internal/pkg/search"
	"forum-reader/internal/repository"
	"forum-reader/internal/usecase/feed"
)

// ParamKeywords is the keyword filter accepted by every question listing.
const ParamKeywords = "q"

// Request carries what a listing needs from the HTTP request.
type Request struct {
	Caller entity.Caller
	// Owner keys the caller's stored pagination preferences. Empty
	// disables persistence.
	Owner string
	Path  string
	Query url.Values
}

func (r Request) keywords() string {
	return strings.TrimSpace(r.Query.Get(ParamKeywords))
}

// QuestionListing is a page of questions ready for presentation.
type QuestionListing struct {
	Title       string
	Description string
	FeedURL     string
	Keywords    string
	Tag         *entity.Tag  // Tag listings only
	User        *entity.User // User listings only
	Page        *pagination.Page[*entity.Question]
	Selection   pagination.Selection
	Sorts       []pagination.SortStrategy
	Links       pagination.Links
	Navigation  pagination.Navigation
}

// Result is the outcome of a question listing request: a page, a feed or
// a redirect. Exactly one field is set.
type Result struct {
	Listing  *QuestionListing
	Feed     *feed.Document
	Redirect string
}

// Service assembles listings.
type Service struct {
	Questions repository.QuestionRepository
	Tags      repository.TagRepository
	Users     repository.UserRepository
	Contexts  *Contexts
	Resolver  *pagination.Resolver
	Feeds     *feed.Adapter
	// Summarize shortens question bodies in feeds.
	Summarize feed.Summarizer
	// NavigationWindow is the number of page links on each side of the
	// current page.
	NavigationWindow int
	// AppTitle and AppDescription describe the site-wide feed.
	AppTitle       string
	AppDescription string
}

// listingSpec describes how one listing type differs from the others.
type listingSpec struct {
	base        query.Query
	title       string
	description string
	// feedURL overrides the derived feed link.
	feedURL string
	// muteTags hides questions tagged with the caller's ignored tags.
	muteTags bool
	// matchKeywords restricts the listing to the request's keywords.
	matchKeywords bool
	pc            *pagination.Context
	feedOrder     []query.Order
	tag           *entity.Tag
	user          *entity.User
}

// filter applies the filters shared by every question listing: deleted
// questions are hidden, then the caller's ignored tags, then keywords.
// All filters are conjunctive, so their order does not change the result.
func (s *Service) filter(ctx context.Context, req Request, sp listingSpec) (query.Query, error) {
	q := sp.base.Where(query.Eq(query.FieldDeleted, false))

	if sp.muteTags && req.Caller.IsAuthenticated() {
		bad, err := s.Users.BadTagIDs(ctx, req.Caller.UserID)
		if err != nil {
			return query.Query{}, fmt.Errorf("load ignored tags: %w", err)
		}
		if len(bad) > 0 {
			q = q.Exclude(query.AnyOf(query.FieldTagIDs, bad))
		}
	}

	if sp.matchKeywords {
		if terms := search.Keywords(req.keywords()); len(terms) > 0 {
			conds := make([]query.Condition, len(terms))
			for i, term := range terms {
				conds[i] = query.Contains(query.FieldText, term)
			}
			q = q.Where(conds...)
		}
	}
	return q, nil
}

// run filters the base collection and renders it as a feed or a page.
func (s *Service) run(ctx context.Context, req Request, sp listingSpec) (*Result, error) {
	q, err := s.filter(ctx, req, sp)
	if err != nil {
		return nil, err
	}

	if pagination.IsFeedRequest(req.Query) {
		doc, err := feed.Render(ctx, s.Feeds, s.Questions, q, sp.feedOrder,
			feed.Channel{Title: sp.title, Description: sp.description, Link: req.Path},
			feed.QuestionItem(s.Summarize))
		if err != nil {
			return nil, err
		}
		return &Result{Feed: doc}, nil
	}

	sel := s.resolver().Resolve(ctx, sp.pc, req.Owner, req.Query)
	page, err := pagination.Paginate[*entity.Question](ctx, s.Questions, q, sel)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	links := pagination.NewLinks(req.Path, req.Query, sp.pc)
	feedURL := sp.feedURL
	if feedURL == "" {
		feedURL = links.Feed()
	}

	return &Result{Listing: &QuestionListing{
		Title:       sp.title,
		Description: sp.description,
		FeedURL:     feedURL,
		Keywords:    req.keywords(),
		Tag:         sp.tag,
		User:        sp.user,
		Page:        page,
		Selection:   sel,
		Sorts:       sp.pc.Sorts(),
		Links:       links,
		Navigation:  pagination.NewNavigation(page.Metadata, s.NavigationWindow),
	}}, nil
}

func (s *Service) resolver() *pagination.Resolver {
	if s.Resolver == nil {
		return &pagination.Resolver{}
	}
	return s.Resolver
}
