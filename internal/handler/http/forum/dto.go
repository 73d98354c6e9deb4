// Package forum serves the read side of the forum over HTTP: question
// listings, tag and user listings, search, question pages, answer
// permalinks, revision histories and RSS feeds.
package forum

import (
	"time"

	"forum-reader/internal/common/pagination"
	"forum-reader/internal/domain/entity"
	"forum-reader/internal/usecase/revision"
)

// QuestionDTO is a question as shown in listings and on its own page.
type QuestionDTO struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	AuthorID       int64     `json:"author_id"`
	Score          int64     `json:"score"`
	AnswerCount    int64     `json:"answer_count"`
	Accepted       bool      `json:"accepted"`
	Deleted        bool      `json:"deleted,omitempty"`
	Tags           []string  `json:"tags"`
	AddedAt        time.Time `json:"added_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Body           string    `json:"body,omitempty"`
}

// AnswerDTO is one answer on a question page.
type AnswerDTO struct {
	ID       int64     `json:"id"`
	URL      string    `json:"url"`
	AuthorID int64     `json:"author_id"`
	Body     string    `json:"body"`
	Score    int64     `json:"score"`
	Accepted bool      `json:"accepted"`
	Deleted  bool      `json:"deleted,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}

// TagDTO is a tag with its usage count.
type TagDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	UsedCount int64  `json:"used_count"`
}

// UserDTO identifies the subject of a user listing.
type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	URL      string `json:"url"`
}

// SortDTO is one selectable sort.
type SortDTO struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Active      bool   `json:"active"`
}

// PageSizeDTO is one selectable page size.
type PageSizeDTO struct {
	Size   int    `json:"size"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// PageLinkDTO links to one page of a listing.
type PageLinkDTO struct {
	Number  int    `json:"number"`
	URL     string `json:"url"`
	Current bool   `json:"current"`
}

// PaginationDTO is the navigation block shared by every paginated view.
type PaginationDTO struct {
	pagination.Metadata
	Forced    bool          `json:"forced_sort,omitempty"`
	Sorts     []SortDTO     `json:"sorts"`
	PageSizes []PageSizeDTO `json:"page_sizes"`
	Pages     []PageLinkDTO `json:"pages"`
	First     string        `json:"first,omitempty"`
	Last      string        `json:"last,omitempty"`
	Prev      string        `json:"prev,omitempty"`
	Next      string        `json:"next,omitempty"`
}

// ListingDTO is a page of questions.
type ListingDTO struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	FeedURL     string        `json:"feed_url"`
	Keywords    string        `json:"keywords,omitempty"`
	Tag         *TagDTO       `json:"tag,omitempty"`
	User        *UserDTO      `json:"user,omitempty"`
	Questions   []QuestionDTO `json:"questions"`
	Pagination  PaginationDTO `json:"pagination"`
}

// TagListDTO is a page of tags.
type TagListDTO struct {
	Keywords   string        `json:"keywords,omitempty"`
	Tags       []TagDTO      `json:"tags"`
	Pagination PaginationDTO `json:"pagination"`
}

// QuestionPageDTO is a question with one page of its answers.
type QuestionPageDTO struct {
	Question   QuestionDTO   `json:"question"`
	Answers    []AnswerDTO   `json:"answers"`
	Pagination PaginationDTO `json:"pagination"`
	FeedURL    string        `json:"feed_url"`
	Subscribed bool          `json:"subscribed"`
	Related    []QuestionDTO `json:"related"`
}

// RevisionDTO is one entry of a revision history, newest first.
type RevisionDTO struct {
	Number    int       `json:"number"`
	AuthorID  int64     `json:"author_id"`
	RevisedAt time.Time `json:"revised_at"`
	Title     string    `json:"title,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Summary   string    `json:"summary"`
	HTML      string    `json:"html"`
	Diff      string    `json:"diff"`
}

func questionDTO(q *entity.Question) QuestionDTO {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	return QuestionDTO{
		ID:             q.ID,
		Title:          q.Title,
		URL:            q.Path(),
		AuthorID:       q.AuthorID,
		Score:          q.Score,
		AnswerCount:    q.AnswerCount,
		Accepted:       q.Marked,
		Deleted:        q.Deleted,
		Tags:           tags,
		AddedAt:        q.AddedAt,
		LastActivityAt: q.LastActivityAt,
	}
}

func questionDTOs(qs []*entity.Question) []QuestionDTO {
	out := make([]QuestionDTO, 0, len(qs))
	for _, q := range qs {
		out = append(out, questionDTO(q))
	}
	return out
}

func answerDTO(a *entity.Answer) AnswerDTO {
	return AnswerDTO{
		ID:       a.ID,
		URL:      a.Path(),
		AuthorID: a.AuthorID,
		Body:     a.Body,
		Score:    a.Score,
		Accepted: a.Marked,
		Deleted:  a.Deleted,
		AddedAt:  a.AddedAt,
	}
}

func tagDTO(t *entity.Tag) TagDTO {
	return TagDTO{ID: t.ID, Name: t.Name, URL: t.Path(), UsedCount: t.UsedCount}
}

func userDTO(u *entity.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{ID: u.ID, Username: u.Username, URL: u.ProfilePath()}
}

func revisionDTO(e revision.Entry) RevisionDTO {
	return RevisionDTO{
		Number:    e.Revision.Number,
		AuthorID:  e.Revision.AuthorID,
		RevisedAt: e.Revision.RevisedAt,
		Title:     e.Revision.Title,
		Tags:      e.Revision.Tags,
		Summary:   e.Summary,
		HTML:      e.HTML,
		Diff:      e.Diff,
	}
}

// paginationDTO flattens the engine's page metadata, selection and links
// into navigation a client can follow without rebuilding URLs.
func paginationDTO(m pagination.Metadata, sel pagination.Selection, sorts []pagination.SortStrategy,
	links pagination.Links, nav pagination.Navigation) PaginationDTO {
	out := PaginationDTO{
		Metadata:  m,
		Forced:    sel.Forced,
		Sorts:     make([]SortDTO, 0, len(sorts)),
		PageSizes: []PageSizeDTO{},
		Pages:     make([]PageLinkDTO, 0, len(nav.Pages)),
	}
	for _, s := range sorts {
		out.Sorts = append(out.Sorts, SortDTO{
			Key:         s.Key(),
			Label:       s.Label(),
			Description: s.Description(),
			URL:         links.Sort(s.Key()),
			Active:      s.Key() == sel.SortKey,
		})
	}
	for _, size := range links.PageSizes() {
		out.PageSizes = append(out.PageSizes, PageSizeDTO{
			Size:   size,
			URL:    links.PageSize(size),
			Active: size == m.PageSize,
		})
	}
	for _, n := range nav.Pages {
		out.Pages = append(out.Pages, PageLinkDTO{Number: n, URL: links.Page(n), Current: n == m.Page})
	}
	if nav.ShowFirst {
		out.First = links.Page(1)
	}
	if nav.ShowLast {
		out.Last = links.Page(m.TotalPages)
	}
	if m.HasPrev() {
		out.Prev = links.Page(m.Page - 1)
	}
	if m.HasNext() {
		out.Next = links.Page(m.Page + 1)
	}
	return out
}
