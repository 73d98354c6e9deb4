package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"forum-reader/internal/common/query"
	"forum-reader/internal/domain/entity"
	"forum-reader/internal/pkg/search"
	"forum-reader/internal/repository"
)

// Store holds every forum record in memory. All methods are safe for
// concurrent use. Records handed out are copies.
type Store struct {
	mu            sync.RWMutex
	questions     []*entity.Question
	answers       []*entity.Answer
	tags          []*entity.Tag
	users         map[int64]*entity.User
	badTags       map[int64][]int64
	subscriptions map[int64]map[int64]struct{} // question -> users
	revisions     map[entity.NodeRef][]*entity.Revision

	questionEval evaluator[*entity.Question]
	answerEval   evaluator[*entity.Answer]
	tagEval      evaluator[*entity.Tag]
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{
		users:         make(map[int64]*entity.User),
		badTags:       make(map[int64][]int64),
		subscriptions: make(map[int64]map[int64]struct{}),
		revisions:     make(map[entity.NodeRef][]*entity.Revision),
	}
	s.questionEval = evaluator[*entity.Question]{
		relations: map[query.Field]RelationFunc[*entity.Question]{
			query.FieldAnsweredBy:   s.answeredBy,
			query.FieldSubscribedBy: s.subscribedBy,
			query.FieldLiveAnswers:  s.hasLiveAnswers,
		},
		children: s.answerTimes,
	}
	return s
}

// AddQuestion stores a question, replacing one with the same ID.
func (s *Store) AddQuestion(q entity.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.TagIDs = slices.Clone(q.TagIDs)
	s.questions = upsert(s.questions, &q)
}

// AddAnswer stores an answer, replacing one with the same ID.
func (s *Store) AddAnswer(a entity.Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = upsert(s.answers, &a)
}

// AddTag stores a tag, replacing one with the same ID.
func (s *Store) AddTag(t entity.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = upsert(s.tags, &t)
}

// AddUser stores a user.
func (s *Store) AddUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

// IgnoreTag records that userID does not want to see tagID.
func (s *Store) IgnoreTag(userID, tagID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.badTags[userID], tagID) {
		s.badTags[userID] = append(s.badTags[userID], tagID)
	}
}

// Subscribe records that userID follows questionID.
func (s *Store) Subscribe(questionID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscriptions[questionID] == nil {
		s.subscriptions[questionID] = make(map[int64]struct{})
	}
	s.subscriptions[questionID][userID] = struct{}{}
}

// AddRevision appends a revision to its node's history.
func (s *Store) AddRevision(r entity.Revision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Tags = slices.Clone(r.Tags)
	s.revisions[r.Node] = append(s.revisions[r.Node], &r)
}

// Questions returns the question repository view of the store.
func (s *Store) Questions() repository.QuestionRepository { return questionRepo{s} }

// Answers returns the answer repository view of the store.
func (s *Store) Answers() repository.AnswerRepository { return answerRepo{s} }

// Tags returns the tag repository view of the store.
func (s *Store) Tags() repository.TagRepository { return tagRepo{s} }

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Revisions returns the revision repository view of the store.
func (s *Store) Revisions() repository.RevisionRepository { return revisionRepo{s} }

func upsert[T query.Record](rows []T, rec T) []T {
	for i, r := range rows {
		if r.Key() == rec.Key() {
			rows[i] = rec
			return rows
		}
	}
	return append(rows, rec)
}

// relations; called with s.mu held.

func (s *Store) answeredBy(q *entity.Question, arg any) bool {
	uid, _ := toInt64(arg)
	for _, a := range s.answers {
		if a.QuestionID == q.ID && a.AuthorID == uid {
			return true
		}
	}
	return false
}

func (s *Store) subscribedBy(q *entity.Question, arg any) bool {
	uid, _ := toInt64(arg)
	_, ok := s.subscriptions[q.ID][uid]
	return ok
}

func (s *Store) hasLiveAnswers(q *entity.Question, _ any) bool {
	for _, a := range s.answers {
		if a.QuestionID == q.ID && !a.Deleted {
			return true
		}
	}
	return false
}

func (s *Store) answerTimes(q *entity.Question) []time.Time {
	var out []time.Time
	for _, a := range s.answers {
		if a.QuestionID == q.ID {
			out = append(out, a.AddedAt)
		}
	}
	return out
}

func (s *Store) tagNames(ids []int64) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, t := range s.tags {
			if t.ID == id {
				names = append(names, t.Name)
				break
			}
		}
	}
	return names
}

// questionCopy returns a detached copy with display fields filled.
func (s *Store) questionCopy(q *entity.Question) *entity.Question {
	cp := *q
	cp.TagIDs = slices.Clone(q.TagIDs)
	cp.Tags = s.tagNames(q.TagIDs)
	cp.AnswerCount = 0
	for _, a := range s.answers {
		if a.QuestionID == q.ID && !a.Deleted {
			cp.AnswerCount++
		}
	}
	return &cp
}

func window[T any](rows []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) || limit <= 0 {
		return []T{}
	}
	end := min(offset+limit, len(rows))
	return rows[offset:end]
}

type questionRepo struct{ s *Store }

func (r questionRepo) Count(ctx context.Context, q query.Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.s.questionEval.run(r.s.questions, q)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r questionRepo) Fetch(ctx context.Context, q query.Query, offset, limit int) ([]*entity.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.s.questionEval.run(r.s.questions, q)
	if err != nil {
		return nil, err
	}
	page := window(rows, offset, limit)
	out := make([]*entity.Question, len(page))
	for i, qu := range page {
		out[i] = r.s.questionCopy(qu)
	}
	return out, nil
}

func (r questionRepo) Get(_ context.Context, id int64) (*entity.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, q := range r.s.questions {
		if q.ID == id {
			return r.s.questionCopy(q), nil
		}
	}
	return nil, nil
}

func (r questionRepo) FindBySlug(_ context.Context, slug string) (*entity.Question, error) {
	if slug == "" {
		return nil, nil
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var found *entity.Question
	for _, q := range r.s.questions {
		if found != nil && q.ID > found.ID {
			continue
		}
		qs := q.Slug
		if qs == "" {
			qs = entity.Slugify(q.Title)
		}
		if qs == slug {
			found = q
		}
	}
	if found == nil {
		return nil, nil
	}
	return r.s.questionCopy(found), nil
}

// Search matches every whitespace-separated keyword and ranks by hit count.
func (r questionRepo) Search(_ context.Context, keywords string) (repository.SearchResult, error) {
	terms := search.Keywords(keywords)
	return repository.SearchResult{
		Query:   query.New().Match(terms),
		CanRank: true,
		Ranking: []query.Order{query.Desc(query.FieldRank)},
	}, nil
}

func (r questionRepo) Related(_ context.Context, q *entity.Question, limit int) ([]*entity.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	type scored struct {
		q      *entity.Question
		shared int
	}
	var candidates []scored
	for _, other := range r.s.questions {
		if other.ID == q.ID || other.Deleted {
			continue
		}
		shared := 0
		for _, id := range other.TagIDs {
			if slices.Contains(q.TagIDs, id) {
				shared++
			}
		}
		if shared > 0 {
			candidates = append(candidates, scored{q: other, shared: shared})
		}
	}
	slices.SortFunc(candidates, func(a, b scored) int {
		if c := cmp.Compare(b.shared, a.shared); c != 0 {
			return c
		}
		return cmp.Compare(a.q.ID, b.q.ID)
	})

	out := make([]*entity.Question, 0, len(candidates))
	for _, c := range window(candidates, 0, limit) {
		out = append(out, r.s.questionCopy(c.q))
	}
	return out, nil
}

func (r questionRepo) IsSubscribed(_ context.Context, questionID, userID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.subscriptions[questionID][userID]
	return ok, nil
}

type answerRepo struct{ s *Store }

func (r answerRepo) Count(ctx context.Context, q query.Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.s.answerEval.run(r.s.answers, q)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r answerRepo) Fetch(ctx context.Context, q query.Query, offset, limit int) ([]*entity.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.s.answerEval.run(r.s.answers, q)
	if err != nil {
		return nil, err
	}
	page := window(rows, offset, limit)
	out := make([]*entity.Answer, len(page))
	for i, a := range page {
		cp := *a
		out[i] = &cp
	}
	return out, nil
}

func (r answerRepo) Get(_ context.Context, id int64) (*entity.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.answers {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

type tagRepo struct{ s *Store }

func (r tagRepo) Count(ctx context.Context, q query.Query) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.s.tagEval.run(r.s.tags, q)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (r tagRepo) Fetch(ctx context.Context, q query.Query, offset, limit int) ([]*entity.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows, err := r.s.tagEval.run(r.s.tags, q)
	if err != nil {
		return nil, err
	}
	page := window(rows, offset, limit)
	out := make([]*entity.Tag, len(page))
	for i, t := range page {
		cp := *t
		out[i] = &cp
	}
	return out, nil
}

func (r tagRepo) GetActiveByName(_ context.Context, name string) (*entity.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tags {
		if t.Name == name && !t.Deleted {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

type userRepo struct{ s *Store }

func (r userRepo) Get(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r userRepo) BadTagIDs(_ context.Context, userID int64) ([]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.badTags[userID]), nil
}

type revisionRepo struct{ s *Store }

func (r revisionRepo) ListByNode(_ context.Context, node entity.NodeRef) ([]*entity.Revision, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	revs := slices.Clone(r.s.revisions[node])
	slices.SortFunc(revs, func(a, b *entity.Revision) int {
		if c := a.RevisedAt.Compare(b.RevisedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
	out := make([]*entity.Revision, len(revs))
	for i, rev := range revs {
		cp := *rev
		cp.Tags = slices.Clone(rev.Tags)
		out[i] = &cp
	}
	return out, nil
}
