package sqlstore

import (
	"forum-reader/internal/repository"
)

// Store groups the SQL repositories that share one connection.
type Store struct {
	db Querier
	d  Dialect
}

// New creates a store over db using dialect d.
func New(db Querier, d Dialect) *Store {
	return &Store{db: db, d: d}
}

func (s *Store) Questions() repository.QuestionRepository { return &QuestionRepo{db: s.db, d: s.d} }
func (s *Store) Answers() repository.AnswerRepository     { return &AnswerRepo{db: s.db, d: s.d} }
func (s *Store) Tags() repository.TagRepository           { return &TagRepo{db: s.db, d: s.d} }
func (s *Store) Users() repository.UserRepository         { return &UserRepo{db: s.db, d: s.d} }
func (s *Store) Revisions() repository.RevisionRepository { return &RevisionRepo{db: s.db, d: s.d} }
