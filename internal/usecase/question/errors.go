// Package question serves a single question: its page of answers, its
// answer feed and permalinks to individual answers.
package question

import (
	"errors"
	"fmt"

	"forum-reader/internal/domain/entity"
)

// Sentinel errors for question use case operations.
var (
	// ErrQuestionNotFound indicates that the question does not exist or is
	// deleted and hidden from the caller.
	ErrQuestionNotFound = fmt.Errorf("question %w", entity.ErrNotFound)

	// ErrAnswerNotFound indicates that the answer does not exist, belongs to
	// another question or is hidden from the caller.
	ErrAnswerNotFound = fmt.Errorf("answer %w", entity.ErrNotFound)
)

// errUnknownQuestion marks a lookup that found no question at all, as
// opposed to one hidden from the caller.
var errUnknownQuestion = errors.New("no such question")
