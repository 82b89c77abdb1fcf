package question

import (
	"errors"
	"fmt"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidText      = fmt.Errorf("question must be at least %d characters", MinTextLength)
	ErrInvalidAnswer    = fmt.Errorf("answer must be at least %d characters", MinAnswerLength)
	ErrInvalidVote      = errors.New("vote must be 1 or -1")
	ErrNotAuthor        = errors.New("only the author can delete this question")
)
