package comment

import (
	"errors"
	"fmt"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidTitle    = fmt.Errorf("comment title must be %d to %d characters", MinTitleLength, MaxTitleLength)
	ErrInvalidRate     = fmt.Errorf("comment rate must be between 0 and %d", MaxRate)
	ErrInvalidContent  = errors.New("comment content is required")
	ErrNotAuthor       = errors.New("only the author can delete this comment")
)
