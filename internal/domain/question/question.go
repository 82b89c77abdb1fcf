package question

import "time"

const (
	MinTextLength   = 4
	MinAnswerLength = 2
)

type Author struct {
	UserID   string
	Username string
}

type Answer struct {
	ID        string
	Author    Author
	Content   string
	CreatedAt time.Time
}

// Vote is one user's +1 or -1 on a question.
type Vote struct {
	UserID string
	Value  int
}

type Question struct {
	ID        string
	ProductID int64
	Author    Author
	Text      string
	Answers   []Answer
	Votes     []Vote
	CreatedAt time.Time
}

// Score is the sum of all votes.
func (q *Question) Score() int {
	score := 0
	for _, v := range q.Votes {
		score += v.Value
	}
	return score
}

// VoteOf returns userID's vote, or 0 when they have not voted.
func (q *Question) VoteOf(userID string) int {
	for _, v := range q.Votes {
		if v.UserID == userID {
			return v.Value
		}
	}
	return 0
}

// CastVote records value for userID. Casting the same value twice takes the
// vote back; the opposite value replaces it.
func (q *Question) CastVote(userID string, value int) {
	for i, v := range q.Votes {
		if v.UserID != userID {
			continue
		}
		if v.Value == value {
			q.Votes = append(q.Votes[:i], q.Votes[i+1:]...)
		} else {
			q.Votes[i].Value = value
		}
		return
	}
	q.Votes = append(q.Votes, Vote{UserID: userID, Value: value})
}

func ValidVote(value int) bool {
	return value == 1 || value == -1
}

type ListFilter struct {
	ProductID *int64
	// Search matches question text, case-insensitively.
	Search string
}
