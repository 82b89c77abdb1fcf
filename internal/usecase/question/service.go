package question

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	domproduct "example.com/storefront/internal/domain/product"
	dom "example.com/storefront/internal/domain/question"
)

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

type Service struct {
	repo     dom.Repository
	products ProductReader
	now      func() time.Time
}

func NewService(repo dom.Repository, products ProductReader) *Service {
	return &Service{repo: repo, products: products, now: time.Now}
}

type CreateInput struct {
	ProductID int64
	Author    dom.Author
	Text      string
}

type AnswerInput struct {
	QuestionID string
	Author     dom.Author
	Content    string
}

type DeleteInput struct {
	ID        string
	UserID    string
	Moderator bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.Question, error) {
	text := strings.TrimSpace(in.Text)
	if utf8.RuneCountInString(text) < dom.MinTextLength {
		return nil, dom.ErrInvalidText
	}
	p, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p.State == domproduct.StateRemoved {
		return nil, domproduct.ErrProductNotFound
	}
	return s.repo.Create(ctx, &dom.Question{
		ProductID: in.ProductID,
		Author:    in.Author,
		Text:      text,
		Answers:   []dom.Answer{},
		Votes:     []dom.Vote{},
		CreatedAt: s.now().UTC(),
	})
}

func (s *Service) Delete(ctx context.Context, in DeleteInput) error {
	q, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}
	if q.Author.UserID != in.UserID && !in.Moderator {
		return dom.ErrNotAuthor
	}
	return s.repo.Delete(ctx, q.ID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*dom.Question, error) {
	return s.repo.GetByID(ctx, id)
}

// List filters by product, by text, or both. Without a product it searches
// every question.
func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Question, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *Service) Answer(ctx context.Context, in AnswerInput) (*dom.Question, error) {
	content := strings.TrimSpace(in.Content)
	if utf8.RuneCountInString(content) < dom.MinAnswerLength {
		return nil, dom.ErrInvalidAnswer
	}
	return s.repo.AddAnswer(ctx, in.QuestionID, dom.Answer{
		Author:    in.Author,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
}

func (s *Service) Vote(ctx context.Context, id, userID string, value int) (*dom.Question, error) {
	if !dom.ValidVote(value) {
		return nil, dom.ErrInvalidVote
	}
	return s.repo.Vote(ctx, id, userID, value)
}
