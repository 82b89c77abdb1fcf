package comment

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	dom "example.com/storefront/internal/domain/comment"
	domproduct "example.com/storefront/internal/domain/product"
)

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

// PurchaseChecker answers whether a user has a paid order for a product.
type PurchaseChecker interface {
	HasPurchased(ctx context.Context, userID string, productID int64) (bool, error)
}

type Service struct {
	repo      dom.Repository
	products  ProductReader
	purchases PurchaseChecker
	log       zerolog.Logger
	now       func() time.Time
}

func NewService(repo dom.Repository, products ProductReader, purchases PurchaseChecker, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		purchases: purchases,
		log:       log,
		now:       time.Now,
	}
}

type CreateInput struct {
	ProductID int64
	Author    dom.Author
	Title     string
	Rate      int
	Content   string
	Origin    string
}

type DeleteInput struct {
	ID     string
	UserID string
	// Moderator lets staff remove any comment.
	Moderator bool
}

// Create stores a review of a product still in the catalog. The review is
// marked verified when the author has paid for the product; a failed
// lookup leaves it unverified.
func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.Comment, error) {
	c := &dom.Comment{
		ProductID: in.ProductID,
		Author:    in.Author,
		Title:     strings.TrimSpace(in.Title),
		Rate:      in.Rate,
		Content:   strings.TrimSpace(in.Content),
		Origin:    strings.TrimSpace(in.Origin),
		Likes:     []string{},
		CreatedAt: s.now().UTC(),
	}
	if n := utf8.RuneCountInString(c.Title); n < dom.MinTitleLength || n > dom.MaxTitleLength {
		return nil, dom.ErrInvalidTitle
	}
	if c.Rate < 0 || c.Rate > dom.MaxRate {
		return nil, dom.ErrInvalidRate
	}
	if c.Content == "" {
		return nil, dom.ErrInvalidContent
	}
	if err := s.requireProduct(ctx, c.ProductID); err != nil {
		return nil, err
	}

	verified, err := s.purchases.HasPurchased(ctx, c.Author.UserID, c.ProductID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", c.Author.UserID).Int64("product_id", c.ProductID).Msg("purchase lookup failed")
	}
	c.VerifiedPurchase = verified
	return s.repo.Create(ctx, c)
}

func (s *Service) Delete(ctx context.Context, in DeleteInput) error {
	c, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}
	if c.Author.UserID != in.UserID && !in.Moderator {
		return dom.ErrNotAuthor
	}
	return s.repo.Delete(ctx, c.ID)
}

func (s *Service) GetByID(ctx context.Context, id string) (*dom.Comment, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a product's comments, newest first.
func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Comment, error) {
	if err := s.requireProduct(ctx, filter.ProductID); err != nil {
		return nil, err
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *Service) ToggleLike(ctx context.Context, id, userID string) (*dom.Comment, error) {
	return s.repo.ToggleLike(ctx, id, userID)
}

func (s *Service) Ratings(ctx context.Context, productID int64) (dom.RatingSummary, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return dom.RatingSummary{}, err
	}
	return s.repo.Ratings(ctx, productID)
}

func (s *Service) requireProduct(ctx context.Context, id int64) error {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.State == domproduct.StateRemoved {
		return domproduct.ErrProductNotFound
	}
	return nil
}
