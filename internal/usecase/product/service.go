package product

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	domcategory "example.com/storefront/internal/domain/category"
	dom "example.com/storefront/internal/domain/product"
	domvendor "example.com/storefront/internal/domain/vendor"
	"example.com/storefront/internal/slug"
)

const defaultCurrency = "USD"

var currencyRegexp = regexp.MustCompile(`^[A-Z]{3}$`)

type CategoryReader interface {
	GetByID(ctx context.Context, id int64) (*domcategory.Category, error)
}

type VendorReader interface {
	GetByID(ctx context.Context, id int64) (*domvendor.Vendor, error)
}

type Service struct {
	repo       dom.Repository
	categories CategoryReader
	vendors    VendorReader
}

func NewService(repo dom.Repository, categories CategoryReader, vendors VendorReader) *Service {
	return &Service{repo: repo, categories: categories, vendors: vendors}
}

type CreateInput struct {
	Title       string
	SKU         string
	Description string
	Brand       string
	BasePrice   decimal.Decimal
	Currency    string
	Stock       int64
	CategoryID  int64
	VendorID    int64
	State       dom.State
}

type UpdateInput struct {
	ID          int64
	Title       *string
	SKU         *string
	Description *string
	Brand       *string
	BasePrice   *decimal.Decimal
	Currency    *string
	Stock       *int64
	CategoryID  *int64
	VendorID    *int64
	State       *dom.State
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.Product, error) {
	p := &dom.Product{
		Title:       strings.TrimSpace(in.Title),
		SKU:         strings.TrimSpace(in.SKU),
		Description: strings.TrimSpace(in.Description),
		Brand:       strings.TrimSpace(in.Brand),
		BasePrice:   in.BasePrice,
		Currency:    strings.ToUpper(strings.TrimSpace(in.Currency)),
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		VendorID:    in.VendorID,
		State:       in.State,
	}
	if p.Currency == "" {
		p.Currency = defaultCurrency
	}
	if p.State == "" {
		p.State = dom.StateActive
	}
	p.Slug = slug.Make(p.Title)
	if p.SKU == "" {
		p.SKU = strings.ToUpper(p.Slug)
	}

	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*dom.Product, error) {
	existed, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		existed.Title = strings.TrimSpace(*in.Title)
		existed.Slug = slug.Make(existed.Title)
	}
	if in.SKU != nil {
		existed.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Description != nil {
		existed.Description = strings.TrimSpace(*in.Description)
	}
	if in.Brand != nil {
		existed.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.BasePrice != nil {
		existed.BasePrice = *in.BasePrice
	}
	if in.Currency != nil {
		existed.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Stock != nil {
		existed.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		existed.CategoryID = *in.CategoryID
	}
	if in.VendorID != nil {
		existed.VendorID = *in.VendorID
	}
	if in.State != nil {
		existed.State = *in.State
	}

	if err := s.validate(ctx, existed); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, existed)
}

// Delete takes the product off sale. Carts that still hold it keep a
// resolvable price.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// GetByID hides removed products from the catalog.
func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.State == dom.StateRemoved {
		return nil, dom.ErrProductNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) validate(ctx context.Context, p *dom.Product) error {
	if p.Title == "" || p.Slug == "" {
		return dom.ErrInvalidTitle
	}
	if !p.BasePrice.IsPositive() {
		return dom.ErrInvalidPrice
	}
	if p.Stock < 0 {
		return dom.ErrInvalidStock
	}
	if !currencyRegexp.MatchString(p.Currency) {
		return dom.ErrInvalidCurrency
	}
	if !p.State.IsValid() {
		return dom.ErrInvalidState
	}
	if _, err := s.categories.GetByID(ctx, p.CategoryID); err != nil {
		return err
	}
	if p.VendorID != 0 {
		if _, err := s.vendors.GetByID(ctx, p.VendorID); err != nil {
			return err
		}
	}
	return nil
}
