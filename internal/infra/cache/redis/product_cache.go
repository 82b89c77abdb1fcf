package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	domproduct "example.com/storefront/internal/domain/product"
)

func NewClient(addr, password string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
		Protocol: 2,
	})
}

// cachedProduct is the JSON stored under product:{id}.
type cachedProduct struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Currency    string          `json:"currency"`
	Stock       int64           `json:"stock"`
	CategoryID  int64           `json:"category_id"`
	VendorID    int64           `json:"vendor_id,omitempty"`
	State       string          `json:"state"`
}

// ProductCache is a read-through cache in front of the product repository.
// Redis failures are logged and the call falls through to the repository.
type ProductCache struct {
	next   domproduct.Repository
	client goredis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

func NewProductCache(next domproduct.Repository, client goredis.UniversalClient, ttl time.Duration, log zerolog.Logger) *ProductCache {
	return &ProductCache{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "product_cache").Logger(),
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductCache) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	return c.next.Create(ctx, p)
}

func (c *ProductCache) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	updated, err := c.next.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, p.ID)
	return updated, nil
}

func (c *ProductCache) Delete(ctx context.Context, id int64) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *ProductCache) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	return c.next.List(ctx, filter)
}

func (c *ProductCache) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	raw, err := c.client.Get(ctx, productKey(id)).Bytes()
	switch {
	case err == nil:
		p, derr := decode(raw)
		if derr == nil {
			return p, nil
		}
		c.log.Warn().Err(derr).Int64("product_id", id).Msg("dropping unreadable cache entry")
	case !errors.Is(err, goredis.Nil):
		c.log.Warn().Err(err).Int64("product_id", id).Msg("cache read failed")
	}

	p, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, p)
	return p, nil
}

// GetByIDs serves what it can from one MGET and loads the rest in a single
// repository call. Order follows the repository for misses.
func (c *ProductCache) GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error) {
	if len(ids) == 0 {
		return []*domproduct.Product{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	result := make([]*domproduct.Product, 0, len(ids))
	missing := ids
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn().Err(err).Msg("cache multi read failed")
	} else {
		missing = nil
		for i, v := range values {
			s, ok := v.(string)
			if !ok {
				missing = append(missing, ids[i])
				continue
			}
			p, derr := decode([]byte(s))
			if derr != nil {
				missing = append(missing, ids[i])
				continue
			}
			result = append(result, p)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	loaded, err := c.next.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	c.store(ctx, loaded...)
	return append(result, loaded...), nil
}

func (c *ProductCache) store(ctx context.Context, products ...*domproduct.Product) {
	if len(products) == 0 {
		return
	}
	pipe := c.client.TxPipeline()
	for _, p := range products {
		data, err := encodeJSON(p)
		if err != nil {
			c.log.Warn().Err(err).Int64("product_id", p.ID).Msg("cache encode failed")
			continue
		}
		pipe.Set(ctx, productKey(p.ID), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Msg("cache write failed")
	}
}

func (c *ProductCache) invalidate(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, productKey(id)).Err(); err != nil {
		c.log.Warn().Err(err).Int64("product_id", id).Msg("cache invalidation failed")
	}
}

func encodeJSON(p *domproduct.Product) ([]byte, error) {
	return json.Marshal(cachedProduct{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		SKU:         p.SKU,
		Description: p.Description,
		Brand:       p.Brand,
		BasePrice:   p.BasePrice,
		Currency:    p.Currency,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		VendorID:    p.VendorID,
		State:       string(p.State),
	})
}

func decode(raw []byte) (*domproduct.Product, error) {
	var cp cachedProduct
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	return &domproduct.Product{
		ID:          cp.ID,
		Title:       cp.Title,
		Slug:        cp.Slug,
		SKU:         cp.SKU,
		Description: cp.Description,
		Brand:       cp.Brand,
		BasePrice:   cp.BasePrice,
		Currency:    cp.Currency,
		Stock:       cp.Stock,
		CategoryID:  cp.CategoryID,
		VendorID:    cp.VendorID,
		State:       domproduct.State(cp.State),
	}, nil
}
