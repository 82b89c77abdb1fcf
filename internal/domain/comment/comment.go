package comment

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinTitleLength = 2
	MaxTitleLength = 100
	MaxRate        = 5
)

type Author struct {
	UserID   string
	Username string
}

// Comment is a customer review of one product. Likes holds the IDs of the
// users who liked it, each at most once.
type Comment struct {
	ID        string
	ProductID int64
	Author    Author
	Title     string
	Rate      int
	Content   string
	// Origin is where the reviewer bought the product, free text.
	Origin           string
	Likes            []string
	VerifiedPurchase bool
	CreatedAt        time.Time
}

func (c *Comment) LikedBy(userID string) bool {
	return userID != "" && slices.Contains(c.Likes, userID)
}

// ToggleLike adds userID to the likes or takes it out when present.
func (c *Comment) ToggleLike(userID string) {
	if i := slices.Index(c.Likes, userID); i >= 0 {
		c.Likes = slices.Delete(c.Likes, i, i+1)
		return
	}
	c.Likes = append(c.Likes, userID)
}

type ListFilter struct {
	ProductID int64
	// Search matches title or content, case-insensitively.
	Search string
}

// RatingSummary aggregates the rates left on one product.
type RatingSummary struct {
	ProductID int64
	Count     int64
	Average   decimal.Decimal
	// Histogram counts comments per rate, index 0 through MaxRate.
	Histogram [MaxRate + 1]int64
}
