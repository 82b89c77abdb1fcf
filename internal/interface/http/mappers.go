package http

import (
	"github.com/shopspring/decimal"

	dombrand "example.com/storefront/internal/domain/brand"
	domcart "example.com/storefront/internal/domain/cart"
	domcategory "example.com/storefront/internal/domain/category"
	domcomment "example.com/storefront/internal/domain/comment"
	domdepartment "example.com/storefront/internal/domain/department"
	domorder "example.com/storefront/internal/domain/order"
	domproduct "example.com/storefront/internal/domain/product"
	domquestion "example.com/storefront/internal/domain/question"
	domsubcategory "example.com/storefront/internal/domain/subcategory"
	domuser "example.com/storefront/internal/domain/user"
	domvendor "example.com/storefront/internal/domain/vendor"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
)

// money renders amounts with two decimals so clients never see floats.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func mapUser(u *domuser.User) map[string]any {
	addresses := make([]map[string]any, 0, len(u.ShippingAddresses))
	for _, a := range u.ShippingAddresses {
		addresses = append(addresses, mapAddress(a))
	}
	return map[string]any{
		"id":                 u.ID,
		"username":           u.Username,
		"email":              u.Email,
		"email_verified":     u.EmailVerified,
		"auth_provider":      u.AuthProvider,
		"role_code":          u.RoleCode,
		"shipping_addresses": addresses,
		"created_at":         u.CreatedAt,
	}
}

func mapAddress(a domuser.Address) map[string]any {
	return map[string]any{
		"id":          a.ID,
		"first_name":  a.FirstName,
		"last_name":   a.LastName,
		"email":       a.Email,
		"phone":       a.Phone,
		"country":     a.Country,
		"city":        a.City,
		"zip":         a.Zip,
		"line1":       a.Line1,
		"line2":       a.Line2,
		"description": a.Description,
	}
}

func mapCategory(c *domcategory.Category) map[string]any {
	return map[string]any{
		"id":          c.ID,
		"department":  c.Department,
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"is_active":   c.IsActive,
	}
}

func mapDepartment(d *domdepartment.Department) map[string]any {
	return map[string]any{
		"id":          d.ID,
		"name":        d.Name,
		"slug":        d.Slug,
		"description": d.Description,
		"banner_url":  d.BannerURL,
	}
}

func mapSubCategory(s *domsubcategory.SubCategory) map[string]any {
	return map[string]any{
		"id":          s.ID,
		"category_id": s.CategoryID,
		"name":        s.Name,
		"slug":        s.Slug,
	}
}

func mapBrand(b *dombrand.Brand) map[string]any {
	return map[string]any{
		"id":       b.ID,
		"name":     b.Name,
		"slug":     b.Slug,
		"logo_url": b.LogoURL,
	}
}

func mapVendor(v *domvendor.Vendor) map[string]any {
	return map[string]any{
		"id":          v.ID,
		"name":        v.Name,
		"slug":        v.Slug,
		"description": v.Description,
		"website":     v.Website,
		"contact": map[string]any{
			"person": v.Contact.Person,
			"email":  v.Contact.Email,
			"phone":  v.Contact.Phone,
		},
		"location": map[string]any{
			"country":     v.Location.Country,
			"state":       v.Location.State,
			"address":     v.Location.Address,
			"postal_code": v.Location.PostalCode,
		},
	}
}

// mapComment reports whether viewer liked the comment; viewer is "" for
// anonymous readers.
func mapComment(c *domcomment.Comment, viewer string) map[string]any {
	return map[string]any{
		"id":                c.ID,
		"product_id":        c.ProductID,
		"author":            map[string]any{"user_id": c.Author.UserID, "username": c.Author.Username},
		"title":             c.Title,
		"rate":              c.Rate,
		"content":           c.Content,
		"origin":            c.Origin,
		"likes":             len(c.Likes),
		"liked":             c.LikedBy(viewer),
		"verified_purchase": c.VerifiedPurchase,
		"created_at":        c.CreatedAt,
	}
}

func mapRatingSummary(s domcomment.RatingSummary) map[string]any {
	return map[string]any{
		"product_id": s.ProductID,
		"count":      s.Count,
		"average":    s.Average.StringFixed(2),
		"histogram":  s.Histogram[:],
	}
}

func mapQuestion(q *domquestion.Question, viewer string) map[string]any {
	answers := make([]map[string]any, 0, len(q.Answers))
	for _, a := range q.Answers {
		answers = append(answers, map[string]any{
			"id":         a.ID,
			"author":     map[string]any{"user_id": a.Author.UserID, "username": a.Author.Username},
			"content":    a.Content,
			"created_at": a.CreatedAt,
		})
	}
	return map[string]any{
		"id":         q.ID,
		"product_id": q.ProductID,
		"author":     map[string]any{"user_id": q.Author.UserID, "username": q.Author.Username},
		"question":   q.Text,
		"answers":    answers,
		"score":      q.Score(),
		"user_vote":  q.VoteOf(viewer),
		"created_at": q.CreatedAt,
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"slug":        p.Slug,
		"sku":         p.SKU,
		"description": p.Description,
		"brand":       p.Brand,
		"price":       money(p.BasePrice),
		"currency":    p.Currency,
		"stock":       p.Stock,
		"category_id": p.CategoryID,
		"vendor_id":   p.VendorID,
		"state":       p.State,
	}
}

func mapCart(c *domcart.DetailedCart) map[string]any {
	items := make([]map[string]any, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"title":      item.Title,
			"slug":       item.Slug,
			"unit_price": money(item.UnitPrice),
			"line_total": money(item.LineTotal),
			"available":  item.Available,
		})
	}
	return map[string]any{
		"owner_id":     c.OwnerID,
		"items":        items,
		"total_amount": money(c.TotalAmount),
	}
}

func mapAddResult(res domcart.AddResult) map[string]any {
	return map[string]any{
		"status":       res.Status,
		"product_id":   res.ProductID,
		"quantity":     res.Quantity,
		"total_amount": money(res.TotalAmount),
	}
}

func mapRemoveResult(res domcart.RemoveResult) map[string]any {
	return map[string]any{
		"product_id":       res.ProductID,
		"index":            res.Index,
		"removed_quantity": res.RemovedQuantity,
		"total_amount":     money(res.TotalAmount),
	}
}

func mapAdjustResult(res domcart.AdjustResult) map[string]any {
	return map[string]any{
		"product_id":   res.ProductID,
		"index":        res.Index,
		"quantity":     res.Quantity,
		"total_amount": money(res.TotalAmount),
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      money(item.Price),
			"quantity":   item.Quantity,
			"line_total": money(item.LineTotal()),
		})
	}

	return map[string]any{
		"id":                 o.ID,
		"user_id":            o.UserID,
		"status":             o.Status,
		"payment_method":     o.PaymentMethod,
		"payment_session_id": o.PaymentSessionID,
		"currency":           o.Currency,
		"total_amount":       money(o.TotalAmount),
		"created_at":         o.CreatedAt,
		"items":              items,
	}
}

func mapSession(s *checkoutuc.Session) map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{
		"id":       s.ID,
		"url":      s.URL,
		"amount":   money(s.Amount),
		"currency": s.Currency,
	}
}
