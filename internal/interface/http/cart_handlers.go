package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	domcart "example.com/storefront/internal/domain/cart"
	domorder "example.com/storefront/internal/domain/order"
	cartuc "example.com/storefront/internal/usecase/cart"
)

// Quantities are checked by the cart itself so bad values come back as 422;
// only a single request above the line limit is rejected as malformed.
// Price is what the client displayed; the catalog price is always charged.
type addCartItemRequest struct {
	ProductID int64            `json:"product_id"`
	Quantity  int64            `json:"quantity" validate:"max=10000"`
	Price     *decimal.Decimal `json:"price"`
}

type adjustCartItemRequest struct {
	Quantity *int64           `json:"quantity" validate:"required,max=10000"`
	Price    *decimal.Decimal `json:"price"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	cart, err := a.cartSvc.GetCart(r.Context(), user.ID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.cartSvc.AddLineItem(r.Context(), cartuc.AddInput{
		OwnerID:   user.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		PriceHint: req.Price,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Status == domcart.StatusNew {
		status = http.StatusCreated
	}
	writeJSON(w, status, mapAddResult(res))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var hint *decimal.Decimal
	if raw := r.URL.Query().Get("price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		hint = &price
	}

	res, err := a.cartSvc.RemoveLineItem(r.Context(), cartuc.RemoveInput{
		OwnerID:   user.ID,
		ProductID: productID,
		PriceHint: hint,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRemoveResult(res))
}

func (a *API) handleAdjustCartItem(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req adjustCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.cartSvc.AdjustQuantity(r.Context(), cartuc.AdjustInput{
		OwnerID:   user.ID,
		ProductID: productID,
		Quantity:  *req.Quantity,
		PriceHint: req.Price,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapAdjustResult(res))
}

func (a *API) handleCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	method := domorder.PaymentMethod(req.PaymentMethod)
	result, err := a.checkoutSvc.CreateSession(r.Context(), user.ID, method)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"order":   mapOrder(result.Order),
		"session": mapSession(result.Session),
	})
}
