package http

import (
	"net/http"

	domuser "example.com/storefront/internal/domain/user"
)

type shippingAddressRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Country     string `json:"country" validate:"required"`
	City        string `json:"city" validate:"required"`
	Zip         string `json:"zip" validate:"required"`
	Line1       string `json:"line1" validate:"required"`
	Line2       string `json:"line2"`
	Description string `json:"description"`
}

func (a *API) handleAddShippingAddress(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req shippingAddressRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	u, err := a.userSvc.AddShippingAddress(r.Context(), user.ID, domuser.Address{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Country:     req.Country,
		City:        req.City,
		Zip:         req.Zip,
		Line1:       req.Line1,
		Line2:       req.Line2,
		Description: req.Description,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	addresses := make([]map[string]any, 0, len(u.ShippingAddresses))
	for _, addr := range u.ShippingAddresses {
		addresses = append(addresses, mapAddress(addr))
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": addresses})
}

func (a *API) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	orders, err := a.orderSvc.ListForUser(r.Context(), user.ID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetMyOrder(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	order, err := a.orderSvc.GetForUser(r.Context(), user.ID, id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}
