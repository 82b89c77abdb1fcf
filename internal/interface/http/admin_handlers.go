package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	domcategory "example.com/storefront/internal/domain/category"
	domorder "example.com/storefront/internal/domain/order"
	domproduct "example.com/storefront/internal/domain/product"
	domuser "example.com/storefront/internal/domain/user"
	categoryuc "example.com/storefront/internal/usecase/category"
	productuc "example.com/storefront/internal/usecase/product"
	useruc "example.com/storefront/internal/usecase/user"
)

type updateUserRoleRequest struct {
	RoleCode string `json:"role_code" validate:"required"`
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	var filter domuser.ListUsersFilter
	if raw := r.URL.Query().Get("role"); raw != "" {
		role, err := domuser.ParseRoleCode(raw)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}
		filter.RoleCode = &role
	}

	users, err := a.userSvc.ListUsers(r.Context(), filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(users))
	for _, u := range users {
		resp = append(resp, mapUser(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := a.userSvc.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(u))
}

func (a *API) handleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	executor := getAuthUser(r.Context())
	if executor == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req updateUserRoleRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	role, err := domuser.ParseRoleCode(req.RoleCode)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	user, err := a.userSvc.UpdateRole(r.Context(), useruc.UpdateRoleInput{
		ExecutorID:   executor.ID,
		ExecutorRole: executor.RoleCode,
		ID:           chi.URLParam(r, "id"),
		RoleCode:     role,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(user))
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	executor := getAuthUser(r.Context())
	if executor == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	err := a.userSvc.DeleteUser(r.Context(), useruc.DeleteUserInput{
		ExecutorID:   executor.ID,
		ExecutorRole: executor.RoleCode,
		ID:           chi.URLParam(r, "id"),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createCategoryRequest struct {
	Department  string `json:"department"`
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type updateCategoryRequest struct {
	Department  *string `json:"department"`
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categorySvc.List(r.Context(), domcategory.ListFilter{
		Department: r.URL.Query().Get("department"),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, mapCategory(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	category, err := a.categorySvc.Create(r.Context(), categoryuc.CreateInput{
		Department:  req.Department,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCategory(category))
}

func (a *API) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	category, err := a.categorySvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCategory(category))
}

func (a *API) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateCategoryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	category, err := a.categorySvc.Update(r.Context(), categoryuc.UpdateInput{
		ID:          id,
		Department:  req.Department,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCategory(category))
}

func (a *API) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.categorySvc.Delete(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createProductRequest struct {
	Title       string          `json:"title" validate:"required"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Stock       int64           `json:"stock"`
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
	VendorID    int64           `json:"vendor_id" validate:"gte=0"`
	State       string          `json:"state"`
}

type updateProductRequest struct {
	Title       *string          `json:"title"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	Brand       *string          `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
	Currency    *string          `json:"currency"`
	Stock       *int64           `json:"stock"`
	CategoryID  *int64           `json:"category_id"`
	VendorID    *int64           `json:"vendor_id" validate:"omitempty,gte=0"`
	State       *string          `json:"state"`
}

func (a *API) handleListProductsAdmin(w http.ResponseWriter, r *http.Request) {
	filter := productFilter(r)
	if status := r.URL.Query().Get("only_active"); status == "1" || status == "true" {
		filter.OnlyActive = true
	}

	products, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(products))
	for _, p := range products {
		resp = append(resp, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	product, err := a.productSvc.Create(r.Context(), productuc.CreateInput{
		Title:       req.Title,
		SKU:         req.SKU,
		Description: req.Description,
		Brand:       req.Brand,
		BasePrice:   req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		VendorID:    req.VendorID,
		State:       domproduct.State(req.State),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(product))
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateProductRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var state *domproduct.State
	if req.State != nil {
		s := domproduct.State(*req.State)
		state = &s
	}

	product, err := a.productSvc.Update(r.Context(), productuc.UpdateInput{
		ID:          id,
		Title:       req.Title,
		SKU:         req.SKU,
		Description: req.Description,
		Brand:       req.Brand,
		BasePrice:   req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		VendorID:    req.VendorID,
		State:       state,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(product))
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.productSvc.Delete(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderSvc.List(r.Context())
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

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	order, err := a.orderSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateOrderStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	order, err := a.orderSvc.UpdateStatus(r.Context(), id, domorder.Status(req.Status))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}
