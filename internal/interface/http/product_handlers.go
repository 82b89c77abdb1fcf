package http

import (
	"net/http"
	"strconv"

	domcategory "example.com/storefront/internal/domain/category"
	domproduct "example.com/storefront/internal/domain/product"
)

func productFilter(r *http.Request) domproduct.ListFilter {
	filter := domproduct.ListFilter{
		Search: r.URL.Query().Get("q"),
	}
	if cid := r.URL.Query().Get("category_id"); cid != "" {
		if id, err := strconv.ParseInt(cid, 10, 64); err == nil {
			filter.CategoryID = &id
		}
	}
	if vid := r.URL.Query().Get("vendor_id"); vid != "" {
		if id, err := strconv.ParseInt(vid, 10, 64); err == nil {
			filter.VendorID = &id
		}
	}
	return filter
}

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := productFilter(r)
	filter.OnlyActive = true

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

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	p, err := a.productSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (a *API) handleListActiveCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categorySvc.List(r.Context(), domcategory.ListFilter{
		Department: r.URL.Query().Get("department"),
		OnlyActive: true,
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
