package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	dombrand "example.com/storefront/internal/domain/brand"
	domsubcategory "example.com/storefront/internal/domain/subcategory"
	domvendor "example.com/storefront/internal/domain/vendor"
	branduc "example.com/storefront/internal/usecase/brand"
	departmentuc "example.com/storefront/internal/usecase/department"
	subcategoryuc "example.com/storefront/internal/usecase/subcategory"
	vendoruc "example.com/storefront/internal/usecase/vendor"
)

func (a *API) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := a.departmentSvc.List(r.Context())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, mapDepartment(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	d, err := a.departmentSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapDepartment(d))
}

func (a *API) handleDepartmentCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.departmentSvc.Categories(r.Context(), chi.URLParam(r, "slug"))
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

type departmentRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	BannerURL   *string `json:"banner_url" validate:"omitempty,url"`
}

func (a *API) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req departmentRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	d, err := a.departmentSvc.Create(r.Context(), departmentuc.CreateInput{
		Name:        deref(req.Name),
		Slug:        deref(req.Slug),
		Description: deref(req.Description),
		BannerURL:   deref(req.BannerURL),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapDepartment(d))
}

func (a *API) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req departmentRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	d, err := a.departmentSvc.Update(r.Context(), departmentuc.UpdateInput{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		BannerURL:   req.BannerURL,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapDepartment(d))
}

func (a *API) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.departmentSvc.Delete(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListSubCategories(w http.ResponseWriter, r *http.Request) {
	filter := domsubcategory.ListFilter{Search: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		filter.CategoryID = &id
	}
	subs, err := a.subCategorySvc.List(r.Context(), filter)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(subs))
	for _, s := range subs {
		resp = append(resp, mapSubCategory(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetSubCategory(w http.ResponseWriter, r *http.Request) {
	s, err := a.subCategorySvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSubCategory(s))
}

type createSubCategoryRequest struct {
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"required"`
	Slug       string `json:"slug"`
}

type updateSubCategoryRequest struct {
	CategoryID *int64  `json:"category_id" validate:"omitempty,gt=0"`
	Name       *string `json:"name"`
	Slug       *string `json:"slug"`
}

func (a *API) handleCreateSubCategory(w http.ResponseWriter, r *http.Request) {
	var req createSubCategoryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	s, err := a.subCategorySvc.Create(r.Context(), subcategoryuc.CreateInput{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Slug:       req.Slug,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapSubCategory(s))
}

func (a *API) handleUpdateSubCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req updateSubCategoryRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	s, err := a.subCategorySvc.Update(r.Context(), subcategoryuc.UpdateInput{
		ID:         id,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Slug:       req.Slug,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSubCategory(s))
}

func (a *API) handleDeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.subCategorySvc.Delete(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := a.brandSvc.List(r.Context(), dombrand.ListFilter{Search: r.URL.Query().Get("q")})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(brands))
	for _, b := range brands {
		resp = append(resp, mapBrand(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetBrand(w http.ResponseWriter, r *http.Request) {
	b, err := a.brandSvc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBrand(b))
}

type brandRequest struct {
	Name    *string `json:"name"`
	Slug    *string `json:"slug"`
	LogoURL *string `json:"logo_url" validate:"omitempty,url"`
}

func (a *API) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	b, err := a.brandSvc.Create(r.Context(), branduc.CreateInput{
		Name:    deref(req.Name),
		Slug:    deref(req.Slug),
		LogoURL: deref(req.LogoURL),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapBrand(b))
}

func (a *API) handleUpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req brandRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	b, err := a.brandSvc.Update(r.Context(), branduc.UpdateInput{
		ID:      id,
		Name:    req.Name,
		Slug:    req.Slug,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBrand(b))
}

func (a *API) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.brandSvc.Delete(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := a.vendorSvc.List(r.Context(), domvendor.ListFilter{Search: r.URL.Query().Get("q")})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	resp := make([]map[string]any, 0, len(vendors))
	for _, v := range vendors {
		resp = append(resp, mapVendor(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

// handleGetVendor answers with the vendor and its products on sale.
func (a *API) handleGetVendor(w http.ResponseWriter, r *http.Request) {
	v, products, err := a.vendorSvc.WithProducts(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	items := make([]map[string]any, 0, len(products))
	for _, p := range products {
		items = append(items, mapProduct(p))
	}
	resp := mapVendor(v)
	resp["products"] = items
	writeJSON(w, http.StatusOK, resp)
}

type vendorContactRequest struct {
	Person string `json:"person"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone"`
}

type vendorLocationRequest struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
}

type vendorRequest struct {
	Name        *string                `json:"name"`
	Slug        *string                `json:"slug"`
	Description *string                `json:"description"`
	Website     *string                `json:"website" validate:"omitempty,url"`
	Contact     *vendorContactRequest  `json:"contact"`
	Location    *vendorLocationRequest `json:"location"`
}

func (req vendorRequest) contact() *domvendor.Contact {
	if req.Contact == nil {
		return nil
	}
	return &domvendor.Contact{Person: req.Contact.Person, Email: req.Contact.Email, Phone: req.Contact.Phone}
}

func (req vendorRequest) location() *domvendor.Location {
	if req.Location == nil {
		return nil
	}
	return &domvendor.Location{
		Country:    req.Location.Country,
		State:      req.Location.State,
		Address:    req.Location.Address,
		PostalCode: req.Location.PostalCode,
	}
}

func (a *API) handleCreateVendor(w http.ResponseWriter, r *http.Request) {
	var req vendorRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	in := vendoruc.CreateInput{
		Name:        deref(req.Name),
		Slug:        deref(req.Slug),
		Description: deref(req.Description),
		Website:     deref(req.Website),
	}
	if c := req.contact(); c != nil {
		in.Contact = *c
	}
	if l := req.location(); l != nil {
		in.Location = *l
	}
	v, err := a.vendorSvc.Create(r.Context(), in)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapVendor(v))
}

func (a *API) handleUpdateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var req vendorRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	v, err := a.vendorSvc.Update(r.Context(), vendoruc.UpdateInput{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Website:     req.Website,
		Contact:     req.contact(),
		Location:    req.location(),
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapVendor(v))
}

func (a *API) handleDeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.vendorSvc.Delete(r.Context(), id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
