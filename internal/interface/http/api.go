package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

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
	authuc "example.com/storefront/internal/usecase/auth"
	branduc "example.com/storefront/internal/usecase/brand"
	cartuc "example.com/storefront/internal/usecase/cart"
	categoryuc "example.com/storefront/internal/usecase/category"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
	commentuc "example.com/storefront/internal/usecase/comment"
	departmentuc "example.com/storefront/internal/usecase/department"
	orderuc "example.com/storefront/internal/usecase/order"
	productuc "example.com/storefront/internal/usecase/product"
	questionuc "example.com/storefront/internal/usecase/question"
	subcategoryuc "example.com/storefront/internal/usecase/subcategory"
	useruc "example.com/storefront/internal/usecase/user"
	vendoruc "example.com/storefront/internal/usecase/vendor"
)

// HealthCheck pings one backing service.
type HealthCheck func(ctx context.Context) error

type API struct {
	authSvc        *authuc.Service
	userSvc        *useruc.Service
	departmentSvc  *departmentuc.Service
	categorySvc    *categoryuc.Service
	subCategorySvc *subcategoryuc.Service
	brandSvc       *branduc.Service
	vendorSvc      *vendoruc.Service
	productSvc     *productuc.Service
	commentSvc     *commentuc.Service
	questionSvc    *questionuc.Service
	cartSvc        *cartuc.Service
	checkoutSvc    *checkoutuc.Service
	orderSvc       *orderuc.Service
	tokenSvc       authuc.TokenService
	validator      *validator.Validate
	log            zerolog.Logger
	clientOrigin   string
	tokenTTL       time.Duration
	secureCookie   bool
	health         map[string]HealthCheck
}

type Dependencies struct {
	AuthService        *authuc.Service
	UserService        *useruc.Service
	DepartmentService  *departmentuc.Service
	CategoryService    *categoryuc.Service
	SubCategoryService *subcategoryuc.Service
	BrandService       *branduc.Service
	VendorService      *vendoruc.Service
	ProductService     *productuc.Service
	CommentService     *commentuc.Service
	QuestionService    *questionuc.Service
	CartService        *cartuc.Service
	CheckoutService    *checkoutuc.Service
	OrderService       *orderuc.Service
	TokenService       authuc.TokenService
	Logger             zerolog.Logger

	// ClientOrigin is the storefront web app allowed by CORS.
	ClientOrigin string
	TokenTTL     time.Duration
	SecureCookie bool
	HealthChecks map[string]HealthCheck
}

func NewAPI(deps Dependencies) *API {
	return &API{
		authSvc:        deps.AuthService,
		userSvc:        deps.UserService,
		departmentSvc:  deps.DepartmentService,
		categorySvc:    deps.CategoryService,
		subCategorySvc: deps.SubCategoryService,
		brandSvc:       deps.BrandService,
		vendorSvc:      deps.VendorService,
		productSvc:     deps.ProductService,
		commentSvc:     deps.CommentService,
		questionSvc:    deps.QuestionService,
		cartSvc:        deps.CartService,
		checkoutSvc:    deps.CheckoutService,
		orderSvc:       deps.OrderService,
		tokenSvc:       deps.TokenService,
		validator:      validator.New(),
		log:            deps.Logger,
		clientOrigin:   deps.ClientOrigin,
		tokenTTL:       deps.TokenTTL,
		secureCookie:   deps.SecureCookie,
		health:         deps.HealthChecks,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(a.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(a.cors().Handler)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/sign-up", a.handleSignUp)
		r.Patch("/auth/verify-email", a.handleVerifyEmail)
		r.Post("/auth/login", a.handleLogin)
		r.Get("/auth/logout", a.handleLogout)
		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)
		r.Get("/products/{id}/rating", a.handleProductRating)
		r.Get("/categories", a.handleListActiveCategories)
		r.Get("/departments", a.handleListDepartments)
		r.Get("/departments/{slug}", a.handleGetDepartment)
		r.Get("/departments/{slug}/categories", a.handleDepartmentCategories)
		r.Get("/subcategories", a.handleListSubCategories)
		r.Get("/subcategories/{slug}", a.handleGetSubCategory)
		r.Get("/brands", a.handleListBrands)
		r.Get("/brands/{slug}", a.handleGetBrand)
		r.Get("/vendors", a.handleListVendors)
		r.Get("/vendors/{slug}", a.handleGetVendor)

		r.Group(func(or chi.Router) {
			or.Use(a.optionalAuth)
			or.Get("/products/{id}/comments", a.handleListComments)
			or.Get("/products/{id}/questions", a.handleListProductQuestions)
			or.Get("/comments/{id}", a.handleGetComment)
			or.Get("/questions", a.handleSearchQuestions)
			or.Get("/questions/{id}", a.handleGetQuestion)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Get("/auth/me", a.handleMe)

			pr.Post("/products/{id}/comments", a.handleCreateComment)
			pr.Delete("/comments/{id}", a.handleDeleteComment)
			pr.Post("/comments/{id}/like", a.handleToggleCommentLike)
			pr.Post("/products/{id}/questions", a.handleCreateQuestion)
			pr.Delete("/questions/{id}", a.handleDeleteQuestion)
			pr.Post("/questions/{id}/answers", a.handleAnswerQuestion)
			pr.Post("/questions/{id}/votes", a.handleVoteQuestion)

			pr.Route("/me", func(me chi.Router) {
				me.Get("/cart", a.handleGetCart)
				me.Post("/cart/items", a.handleAddCartItem)
				me.Delete("/cart/items/{productID}", a.handleRemoveCartItem)
				me.Patch("/cart/items/{productID}", a.handleAdjustCartItem)
				me.Post("/addresses", a.handleAddShippingAddress)
				me.Post("/checkout/session", a.handleCheckoutSession)
				me.Get("/orders", a.handleListMyOrders)
				me.Get("/orders/{id}", a.handleGetMyOrder)
			})
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authMiddleware)
			ar.Use(a.requireRoles(domuser.RoleCodeAdmin, domuser.RoleCodeSuperAdmin))

			ar.Route("/admin", func(admin chi.Router) {
				admin.Route("/users", func(rr chi.Router) {
					rr.Get("/", a.handleListUsers)
					rr.Get("/{id}", a.handleGetUser)
					rr.Patch("/{id}/role", a.handleUpdateUserRole)
					rr.Delete("/{id}", a.handleDeleteUser)
				})

				admin.Route("/categories", func(rr chi.Router) {
					rr.Get("/", a.handleListCategories)
					rr.Post("/", a.handleCreateCategory)
					rr.Get("/{id}", a.handleGetCategory)
					rr.Put("/{id}", a.handleUpdateCategory)
					rr.Delete("/{id}", a.handleDeleteCategory)
				})

				admin.Route("/departments", func(rr chi.Router) {
					rr.Post("/", a.handleCreateDepartment)
					rr.Put("/{id}", a.handleUpdateDepartment)
					rr.Delete("/{id}", a.handleDeleteDepartment)
				})

				admin.Route("/subcategories", func(rr chi.Router) {
					rr.Post("/", a.handleCreateSubCategory)
					rr.Put("/{id}", a.handleUpdateSubCategory)
					rr.Delete("/{id}", a.handleDeleteSubCategory)
				})

				admin.Route("/brands", func(rr chi.Router) {
					rr.Post("/", a.handleCreateBrand)
					rr.Put("/{id}", a.handleUpdateBrand)
					rr.Delete("/{id}", a.handleDeleteBrand)
				})

				admin.Route("/vendors", func(rr chi.Router) {
					rr.Post("/", a.handleCreateVendor)
					rr.Put("/{id}", a.handleUpdateVendor)
					rr.Delete("/{id}", a.handleDeleteVendor)
				})

				admin.Route("/products", func(rr chi.Router) {
					rr.Get("/", a.handleListProductsAdmin)
					rr.Post("/", a.handleCreateProduct)
					rr.Put("/{id}", a.handleUpdateProduct)
					rr.Delete("/{id}", a.handleDeleteProduct)
				})

				admin.Route("/orders", func(rr chi.Router) {
					rr.Get("/", a.handleListOrders)
					rr.Get("/{id}", a.handleGetOrder)
					rr.Patch("/{id}", a.handleUpdateOrderStatus)
				})
			})
		})
	})

	return r
}

func (a *API) cors() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{a.clientOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(a.health))
	for name, check := range a.health {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	writeJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": checks})
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

var (
	errInternal           = errors.New("internal server error")
	errStorageUnavailable = errors.New("cart storage unavailable, retry later")
)

func handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domcart.ErrValidation),
		errors.Is(err, domuser.ErrCannotAssignRole),
		errors.Is(err, domuser.ErrInvalidRoleCode),
		errors.Is(err, domuser.ErrInvalidCredential),
		errors.Is(err, domuser.ErrInvalidAddress),
		errors.Is(err, domuser.ErrInvalidVerification),
		errors.Is(err, domcategory.ErrCategoryInvalidName),
		errors.Is(err, domcategory.ErrCategoryInvalidSlug),
		errors.Is(err, domdepartment.ErrDepartmentInvalidName),
		errors.Is(err, domdepartment.ErrDepartmentInvalidSlug),
		errors.Is(err, domsubcategory.ErrSubCategoryInvalidName),
		errors.Is(err, domsubcategory.ErrSubCategoryInvalidSlug),
		errors.Is(err, dombrand.ErrBrandInvalidName),
		errors.Is(err, dombrand.ErrBrandInvalidSlug),
		errors.Is(err, domvendor.ErrVendorInvalidName),
		errors.Is(err, domvendor.ErrVendorInvalidSlug),
		errors.Is(err, domproduct.ErrInvalidTitle),
		errors.Is(err, domproduct.ErrInvalidPrice),
		errors.Is(err, domproduct.ErrInvalidStock),
		errors.Is(err, domproduct.ErrInvalidCurrency),
		errors.Is(err, domproduct.ErrInvalidState):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domproduct.ErrOutOfStock),
		errors.Is(err, domproduct.ErrProductUnavailable),
		errors.Is(err, domorder.ErrEmptyOrderItems),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrCheckoutValidation),
		errors.Is(err, domorder.ErrMixedCurrency),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domcomment.ErrInvalidTitle),
		errors.Is(err, domcomment.ErrInvalidRate),
		errors.Is(err, domcomment.ErrInvalidContent),
		errors.Is(err, domquestion.ErrInvalidText),
		errors.Is(err, domquestion.ErrInvalidAnswer),
		errors.Is(err, domquestion.ErrInvalidVote):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domcategory.ErrCategorySlugExists),
		errors.Is(err, domdepartment.ErrDepartmentSlugExists),
		errors.Is(err, domsubcategory.ErrSubCategoryExists),
		errors.Is(err, dombrand.ErrBrandExists),
		errors.Is(err, domvendor.ErrVendorSlugExists),
		errors.Is(err, domproduct.ErrSlugExists),
		errors.Is(err, domuser.ErrEmailAlreadyUsed):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domuser.ErrUserNotFound),
		errors.Is(err, domcart.ErrCartNotFound),
		errors.Is(err, domcart.ErrLineItemNotFound),
		errors.Is(err, domcategory.ErrCategoryNotFound),
		errors.Is(err, domdepartment.ErrDepartmentNotFound),
		errors.Is(err, domsubcategory.ErrSubCategoryNotFound),
		errors.Is(err, dombrand.ErrBrandNotFound),
		errors.Is(err, domvendor.ErrVendorNotFound),
		errors.Is(err, domcomment.ErrCommentNotFound),
		errors.Is(err, domquestion.ErrQuestionNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domorder.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domuser.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domuser.ErrEmailNotVerified),
		errors.Is(err, domuser.ErrWrongAuthProvider),
		errors.Is(err, domuser.ErrAdminCannotChangeAdmin),
		errors.Is(err, domcomment.ErrNotAuthor),
		errors.Is(err, domquestion.ErrNotAuthor):
		respondError(w, http.StatusForbidden, err)
	case domcart.IsStorageError(err):
		hlog.FromRequest(r).Error().Err(err).Msg("cart storage failure")
		respondError(w, http.StatusServiceUnavailable, errStorageUnavailable)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("unhandled error")
		respondError(w, http.StatusInternalServerError, errInternal)
	}
}
