package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	domcart "example.com/storefront/internal/domain/cart"
	domcategory "example.com/storefront/internal/domain/category"
	domorder "example.com/storefront/internal/domain/order"
	domproduct "example.com/storefront/internal/domain/product"
	domuser "example.com/storefront/internal/domain/user"
	"example.com/storefront/internal/infra/payment"
	"example.com/storefront/internal/infra/security"
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

// fakeUserRepo keeps users and their embedded carts in memory.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domuser.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domuser.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, domuser.ErrEmailAlreadyUsed
		}
	}
	f.seq++
	cp := *u
	cp.ID = fmt.Sprintf("%024x", f.seq)
	cp.Cart = *domcart.New(cp.ID)
	cp.CreatedAt = time.Now()
	f.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domuser.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domuser.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, domuser.ErrUserNotFound
}

func (f *fakeUserRepo) List(ctx context.Context, filter domuser.ListUsersFilter) ([]*domuser.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domuser.User
	for _, u := range f.users {
		if filter.RoleCode != nil && u.RoleCode != *filter.RoleCode {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id string, role domuser.RoleCode) (*domuser.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domuser.ErrUserNotFound
	}
	u.RoleCode = role
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) MarkEmailVerified(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u.EmailVerified = true
			return nil
		}
	}
	return domuser.ErrUserNotFound
}

func (f *fakeUserRepo) AddShippingAddress(ctx context.Context, id string, addr domuser.Address) (*domuser.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, domuser.ErrUserNotFound
	}
	addr.ID = fmt.Sprintf("addr-%d", len(u.ShippingAddresses)+1)
	u.ShippingAddresses = append(u.ShippingAddresses, addr)
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return domuser.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// Cart store over the same records, applying the domain ledger in place.

func (f *fakeUserRepo) withCart(ownerID string, fn func(c *domcart.Cart) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[ownerID]
	if !ok {
		return domcart.ErrCartNotFound
	}
	next := u.Cart.Clone()
	if err := fn(next); err != nil {
		return err
	}
	u.Cart = *next
	return nil
}

type fakeCartStore struct {
	users   *fakeUserRepo
	failing error
}

func (s *fakeCartStore) Get(ctx context.Context, ownerID string) (*domcart.Cart, error) {
	var out *domcart.Cart
	err := s.users.withCart(ownerID, func(c *domcart.Cart) error {
		out = c.Clone()
		return nil
	})
	return out, err
}

func (s *fakeCartStore) AddLineItem(ctx context.Context, ownerID string, productID, quantity int64, unitPrice decimal.Decimal) (domcart.AddResult, error) {
	if s.failing != nil {
		return domcart.AddResult{}, domcart.NewStorageError("add", s.failing)
	}
	var res domcart.AddResult
	err := s.users.withCart(ownerID, func(c *domcart.Cart) error {
		var err error
		res, err = c.Add(productID, quantity, unitPrice)
		return err
	})
	return res, err
}

func (s *fakeCartStore) RemoveLineItem(ctx context.Context, ownerID string, productID int64, unitPrice decimal.Decimal) (domcart.RemoveResult, error) {
	var res domcart.RemoveResult
	err := s.users.withCart(ownerID, func(c *domcart.Cart) error {
		var err error
		res, err = c.Remove(productID, unitPrice)
		return err
	})
	return res, err
}

func (s *fakeCartStore) AdjustQuantity(ctx context.Context, ownerID string, productID, newQuantity int64, unitPrice decimal.Decimal) (domcart.AdjustResult, error) {
	var res domcart.AdjustResult
	err := s.users.withCart(ownerID, func(c *domcart.Cart) error {
		var err error
		res, err = c.Adjust(productID, newQuantity, unitPrice)
		return err
	})
	return res, err
}

func (s *fakeCartStore) Consume(ctx context.Context, ownerID string, lines []domcart.ConsumedLine) (*domcart.Cart, error) {
	var out *domcart.Cart
	err := s.users.withCart(ownerID, func(c *domcart.Cart) error {
		c.Consume(lines)
		out = c.Clone()
		return nil
	})
	return out, err
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	seq        int64
	categories map[int64]*domcategory.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		seq: 1,
		categories: map[int64]*domcategory.Category{
			1: {ID: 1, Department: "home", Name: "Kitchen", Slug: "kitchen", IsActive: true},
		},
	}
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.categories {
		if existing.Slug == c.Slug {
			return nil, domcategory.ErrCategorySlugExists
		}
	}
	f.seq++
	cp := *c
	cp.ID = f.seq
	f.categories[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[c.ID]; !ok {
		return nil, domcategory.ErrCategoryNotFound
	}
	cp := *c
	f.categories[c.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return domcategory.ErrCategoryNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id int64) (*domcategory.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, domcategory.ErrCategoryNotFound
	}
	out := *c
	return &out, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context, filter domcategory.ListFilter) ([]*domcategory.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domcategory.Category
	for _, c := range f.categories {
		if filter.OnlyActive && !c.IsActive {
			continue
		}
		if filter.Department != "" && c.Department != filter.Department {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	seq      int64
	products map[int64]*domproduct.Product
}

// Catalog: 1 mug (on sale), 2 poster (paused), 3 lamp (sold out),
// 4 sticker (removed).
func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		seq: 4,
		products: map[int64]*domproduct.Product{
			1: {ID: 1, Title: "Mug", Slug: "mug", SKU: "MUG", BasePrice: decimal.RequireFromString("12.50"), Currency: "USD", Stock: 10, CategoryID: 1, State: domproduct.StateActive},
			2: {ID: 2, Title: "Poster", Slug: "poster", SKU: "POSTER", BasePrice: decimal.RequireFromString("8.00"), Currency: "USD", Stock: 5, CategoryID: 1, State: domproduct.StatePaused},
			3: {ID: 3, Title: "Lamp", Slug: "lamp", SKU: "LAMP", BasePrice: decimal.RequireFromString("40.00"), Currency: "USD", Stock: 0, CategoryID: 1, State: domproduct.StateActive},
			4: {ID: 4, Title: "Sticker", Slug: "sticker", SKU: "STICKER", BasePrice: decimal.RequireFromString("1.10"), Currency: "USD", Stock: 100, CategoryID: 1, State: domproduct.StateRemoved},
		},
	}
}

func (f *fakeProductRepo) setPrice(id int64, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id].BasePrice = decimal.RequireFromString(price)
}

func (f *fakeProductRepo) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.products {
		if existing.Slug == p.Slug || existing.SKU == p.SKU {
			return nil, domproduct.ErrSlugExists
		}
	}
	f.seq++
	cp := *p
	cp.ID = f.seq
	f.products[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return nil, domproduct.ErrProductNotFound
	}
	cp := *p
	f.products[p.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || p.State == domproduct.StateRemoved {
		return domproduct.ErrProductNotFound
	}
	p.State = domproduct.StateRemoved
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, domproduct.ErrProductNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakeProductRepo) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domproduct.Product
	for _, p := range f.products {
		if p.State == domproduct.StateRemoved {
			continue
		}
		if filter.OnlyActive && p.State != domproduct.StateActive {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.VendorID != nil && p.VendorID != *filter.VendorID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domproduct.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	mu       sync.Mutex
	products *fakeProductRepo
	orders   map[int64]*domorder.Order
	seq      int64
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{products: products, orders: make(map[int64]*domorder.Order)}
}

func (f *fakeOrderRepo) CreateFromCart(ctx context.Context, userID string, items []domcart.LineItem, payment domorder.PaymentMethod) (*domorder.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(items) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	f.seq++
	order := &domorder.Order{
		ID:            f.seq,
		UserID:        userID,
		Status:        domorder.StatusPending,
		PaymentMethod: payment,
		Currency:      "USD",
		TotalAmount:   decimal.Zero,
		CreatedAt:     time.Now(),
	}
	for _, item := range items {
		p, err := f.products.GetByID(ctx, item.ProductID)
		if err != nil || p.State != domproduct.StateActive || p.Stock < item.Quantity {
			return nil, domorder.ErrCheckoutValidation
		}
		line := domorder.OrderItem{OrderID: order.ID, ProductID: p.ID, Name: p.Title, Price: p.BasePrice, Quantity: item.Quantity}
		order.Items = append(order.Items, line)
		order.TotalAmount = order.TotalAmount.Add(line.LineTotal())
	}
	f.orders[order.ID] = order
	out := *order
	return &out, nil
}

func (f *fakeOrderRepo) AttachPaymentSession(ctx context.Context, id int64, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domorder.ErrOrderNotFound
	}
	o.PaymentSessionID = sessionID
	return nil
}

func (f *fakeOrderRepo) List(ctx context.Context) ([]*domorder.Order, error) {
	return f.list("")
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID string) ([]*domorder.Order, error) {
	return f.list(userID)
}

func (f *fakeOrderRepo) list(userID string) ([]*domorder.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domorder.Order
	for _, o := range f.orders {
		if userID != "" && o.UserID != userID {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	out := *o
	return &out, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error) {
	f.mu.Lock()
	o, ok := f.orders[id]
	if ok {
		o.Status = status
	}
	f.mu.Unlock()
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	return f.GetByID(ctx, id)
}

func (f *fakeOrderRepo) HasPurchased(ctx context.Context, userID string, productID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.UserID != userID || (o.Status != domorder.StatusPaid && o.Status != domorder.StatusShipped) {
			continue
		}
		for _, it := range o.Items {
			if it.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domcart.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e domcart.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []domcart.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domcart.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeMailer struct {
	mu    sync.Mutex
	links map[string]string
}

func (m *fakeMailer) SendVerification(ctx context.Context, to, name, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.links == nil {
		m.links = make(map[string]string)
	}
	m.links[to] = link
	return nil
}

func (m *fakeMailer) tokenFor(t *testing.T, email string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[email]
	require.True(t, ok, "no verification mail for %s", email)
	return link[strings.LastIndex(link, "/")+1:]
}

type testEnv struct {
	router        http.Handler
	users         *fakeUserRepo
	carts         *fakeCartStore
	products      *fakeProductRepo
	categories    *fakeCategoryRepo
	departments   *fakeDepartmentRepo
	subcategories *fakeSubCategoryRepo
	brands        *fakeBrandRepo
	vendors       *fakeVendorRepo
	comments      *fakeCommentRepo
	questions     *fakeQuestionRepo
	orders        *fakeOrderRepo
	events        *recordingPublisher
	mailer        *fakeMailer
	tokens        *security.JWTService
	passwords     *security.BcryptService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:         newFakeUserRepo(),
		products:      newFakeProductRepo(),
		categories:    newFakeCategoryRepo(),
		departments:   newFakeDepartmentRepo(),
		subcategories: newFakeSubCategoryRepo(),
		brands:        newFakeBrandRepo(),
		vendors:       newFakeVendorRepo(),
		comments:      newFakeCommentRepo(),
		questions:     newFakeQuestionRepo(),
		events:        &recordingPublisher{},
		mailer:        &fakeMailer{},
		tokens:        security.NewJWTService("test-secret", "test-email-secret", time.Hour),
		passwords:     security.NewBcryptService(bcrypt.MinCost),
	}
	env.carts = &fakeCartStore{users: env.users}
	env.orders = newFakeOrderRepo(env.products)

	log := zerolog.Nop()
	cartSvc := cartuc.NewService(env.carts, env.products, env.events, log)
	api := NewAPI(Dependencies{
		AuthService:        authuc.NewService(env.users, env.passwords, env.tokens, env.mailer, "http://shop.test", log),
		UserService:        useruc.NewService(env.users),
		DepartmentService:  departmentuc.NewService(env.departments, env.categories),
		CategoryService:    categoryuc.NewService(env.categories),
		SubCategoryService: subcategoryuc.NewService(env.subcategories, env.categories),
		BrandService:       branduc.NewService(env.brands),
		VendorService:      vendoruc.NewService(env.vendors, env.products),
		ProductService:     productuc.NewService(env.products, env.categories, env.vendors),
		CommentService:     commentuc.NewService(env.comments, env.products, env.orders, log),
		QuestionService:    questionuc.NewService(env.questions, env.products),
		CartService:        cartSvc,
		CheckoutService:    checkoutuc.NewService(cartSvc, env.orders, payment.NewFakeGateway("https://pay.test/session"), "https://shop.test/success", "https://shop.test/cancel", log),
		OrderService:       orderuc.NewService(env.orders),
		TokenService:       env.tokens,
		Logger:             log,
		ClientOrigin:       "http://shop.test",
		TokenTTL:           time.Hour,
		HealthChecks: map[string]HealthCheck{
			"memory": func(ctx context.Context) error { return nil },
		},
	})
	env.router = api.Router()
	return env
}

// seedUser stores a verified local account and returns it with a token.
func (e *testEnv) seedUser(t *testing.T, email string, role domuser.RoleCode) (*domuser.User, string) {
	t.Helper()
	hash, err := e.passwords.Hash("secret123")
	require.NoError(t, err)
	u, err := e.users.Create(context.Background(), &domuser.User{
		Username:      strings.Split(email, "@")[0],
		Email:         email,
		PasswordHash:  hash,
		EmailVerified: true,
		AuthProvider:  domuser.ProviderLocal,
		RoleCode:      role,
	})
	require.NoError(t, err)
	token, err := e.tokens.GenerateToken(u)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
