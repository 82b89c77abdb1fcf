package http

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	dombrand "example.com/storefront/internal/domain/brand"
	domcomment "example.com/storefront/internal/domain/comment"
	domdepartment "example.com/storefront/internal/domain/department"
	domquestion "example.com/storefront/internal/domain/question"
	domsubcategory "example.com/storefront/internal/domain/subcategory"
	domvendor "example.com/storefront/internal/domain/vendor"
)

// memTable keeps slugged catalog rows keyed by ID.
type memTable[T any] struct {
	mu       sync.Mutex
	seq      int64
	rows     map[int64]T
	id       func(*T) *int64
	slug     func(*T) string
	notFound error
	exists   error
}

func newMemTable[T any](id func(*T) *int64, slug func(*T) string, notFound, exists error) *memTable[T] {
	return &memTable[T]{rows: make(map[int64]T), id: id, slug: slug, notFound: notFound, exists: exists}
}

func (m *memTable[T]) create(v *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if m.slug(&row) == m.slug(v) {
			return nil, m.exists
		}
	}
	m.seq++
	*m.id(v) = m.seq
	m.rows[m.seq] = *v
	out := *v
	return &out, nil
}

func (m *memTable[T]) update(v *T) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := *m.id(v)
	if _, ok := m.rows[id]; !ok {
		return nil, m.notFound
	}
	for rowID, row := range m.rows {
		if rowID != id && m.slug(&row) == m.slug(v) {
			return nil, m.exists
		}
	}
	m.rows[id] = *v
	out := *v
	return &out, nil
}

func (m *memTable[T]) delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return m.notFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memTable[T]) byID(id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, m.notFound
	}
	return &row, nil
}

func (m *memTable[T]) bySlug(slug string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if m.slug(&row) == slug {
			out := row
			return &out, nil
		}
	}
	return nil, m.notFound
}

func (m *memTable[T]) list(keep func(*T) bool) []*T {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*T
	for _, row := range m.rows {
		row := row
		if keep == nil || keep(&row) {
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return *m.id(out[i]) < *m.id(out[j]) })
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type fakeDepartmentRepo struct {
	*memTable[domdepartment.Department]
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{newMemTable(
		func(d *domdepartment.Department) *int64 { return &d.ID },
		func(d *domdepartment.Department) string { return d.Slug },
		domdepartment.ErrDepartmentNotFound, domdepartment.ErrDepartmentSlugExists,
	)}
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, d *domdepartment.Department) (*domdepartment.Department, error) {
	return f.create(d)
}

func (f *fakeDepartmentRepo) Update(ctx context.Context, d *domdepartment.Department) (*domdepartment.Department, error) {
	return f.update(d)
}

func (f *fakeDepartmentRepo) Delete(ctx context.Context, id int64) error { return f.delete(id) }

func (f *fakeDepartmentRepo) GetByID(ctx context.Context, id int64) (*domdepartment.Department, error) {
	return f.byID(id)
}

func (f *fakeDepartmentRepo) GetBySlug(ctx context.Context, slug string) (*domdepartment.Department, error) {
	return f.bySlug(slug)
}

func (f *fakeDepartmentRepo) List(ctx context.Context) ([]*domdepartment.Department, error) {
	return f.list(nil), nil
}

type fakeSubCategoryRepo struct {
	*memTable[domsubcategory.SubCategory]
}

func newFakeSubCategoryRepo() *fakeSubCategoryRepo {
	return &fakeSubCategoryRepo{newMemTable(
		func(s *domsubcategory.SubCategory) *int64 { return &s.ID },
		func(s *domsubcategory.SubCategory) string { return s.Slug },
		domsubcategory.ErrSubCategoryNotFound, domsubcategory.ErrSubCategoryExists,
	)}
}

func (f *fakeSubCategoryRepo) Create(ctx context.Context, s *domsubcategory.SubCategory) (*domsubcategory.SubCategory, error) {
	return f.create(s)
}

func (f *fakeSubCategoryRepo) Update(ctx context.Context, s *domsubcategory.SubCategory) (*domsubcategory.SubCategory, error) {
	return f.update(s)
}

func (f *fakeSubCategoryRepo) Delete(ctx context.Context, id int64) error { return f.delete(id) }

func (f *fakeSubCategoryRepo) GetByID(ctx context.Context, id int64) (*domsubcategory.SubCategory, error) {
	return f.byID(id)
}

func (f *fakeSubCategoryRepo) GetBySlug(ctx context.Context, slug string) (*domsubcategory.SubCategory, error) {
	return f.bySlug(slug)
}

func (f *fakeSubCategoryRepo) List(ctx context.Context, filter domsubcategory.ListFilter) ([]*domsubcategory.SubCategory, error) {
	return f.list(func(s *domsubcategory.SubCategory) bool {
		if filter.CategoryID != nil && s.CategoryID != *filter.CategoryID {
			return false
		}
		return containsFold(s.Name, filter.Search)
	}), nil
}

type fakeBrandRepo struct {
	*memTable[dombrand.Brand]
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{newMemTable(
		func(b *dombrand.Brand) *int64 { return &b.ID },
		func(b *dombrand.Brand) string { return b.Slug },
		dombrand.ErrBrandNotFound, dombrand.ErrBrandExists,
	)}
}

func (f *fakeBrandRepo) Create(ctx context.Context, b *dombrand.Brand) (*dombrand.Brand, error) {
	return f.create(b)
}

func (f *fakeBrandRepo) Update(ctx context.Context, b *dombrand.Brand) (*dombrand.Brand, error) {
	return f.update(b)
}

func (f *fakeBrandRepo) Delete(ctx context.Context, id int64) error { return f.delete(id) }

func (f *fakeBrandRepo) GetByID(ctx context.Context, id int64) (*dombrand.Brand, error) {
	return f.byID(id)
}

func (f *fakeBrandRepo) GetBySlug(ctx context.Context, slug string) (*dombrand.Brand, error) {
	return f.bySlug(slug)
}

func (f *fakeBrandRepo) List(ctx context.Context, filter dombrand.ListFilter) ([]*dombrand.Brand, error) {
	return f.list(func(b *dombrand.Brand) bool { return containsFold(b.Name, filter.Search) }), nil
}

type fakeVendorRepo struct {
	*memTable[domvendor.Vendor]
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{newMemTable(
		func(v *domvendor.Vendor) *int64 { return &v.ID },
		func(v *domvendor.Vendor) string { return v.Slug },
		domvendor.ErrVendorNotFound, domvendor.ErrVendorSlugExists,
	)}
}

func (f *fakeVendorRepo) Create(ctx context.Context, v *domvendor.Vendor) (*domvendor.Vendor, error) {
	return f.create(v)
}

func (f *fakeVendorRepo) Update(ctx context.Context, v *domvendor.Vendor) (*domvendor.Vendor, error) {
	return f.update(v)
}

func (f *fakeVendorRepo) Delete(ctx context.Context, id int64) error { return f.delete(id) }

func (f *fakeVendorRepo) GetByID(ctx context.Context, id int64) (*domvendor.Vendor, error) {
	return f.byID(id)
}

func (f *fakeVendorRepo) GetBySlug(ctx context.Context, slug string) (*domvendor.Vendor, error) {
	return f.bySlug(slug)
}

func (f *fakeVendorRepo) List(ctx context.Context, filter domvendor.ListFilter) ([]*domvendor.Vendor, error) {
	return f.list(func(v *domvendor.Vendor) bool { return containsFold(v.Name, filter.Search) }), nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments map[string]*domcomment.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*domcomment.Comment)}
}

func (f *fakeCommentRepo) Create(ctx context.Context, c *domcomment.Comment) (*domcomment.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	cp := *c
	cp.ID = fmt.Sprintf("c%d", f.seq)
	f.comments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return domcomment.ErrCommentNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) GetByID(ctx context.Context, id string) (*domcomment.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, domcomment.ErrCommentNotFound
	}
	out := *c
	out.Likes = slices.Clone(c.Likes)
	return &out, nil
}

func (f *fakeCommentRepo) List(ctx context.Context, filter domcomment.ListFilter) ([]*domcomment.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domcomment.Comment{}
	for _, c := range f.comments {
		if c.ProductID != filter.ProductID || !containsFold(c.Title+" "+c.Content, filter.Search) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeCommentRepo) ToggleLike(ctx context.Context, id, userID string) (*domcomment.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, domcomment.ErrCommentNotFound
	}
	c.ToggleLike(userID)
	out := *c
	out.Likes = slices.Clone(c.Likes)
	return &out, nil
}

func (f *fakeCommentRepo) Ratings(ctx context.Context, productID int64) (domcomment.RatingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := domcomment.RatingSummary{ProductID: productID, Average: decimal.Zero}
	var sum int64
	for _, c := range f.comments {
		if c.ProductID != productID {
			continue
		}
		summary.Count++
		summary.Histogram[c.Rate]++
		sum += int64(c.Rate)
	}
	if summary.Count > 0 {
		summary.Average = decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(summary.Count), 2)
	}
	return summary, nil
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	seq       int
	questions map[string]*domquestion.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[string]*domquestion.Question)}
}

func (f *fakeQuestionRepo) Create(ctx context.Context, q *domquestion.Question) (*domquestion.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	cp := *q
	cp.ID = fmt.Sprintf("q%d", f.seq)
	f.questions[cp.ID] = &cp
	return f.copyOf(&cp), nil
}

func (f *fakeQuestionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.questions[id]; !ok {
		return domquestion.ErrQuestionNotFound
	}
	delete(f.questions, id)
	return nil
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id string) (*domquestion.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[id]
	if !ok {
		return nil, domquestion.ErrQuestionNotFound
	}
	return f.copyOf(q), nil
}

func (f *fakeQuestionRepo) List(ctx context.Context, filter domquestion.ListFilter) ([]*domquestion.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domquestion.Question{}
	for _, q := range f.questions {
		if filter.ProductID != nil && q.ProductID != *filter.ProductID {
			continue
		}
		if !containsFold(q.Text, filter.Search) {
			continue
		}
		out = append(out, f.copyOf(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeQuestionRepo) AddAnswer(ctx context.Context, id string, a domquestion.Answer) (*domquestion.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[id]
	if !ok {
		return nil, domquestion.ErrQuestionNotFound
	}
	a.ID = fmt.Sprintf("%s-a%d", id, len(q.Answers)+1)
	q.Answers = append(q.Answers, a)
	return f.copyOf(q), nil
}

func (f *fakeQuestionRepo) Vote(ctx context.Context, id, userID string, value int) (*domquestion.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[id]
	if !ok {
		return nil, domquestion.ErrQuestionNotFound
	}
	q.CastVote(userID, value)
	return f.copyOf(q), nil
}

func (f *fakeQuestionRepo) copyOf(q *domquestion.Question) *domquestion.Question {
	out := *q
	out.Answers = slices.Clone(q.Answers)
	out.Votes = slices.Clone(q.Votes)
	return &out
}
