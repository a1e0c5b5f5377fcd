// Package memstore is an in-memory stand-in for the Postgres repositories. It
// follows the same paging, sorting, filtering and cascade rules.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"anoa.com/productcatalog/internal/entity"
	"anoa.com/productcatalog/pkg/apperror"
	"anoa.com/productcatalog/pkg/pagination"
)

type Store struct {
	mu         sync.Mutex
	categories map[uint]entity.Category
	products   map[uint]entity.Product
	catOrder   []uint
	prodOrder  []uint
	nextCat    uint
	nextProd   uint

	// Err, when set, is returned by every call.
	Err error
	// Calls counts repository calls by method name.
	Calls map[string]int
}

func New() *Store {
	return &Store{
		categories: make(map[uint]entity.Category),
		products:   make(map[uint]entity.Product),
		Calls:      make(map[string]int),
	}
}

func (s *Store) Categories() *Categories { return &Categories{s: s} }

func (s *Store) Products() *Products { return &Products{s: s} }

func (s *Store) enter(method string) error {
	s.Calls[method]++
	return s.Err
}

// SeedCategory inserts c directly and returns its id.
func (s *Store) SeedCategory(name, description string) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := entity.Category{Name: name, Description: description}
	s.insertCategory(&c)
	return c.ID
}

// SeedProduct inserts p directly and returns its id.
func (s *Store) SeedProduct(p entity.Product) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertProduct(&p)
	return p.ID
}

func (s *Store) insertCategory(c *entity.Category) {
	s.nextCat++
	c.ID = s.nextCat
	c.Products = nil
	s.categories[c.ID] = *c
	s.catOrder = append(s.catOrder, c.ID)
}

func (s *Store) insertProduct(p *entity.Product) {
	s.nextProd++
	p.ID = s.nextProd
	stored := *p
	stored.Category = nil
	s.products[p.ID] = stored
	s.prodOrder = append(s.prodOrder, p.ID)
}

func removeID(ids []uint, id uint) []uint {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func matches(filter string, fields ...string) bool {
	if filter == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(f, filter) {
			return true
		}
	}
	return false
}

// sortByKey mirrors pagination.OrderBy: the requested key, then id in the same
// direction; unknown keys sort by id ascending.
func sortByKey[T any](items []T, keys map[string]func(a, b T) bool, q pagination.Query, id func(T) uint) {
	less, ok := keys[strings.ToLower(strings.TrimSpace(q.SortBy))]
	desc := ok && q.Descending()
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if desc {
			a, b = b, a
		}
		if ok {
			if less(a, b) {
				return true
			}
			if less(b, a) {
				return false
			}
		}
		return id(a) < id(b)
	})
}

func page[T any](items []T, q pagination.Query) []T {
	start := q.Offset()
	if start < 0 {
		start = 0
	}
	if start >= len(items) {
		return []T{}
	}
	end := start + q.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type Categories struct{ s *Store }

var categoryLess = map[string]func(a, b *entity.Category) bool{
	"id":          func(a, b *entity.Category) bool { return a.ID < b.ID },
	"name":        func(a, b *entity.Category) bool { return a.Name < b.Name },
	"description": func(a, b *entity.Category) bool { return a.Description < b.Description },
}

func (r *Categories) List(ctx context.Context, q pagination.Query) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("categories.List"); err != nil {
		return nil, err
	}

	var out []*entity.Category
	for _, id := range r.s.catOrder {
		c := r.s.categories[id]
		if matches(q.Filter, c.Name, c.Description) {
			out = append(out, &c)
		}
	}
	sortByKey(out, categoryLess, q, func(c *entity.Category) uint { return c.ID })
	return page(out, q), nil
}

func (r *Categories) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("categories.FindByID"); err != nil {
		return nil, err
	}

	c, ok := r.s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, apperror.ErrNotFound)
	}
	return &c, nil
}

func (r *Categories) Exists(ctx context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("categories.Exists"); err != nil {
		return false, err
	}
	_, ok := r.s.categories[id]
	return ok, nil
}

func (r *Categories) Create(ctx context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("categories.Create"); err != nil {
		return err
	}
	r.s.insertCategory(c)
	return nil
}

func (r *Categories) Update(ctx context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("categories.Update"); err != nil {
		return err
	}
	if _, ok := r.s.categories[c.ID]; !ok {
		return fmt.Errorf("category %d: %w", c.ID, apperror.ErrNotFound)
	}
	r.s.categories[c.ID] = entity.Category{ID: c.ID, Name: c.Name, Description: c.Description}
	return nil
}

// Delete cascades to the category's products.
func (r *Categories) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("categories.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.categories[id]; !ok {
		return nil
	}
	delete(r.s.categories, id)
	r.s.catOrder = removeID(r.s.catOrder, id)
	for pid, p := range r.s.products {
		if p.CategoryID == id {
			delete(r.s.products, pid)
			r.s.prodOrder = removeID(r.s.prodOrder, pid)
		}
	}
	return nil
}

func (r *Categories) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("categories.Count"); err != nil {
		return 0, err
	}
	return int64(len(r.s.categories)), nil
}

type Products struct{ s *Store }

var productLess = map[string]func(a, b *entity.Product) bool{
	"id":          func(a, b *entity.Product) bool { return a.ID < b.ID },
	"name":        func(a, b *entity.Product) bool { return a.Name < b.Name },
	"price":       func(a, b *entity.Product) bool { return a.Price.LessThan(b.Price) },
	"description": func(a, b *entity.Product) bool { return a.Description < b.Description },
	"categoryid":  func(a, b *entity.Product) bool { return a.CategoryID < b.CategoryID },
}

func (r *Products) withCategory(p entity.Product) *entity.Product {
	if c, ok := r.s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return &p
}

func (r *Products) list(q pagination.Query, keep func(entity.Product) bool) []*entity.Product {
	var out []*entity.Product
	for _, id := range r.s.prodOrder {
		p := r.s.products[id]
		if keep(p) && matches(q.Filter, p.Name, p.Description) {
			out = append(out, r.withCategory(p))
		}
	}
	sortByKey(out, productLess, q, func(p *entity.Product) uint { return p.ID })
	return page(out, q)
}

func (r *Products) List(ctx context.Context, q pagination.Query) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.List"); err != nil {
		return nil, err
	}
	return r.list(q, func(entity.Product) bool { return true }), nil
}

func (r *Products) ListByCategory(ctx context.Context, categoryID uint, q pagination.Query) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.ListByCategory"); err != nil {
		return nil, err
	}
	return r.list(q, func(p entity.Product) bool { return p.CategoryID == categoryID }), nil
}

func (r *Products) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.FindByID"); err != nil {
		return nil, err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
	}
	return r.withCategory(p), nil
}

func (r *Products) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.Create"); err != nil {
		return err
	}
	if _, ok := r.s.categories[p.CategoryID]; !ok {
		return fmt.Errorf("foreign key violation on category %d", p.CategoryID)
	}
	r.s.insertProduct(p)
	return nil
}

func (r *Products) Update(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.Update"); err != nil {
		return err
	}
	if _, ok := r.s.products[p.ID]; !ok {
		return fmt.Errorf("product %d: %w", p.ID, apperror.ErrNotFound)
	}
	stored := *p
	stored.Category = nil
	r.s.products[p.ID] = stored
	return nil
}

func (r *Products) Delete(ctx context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.products[id]; ok {
		delete(r.s.products, id)
		r.s.prodOrder = removeID(r.s.prodOrder, id)
	}
	return nil
}

func (r *Products) Count(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("products.Count"); err != nil {
		return 0, err
	}
	return int64(len(r.s.products)), nil
}
