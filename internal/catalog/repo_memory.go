package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development.
//
// NOTE: This is not intended for production; use PostgresRepo.
type MemoryRepo struct {
	mu         sync.Mutex
	categories map[string]Category
	products   map[string]Product
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		categories: make(map[string]Category),
		products:   make(map[string]Product),
	}
}

func (r *MemoryRepo) CreateCategory(ctx context.Context, c Category) (Category, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Slug == c.Slug {
			return Category{}, ErrSlugTaken
		}
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) GetCategory(ctx context.Context, id string) (Category, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok {
		return Category{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepo) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (r *MemoryRepo) ListCategories(ctx context.Context, limit, offset int) ([]Category, int64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return pageOf(all, limit, offset), int64(len(all)), nil
}

func (r *MemoryRepo) UpdateCategory(ctx context.Context, c Category) (Category, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return Category{}, ErrNotFound
	}
	for _, existing := range r.categories {
		if existing.ID != c.ID && existing.Slug == c.Slug {
			return Category{}, ErrSlugTaken
		}
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) DeleteCategory(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *MemoryRepo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[p.CategoryID]; !ok {
		return Product{}, fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, p.CategoryID)
	}
	for _, existing := range r.products {
		if existing.Slug == p.Slug {
			return Product{}, ErrSlugTaken
		}
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) GetProduct(ctx context.Context, id string) (Product, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) ListProducts(ctx context.Context, f ProductFilter) ([]Product, int64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []Product
	for _, p := range r.products {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return pageOf(all, f.Limit, f.Offset), int64(len(all)), nil
}

func (r *MemoryRepo) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return Product{}, ErrNotFound
	}
	if _, ok := r.categories[p.CategoryID]; !ok {
		return Product{}, fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, p.CategoryID)
	}
	for _, existing := range r.products {
		if existing.ID != p.ID && existing.Slug == p.Slug {
			return Product{}, ErrSlugTaken
		}
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *MemoryRepo) DeleteProduct(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func pageOf[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
