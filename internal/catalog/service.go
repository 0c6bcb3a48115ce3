package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service provides category and product management. Slugs are derived from
// names; a name that slugs to an existing slug is a conflict, mirroring the
// unique index underneath.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

/* ===================== CATEGORIES ===================== */

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Category{}, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	now := s.clock().UTC()
	return s.repo.CreateCategory(ctx, Category{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *Service) GetCategory(ctx context.Context, id string) (Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *Service) GetCategoryBySlug(ctx context.Context, categorySlug string) (Category, error) {
	return s.repo.GetCategoryBySlug(ctx, categorySlug)
}

func (s *Service) ListCategories(ctx context.Context, limit, offset int) (CategoryPage, error) {
	limit, offset = clampPage(limit, offset)
	items, total, err := s.repo.ListCategories(ctx, limit, offset)
	if err != nil {
		return CategoryPage{}, err
	}
	return CategoryPage{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Category{}, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	c.Name = in.Name
	c.Slug = slug.Make(in.Name)
	c.Description = in.Description
	c.UpdatedAt = s.clock().UTC()
	return s.repo.UpdateCategory(ctx, c)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

/* ===================== PRODUCTS ===================== */

type ProductInput struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceMinor  int64  `json:"price_minor"`
	Currency    string `json:"currency"`
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	if err := validateProductInput(in); err != nil {
		return Product{}, err
	}
	now := s.clock().UTC()
	return s.repo.CreateProduct(ctx, Product{
		ID:          uuid.NewString(),
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		PriceMinor:  in.PriceMinor,
		Currency:    strings.ToUpper(in.Currency),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, f ProductFilter) (ProductPage, error) {
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset)
	items, total, err := s.repo.ListProducts(ctx, f)
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	if err := validateProductInput(in); err != nil {
		return Product{}, err
	}
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.CategoryID = in.CategoryID
	p.Name = in.Name
	p.Slug = slug.Make(in.Name)
	p.Description = in.Description
	p.PriceMinor = in.PriceMinor
	p.Currency = strings.ToUpper(in.Currency)
	p.UpdatedAt = s.clock().UTC()
	return s.repo.UpdateProduct(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.DeleteProduct(ctx, id)
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if in.CategoryID == "" {
		return fmt.Errorf("%w: category_id is required", ErrInvalidArgument)
	}
	if in.PriceMinor < 0 {
		return fmt.Errorf("%w: price_minor must not be negative", ErrInvalidArgument)
	}
	if len(in.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidArgument)
	}
	return nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
