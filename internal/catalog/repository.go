package catalog

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrSlugTaken       = errors.New("slug already in use")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ProductFilter scopes product listings. CategoryID empty means all
// categories.
type ProductFilter struct {
	CategoryID string
	Limit      int
	Offset     int
}

// Repository is the catalog storage contract. Implementations surface
// unique-slug violations as ErrSlugTaken and missing rows as ErrNotFound.
type Repository interface {
	CreateCategory(ctx context.Context, c Category) (Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (Category, error)
	ListCategories(ctx context.Context, limit, offset int) ([]Category, int64, error)
	UpdateCategory(ctx context.Context, c Category) (Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, p Product) (Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	UpdateProduct(ctx context.Context, p Product) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
