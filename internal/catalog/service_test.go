package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCreateCategorySlugsName(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Summer Sale 2026", Description: "seasonal"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Slug != "summer-sale-2026" {
		t.Fatalf("expected slug summer-sale-2026, got %q", c.Slug)
	}
	if c.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := svc.GetCategoryBySlug(ctx, "summer-sale-2026")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("slug lookup returned wrong category")
	}
}

func TestCreateCategorySlugConflict(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "Phones"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Different casing, same slug.
	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "PHONES"}); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestCreateCategoryRequiresName(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "   "}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestUpdateCategoryReslugsOnRename(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Phones"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.UpdateCategory(ctx, c.ID, CategoryInput{Name: "Mobile Phones"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Slug != "mobile-phones" {
		t.Fatalf("expected reslugged category, got %q", updated.Slug)
	}
	if _, err := svc.GetCategoryBySlug(ctx, "phones"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old slug must be gone, got %v", err)
	}
}

func TestProductValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Phones"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	cases := []ProductInput{
		{CategoryID: c.ID, Name: "", PriceMinor: 100, Currency: "USD"},
		{CategoryID: "", Name: "Phone X", PriceMinor: 100, Currency: "USD"},
		{CategoryID: c.ID, Name: "Phone X", PriceMinor: -1, Currency: "USD"},
		{CategoryID: c.ID, Name: "Phone X", PriceMinor: 100, Currency: "DOLLARS"},
	}
	for i, in := range cases {
		if _, err := svc.CreateProduct(ctx, in); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}

	if _, err := svc.CreateProduct(ctx, ProductInput{CategoryID: "missing", Name: "Phone X", PriceMinor: 100, Currency: "USD"}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("unknown category: expected ErrInvalidArgument, got %v", err)
	}
}

func TestCreateProductNormalizesCurrency(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Phones"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	p, err := svc.CreateProduct(ctx, ProductInput{CategoryID: c.ID, Name: "Phone X", PriceMinor: 99900, Currency: "usd"})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if p.Currency != "USD" {
		t.Fatalf("expected uppercased currency, got %q", p.Currency)
	}
	if p.Slug != "phone-x" {
		t.Fatalf("expected slug phone-x, got %q", p.Slug)
	}
}

func TestListProductsPagination(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Phones"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	for i := 0; i < 5; i++ {
		in := ProductInput{CategoryID: c.ID, Name: fmt.Sprintf("Phone %d", i), PriceMinor: 100, Currency: "USD"}
		if _, err := svc.CreateProduct(ctx, in); err != nil {
			t.Fatalf("create product %d: %v", i, err)
		}
	}

	page, err := svc.ListProducts(ctx, ProductFilter{CategoryID: c.ID, Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("expected total 5, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Items[0].Name != "Phone 2" {
		t.Fatalf("expected offset to skip two items, got %q", page.Items[0].Name)
	}
}

func TestListClampsPageParams(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	page, err := svc.ListCategories(ctx, -1, -5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != defaultPageSize || page.Offset != 0 {
		t.Fatalf("expected defaults %d/0, got %d/%d", defaultPageSize, page.Limit, page.Offset)
	}

	page, err = svc.ListCategories(ctx, 1000, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != maxPageSize {
		t.Fatalf("expected limit clamped to %d, got %d", maxPageSize, page.Limit)
	}
}

func TestListProductsFiltersByCategory(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	phones, err := svc.CreateCategory(ctx, CategoryInput{Name: "Phones"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	laptops, err := svc.CreateCategory(ctx, CategoryInput{Name: "Laptops"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, ProductInput{CategoryID: phones.ID, Name: "Phone X", PriceMinor: 100, Currency: "USD"}); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, ProductInput{CategoryID: laptops.ID, Name: "Laptop Y", PriceMinor: 100, Currency: "USD"}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	page, err := svc.ListProducts(ctx, ProductFilter{CategoryID: phones.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].Name != "Phone X" {
		t.Fatalf("expected only the phones product, got %+v", page)
	}
}
