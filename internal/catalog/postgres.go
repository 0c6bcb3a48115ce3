package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"commerce-platform/pkg/utils"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresRepo implements Repository on database/sql with the pgx stdlib
// driver.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

/* ===================== CATEGORIES ===================== */

const categoryColumns = `id, name, slug, description, created_at, updated_at`

func (r *PostgresRepo) CreateCategory(ctx context.Context, c Category) (Category, error) {
	const q = `
INSERT INTO categories (id, name, slug, description, created_at, updated_at)
VALUES ($1,$2,$3,NULLIF($4,''),$5,$6)
RETURNING ` + categoryColumns + `
`
	out, err := scanCategory(r.db.QueryRowContext(ctx, q,
		c.ID, c.Name, c.Slug, c.Description, c.CreatedAt, c.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, ErrSlugTaken
		}
		return Category{}, err
	}
	return out, nil
}

func (r *PostgresRepo) GetCategory(ctx context.Context, id string) (Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) GetCategoryBySlug(ctx context.Context, slug string) (Category, error) {
	const q = `SELECT ` + categoryColumns + ` FROM categories WHERE slug = $1`
	return scanCategory(r.db.QueryRowContext(ctx, q, slug))
}

func (r *PostgresRepo) ListCategories(ctx context.Context, limit, offset int) ([]Category, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT ` + categoryColumns + `
FROM categories
ORDER BY name
LIMIT $1 OFFSET $2
`
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &desc, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		c.Description = desc.String
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) UpdateCategory(ctx context.Context, c Category) (Category, error) {
	const q = `
UPDATE categories
SET name = $2, slug = $3, description = NULLIF($4,''), updated_at = $5
WHERE id = $1
RETURNING ` + categoryColumns + `
`
	out, err := scanCategory(r.db.QueryRowContext(ctx, q,
		c.ID, c.Name, c.Slug, c.Description, c.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, ErrSlugTaken
		}
		return Category{}, err
	}
	return out, nil
}

func (r *PostgresRepo) DeleteCategory(ctx context.Context, id string) error {
	const q = `DELETE FROM categories WHERE id = $1`
	return r.exec(ctx, q, id)
}

/* ===================== PRODUCTS ===================== */

const productColumns = `id, category_id, name, slug, description, price_minor, currency, created_at, updated_at`

func (r *PostgresRepo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	var out Product
	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		// The category existence check and the insert live in one
		// transaction so a concurrent category delete cannot orphan the row.
		if err := categoryExistsTx(ctx, tx, p.CategoryID); err != nil {
			return err
		}
		const q = `
INSERT INTO products (id, category_id, name, slug, description, price_minor, currency, created_at, updated_at)
VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,$7,$8,$9)
RETURNING ` + productColumns + `
`
		got, err := scanProduct(tx.QueryRowContext(ctx, q,
			p.ID, p.CategoryID, p.Name, p.Slug, p.Description, p.PriceMinor, p.Currency, p.CreatedAt, p.UpdatedAt,
		))
		if err != nil {
			return err
		}
		out = got
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Product{}, ErrSlugTaken
		}
		return Product{}, err
	}
	return out, nil
}

func (r *PostgresRepo) GetProduct(ctx context.Context, id string) (Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) ListProducts(ctx context.Context, f ProductFilter) ([]Product, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM products WHERE ($1 = '' OR category_id = $1)`, f.CategoryID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT ` + productColumns + `
FROM products
WHERE ($1 = '' OR category_id = $1)
ORDER BY name
LIMIT $2 OFFSET $3
`
	rows, err := r.db.QueryContext(ctx, q, f.CategoryID, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &desc, &p.PriceMinor, &p.Currency, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		p.Description = desc.String
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) UpdateProduct(ctx context.Context, p Product) (Product, error) {
	var out Product
	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if err := categoryExistsTx(ctx, tx, p.CategoryID); err != nil {
			return err
		}
		const q = `
UPDATE products
SET category_id = $2, name = $3, slug = $4, description = NULLIF($5,''),
    price_minor = $6, currency = $7, updated_at = $8
WHERE id = $1
RETURNING ` + productColumns + `
`
		got, err := scanProduct(tx.QueryRowContext(ctx, q,
			p.ID, p.CategoryID, p.Name, p.Slug, p.Description, p.PriceMinor, p.Currency, p.UpdatedAt,
		))
		if err != nil {
			return err
		}
		out = got
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return Product{}, ErrSlugTaken
		}
		return Product{}, err
	}
	return out, nil
}

func (r *PostgresRepo) DeleteProduct(ctx context.Context, id string) error {
	const q = `DELETE FROM products WHERE id = $1`
	return r.exec(ctx, q, id)
}

/* ===================== HELPERS ===================== */

func categoryExistsTx(ctx context.Context, tx *sql.Tx, categoryID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id = $1`, categoryID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidArgument, categoryID)
	}
	return err
}

func scanCategory(row *sql.Row) (Category, error) {
	var c Category
	var desc sql.NullString
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &desc, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	c.Description = desc.String
	return c, nil
}

func scanProduct(row *sql.Row) (Product, error) {
	var p Product
	var desc sql.NullString
	err := row.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &desc, &p.PriceMinor, &p.Currency, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	p.Description = desc.String
	return p, nil
}

func (r *PostgresRepo) exec(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
