package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shop-service/internal/domain"
)

// ProductRepository encapsulates product persistence, including category links.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productSelect = `
        SELECT p.id, p.name, p.description, p.price, p.stock, p.created_at, p.updated_at,
            COALESCE(array_agg(pc.category_id::text) FILTER (WHERE pc.category_id IS NOT NULL), '{}')
        FROM products p
        LEFT JOIN product_categories pc ON pc.product_id = p.id`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO products (name, description, price, stock)
            VALUES ($1,$2,$3,$4)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, query,
			product.Name,
			product.Description,
			product.Price,
			product.Stock,
		).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return err
		}
		return linkCategories(ctx, tx, product.ID, product.CategoryIDs)
	})
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            UPDATE products SET name=$1, description=$2, price=$3, stock=$4, updated_at=NOW()
            WHERE id=$5
            RETURNING updated_at`
		if err := tx.QueryRow(ctx, query,
			product.Name,
			product.Description,
			product.Price,
			product.Stock,
			product.ID,
		).Scan(&product.UpdatedAt); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM product_categories WHERE product_id=$1`, product.ID); err != nil {
			return err
		}
		return linkCategories(ctx, tx, product.ID, product.CategoryIDs)
	})
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := productSelect + ` WHERE p.id=$1 GROUP BY p.id`
	var product domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	query := productSelect + ` GROUP BY p.id ORDER BY p.created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, rows.Err()
}

func linkCategories(ctx context.Context, tx pgx.Tx, productID string, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			productID, categoryID,
		); err != nil {
			return err
		}
	}
	return nil
}

func scanProduct(row pgx.Row, product *domain.Product) error {
	return row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.CategoryIDs,
	)
}
