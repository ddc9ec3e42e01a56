package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
)

const productColumns = `id, name, category, total_quantity, available_quantity, rate, COALESCE(image, ''), COALESCE(description, ''), created_on, updated_on`

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(row scanner) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.TotalQuantity, &p.AvailableQuantity, &p.Rate, &p.Image, &p.Description, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, name, category, total_quantity, available_quantity, rate, image, description, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	now := time.Now().UTC()
	p.CreatedOn = now
	p.UpdatedOn = now
	_, err := conn(ctx, r.db).ExecContext(ctx, query, p.ID, p.Name, p.Category, p.TotalQuantity, p.AvailableQuantity, p.Rate, p.Image, p.Description, p.CreatedOn, p.UpdatedOn)
	return mapError(err)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(conn(ctx, r.db).QueryRowContext(ctx, query, id))
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`
	logger.DatabaseCall("SELECT", "products")
	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	logger.DatabaseResult("SELECT", int64(len(products)), rows.Err())
	return products, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products
	          SET name=$1, category=$2, rate=$3, image=$4, description=$5,
	              available_quantity = available_quantity + ($6 - total_quantity),
	              total_quantity=$6, updated_on=$7
	          WHERE id=$8 AND available_quantity + ($6 - total_quantity) >= 0
	          RETURNING available_quantity`
	p.UpdatedOn = time.Now().UTC()
	err := conn(ctx, r.db).QueryRowContext(ctx, query, p.Name, p.Category, p.Rate, p.Image, p.Description, p.TotalQuantity, p.UpdatedOn, p.ID).Scan(&p.AvailableQuantity)
	if err == sql.ErrNoRows {
		return r.missingOr(ctx, p.ID, domain.ErrInsufficientStock)
	}
	return mapError(err)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id))
}

func (r *productRepository) AdjustAvailable(ctx context.Context, id string, delta int) error {
	query := `UPDATE products SET available_quantity = available_quantity + $1, updated_on = $2
	          WHERE id = $3 AND available_quantity + $1 BETWEEN 0 AND total_quantity`
	logger.DatabaseCall("UPDATE", "products.available_quantity", "productID", id, "delta", delta)
	res, err := conn(ctx, r.db).ExecContext(ctx, query, delta, time.Now().UTC(), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "productID", id)
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", n, nil, "productID", id)
	if n == 0 {
		return r.missingOr(ctx, id, domain.ErrInsufficientStock)
	}
	return nil
}

// missingOr returns ErrNotFound when the product does not exist, else fallback.
func (r *productRepository) missingOr(ctx context.Context, id string, fallback error) error {
	var exists bool
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return fallback
}
