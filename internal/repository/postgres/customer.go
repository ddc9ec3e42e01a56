package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
)

var customerColumns = []any{
	"id", "name", "phone", "address", "cnic", "photo", "guarantor_name", "guarantor_phone",
	"tier", "total_spent", "total_debt", "rating", "created_on", "updated_on",
}

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func scanCustomer(row scanner) (*domain.Customer, error) {
	c := &domain.Customer{}
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.CNIC, &c.Photo, &c.GuarantorName, &c.GuarantorPhone,
		&c.Tier, &c.TotalSpent, &c.TotalDebt, &c.Rating, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (id, name, phone, address, cnic, photo, guarantor_name, guarantor_phone, tier, total_spent, total_debt, rating, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	now := time.Now().UTC()
	c.CreatedOn = now
	c.UpdatedOn = now
	_, err := conn(ctx, r.db).ExecContext(ctx, query, c.ID, c.Name, c.Phone, c.Address, c.CNIC, c.Photo, c.GuarantorName, c.GuarantorPhone,
		c.Tier, c.TotalSpent, c.TotalDebt, c.Rating, c.CreatedOn, c.UpdatedOn)
	return mapError(err)
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query, args, err := goqu.Dialect(dialectPostgres).From(tableCustomers).
		Select(customerColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	return scanCustomer(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

func (r *customerRepository) List(ctx context.Context, search string) ([]domain.Customer, error) {
	ds := goqu.Dialect(dialectPostgres).From(tableCustomers).Select(customerColumns...).Order(goqu.I("name").Asc())
	if search != "" {
		pattern := "%" + search + "%"
		ds = ds.Where(goqu.Or(goqu.C("name").ILike(pattern), goqu.C("phone").ILike(pattern)))
	}
	return r.query(ctx, ds)
}

func (r *customerRepository) ListDebtors(ctx context.Context) ([]domain.Customer, error) {
	ds := goqu.Dialect(dialectPostgres).From(tableCustomers).
		Select(customerColumns...).
		Where(goqu.C("total_debt").Gt(0)).
		Order(goqu.I("total_debt").Desc())
	return r.query(ctx, ds)
}

func (r *customerRepository) query(ctx context.Context, ds *goqu.SelectDataset) ([]domain.Customer, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	logger.DatabaseCall("SELECT", query)
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	logger.DatabaseResult("SELECT", int64(len(customers)), rows.Err())
	return customers, rows.Err()
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, phone=$2, address=$3, cnic=$4, photo=$5, guarantor_name=$6, guarantor_phone=$7,
	          tier=$8, total_spent=$9, total_debt=$10, rating=$11, updated_on=$12 WHERE id=$13`
	c.UpdatedOn = time.Now().UTC()
	return expectOne(conn(ctx, r.db).ExecContext(ctx, query, c.Name, c.Phone, c.Address, c.CNIC, c.Photo, c.GuarantorName, c.GuarantorPhone,
		c.Tier, c.TotalSpent, c.TotalDebt, c.Rating, c.UpdatedOn, c.ID))
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id))
}
