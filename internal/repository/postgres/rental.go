package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/lib/pq"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
)

const (
	dialectPostgres = "postgres"

	tableRentals   = "rentals"
	tableCustomers = "customers"
	tableLedger    = "ledger_entries"
)

var rentalColumns = []any{
	"id", "customer_id", "customer_name", "start_date", "expected_return_date", "status",
	"items", "advance_payment", "total_amount", "notes", "invoices", "created_on", "updated_on",
}

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func openStatuses() []string {
	out := make([]string, 0, len(domain.OpenRentalStatuses))
	for _, s := range domain.OpenRentalStatuses {
		out = append(out, string(s))
	}
	return out
}

func scanRental(row scanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var expected sql.NullTime
	var items, invoices []byte
	err := row.Scan(&rt.ID, &rt.CustomerID, &rt.CustomerName, &rt.StartDate, &expected, &rt.Status,
		&items, &rt.AdvancePayment, &rt.TotalAmount, &rt.Notes, &invoices, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, mapError(err)
	}
	if expected.Valid {
		t := expected.Time.UTC()
		rt.ExpectedReturnDate = &t
	}
	if rt.Items, err = decodeItems(items); err != nil {
		return nil, fmt.Errorf("failed to decode items of rental %s: %w", rt.ID, err)
	}
	if rt.Invoices, err = decodeInvoices(invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices of rental %s: %w", rt.ID, err)
	}
	return rt, nil
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	items, err := encodeItems(rt.Items)
	if err != nil {
		return err
	}
	invoices, err := encodeInvoices(rt.Invoices)
	if err != nil {
		return err
	}

	query := `INSERT INTO rentals (id, customer_id, customer_name, start_date, expected_return_date, status, items, advance_payment, total_amount, notes, invoices, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	now := time.Now().UTC()
	rt.CreatedOn = now
	rt.UpdatedOn = now

	logger.DatabaseCall("INSERT", "rentals", "rentalID", rt.ID, "customerID", rt.CustomerID)
	_, err = conn(ctx, r.db).ExecContext(ctx, query, rt.ID, rt.CustomerID, rt.CustomerName, rt.StartDate, rt.ExpectedReturnDate, rt.Status,
		items, rt.AdvancePayment, rt.TotalAmount, rt.Notes, invoices, rt.CreatedOn, rt.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "rentalID", rt.ID)
	return mapError(err)
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query, args, err := goqu.Dialect(dialectPostgres).From(tableRentals).
		Select(rentalColumns...).
		Where(goqu.C("id").Eq(id)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	return scanRental(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

func (r *rentalRepository) GetOpenByCustomer(ctx context.Context, customerID string) (*domain.Rental, error) {
	query, args, err := goqu.Dialect(dialectPostgres).From(tableRentals).
		Select(rentalColumns...).
		Where(goqu.C("customer_id").Eq(customerID), goqu.C("status").In(openStatuses())).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}
	return scanRental(conn(ctx, r.db).QueryRowContext(ctx, query, args...))
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	items, err := encodeItems(rt.Items)
	if err != nil {
		return err
	}
	invoices, err := encodeInvoices(rt.Invoices)
	if err != nil {
		return err
	}

	query := `UPDATE rentals SET customer_name=$1, expected_return_date=$2, status=$3, items=$4, advance_payment=$5,
	          total_amount=$6, notes=$7, invoices=$8, updated_on=$9 WHERE id=$10`
	rt.UpdatedOn = time.Now().UTC()
	return expectOne(conn(ctx, r.db).ExecContext(ctx, query, rt.CustomerName, rt.ExpectedReturnDate, rt.Status, items, rt.AdvancePayment,
		rt.TotalAmount, rt.Notes, invoices, rt.UpdatedOn, rt.ID))
}

func (r *rentalRepository) Delete(ctx context.Context, id string) error {
	return expectOne(conn(ctx, r.db).ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id))
}

func (r *rentalRepository) List(ctx context.Context, f domain.RentalFilter) ([]domain.Rental, error) {
	ds := goqu.Dialect(dialectPostgres).From(tableRentals).
		Select(rentalColumns...).
		Order(goqu.I("created_on").Desc())

	if f.CustomerID != "" {
		ds = ds.Where(goqu.C("customer_id").Eq(f.CustomerID))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		ds = ds.Where(goqu.C("status").In(statuses))
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		ds = ds.Where(goqu.Or(goqu.C("id").ILike(pattern), goqu.C("customer_name").ILike(pattern)))
	}

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

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	logger.DatabaseResult("SELECT", int64(len(rentals)), rows.Err())
	return rentals, rows.Err()
}

func (r *rentalRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	query := `UPDATE rentals SET status = $1, updated_on = $2
	          WHERE status = ANY($3) AND expected_return_date IS NOT NULL AND expected_return_date < $4`
	candidates := pq.StringArray{string(domain.RentalStatusActive), string(domain.RentalStatusPartialReturn)}

	logger.DatabaseCall("UPDATE", "rentals.status", "asOf", asOf)
	res, err := conn(ctx, r.db).ExecContext(ctx, query, domain.RentalStatusOverdue, time.Now().UTC(), candidates, asOf)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	return n, err
}
