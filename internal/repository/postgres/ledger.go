package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/repository"
)

type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Append(ctx context.Context, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, customer_id, type, invoice_id, rental_id, amount, debt_before, debt_after, created_by, note, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if e.CreatedOn.IsZero() {
		e.CreatedOn = time.Now().UTC()
	}
	_, err := conn(ctx, r.db).ExecContext(ctx, query, e.ID, e.CustomerID, e.Type, e.InvoiceID, e.RentalID, e.Amount, e.DebtBefore, e.DebtAfter, e.CreatedBy, e.Note, e.CreatedOn)
	return mapError(err)
}

func (r *ledgerRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.LedgerEntry, error) {
	query, args, err := goqu.Dialect(dialectPostgres).From(tableLedger).
		Select("id", "customer_id", "type", "invoice_id", "rental_id", "amount", "debt_before", "debt_after", "created_by", "note", "created_on").
		Where(goqu.C("customer_id").Eq(customerID)).
		Order(goqu.I("created_on").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var invoiceID, rentalID sql.NullString
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.Type, &invoiceID, &rentalID, &e.Amount, &e.DebtBefore, &e.DebtAfter, &e.CreatedBy, &e.Note, &e.CreatedOn); err != nil {
			return nil, err
		}
		if invoiceID.Valid {
			e.InvoiceID = &invoiceID.String
		}
		if rentalID.Valid {
			e.RentalID = &rentalID.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
