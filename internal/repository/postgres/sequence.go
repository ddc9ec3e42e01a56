package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rentalshop-backend/internal/repository"
)

var sequenceNames = map[string]string{
	repository.SequenceRental:  "rental_seq",
	repository.SequenceInvoice: "invoice_seq",
}

type sequenceRepository struct {
	db *sql.DB
}

func NewSequenceRepository(db *sql.DB) repository.SequenceRepository {
	return &sequenceRepository{db: db}
}

// Next draws from a PostgreSQL sequence. Numbers are never reused, even when
// the surrounding transaction rolls back.
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	seq, ok := sequenceNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown sequence: %s", name)
	}
	var n int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `SELECT nextval($1::regclass)`, seq).Scan(&n)
	return n, err
}
