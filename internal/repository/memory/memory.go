// Package memory keeps every repository in process memory. It backs the
// offline mode of the server and the service tests.
package memory

import (
	"context"
	"sync"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/repository"
)

type state struct {
	products  map[string]domain.Product
	customers map[string]domain.Customer
	rentals   map[string]domain.Rental
	ledger    []domain.LedgerEntry
	users     map[string]domain.User
}

type db struct {
	mu sync.RWMutex
	state
	sequences map[string]int64

	txMu sync.Mutex
}

func newDB() *db {
	return &db{
		state: state{
			products:  map[string]domain.Product{},
			customers: map[string]domain.Customer{},
			rentals:   map[string]domain.Rental{},
			users:     map[string]domain.User{},
		},
		sequences: map[string]int64{},
	}
}

// snapshot deep-copies all entities. Sequences are left out so numbers
// handed out inside a failed unit are not reused.
func (d *db) snapshot() state {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := state{
		products:  make(map[string]domain.Product, len(d.products)),
		customers: make(map[string]domain.Customer, len(d.customers)),
		rentals:   make(map[string]domain.Rental, len(d.rentals)),
		ledger:    append([]domain.LedgerEntry(nil), d.ledger...),
		users:     make(map[string]domain.User, len(d.users)),
	}
	for k, v := range d.products {
		s.products[k] = v
	}
	for k, v := range d.customers {
		s.customers[k] = v
	}
	for k, v := range d.rentals {
		s.rentals[k] = v.Clone()
	}
	for k, v := range d.users {
		s.users[k] = v
	}
	return s
}

func (d *db) restore(s state) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
}

type Store struct {
	repository.Transactor
	repository.ProductRepository
	repository.CustomerRepository
	repository.RentalRepository
	repository.SequenceRepository
	repository.LedgerRepository
	repository.UserRepository
}

func NewStore() *Store {
	d := newDB()
	return &Store{
		Transactor:         &transactor{db: d},
		ProductRepository:  &productRepository{db: d},
		CustomerRepository: &customerRepository{db: d},
		RentalRepository:   &rentalRepository{db: d},
		SequenceRepository: &sequenceRepository{db: d},
		LedgerRepository:   &ledgerRepository{db: d},
		UserRepository:     &userRepository{db: d},
	}
}

type txKey struct{}

type transactor struct {
	db *db
}

// WithinTx serializes units of work and restores the previous state when fn
// fails.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()

	before := t.db.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.db.restore(before)
		return err
	}
	return nil
}

type sequenceRepository struct {
	db *db
}

func (r *sequenceRepository) Next(_ context.Context, name string) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sequences[name]++
	return r.db.sequences[name], nil
}
