package repository

import (
	"context"
	"time"

	"rentalshop-backend/internal/domain"
)

// Transactor runs fn so that every repository call made with the context it
// receives commits or rolls back together. Nested calls join the outer unit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// Update writes descriptive fields and the total quantity. Available stock
	// moves by the same delta as the total and may not go negative.
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	// AdjustAvailable shifts available stock by delta atomically. It fails with
	// ErrInsufficientStock when the result would leave [0, total].
	AdjustAvailable(ctx context.Context, id string, delta int) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// List returns customers whose name or phone contains search, or all when empty.
	List(ctx context.Context, search string) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
	ListDebtors(ctx context.Context) ([]domain.Customer, error)
}

type RentalRepository interface {
	// Create fails with ErrOpenRentalExists when the customer already has an open rental.
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	GetOpenByCustomer(ctx context.Context, customerID string) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.RentalFilter) ([]domain.Rental, error)
	// MarkOverdue flips Active and Partial Return rentals expected back before asOf to Overdue.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// SequenceRepository hands out durable, strictly increasing numbers.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

const (
	SequenceRental  = "rental"
	SequenceInvoice = "invoice"
)

type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.LedgerEntry) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.LedgerEntry, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
