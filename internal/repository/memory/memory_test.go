package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalshop-backend/internal/domain"
)

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	p := &domain.Product{ID: "p1", Name: "Chair", TotalQuantity: 10, AvailableQuantity: 10, Rate: decimal.NewFromInt(15)}
	require.NoError(t, store.ProductRepository.Create(ctx, p))
	assert.ErrorIs(t, store.ProductRepository.Create(ctx, p), domain.ErrDuplicate)

	t.Run("AdjustAvailable stays within bounds", func(t *testing.T) {
		require.NoError(t, store.ProductRepository.AdjustAvailable(ctx, "p1", -4))
		assert.ErrorIs(t, store.ProductRepository.AdjustAvailable(ctx, "p1", -7), domain.ErrInsufficientStock)
		assert.ErrorIs(t, store.ProductRepository.AdjustAvailable(ctx, "p1", 5), domain.ErrInsufficientStock)
		assert.ErrorIs(t, store.ProductRepository.AdjustAvailable(ctx, "nope", 1), domain.ErrNotFound)

		got, err := store.ProductRepository.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 6, got.AvailableQuantity)
	})

	t.Run("Update shifts availability with total", func(t *testing.T) {
		upd := &domain.Product{ID: "p1", Name: "Chair", TotalQuantity: 8, Rate: decimal.NewFromInt(20)}
		require.NoError(t, store.ProductRepository.Update(ctx, upd))
		assert.Equal(t, 4, upd.AvailableQuantity)

		tooSmall := &domain.Product{ID: "p1", Name: "Chair", TotalQuantity: 1}
		assert.ErrorIs(t, store.ProductRepository.Update(ctx, tooSmall), domain.ErrInsufficientStock)
	})
}

func TestRentalRepository_SingleOpenRental(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	first := &domain.Rental{ID: "01", CustomerID: "c1", Status: domain.RentalStatusActive}
	require.NoError(t, store.RentalRepository.Create(ctx, first))

	second := &domain.Rental{ID: "02", CustomerID: "c1", Status: domain.RentalStatusActive}
	assert.ErrorIs(t, store.RentalRepository.Create(ctx, second), domain.ErrOpenRentalExists)

	first.Status = domain.RentalStatusCompleted
	require.NoError(t, store.RentalRepository.Update(ctx, first))
	require.NoError(t, store.RentalRepository.Create(ctx, second))

	open, err := store.RentalRepository.GetOpenByCustomer(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "02", open.ID)

	first.Status = domain.RentalStatusActive
	assert.ErrorIs(t, store.RentalRepository.Update(ctx, first), domain.ErrOpenRentalExists)
}

func TestRentalRepository_ReadsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	rt := &domain.Rental{ID: "01", CustomerID: "c1", Status: domain.RentalStatusActive, Items: []domain.RentalItem{{ProductID: "p", Quantity: 2}}}
	require.NoError(t, store.RentalRepository.Create(ctx, rt))

	got, err := store.RentalRepository.GetByID(ctx, "01")
	require.NoError(t, err)
	got.Items[0].Quantity = 99

	again, err := store.RentalRepository.GetByID(ctx, "01")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestRentalRepository_ListAndMarkOverdue(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	past := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.RentalRepository.Create(ctx, &domain.Rental{ID: "01", CustomerID: "c1", CustomerName: "Ali", Status: domain.RentalStatusActive, ExpectedReturnDate: &past}))
	require.NoError(t, store.RentalRepository.Create(ctx, &domain.Rental{ID: "02", CustomerID: "c2", CustomerName: "Bilal", Status: domain.RentalStatusPartialReturn, ExpectedReturnDate: &past}))
	require.NoError(t, store.RentalRepository.Create(ctx, &domain.Rental{ID: "03", CustomerID: "c3", CustomerName: "Sana", Status: domain.RentalStatusActive, ExpectedReturnDate: &future}))
	require.NoError(t, store.RentalRepository.Create(ctx, &domain.Rental{ID: "04", CustomerID: "c4", CustomerName: "Zara", Status: domain.RentalStatusCompleted, ExpectedReturnDate: &past}))
	require.NoError(t, store.RentalRepository.Create(ctx, &domain.Rental{ID: "05", CustomerID: "c5", CustomerName: "Omar", Status: domain.RentalStatusActive}))

	n, err := store.RentalRepository.MarkOverdue(ctx, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	overdue, err := store.RentalRepository.List(ctx, domain.RentalFilter{Statuses: []domain.RentalStatus{domain.RentalStatusOverdue}})
	require.NoError(t, err)
	assert.Len(t, overdue, 2)

	byName, err := store.RentalRepository.List(ctx, domain.RentalFilter{Search: "sana"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "03", byName[0].ID)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CustomerRepository.Create(ctx, &domain.Customer{ID: "c1", Name: "Ali", TotalDebt: decimal.NewFromInt(100)}))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		c, err := store.CustomerRepository.GetByID(ctx, "c1")
		if err != nil {
			return err
		}
		c.TotalDebt = decimal.Zero
		if err := store.CustomerRepository.Update(ctx, c); err != nil {
			return err
		}
		if _, err := store.SequenceRepository.Next(ctx, "invoice"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, err := store.CustomerRepository.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "100", c.TotalDebt.String())

	next, err := store.SequenceRepository.Next(ctx, "invoice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), next, "sequence numbers are never reused")
}

func TestCustomerRepository_Search(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.CustomerRepository.Create(ctx, &domain.Customer{ID: "c1", Name: "Ali Raza", Phone: "0300111", TotalDebt: decimal.NewFromInt(50)}))
	require.NoError(t, store.CustomerRepository.Create(ctx, &domain.Customer{ID: "c2", Name: "Bilal", Phone: "0321999", TotalDebt: decimal.NewFromInt(500)}))
	require.NoError(t, store.CustomerRepository.Create(ctx, &domain.Customer{ID: "c3", Name: "Sana", Phone: "0333", TotalDebt: decimal.Zero}))

	byPhone, err := store.CustomerRepository.List(ctx, "0321")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "c2", byPhone[0].ID)

	debtors, err := store.CustomerRepository.ListDebtors(ctx)
	require.NoError(t, err)
	require.Len(t, debtors, 2)
	assert.Equal(t, "c2", debtors[0].ID)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.UserRepository.Create(ctx, &domain.User{ID: "u1", Username: "Admin", Role: domain.UserRoleAdmin}))
	assert.ErrorIs(t, store.UserRepository.Create(ctx, &domain.User{ID: "u2", Username: "admin"}), domain.ErrDuplicate)

	u, err := store.UserRepository.GetByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	n, err := store.UserRepository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
