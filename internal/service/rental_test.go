package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/lock"
	"rentalshop-backend/internal/repository/memory"
	"rentalshop-backend/internal/service"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

type rentalFixture struct {
	ctx   context.Context
	store *memory.Store
	svc   service.RentalService
}

func newRentalFixture(t *testing.T, opts service.RentalOptions) *rentalFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.ProductRepository.Create(ctx, &domain.Product{ID: "P", Name: "Scaffold", TotalQuantity: 20, AvailableQuantity: 20, Rate: d("100")}))
	require.NoError(t, store.ProductRepository.Create(ctx, &domain.Product{ID: "Q", Name: "Ladder", TotalQuantity: 10, AvailableQuantity: 10, Rate: d("50")}))
	require.NoError(t, store.CustomerRepository.Create(ctx, &domain.Customer{ID: "C1", Name: "Ali", Phone: "0300", Tier: domain.TierNew}))
	require.NoError(t, store.CustomerRepository.Create(ctx, &domain.Customer{ID: "C2", Name: "Sara", Phone: "0321", Tier: domain.TierNew}))

	svc := service.NewRentalService(store.Transactor, store.RentalRepository, store.ProductRepository,
		store.CustomerRepository, store.SequenceRepository, store.LedgerRepository, lock.NewLocalLocker(), opts)
	return &rentalFixture{ctx: ctx, store: store, svc: svc}
}

func (f *rentalFixture) available(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.store.ProductRepository.GetByID(f.ctx, productID)
	require.NoError(t, err)
	return p.AvailableQuantity
}

func (f *rentalFixture) customer(t *testing.T, id string) *domain.Customer {
	t.Helper()
	c, err := f.store.CustomerRepository.GetByID(f.ctx, id)
	require.NoError(t, err)
	return c
}

func (f *rentalFixture) rent(t *testing.T, customerID string, start time.Time, advance string, lines ...domain.OrderLine) *domain.Rental {
	t.Helper()
	rt, err := f.svc.CreateRental(f.ctx, service.NewOrder{
		CustomerID:     customerID,
		StartDate:      start,
		AdvancePayment: d(advance),
		Lines:          lines,
	})
	require.NoError(t, err)
	return rt
}

func line(productID string, qty int) domain.OrderLine {
	return domain.OrderLine{ProductID: productID, Quantity: qty}
}

func TestRentalService_CreateRental(t *testing.T) {
	f := newRentalFixture(t, service.RentalOptions{})

	t.Run("New rental", func(t *testing.T) {
		rt := f.rent(t, "C1", day(1), "200", line("P", 5))
		assert.Equal(t, "01", rt.ID)
		assert.Equal(t, domain.RentalStatusActive, rt.Status)
		assert.Equal(t, "Ali", rt.CustomerName)
		require.Len(t, rt.Items, 1)
		assert.Equal(t, "Scaffold", rt.Items[0].ProductName)
		assert.Equal(t, "100", rt.Items[0].UnitPrice.String())
		assert.Equal(t, 15, f.available(t, "P"))
	})

	t.Run("Second order merges and keeps the locked price", func(t *testing.T) {
		require.NoError(t, f.store.ProductRepository.Update(f.ctx, &domain.Product{ID: "P", Name: "Scaffold", TotalQuantity: 20, Rate: d("120")}))

		rt := f.rent(t, "C1", day(2), "50", line("P", 2), line("Q", 2), line("P", 1))
		assert.Equal(t, "01", rt.ID)
		require.Len(t, rt.Items, 2)
		assert.Equal(t, 8, rt.Items[0].Quantity)
		assert.Equal(t, "100", rt.Items[0].UnitPrice.String())
		assert.Equal(t, "Q", rt.Items[1].ProductID)
		assert.Equal(t, "250", rt.AdvancePayment.String())
		assert.True(t, rt.StartDate.Equal(day(1)))
		assert.Equal(t, 12, f.available(t, "P"))
		assert.Equal(t, 8, f.available(t, "Q"))

		open, err := f.svc.ListRentals(f.ctx, domain.RentalFilter{CustomerID: "C1", Statuses: domain.OpenRentalStatuses})
		require.NoError(t, err)
		assert.Len(t, open, 1)
	})

	t.Run("Order beyond stock writes nothing", func(t *testing.T) {
		_, err := f.svc.CreateRental(f.ctx, service.NewOrder{CustomerID: "C2", StartDate: day(3), Lines: []domain.OrderLine{line("P", 5), line("Q", 50)}})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 12, f.available(t, "P"))
		assert.Equal(t, 8, f.available(t, "Q"))

		rentals, err := f.svc.ListRentals(f.ctx, domain.RentalFilter{CustomerID: "C2"})
		require.NoError(t, err)
		assert.Empty(t, rentals)
	})

	t.Run("Rejects bad orders", func(t *testing.T) {
		_, err := f.svc.CreateRental(f.ctx, service.NewOrder{CustomerID: "C2"})
		assert.ErrorIs(t, err, domain.ErrEmptyOrder)

		_, err = f.svc.CreateRental(f.ctx, service.NewOrder{CustomerID: "C2", Lines: []domain.OrderLine{line("P", 0)}})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

		_, err = f.svc.CreateRental(f.ctx, service.NewOrder{CustomerID: "C2", AdvancePayment: d("-1"), Lines: []domain.OrderLine{line("P", 1)}})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, err = f.svc.CreateRental(f.ctx, service.NewOrder{CustomerID: "nobody", Lines: []domain.OrderLine{line("P", 1)}})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = f.svc.CreateRental(f.ctx, service.NewOrder{CustomerID: "C2", Lines: []domain.OrderLine{line("missing", 1)}})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRentalService_ReturnItems(t *testing.T) {
	f := newRentalFixture(t, service.RentalOptions{})
	f.rent(t, "C1", day(1), "200", line("P", 5))

	t.Run("Full return settles and completes", func(t *testing.T) {
		res, err := f.svc.ReturnItems(f.ctx, service.ReturnRequest{
			RentalID:       "01",
			Lines:          []domain.OrderLine{line("P", 5)},
			ReturnDate:     day(4),
			Discount:       d("100"),
			ReceivedAmount: d("1000"),
			CreatedBy:      "counter",
		})
		require.NoError(t, err)

		assert.Equal(t, "01", res.Invoice.ID)
		assert.Equal(t, "1500", res.Settlement.SubTotal.String())
		assert.Equal(t, "1400", res.Settlement.NetBill.String())
		assert.Equal(t, "200", res.Settlement.BalanceDue.String())
		assert.False(t, res.Invoice.IsPaid)
		assert.Equal(t, "counter", res.Invoice.CreatedBy)

		stored, err := f.svc.GetRental(f.ctx, "01")
		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCompleted, stored.Status)
		assert.Empty(t, stored.Items)
		assert.Equal(t, "1500", stored.TotalAmount.String())
		assert.True(t, stored.AdvancePayment.IsZero())
		require.Len(t, stored.Invoices, 1)
		assert.False(t, stored.Invoices[0].CreatedOn.IsZero())

		c := f.customer(t, "C1")
		assert.Equal(t, "200", c.TotalDebt.String())
		assert.Equal(t, "1500", c.TotalSpent.String())
		assert.Equal(t, 20, f.available(t, "P"))

		entries, err := f.store.LedgerRepository.ListByCustomer(f.ctx, "C1")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, domain.LedgerEntryTypeInvoice, entries[0].Type)
		assert.Equal(t, "01", *entries[0].InvoiceID)
		assert.Equal(t, "1000", entries[0].Amount.String())
		assert.True(t, entries[0].DebtBefore.IsZero())
		assert.Equal(t, "200", entries[0].DebtAfter.String())
	})

	t.Run("Closed rental rejects returns", func(t *testing.T) {
		req := service.ReturnRequest{RentalID: "01", Lines: []domain.OrderLine{line("P", 1)}, ReturnDate: day(5)}
		_, err := f.svc.ReturnItems(f.ctx, req)
		assert.ErrorIs(t, err, domain.ErrRentalClosed)
		_, err = f.svc.QuoteReturn(f.ctx, req)
		assert.ErrorIs(t, err, domain.ErrRentalClosed)
	})

	t.Run("Next rental carries the earlier debt", func(t *testing.T) {
		rt := f.rent(t, "C1", day(10), "0", line("Q", 4))
		assert.Equal(t, "02", rt.ID)

		res, err := f.svc.ReturnItems(f.ctx, service.ReturnRequest{
			RentalID:   "02",
			Lines:      []domain.OrderLine{line("Q", 1)},
			ReturnDate: day(12),
		})
		require.NoError(t, err)
		assert.Equal(t, "02", res.Invoice.ID)
		assert.Equal(t, "100", res.Settlement.SubTotal.String())
		assert.Equal(t, "200", res.Invoice.PreviousDebt.String())
		assert.Equal(t, "300", res.Settlement.BalanceDue.String())
		assert.Equal(t, domain.RentalStatusActive, res.Rental.Status)
		assert.Equal(t, 7, f.available(t, "Q"))

		c := f.customer(t, "C1")
		entries, err := f.store.LedgerRepository.ListByCustomer(f.ctx, "C1")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].DebtAfter.Equal(c.TotalDebt))
	})

	t.Run("Rejects negative amounts", func(t *testing.T) {
		_, err := f.svc.ReturnItems(f.ctx, service.ReturnRequest{RentalID: "02", Lines: []domain.OrderLine{line("Q", 1)}, Discount: d("-5")})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})
}

func TestRentalService_ReturnClamping(t *testing.T) {
	f := newRentalFixture(t, service.RentalOptions{})
	f.rent(t, "C1", day(1), "0", line("P", 2))

	_, err := f.svc.ReturnItems(f.ctx, service.ReturnRequest{RentalID: "01", Lines: []domain.OrderLine{line("Q", 3)}, ReturnDate: day(2)})
	assert.ErrorIs(t, err, domain.ErrNothingToReturn)

	res, err := f.svc.ReturnItems(f.ctx, service.ReturnRequest{
		RentalID:   "01",
		Lines:      []domain.OrderLine{line("P", 9), line("X", 3), line("Q", -1)},
		ReturnDate: day(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "200", res.Settlement.SubTotal.String())
	require.Len(t, res.Returned, 1)
	assert.Equal(t, 2, res.Returned[0].Quantity)
	assert.Equal(t, domain.RentalStatusCompleted, res.Rental.Status)
	assert.Equal(t, 20, f.available(t, "P"))
	assert.Equal(t, 10, f.available(t, "Q"))
}

func TestRentalService_PartialReturnTracking(t *testing.T) {
	f := newRentalFixture(t, service.RentalOptions{TrackPartialReturns: true})
	f.rent(t, "C1", day(1), "0", line("P", 5))

	res, err := f.svc.ReturnItems(f.ctx, service.ReturnRequest{RentalID: "01", Lines: []domain.OrderLine{line("P", 2)}, ReturnDate: day(3)})
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusPartialReturn, res.Rental.Status)
	assert.Equal(t, 3, res.Rental.OutstandingQuantity())
	assert.Equal(t, 17, f.available(t, "P"))

	// A partially returned rental is still open and takes new orders.
	rt := f.rent(t, "C1", day(4), "0", line("P", 1))
	assert.Equal(t, "01", rt.ID)
	assert.Equal(t, 4, rt.OutstandingQuantity())
}

func TestRentalService_QuoteReturnHasNoSideEffects(t *testing.T) {
	f := newRentalFixture(t, service.RentalOptions{})
	f.rent(t, "C1", day(1), "0", line("P", 5))

	quote, err := f.svc.QuoteReturn(f.ctx, service.ReturnRequest{RentalID: "01", Lines: []domain.OrderLine{line("P", 5)}, ReturnDate: day(4)})
	require.NoError(t, err)
	assert.Equal(t, "1500", quote.Settlement.SubTotal.String())
	assert.Equal(t, "1500", quote.Settlement.BalanceDue.String())
	assert.Empty(t, quote.Invoice.ID)

	stored, err := f.svc.GetRental(f.ctx, "01")
	require.NoError(t, err)
	assert.Equal(t, 5, stored.OutstandingQuantity())
	assert.Empty(t, stored.Invoices)
	assert.True(t, f.customer(t, "C1").TotalDebt.IsZero())
	assert.Equal(t, 15, f.available(t, "P"))

	res, err := f.svc.ReturnItems(f.ctx, service.ReturnRequest{RentalID: "01", Lines: []domain.OrderLine{line("P", 5)}, ReturnDate: day(4), ReceivedAmount: d("1500")})
	require.NoError(t, err)
	assert.Equal(t, "01", res.Invoice.ID)
	assert.True(t, res.Invoice.IsPaid)
}

func TestRentalService_InvoiceIDsSurviveDeletion(t *testing.T) {
	f := newRentalFixture(t, service.RentalOptions{})
	f.rent(t, "C1", day(1), "0", line("P", 1))
	res, err := f.svc.ReturnItems(f.ctx, service.ReturnRequest{RentalID: "01", Lines: []domain.OrderLine{line("P", 1)}, ReturnDate: day(2)})
	require.NoError(t, err)
	assert.Equal(t, "01", res.Invoice.ID)

	require.NoError(t, f.svc.DeleteRental(f.ctx, "01"))

	rt := f.rent(t, "C2", day(3), "0", line("P", 1))
	assert.Equal(t, "02", rt.ID)
	res, err = f.svc.ReturnItems(f.ctx, service.ReturnRequest{RentalID: rt.ID, Lines: []domain.OrderLine{line("P", 1)}, ReturnDate: day(4)})
	require.NoError(t, err)
	assert.Equal(t, "02", res.Invoice.ID)
}

func TestRentalService_DeleteRental(t *testing.T) {
	f := newRentalFixture(t, service.RentalOptions{})
	f.rent(t, "C1", day(1), "0", line("P", 5), line("Q", 3))
	assert.Equal(t, 15, f.available(t, "P"))

	require.NoError(t, f.svc.DeleteRental(f.ctx, "01"))
	assert.Equal(t, 20, f.available(t, "P"))
	assert.Equal(t, 10, f.available(t, "Q"))

	_, err := f.svc.GetRental(f.ctx, "01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteRental(f.ctx, "01"), domain.ErrNotFound)
}

func TestRentalService_UpdateStatus(t *testing.T) {
	f := newRentalFixture(t, service.RentalOptions{})
	f.rent(t, "C1", day(1), "0", line("P", 5))

	rt, err := f.svc.UpdateStatus(f.ctx, "01", domain.RentalStatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusOverdue, rt.Status)

	_, err = f.svc.UpdateStatus(f.ctx, "01", domain.RentalStatusCompleted)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	_, err = f.svc.UpdateStatus(f.ctx, "01", domain.RentalStatus("Lost"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	res, err := f.svc.ReturnItems(f.ctx, service.ReturnRequest{RentalID: "01", Lines: []domain.OrderLine{line("P", 2)}, ReturnDate: day(3)})
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusOverdue, res.Rental.Status)

	res, err = f.svc.ReturnItems(f.ctx, service.ReturnRequest{RentalID: "01", Lines: []domain.OrderLine{line("P", 3)}, ReturnDate: day(5)})
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusCompleted, res.Rental.Status)

	_, err = f.svc.UpdateStatus(f.ctx, "01", domain.RentalStatusActive)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestRentalService_ConcurrentOrdersShareOneRental(t *testing.T) {
	f := newRentalFixture(t, service.RentalOptions{})

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateRental(f.ctx, service.NewOrder{CustomerID: "C1", StartDate: day(1), Lines: []domain.OrderLine{line("P", 1)}})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	open, err := f.svc.ListRentals(f.ctx, domain.RentalFilter{CustomerID: "C1", Statuses: domain.OpenRentalStatuses})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, 10, open[0].OutstandingQuantity())
	assert.Equal(t, 10, f.available(t, "P"))
}
