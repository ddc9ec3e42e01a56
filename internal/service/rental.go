package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"rentalshop-backend/internal/billing"
	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/lock"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
	"rentalshop-backend/internal/utils"
)

// RentalOptions carries the billing settings the rental service needs.
type RentalOptions struct {
	RentalIDWidth       int
	InvoiceIDWidth      int
	TrackPartialReturns bool
}

type rentalService struct {
	tx           repository.Transactor
	rentalRepo   repository.RentalRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	sequenceRepo repository.SequenceRepository
	ledgerRepo   repository.LedgerRepository
	locker       lock.Locker
	opts         RentalOptions
}

func NewRentalService(
	tx repository.Transactor,
	rentalRepo repository.RentalRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	sequenceRepo repository.SequenceRepository,
	ledgerRepo repository.LedgerRepository,
	locker lock.Locker,
	opts RentalOptions,
) RentalService {
	return &rentalService{
		tx:           tx,
		rentalRepo:   rentalRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		sequenceRepo: sequenceRepo,
		ledgerRepo:   ledgerRepo,
		locker:       locker,
		opts:         opts,
	}
}

func (s *rentalService) CreateRental(ctx context.Context, order NewOrder) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.CreateRental", "customerID", order.CustomerID, "lines", len(order.Lines))

	if len(order.Lines) == 0 {
		logger.ExitMethodWithError("rentalService.CreateRental", domain.ErrEmptyOrder)
		return nil, domain.ErrEmptyOrder
	}
	for _, l := range order.Lines {
		if l.Quantity <= 0 {
			logger.ExitMethodWithError("rentalService.CreateRental", domain.ErrInvalidQuantity, "productID", l.ProductID)
			return nil, fmt.Errorf("%w: product %s", domain.ErrInvalidQuantity, l.ProductID)
		}
	}
	if order.AdvancePayment.IsNegative() {
		return nil, fmt.Errorf("%w: advance payment", domain.ErrInvalidAmount)
	}
	lines := billing.FoldLines(order.Lines)

	unlock, err := s.locker.Obtain(ctx, lock.CustomerKey(order.CustomerID))
	if err != nil {
		logger.ExitMethodWithError("rentalService.CreateRental", err)
		return nil, err
	}
	defer unlock()

	var result domain.Rental
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetByID(ctx, order.CustomerID)
		if err != nil {
			return fmt.Errorf("customer %s: %w", order.CustomerID, err)
		}

		items := make([]domain.RentalItem, 0, len(lines))
		for _, l := range lines {
			product, err := s.productRepo.GetByID(ctx, l.ProductID)
			if err != nil {
				return fmt.Errorf("product %s: %w", l.ProductID, err)
			}
			if l.Quantity > product.AvailableQuantity {
				return fmt.Errorf("%w: %s has %d available, %d requested",
					domain.ErrInsufficientStock, product.Name, product.AvailableQuantity, l.Quantity)
			}
			if err := s.productRepo.AdjustAvailable(ctx, l.ProductID, -l.Quantity); err != nil {
				return fmt.Errorf("product %s: %w", l.ProductID, err)
			}
			items = append(items, domain.RentalItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.Image,
				Quantity:     l.Quantity,
				UnitPrice:    product.Rate,
			})
		}

		start := order.StartDate
		if start.IsZero() {
			start = now()
		}
		incoming := domain.Rental{
			CustomerID:     customer.ID,
			CustomerName:   customer.Name,
			StartDate:      utils.TruncateDay(start),
			Status:         domain.RentalStatusActive,
			Items:          items,
			AdvancePayment: order.AdvancePayment,
			Notes:          order.Notes,
		}
		if order.ExpectedReturnDate != nil {
			d := utils.TruncateDay(*order.ExpectedReturnDate)
			incoming.ExpectedReturnDate = &d
		}

		open, err := s.rentalRepo.GetOpenByCustomer(ctx, customer.ID)
		switch {
		case err == nil:
			merged := billing.MergeOrder(*open, incoming)
			if err := s.rentalRepo.Update(ctx, &merged); err != nil {
				return err
			}
			logger.Info("Order merged into open rental", "rentalID", merged.ID, "customerID", customer.ID,
				"advance", merged.AdvancePayment.String())
			result = merged
			return nil
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		seq, err := s.sequenceRepo.Next(ctx, repository.SequenceRental)
		if err != nil {
			return err
		}
		incoming.ID = billing.FormatSequenceID(seq, s.opts.RentalIDWidth)
		if incoming.Invoices == nil {
			incoming.Invoices = []domain.Invoice{}
		}
		if err := s.rentalRepo.Create(ctx, &incoming); err != nil {
			return err
		}
		logger.Info("Rental created", "rentalID", incoming.ID, "customerID", customer.ID,
			"advance", incoming.AdvancePayment.String())
		result = incoming
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.CreateRental", err)
		return nil, err
	}

	logger.ExitMethod("rentalService.CreateRental", "rentalID", result.ID)
	return &result, nil
}

func (s *rentalService) ReturnItems(ctx context.Context, req ReturnRequest) (*billing.ReturnResult, error) {
	logger.EnterMethod("rentalService.ReturnItems", "rentalID", req.RentalID, "lines", len(req.Lines))

	if err := validateReturnAmounts(req); err != nil {
		logger.ExitMethodWithError("rentalService.ReturnItems", err)
		return nil, err
	}

	current, err := s.rentalRepo.GetByID(ctx, req.RentalID)
	if err != nil {
		logger.ExitMethodWithError("rentalService.ReturnItems", err)
		return nil, err
	}

	unlock, err := s.locker.Obtain(ctx, lock.CustomerKey(current.CustomerID))
	if err != nil {
		logger.ExitMethodWithError("rentalService.ReturnItems", err)
		return nil, err
	}
	defer unlock()

	var result billing.ReturnResult
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rental, customer, err := s.loadReturnable(ctx, req.RentalID)
		if err != nil {
			return err
		}
		if len(billing.ClampReturn(*rental, req.Lines)) == 0 {
			return domain.ErrNothingToReturn
		}

		seq, err := s.sequenceRepo.Next(ctx, repository.SequenceInvoice)
		if err != nil {
			return err
		}
		invoiceID := billing.FormatSequenceID(seq, s.opts.InvoiceIDWidth)

		result = billing.ProcessReturn(invoiceID, *rental, *customer, s.returnEvent(req), s.returnOptions())
		stamp := now()
		result.Invoice.CreatedOn = stamp
		result.Rental.Invoices[len(result.Rental.Invoices)-1].CreatedOn = stamp

		if err := s.rentalRepo.Update(ctx, &result.Rental); err != nil {
			return err
		}
		if err := s.customerRepo.Update(ctx, &result.Customer); err != nil {
			return err
		}
		for _, l := range result.Returned {
			if err := s.restock(ctx, l); err != nil {
				return err
			}
		}

		rentalID := result.Rental.ID
		return s.ledgerRepo.Append(ctx, &domain.LedgerEntry{
			ID:         uuid.NewString(),
			CustomerID: customer.ID,
			Type:       domain.LedgerEntryTypeInvoice,
			InvoiceID:  &invoiceID,
			RentalID:   &rentalID,
			Amount:     result.Settlement.ReceivedAmount,
			DebtBefore: customer.TotalDebt,
			DebtAfter:  result.Customer.TotalDebt,
			CreatedBy:  req.CreatedBy,
			CreatedOn:  stamp,
		})
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.ReturnItems", err)
		return nil, err
	}

	logger.WithRental(result.Rental.ID).Info("Return settled",
		"invoiceID", result.Invoice.ID,
		"customerID", result.Customer.ID,
		"subTotal", result.Settlement.SubTotal.String(),
		"balanceDue", result.Settlement.BalanceDue.String(),
		"changeDue", result.Settlement.ChangeDue.String(),
		"status", result.Rental.Status)
	logger.ExitMethod("rentalService.ReturnItems", "invoiceID", result.Invoice.ID)
	return &result, nil
}

func (s *rentalService) QuoteReturn(ctx context.Context, req ReturnRequest) (*billing.ReturnResult, error) {
	logger.EnterMethod("rentalService.QuoteReturn", "rentalID", req.RentalID)

	if err := validateReturnAmounts(req); err != nil {
		return nil, err
	}
	rental, customer, err := s.loadReturnable(ctx, req.RentalID)
	if err != nil {
		logger.ExitMethodWithError("rentalService.QuoteReturn", err)
		return nil, err
	}
	if len(billing.ClampReturn(*rental, req.Lines)) == 0 {
		return nil, domain.ErrNothingToReturn
	}

	result := billing.ProcessReturn("", *rental, *customer, s.returnEvent(req), s.returnOptions())
	logger.ExitMethod("rentalService.QuoteReturn", "subTotal", result.Settlement.SubTotal.String())
	return &result, nil
}

func (s *rentalService) loadReturnable(ctx context.Context, rentalID string) (*domain.Rental, *domain.Customer, error) {
	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, nil, err
	}
	if !rental.Status.IsOpen() {
		return nil, nil, fmt.Errorf("%w: rental %s", domain.ErrRentalClosed, rental.ID)
	}
	customer, err := s.customerRepo.GetByID(ctx, rental.CustomerID)
	if err != nil {
		return nil, nil, fmt.Errorf("customer %s: %w", rental.CustomerID, err)
	}
	return rental, customer, nil
}

func (s *rentalService) returnEvent(req ReturnRequest) billing.ReturnEvent {
	returnDate := req.ReturnDate
	if returnDate.IsZero() {
		returnDate = now()
	}
	return billing.ReturnEvent{
		Lines:          req.Lines,
		ReturnDate:     utils.TruncateDay(returnDate),
		Discount:       req.Discount,
		ReceivedAmount: req.ReceivedAmount,
		CreatedBy:      req.CreatedBy,
	}
}

func (s *rentalService) returnOptions() billing.ReturnOptions {
	return billing.ReturnOptions{TrackPartialReturns: s.opts.TrackPartialReturns}
}

// restock puts returned units back on the shelf. Products deleted from the
// catalog in the meantime are skipped.
func (s *rentalService) restock(ctx context.Context, l domain.OrderLine) error {
	err := s.productRepo.AdjustAvailable(ctx, l.ProductID, l.Quantity)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Returned product no longer in catalog", "productID", l.ProductID, "quantity", l.Quantity)
		return nil
	}
	if err != nil {
		return fmt.Errorf("restock %s: %w", l.ProductID, err)
	}
	return nil
}

func validateReturnAmounts(req ReturnRequest) error {
	if req.Discount.IsNegative() {
		return fmt.Errorf("%w: discount", domain.ErrInvalidAmount)
	}
	if req.ReceivedAmount.IsNegative() {
		return fmt.Errorf("%w: received amount", domain.ErrInvalidAmount)
	}
	return nil
}

func (s *rentalService) UpdateStatus(ctx context.Context, rentalID string, status domain.RentalStatus) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.UpdateStatus", "rentalID", rentalID, "status", status)

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidStatusTransition, status)
	}
	current, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		logger.ExitMethodWithError("rentalService.UpdateStatus", err)
		return nil, err
	}

	unlock, err := s.locker.Obtain(ctx, lock.CustomerKey(current.CustomerID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var rental *domain.Rental
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rental, err = s.rentalRepo.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if rental.Status == status {
			return nil
		}
		if !rental.Status.IsOpen() {
			return fmt.Errorf("%w: rental %s is %s", domain.ErrInvalidStatusTransition, rental.ID, rental.Status)
		}
		if status == domain.RentalStatusCompleted && rental.OutstandingQuantity() > 0 {
			return fmt.Errorf("%w: rental %s still has %d items out",
				domain.ErrInvalidStatusTransition, rental.ID, rental.OutstandingQuantity())
		}
		rental.Status = status
		return s.rentalRepo.Update(ctx, rental)
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.UpdateStatus", err)
		return nil, err
	}

	logger.ExitMethod("rentalService.UpdateStatus", "rentalID", rental.ID, "status", rental.Status)
	return rental, nil
}

func (s *rentalService) DeleteRental(ctx context.Context, rentalID string) error {
	logger.EnterMethod("rentalService.DeleteRental", "rentalID", rentalID)

	current, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		logger.ExitMethodWithError("rentalService.DeleteRental", err)
		return err
	}

	unlock, err := s.locker.Obtain(ctx, lock.CustomerKey(current.CustomerID))
	if err != nil {
		return err
	}
	defer unlock()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rental, err := s.rentalRepo.GetByID(ctx, rentalID)
		if err != nil {
			return err
		}
		if rental.Status.IsOpen() {
			for _, item := range rental.Items {
				if err := s.restock(ctx, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity}); err != nil {
					return err
				}
			}
		}
		return s.rentalRepo.Delete(ctx, rentalID)
	})
	if err != nil {
		logger.ExitMethodWithError("rentalService.DeleteRental", err)
		return err
	}

	logger.Info("Rental deleted", "rentalID", rentalID, "customerID", current.CustomerID)
	logger.ExitMethod("rentalService.DeleteRental")
	return nil
}

func (s *rentalService) GetRental(ctx context.Context, rentalID string) (*domain.Rental, error) {
	return s.rentalRepo.GetByID(ctx, rentalID)
}

func (s *rentalService) ListRentals(ctx context.Context, filter domain.RentalFilter) ([]domain.Rental, error) {
	logger.EnterMethod("rentalService.ListRentals", "customerID", filter.CustomerID, "search", filter.Search)
	rentals, err := s.rentalRepo.List(ctx, filter)
	if err != nil {
		logger.ExitMethodWithError("rentalService.ListRentals", err)
		return nil, err
	}
	logger.ExitMethod("rentalService.ListRentals", "count", len(rentals))
	return rentals, nil
}
