package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/billing"
	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/lock"
	"rentalshop-backend/internal/logger"
)

// SettleDebt records a cash payment against a customer's outstanding debt.
// Paying more than is owed clears the debt.
func (s *customerService) SettleDebt(ctx context.Context, customerID string, amount decimal.Decimal, createdBy, note string) (*domain.Customer, error) {
	logger.EnterMethod("customerService.SettleDebt", "customerID", customerID, "amount", amount.String())

	if !amount.IsPositive() {
		logger.ExitMethodWithError("customerService.SettleDebt", domain.ErrInvalidAmount)
		return nil, fmt.Errorf("%w: payment must be positive", domain.ErrInvalidAmount)
	}

	unlock, err := s.locker.Obtain(ctx, lock.CustomerKey(customerID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var updated domain.Customer
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetByID(ctx, customerID)
		if err != nil {
			return err
		}
		updated = billing.SettleDebtDirectly(*customer, amount)
		if err := s.customerRepo.Update(ctx, &updated); err != nil {
			return err
		}
		return s.ledgerRepo.Append(ctx, &domain.LedgerEntry{
			ID:         uuid.NewString(),
			CustomerID: customer.ID,
			Type:       domain.LedgerEntryTypeDebtPayment,
			Amount:     amount,
			DebtBefore: customer.TotalDebt,
			DebtAfter:  updated.TotalDebt,
			CreatedBy:  createdBy,
			Note:       note,
			CreatedOn:  now(),
		})
	})
	if err != nil {
		logger.ExitMethodWithError("customerService.SettleDebt", err)
		return nil, err
	}

	logger.WithCustomer(customerID).Info("Debt payment recorded", "amount", amount.String(), "debt", updated.TotalDebt.String())
	logger.ExitMethod("customerService.SettleDebt")
	return &updated, nil
}

func (s *customerService) ListDebtors(ctx context.Context) (*domain.DebtorSummary, error) {
	debtors, err := s.customerRepo.ListDebtors(ctx)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, c := range debtors {
		total = total.Add(c.TotalDebt)
	}
	if debtors == nil {
		debtors = []domain.Customer{}
	}
	return &domain.DebtorSummary{Debtors: debtors, TotalReceivable: total}, nil
}

func (s *customerService) GetLedger(ctx context.Context, customerID string) ([]domain.LedgerEntry, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.ListByCustomer(ctx, customerID)
}
