package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/lock"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
)

type customerService struct {
	tx           repository.Transactor
	customerRepo repository.CustomerRepository
	rentalRepo   repository.RentalRepository
	ledgerRepo   repository.LedgerRepository
	locker       lock.Locker
}

func NewCustomerService(
	tx repository.Transactor,
	customerRepo repository.CustomerRepository,
	rentalRepo repository.RentalRepository,
	ledgerRepo repository.LedgerRepository,
	locker lock.Locker,
) CustomerService {
	return &customerService{
		tx:           tx,
		customerRepo: customerRepo,
		rentalRepo:   rentalRepo,
		ledgerRepo:   ledgerRepo,
		locker:       locker,
	}
}

// CreateCustomer registers a walk-in customer with a clean credit record.
func (s *customerService) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	customer.ID = uuid.NewString()
	customer.Tier = domain.TierNew
	customer.TotalSpent = decimal.Zero
	customer.TotalDebt = decimal.Zero
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return err
	}
	logger.Info("Customer created", "customerID", customer.ID)
	return nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) ListCustomers(ctx context.Context, search string) ([]domain.Customer, error) {
	return s.customerRepo.List(ctx, strings.TrimSpace(search))
}

// UpdateCustomer changes contact details only. Tier, spend and debt move
// through returns and debt payments.
func (s *customerService) UpdateCustomer(ctx context.Context, in *domain.Customer) (*domain.Customer, error) {
	unlock, err := s.locker.Obtain(ctx, lock.CustomerKey(in.ID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := s.customerRepo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	current.Name = in.Name
	current.Phone = in.Phone
	current.Address = in.Address
	current.CNIC = in.CNIC
	current.Photo = in.Photo
	current.GuarantorName = in.GuarantorName
	current.GuarantorPhone = in.GuarantorPhone
	current.Rating = in.Rating
	if err := s.customerRepo.Update(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}

// DeleteCustomer removes a customer that never rented anything.
func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	unlock, err := s.locker.Obtain(ctx, lock.CustomerKey(id))
	if err != nil {
		return err
	}
	defer unlock()

	rentals, err := s.rentalRepo.List(ctx, domain.RentalFilter{CustomerID: id})
	if err != nil {
		return err
	}
	if len(rentals) > 0 {
		return fmt.Errorf("%w: %d rentals", domain.ErrCustomerHasRentals, len(rentals))
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Customer deleted", "customerID", id)
	return nil
}
