package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/billing"
	"rentalshop-backend/internal/domain"
)

// NewOrder is a counter order for one customer. Lines for the same product
// are summed before anything else happens.
type NewOrder struct {
	CustomerID         string
	StartDate          time.Time
	ExpectedReturnDate *time.Time
	Notes              string
	AdvancePayment     decimal.Decimal
	Lines              []domain.OrderLine
}

// ReturnRequest is one return visit against a rental.
type ReturnRequest struct {
	RentalID       string
	Lines          []domain.OrderLine
	ReturnDate     time.Time
	Discount       decimal.Decimal
	ReceivedAmount decimal.Decimal
	CreatedBy      string
}

type RentalService interface {
	CreateRental(ctx context.Context, order NewOrder) (*domain.Rental, error)
	ReturnItems(ctx context.Context, req ReturnRequest) (*billing.ReturnResult, error)
	// QuoteReturn previews a return without writing anything.
	QuoteReturn(ctx context.Context, req ReturnRequest) (*billing.ReturnResult, error)
	UpdateStatus(ctx context.Context, rentalID string, status domain.RentalStatus) (*domain.Rental, error)
	DeleteRental(ctx context.Context, rentalID string) error
	GetRental(ctx context.Context, rentalID string) (*domain.Rental, error)
	ListRentals(ctx context.Context, filter domain.RentalFilter) ([]domain.Rental, error)
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, search string) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	SettleDebt(ctx context.Context, customerID string, amount decimal.Decimal, createdBy, note string) (*domain.Customer, error)
	ListDebtors(ctx context.Context) (*domain.DebtorSummary, error)
	GetLedger(ctx context.Context, customerID string) ([]domain.LedgerEntry, error)
}

type InventoryService interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type InvoiceService interface {
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
}

type ReportService interface {
	Revenue(ctx context.Context, timeframe domain.RevenueTimeframe, from, to *time.Time) (*domain.RevenueReport, error)
	Dashboard(ctx context.Context) (*domain.DashboardSummary, error)
}

type AuthService interface {
	// Login returns an access token and its expiry for valid credentials.
	Login(ctx context.Context, username, password string) (string, time.Time, *domain.User, error)
}

type UserService interface {
	CreateUser(ctx context.Context, username, password, name string, role domain.UserRole) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	// EnsureBootstrapAdmin creates the given admin when no users exist yet.
	EnsureBootstrapAdmin(ctx context.Context, username, password, name string) error
}

// now is the service clock. Dates derived from it are UTC calendar days.
var now = func() time.Time {
	return time.Now().UTC()
}
