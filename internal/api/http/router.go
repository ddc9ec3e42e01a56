package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"rentalshop-backend/internal/config"
	"rentalshop-backend/internal/security"
	"rentalshop-backend/internal/service"
)

// Services holds the services the HTTP API exposes
type Services struct {
	Auth      service.AuthService
	User      service.UserService
	Inventory service.InventoryService
	Customer  service.CustomerService
	Rental    service.RentalService
	Invoice   service.InvoiceService
	Report    service.ReportService
}

// Handlers implements the /api/v1 REST endpoints
type Handlers struct {
	services Services
	store    config.StoreConfig
	validate *validator.Validate
}

func NewHandlers(services Services, store config.StoreConfig) *Handlers {
	return &Handlers{
		services: services,
		store:    store,
		validate: validator.New(),
	}
}

// NewRouter registers every endpoint below /api/v1
func NewRouter(h *Handlers, tm security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(loggingMiddleware)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tm).Handler)

	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/settings", h.Settings).Methods(http.MethodGet)

	api.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.UpdateProduct).Methods(http.MethodPut)
	api.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)

	api.HandleFunc("/customers", h.ListCustomers).Methods(http.MethodGet)
	api.HandleFunc("/customers", h.CreateCustomer).Methods(http.MethodPost)
	api.HandleFunc("/customers/{id}", h.GetCustomer).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id}", h.DeleteCustomer).Methods(http.MethodDelete)
	api.HandleFunc("/customers/{id}/ledger", h.GetLedger).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}/settle-debt", h.SettleDebt).Methods(http.MethodPost)
	api.HandleFunc("/debtors", h.ListDebtors).Methods(http.MethodGet)

	api.HandleFunc("/rentals", h.ListRentals).Methods(http.MethodGet)
	api.HandleFunc("/rentals", h.CreateRental).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}", h.GetRental).Methods(http.MethodGet)
	api.HandleFunc("/rentals/{id}", h.DeleteRental).Methods(http.MethodDelete)
	api.HandleFunc("/rentals/{id}/status", h.UpdateRentalStatus).Methods(http.MethodPut)
	api.HandleFunc("/rentals/{id}/returns", h.ReturnItems).Methods(http.MethodPost)
	api.HandleFunc("/rentals/{id}/quote", h.QuoteReturn).Methods(http.MethodPost)

	api.HandleFunc("/invoices", h.ListInvoices).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{id}", h.GetInvoice).Methods(http.MethodGet)
	api.HandleFunc("/reports/revenue", h.Revenue).Methods(http.MethodGet)
	api.HandleFunc("/reports/dashboard", h.Dashboard).Methods(http.MethodGet)

	api.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", h.DeleteUser).Methods(http.MethodDelete)

	return router
}
