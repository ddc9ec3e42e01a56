package http_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "rentalshop-backend/internal/api/http"
	"rentalshop-backend/internal/config"
	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/lock"
	"rentalshop-backend/internal/repository/memory"
	"rentalshop-backend/internal/security"
	"rentalshop-backend/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type apiFixture struct {
	t          *testing.T
	server     *httptest.Server
	adminToken string
	staffToken string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	locker := lock.NewLocalLocker()
	tm := security.NewTokenManager("test-secret-key-that-is-long-enough-123", time.Hour)

	services := api.Services{
		Auth:      service.NewAuthService(store.UserRepository, tm),
		User:      service.NewUserService(store.UserRepository),
		Inventory: service.NewInventoryService(store.ProductRepository),
		Customer:  service.NewCustomerService(store.Transactor, store.CustomerRepository, store.RentalRepository, store.LedgerRepository, locker),
		Rental: service.NewRentalService(store.Transactor, store.RentalRepository, store.ProductRepository,
			store.CustomerRepository, store.SequenceRepository, store.LedgerRepository, locker,
			service.RentalOptions{RentalIDWidth: 2, InvoiceIDWidth: 2}),
		Invoice: service.NewInvoiceService(store.RentalRepository),
		Report:  service.NewReportService(store.RentalRepository, store.ProductRepository, store.CustomerRepository),
	}
	_, err := services.User.CreateUser(ctx, "owner", "owner-password", "Owner", domain.UserRoleAdmin)
	require.NoError(t, err)
	_, err = services.User.CreateUser(ctx, "clerk", "clerk-password", "Clerk", domain.UserRoleStaff)
	require.NoError(t, err)

	h := api.NewHandlers(services, config.StoreConfig{Name: "Ali Scaffolding", Phone: "0300-1234567"})
	server := httptest.NewServer(api.NewRouter(h, tm))
	t.Cleanup(server.Close)

	f := &apiFixture{t: t, server: server}
	f.adminToken = f.login("owner", "owner-password")
	f.staffToken = f.login("clerk", "clerk-password")
	return f
}

func (f *apiFixture) do(method, path, token string, body any) *http.Response {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.server.URL+"/api/v1"+path, &buf)
	require.NoError(f.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.server.Client().Do(req)
	require.NoError(f.t, err)
	f.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *apiFixture) decode(resp *http.Response, dst any) {
	f.t.Helper()
	require.NoError(f.t, json.NewDecoder(resp.Body).Decode(dst))
}

func (f *apiFixture) login(username, password string) string {
	f.t.Helper()
	resp := f.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(f.t, http.StatusOK, resp.StatusCode)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	f.decode(resp, &out)
	require.NotEmpty(f.t, out.AccessToken)
	return out.AccessToken
}

func TestPublicEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("Health", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Settings", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/settings", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]string
		f.decode(resp, &out)
		assert.Equal(t, "Ali Scaffolding", out["store_name"])
		assert.Equal(t, "0300-1234567", out["store_phone"])
	})

	t.Run("Wrong password", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "owner", "password": "nope-nope"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Login validation", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "owner"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAuthorization(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("Missing token", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/products", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Garbage token", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/products", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Staff can list products", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/products", f.staffToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Staff cannot manage users", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/users", f.staffToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Admin can manage users", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/users", f.adminToken, map[string]string{
			"username": "helper", "password": "helper-password", "role": "STAFF",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = f.do(http.MethodGet, "/users", f.adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var users []domain.User
		f.decode(resp, &users)
		assert.Len(t, users, 3)
	})

	t.Run("Unknown role rejected", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/users", f.adminToken, map[string]string{
			"username": "boss", "password": "boss-password", "role": "OWNER",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestProductEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(http.MethodPost, "/products", f.staffToken, map[string]any{
		"name": "Scaffold", "category": "Steel", "total_quantity": 20, "rate": "100",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product domain.Product
	f.decode(resp, &product)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, 20, product.AvailableQuantity)

	t.Run("Get", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/products/"+product.ID, f.staffToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Not found", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/products/missing", f.staffToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Validation error", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/products", f.staffToken, map[string]any{"total_quantity": -1})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var out map[string]string
		f.decode(resp, &out)
		assert.Equal(t, "validation error", out["message"])
	})

	t.Run("Staff cannot delete", func(t *testing.T) {
		resp := f.do(http.MethodDelete, "/products/"+product.ID, f.staffToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Admin deletes", func(t *testing.T) {
		resp := f.do(http.MethodDelete, "/products/"+product.ID, f.adminToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestRentalLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(http.MethodPost, "/products", f.staffToken, map[string]any{
		"name": "Scaffold", "total_quantity": 10, "rate": "100",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product domain.Product
	f.decode(resp, &product)

	resp = f.do(http.MethodPost, "/customers", f.staffToken, map[string]any{"name": "Ali", "phone": "0300"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var customer domain.Customer
	f.decode(resp, &customer)

	t.Run("Insufficient stock", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/rentals", f.staffToken, map[string]any{
			"customer_id": customer.ID,
			"items":       []map[string]any{{"product_id": product.ID, "quantity": 11}},
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Bad date", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/rentals", f.staffToken, map[string]any{
			"customer_id": customer.ID,
			"start_date":  "01/01/2024",
			"items":       []map[string]any{{"product_id": product.ID, "quantity": 1}},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	resp = f.do(http.MethodPost, "/rentals", f.staffToken, map[string]any{
		"customer_id":     customer.ID,
		"start_date":      "2024-01-01",
		"advance_payment": "100",
		"items":           []map[string]any{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rental domain.Rental
	f.decode(resp, &rental)
	assert.Equal(t, "01", rental.ID)
	assert.Equal(t, domain.RentalStatusActive, rental.Status)

	t.Run("Quote does not save", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/rentals/01/quote", f.staffToken, map[string]any{
			"return_date": "2024-01-04",
			"items":       []map[string]any{{"product_id": product.ID, "quantity": 2}},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Days       int               `json:"days"`
			Invoice    *domain.Invoice   `json:"invoice"`
			Settlement map[string]string `json:"settlement"`
		}
		f.decode(resp, &out)
		assert.Equal(t, 3, out.Days)
		assert.Nil(t, out.Invoice)
		assert.Equal(t, "600", out.Settlement["sub_total"])

		resp = f.do(http.MethodGet, "/invoices", f.staffToken, nil)
		var invoices []domain.Invoice
		f.decode(resp, &invoices)
		assert.Empty(t, invoices)
	})

	resp = f.do(http.MethodPost, "/rentals/01/returns", f.staffToken, map[string]any{
		"return_date":     "2024-01-04",
		"received_amount": "300",
		"items":           []map[string]any{{"product_id": product.ID, "quantity": 5}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var returned struct {
		Invoice  *domain.Invoice `json:"invoice"`
		Rental   domain.Rental   `json:"rental"`
		Customer domain.Customer `json:"customer"`
	}
	f.decode(resp, &returned)
	require.NotNil(t, returned.Invoice)
	assert.Equal(t, "01", returned.Invoice.ID)
	assert.Equal(t, "clerk", returned.Invoice.CreatedBy)
	assert.Equal(t, "600", returned.Invoice.SubTotal.String())
	assert.Equal(t, "200", returned.Invoice.BalanceDue.String())
	assert.Equal(t, domain.RentalStatusCompleted, returned.Rental.Status)
	assert.Equal(t, "200", returned.Customer.TotalDebt.String())

	t.Run("Closed rental rejects returns", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/rentals/01/returns", f.staffToken, map[string]any{
			"items": []map[string]any{{"product_id": product.ID, "quantity": 1}},
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Invoice lookup", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/invoices/01", f.staffToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp = f.do(http.MethodGet, "/invoices?from=2024-01-05", f.staffToken, nil)
		var invoices []domain.Invoice
		f.decode(resp, &invoices)
		assert.Empty(t, invoices)
	})

	t.Run("Settle debt", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/customers/"+customer.ID+"/settle-debt", f.staffToken, map[string]any{"amount": "150"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var updated domain.Customer
		f.decode(resp, &updated)
		assert.Equal(t, "50", updated.TotalDebt.String())

		resp = f.do(http.MethodGet, "/customers/"+customer.ID+"/ledger", f.staffToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var entries []domain.LedgerEntry
		f.decode(resp, &entries)
		assert.Len(t, entries, 2)
	})

	t.Run("Negative settlement", func(t *testing.T) {
		resp := f.do(http.MethodPost, "/customers/"+customer.ID+"/settle-debt", f.staffToken, map[string]any{"amount": "-5"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Customer with history cannot be deleted", func(t *testing.T) {
		resp := f.do(http.MethodDelete, "/customers/"+customer.ID, f.adminToken, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("Dashboard", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/reports/dashboard", f.staffToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Revenue custom needs bounds", func(t *testing.T) {
		resp := f.do(http.MethodGet, "/reports/revenue?timeframe=custom", f.staffToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = f.do(http.MethodGet, "/reports/revenue?timeframe=custom&from=2024-01-01&to=2024-01-31", f.staffToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
