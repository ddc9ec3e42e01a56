package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/repository"
	"rentalshop-backend/internal/utils"
)

// invoiceService reads invoices out of the rentals that own them.
type invoiceService struct {
	rentalRepo repository.RentalRepository
}

func NewInvoiceService(rentalRepo repository.RentalRepository) InvoiceService {
	return &invoiceService{rentalRepo: rentalRepo}
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	logger.EnterMethod("invoiceService.ListInvoices", "search", filter.Search, "customerID", filter.CustomerID)

	invoices, err := allInvoices(ctx, s.rentalRepo, filter.CustomerID)
	if err != nil {
		logger.ExitMethodWithError("invoiceService.ListInvoices", err)
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := invoices[:0]
	for _, inv := range invoices {
		if search != "" && !strings.Contains(strings.ToLower(inv.ID), search) &&
			!strings.Contains(strings.ToLower(inv.CustomerName), search) {
			continue
		}
		if !inRange(inv, filter.From, filter.To) {
			continue
		}
		out = append(out, inv)
	}

	logger.ExitMethod("invoiceService.ListInvoices", "count", len(out))
	return out, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	invoices, err := allInvoices(ctx, s.rentalRepo, "")
	if err != nil {
		return nil, err
	}
	for i := range invoices {
		if invoices[i].ID == id {
			return &invoices[i], nil
		}
	}
	return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
}

// allInvoices flattens invoices across rentals, newest first.
func allInvoices(ctx context.Context, rentalRepo repository.RentalRepository, customerID string) ([]domain.Invoice, error) {
	rentals, err := rentalRepo.List(ctx, domain.RentalFilter{CustomerID: customerID})
	if err != nil {
		return nil, err
	}
	invoices := []domain.Invoice{}
	for _, r := range rentals {
		invoices = append(invoices, r.Invoices...)
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		if !invoices[i].Date.Equal(invoices[j].Date) {
			return invoices[i].Date.After(invoices[j].Date)
		}
		if !invoices[i].CreatedOn.Equal(invoices[j].CreatedOn) {
			return invoices[i].CreatedOn.After(invoices[j].CreatedOn)
		}
		return invoices[i].ID > invoices[j].ID
	})
	return invoices, nil
}

func inRange(inv domain.Invoice, from, to *time.Time) bool {
	day := utils.TruncateDay(inv.Date)
	if from != nil && day.Before(utils.TruncateDay(*from)) {
		return false
	}
	if to != nil && day.After(utils.TruncateDay(*to)) {
		return false
	}
	return true
}
