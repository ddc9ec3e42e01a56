package postgres

import (
	jsoniter "github.com/json-iterator/go"

	"rentalshop-backend/internal/domain"
)

// JSONB columns are written as text so lib/pq does not send them as bytea.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encodeItems(items []domain.RentalItem) (string, error) {
	if items == nil {
		items = []domain.RentalItem{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}

func decodeItems(raw []byte) ([]domain.RentalItem, error) {
	var items []domain.RentalItem
	if len(raw) == 0 {
		return items, nil
	}
	err := json.Unmarshal(raw, &items)
	return items, err
}

func encodeInvoices(invoices []domain.Invoice) (string, error) {
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	b, err := json.Marshal(invoices)
	return string(b), err
}

func decodeInvoices(raw []byte) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	if len(raw) == 0 {
		return invoices, nil
	}
	err := json.Unmarshal(raw, &invoices)
	return invoices, err
}
