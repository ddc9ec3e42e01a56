// Package billing holds the rental lifecycle and billing rules. Every function
// is pure: it takes snapshots and returns new ones, leaving persistence,
// locking and stock bookkeeping to the caller.
package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/domain"
)

// ReturnEvent is one customer visit returning items and paying.
type ReturnEvent struct {
	Lines          []domain.OrderLine
	ReturnDate     time.Time
	Discount       decimal.Decimal
	ReceivedAmount decimal.Decimal
	CreatedBy      string
}

type ReturnResult struct {
	Returned   []domain.OrderLine
	Charge     Charge
	Settlement Settlement
	Invoice    domain.Invoice
	Rental     domain.Rental
	Customer   domain.Customer
}

// ProcessReturn runs proration, settlement, invoicing, the rental update and
// the debt ledger for a single return event, all from the same snapshots.
// Return lines are clamped first; Returned reports what was actually taken
// back so the caller can restock it.
func ProcessReturn(invoiceID string, rental domain.Rental, customer domain.Customer, ev ReturnEvent, opts ReturnOptions) ReturnResult {
	returned := ClampReturn(rental, ev.Lines)
	charge := ComputeCharge(rental, returned, ev.ReturnDate)
	s := Settle(charge.SubTotal, ev.Discount, rental.AdvancePayment, customer.TotalDebt, ev.ReceivedAmount)
	invoice := CreateInvoice(invoiceID, rental, customer, ev.ReturnDate, charge, s, ev.CreatedBy)

	return ReturnResult{
		Returned:   returned,
		Charge:     charge,
		Settlement: s,
		Invoice:    invoice,
		Rental:     ApplyReturn(rental, returned, charge, s, invoice, opts),
		Customer:   ApplySettlement(customer, charge.SubTotal, s.BalanceDue),
	}
}
