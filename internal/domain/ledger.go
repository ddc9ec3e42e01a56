package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerEntryType string

const (
	LedgerEntryTypeInvoice     LedgerEntryType = "INVOICE"
	LedgerEntryTypeDebtPayment LedgerEntryType = "DEBT_PAYMENT"
)

// LedgerEntry records one change to a customer's outstanding debt.
type LedgerEntry struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Type       LedgerEntryType `json:"type"`
	InvoiceID  *string         `json:"invoice_id,omitempty"`
	RentalID   *string         `json:"rental_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"` // cash received
	DebtBefore decimal.Decimal `json:"debt_before"`
	DebtAfter  decimal.Decimal `json:"debt_after"`
	CreatedBy  string          `json:"created_by"`
	Note       string          `json:"note,omitempty"`
	CreatedOn  time.Time       `json:"created_on"`
}

type DebtorSummary struct {
	Debtors         []Customer      `json:"debtors"`
	TotalReceivable decimal.Decimal `json:"total_receivable"`
}
