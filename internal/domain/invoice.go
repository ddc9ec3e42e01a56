package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Days        int             `json:"days"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is the receipt of one return event. It is never edited after creation.
type Invoice struct {
	ID       string        `json:"id"`
	RentalID string        `json:"rental_id"`
	Date     time.Time     `json:"date"`
	Lines    []InvoiceLine `json:"items"`

	SubTotal        decimal.Decimal `json:"sub_total"`
	Discount        decimal.Decimal `json:"discount"`
	TotalAmount     decimal.Decimal `json:"total_amount"` // net bill of this transaction only
	AdvanceAdjusted decimal.Decimal `json:"advance_adjusted"`
	PreviousDebt    decimal.Decimal `json:"previous_debt"`
	ReceivedAmount  decimal.Decimal `json:"received_amount"`
	BalanceDue      decimal.Decimal `json:"balance_due"`
	ChangeDue       decimal.Decimal `json:"change_due"`
	IsPaid          bool            `json:"is_paid"`

	CreatedBy       string    `json:"created_by"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerAddress string    `json:"customer_address"`
	CreatedOn       time.Time `json:"created_on"`
}

func (inv Invoice) Clone() Invoice {
	out := inv
	out.Lines = append([]InvoiceLine(nil), inv.Lines...)
	return out
}

// InvoiceFilter narrows an invoice listing. Zero values mean "no filter".
type InvoiceFilter struct {
	Search     string
	From       *time.Time
	To         *time.Time
	CustomerID string
}
