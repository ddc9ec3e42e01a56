package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalStatusActive        RentalStatus = "Active"
	RentalStatusCompleted     RentalStatus = "Completed"
	RentalStatusOverdue       RentalStatus = "Overdue"
	RentalStatusPartialReturn RentalStatus = "Partial Return"
)

// OpenRentalStatuses lists every status under which a rental still holds items.
var OpenRentalStatuses = []RentalStatus{
	RentalStatusActive,
	RentalStatusPartialReturn,
	RentalStatusOverdue,
}

// IsOpen reports whether a rental in this status can still be merged into or returned against.
func (s RentalStatus) IsOpen() bool {
	switch s {
	case RentalStatusActive, RentalStatusPartialReturn, RentalStatusOverdue:
		return true
	}
	return false
}

func (s RentalStatus) Valid() bool {
	return s.IsOpen() || s == RentalStatusCompleted
}

// RentalItem is an outstanding line on a rental. Name, image and unit price are
// snapshots taken when the item was first ordered.
type RentalItem struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

type Rental struct {
	ID                 string          `json:"id"`
	CustomerID         string          `json:"customer_id"`
	CustomerName       string          `json:"customer_name"`
	StartDate          time.Time       `json:"start_date"`
	ExpectedReturnDate *time.Time      `json:"expected_return_date,omitempty"`
	Status             RentalStatus    `json:"status"`
	Items              []RentalItem    `json:"items"`
	AdvancePayment     decimal.Decimal `json:"advance_payment"`
	// TotalAmount is the cumulative billed subtotal across all invoices, not a balance.
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty"`
	Invoices    []Invoice       `json:"invoices"`
	CreatedOn   time.Time       `json:"created_on"`
	UpdatedOn   time.Time       `json:"updated_on"`
}

// FindItem returns the index of the item for productID, or -1.
func (r *Rental) FindItem(productID string) int {
	for i := range r.Items {
		if r.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// OutstandingQuantity is the number of units still with the customer.
func (r *Rental) OutstandingQuantity() int {
	total := 0
	for _, item := range r.Items {
		total += item.Quantity
	}
	return total
}

// Clone returns a deep copy so callers can derive a new snapshot without
// touching the one they read.
func (r Rental) Clone() Rental {
	out := r
	if r.ExpectedReturnDate != nil {
		d := *r.ExpectedReturnDate
		out.ExpectedReturnDate = &d
	}
	out.Items = append([]RentalItem(nil), r.Items...)
	out.Invoices = make([]Invoice, len(r.Invoices))
	for i, inv := range r.Invoices {
		out.Invoices[i] = inv.Clone()
	}
	return out
}

// OrderLine is a requested (productID, quantity) pair, used both for new
// orders and for return events.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// RentalFilter narrows a rental listing. Zero values mean "no filter".
type RentalFilter struct {
	CustomerID string
	Statuses   []RentalStatus
	Search     string // rental id or customer name
}
