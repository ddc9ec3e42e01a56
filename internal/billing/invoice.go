package billing

import (
	"fmt"
	"time"

	"rentalshop-backend/internal/domain"
)

// DefaultIDWidth is the minimum zero-padded width of rental and invoice ids.
const DefaultIDWidth = 2

// FormatSequenceID zero-pads n to at least width digits. Larger numbers
// simply grow wider.
func FormatSequenceID(n int64, width int) string {
	if width < 1 {
		width = DefaultIDWidth
	}
	return fmt.Sprintf("%0*d", width, n)
}

// CreateInvoice assembles the receipt for one return event. Customer contact
// details are copied so later edits to the customer do not alter the invoice.
func CreateInvoice(id string, rental domain.Rental, customer domain.Customer, returnDate time.Time, charge Charge, s Settlement, createdBy string) domain.Invoice {
	lines := make([]domain.InvoiceLine, 0, len(charge.Lines))
	for _, l := range charge.Lines {
		lines = append(lines, domain.InvoiceLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Days:        l.Days,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}

	return domain.Invoice{
		ID:              id,
		RentalID:        rental.ID,
		Date:            returnDate,
		Lines:           lines,
		SubTotal:        charge.SubTotal,
		Discount:        s.Discount,
		TotalAmount:     s.NetBill,
		AdvanceAdjusted: s.AdvanceAdjusted,
		PreviousDebt:    s.PreviousDebt,
		ReceivedAmount:  s.ReceivedAmount,
		BalanceDue:      s.BalanceDue,
		ChangeDue:       s.ChangeDue,
		IsPaid:          s.BalanceDue.IsZero(),
		CreatedBy:       createdBy,
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
	}
}
