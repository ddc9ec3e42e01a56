package billing

import (
	"rentalshop-backend/internal/domain"
)

type ReturnOptions struct {
	// TrackPartialReturns marks rentals that still hold items after a return
	// as Partial Return instead of Active.
	TrackPartialReturns bool
}

// ApplyReturn produces the rental snapshot after a return event: quantities
// shrink, emptied items drop out, the bill is added to the running total, the
// unconsumed advance is kept and the invoice is appended. The start date is
// never reset.
func ApplyReturn(rental domain.Rental, returned []domain.OrderLine, charge Charge, s Settlement, invoice domain.Invoice, opts ReturnOptions) domain.Rental {
	updated := rental.Clone()

	items := updated.Items[:0]
	for _, item := range updated.Items {
		if l, ok := findLine(returned, item.ProductID); ok {
			item.Quantity -= l.Quantity
		}
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}
	updated.Items = items

	updated.Status = statusAfterReturn(rental.Status, len(updated.Items) > 0, opts)
	updated.TotalAmount = updated.TotalAmount.Add(charge.SubTotal)
	updated.AdvancePayment = s.RemainingAdvance
	updated.Invoices = append(updated.Invoices, invoice.Clone())
	return updated
}

func statusAfterReturn(current domain.RentalStatus, itemsRemain bool, opts ReturnOptions) domain.RentalStatus {
	switch {
	case !itemsRemain:
		return domain.RentalStatusCompleted
	case current == domain.RentalStatusOverdue:
		return domain.RentalStatusOverdue
	case opts.TrackPartialReturns:
		return domain.RentalStatusPartialReturn
	default:
		return domain.RentalStatusActive
	}
}
