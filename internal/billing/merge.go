package billing

import (
	"rentalshop-backend/internal/domain"
)

// FindOpenRental returns the index of the customer's open rental, or -1.
func FindOpenRental(rentals []domain.Rental, customerID string) int {
	for i := range rentals {
		if rentals[i].CustomerID == customerID && rentals[i].Status.IsOpen() {
			return i
		}
	}
	return -1
}

// FoldLines sums quantities of repeated products, keeping first-seen order.
func FoldLines(lines []domain.OrderLine) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

// MergeOrder folds order into target. Advance accumulates; quantities of
// products already on the rental grow while their locked unit price is kept;
// new products are appended.
func MergeOrder(target, order domain.Rental) domain.Rental {
	merged := target.Clone()
	merged.AdvancePayment = merged.AdvancePayment.Add(order.AdvancePayment)

	for _, item := range order.Items {
		if i := merged.FindItem(item.ProductID); i >= 0 {
			merged.Items[i].Quantity += item.Quantity
			continue
		}
		merged.Items = append(merged.Items, item)
	}

	if merged.ExpectedReturnDate == nil && order.ExpectedReturnDate != nil {
		d := *order.ExpectedReturnDate
		merged.ExpectedReturnDate = &d
	}
	if merged.Notes == "" {
		merged.Notes = order.Notes
	}
	return merged
}

// AddRental applies a new order to snapshots of the rental collection and the
// catalog. Stock is decremented without a floor; capacity is the caller's
// concern. The order joins the customer's open rental when there is one,
// otherwise it is prepended as a new rental.
func AddRental(order domain.Rental, rentals []domain.Rental, catalog []domain.Product) ([]domain.Rental, []domain.Product) {
	updatedCatalog := append([]domain.Product(nil), catalog...)
	for i := range updatedCatalog {
		for _, item := range order.Items {
			if item.ProductID == updatedCatalog[i].ID {
				updatedCatalog[i].AvailableQuantity -= item.Quantity
			}
		}
	}

	updatedRentals := make([]domain.Rental, 0, len(rentals)+1)
	if i := FindOpenRental(rentals, order.CustomerID); i >= 0 {
		updatedRentals = append(updatedRentals, rentals...)
		updatedRentals[i] = MergeOrder(rentals[i], order)
		return updatedRentals, updatedCatalog
	}

	created := order.Clone()
	if created.Status == "" {
		created.Status = domain.RentalStatusActive
	}
	updatedRentals = append(updatedRentals, created)
	updatedRentals = append(updatedRentals, rentals...)
	return updatedRentals, updatedCatalog
}

// Restock returns returned units to the shelf of a catalog snapshot.
func Restock(catalog []domain.Product, returned []domain.OrderLine) []domain.Product {
	out := append([]domain.Product(nil), catalog...)
	for i := range out {
		for _, l := range returned {
			if l.ProductID == out[i].ID {
				out[i].AvailableQuantity += l.Quantity
			}
		}
	}
	return out
}
