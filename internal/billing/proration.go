package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/utils"
)

// amountPlaces is the rounding precision of every billed line.
const amountPlaces = 2

type LineCharge struct {
	ProductID   string
	ProductName string
	Quantity    int
	Days        int
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

type Charge struct {
	Days     int
	Lines    []LineCharge
	SubTotal decimal.Decimal
}

// ComputeCharge prices a return event without touching the rental. Days run
// from the rental's original start date. Returned products that are not on the
// rental produce no line.
func ComputeCharge(rental domain.Rental, returned []domain.OrderLine, returnDate time.Time) Charge {
	days := utils.ElapsedDays(rental.StartDate, returnDate)
	charge := Charge{Days: days, SubTotal: decimal.Zero}

	for _, item := range rental.Items {
		line, ok := findLine(returned, item.ProductID)
		if !ok {
			continue
		}
		amount := item.UnitPrice.
			Mul(decimal.NewFromInt(int64(line.Quantity))).
			Mul(decimal.NewFromInt(int64(days))).
			Round(amountPlaces)
		charge.Lines = append(charge.Lines, LineCharge{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    line.Quantity,
			Days:        days,
			UnitPrice:   item.UnitPrice,
			Amount:      amount,
		})
		charge.SubTotal = charge.SubTotal.Add(amount)
	}
	return charge
}

// ClampReturn folds repeated products, drops non-positive lines and lines for
// products not on the rental, and caps each quantity at what is outstanding.
func ClampReturn(rental domain.Rental, lines []domain.OrderLine) []domain.OrderLine {
	var out []domain.OrderLine
	for _, l := range FoldLines(lines) {
		if l.Quantity <= 0 {
			continue
		}
		i := rental.FindItem(l.ProductID)
		if i < 0 || rental.Items[i].Quantity <= 0 {
			continue
		}
		if l.Quantity > rental.Items[i].Quantity {
			l.Quantity = rental.Items[i].Quantity
		}
		out = append(out, l)
	}
	return out
}

func findLine(lines []domain.OrderLine, productID string) (domain.OrderLine, bool) {
	for _, l := range lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return domain.OrderLine{}, false
}
