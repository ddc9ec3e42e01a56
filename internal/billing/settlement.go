package billing

import (
	"github.com/shopspring/decimal"
)

// Settlement is the outcome of reconciling one return's bill against the
// rental's advance, the customer's earlier debt and the cash handed over.
type Settlement struct {
	SubTotal       decimal.Decimal
	Discount       decimal.Decimal
	PreviousDebt   decimal.Decimal
	ReceivedAmount decimal.Decimal

	NetBill          decimal.Decimal
	AdvanceAdjusted  decimal.Decimal
	RemainingAdvance decimal.Decimal
	CurrentPayable   decimal.Decimal
	TotalOutstanding decimal.Decimal
	BalanceDue       decimal.Decimal
	// ChangeDue is cash received beyond the total outstanding. It is handed
	// back and never stored as credit.
	ChangeDue decimal.Decimal
}

// Settle runs the settlement steps in order. Negative inputs count as zero.
// It must run once per return event, on inputs read before any write-back.
func Settle(subTotal, discount, advance, previousDebt, received decimal.Decimal) Settlement {
	subTotal = nonNegative(subTotal)
	discount = nonNegative(discount)
	advance = nonNegative(advance)
	previousDebt = nonNegative(previousDebt)
	received = nonNegative(received)

	s := Settlement{
		SubTotal:       subTotal,
		Discount:       discount,
		PreviousDebt:   previousDebt,
		ReceivedAmount: received,
	}

	s.NetBill = nonNegative(subTotal.Sub(discount))

	if advance.GreaterThanOrEqual(s.NetBill) {
		s.AdvanceAdjusted = s.NetBill
		s.RemainingAdvance = advance.Sub(s.NetBill)
	} else {
		s.AdvanceAdjusted = advance
		s.RemainingAdvance = decimal.Zero
	}

	s.CurrentPayable = s.NetBill.Sub(s.AdvanceAdjusted)
	s.TotalOutstanding = s.CurrentPayable.Add(previousDebt)
	s.BalanceDue = nonNegative(s.TotalOutstanding.Sub(received))
	s.ChangeDue = nonNegative(received.Sub(s.TotalOutstanding))
	return s
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
