package billing

import (
	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/domain"
)

// ApplySettlement books a settled return on the customer. Spend grows by the
// billed subtotal before discount; debt is replaced by the balance due, which
// already includes earlier debt.
func ApplySettlement(c domain.Customer, subTotal, balanceDue decimal.Decimal) domain.Customer {
	c.TotalSpent = c.TotalSpent.Add(subTotal)
	c.TotalDebt = nonNegative(balanceDue)
	c.Tier = Classify(c.TotalSpent)
	return c
}

// SettleDebtDirectly records a payment against outstanding debt outside of any
// return. Spend and tier are untouched.
func SettleDebtDirectly(c domain.Customer, amount decimal.Decimal) domain.Customer {
	c.TotalDebt = nonNegative(c.TotalDebt.Sub(nonNegative(amount)))
	return c
}
