package domain

import "github.com/shopspring/decimal"

type RevenueTimeframe string

const (
	RevenueDaily   RevenueTimeframe = "daily"
	RevenueWeekly  RevenueTimeframe = "weekly"
	RevenueMonthly RevenueTimeframe = "monthly"
	RevenueCustom  RevenueTimeframe = "custom"
)

type RevenueBucket struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

type RevenueReport struct {
	Timeframe         RevenueTimeframe `json:"timeframe"`
	Buckets           []RevenueBucket  `json:"buckets"`
	TotalRevenue      decimal.Decimal  `json:"total_revenue"`
	TotalOrders       int              `json:"total_orders"`
	AverageOrderValue decimal.Decimal  `json:"average_order_value"`
}

// CustomerRentalSummary consolidates a customer's open rentals for the dashboard.
type CustomerRentalSummary struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	ItemsOut     int             `json:"items_out"`
	RentalIDs    []string        `json:"rental_ids"`
	Advance      decimal.Decimal `json:"advance"`
}

type DashboardSummary struct {
	OpenRentals     int                     `json:"open_rentals"`
	TotalRevenue    decimal.Decimal         `json:"total_revenue"`
	TotalReceivable decimal.Decimal         `json:"total_receivable"`
	CustomerCount   int                     `json:"customer_count"`
	LowStockCount   int                     `json:"low_stock_count"`
	UnitsAvailable  int                     `json:"units_available"`
	UnitsRented     int                     `json:"units_rented"`
	UnitsTotal      int                     `json:"units_total"`
	ByCustomer      []CustomerRentalSummary `json:"by_customer"`
}
