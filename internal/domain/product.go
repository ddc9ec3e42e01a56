package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// lowStockRatio marks a product as running low once less than this share of
// its stock is on the shelf.
const lowStockRatio = 0.2

type Product struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	TotalQuantity     int             `json:"total_quantity"`
	AvailableQuantity int             `json:"available_quantity"`
	Rate              decimal.Decimal `json:"rate"` // per unit per day
	Image             string          `json:"image,omitempty"`
	Description       string          `json:"description,omitempty"`
	CreatedOn         time.Time       `json:"created_on"`
	UpdatedOn         time.Time       `json:"updated_on"`
}

func (p Product) RentedQuantity() int {
	return p.TotalQuantity - p.AvailableQuantity
}

func (p Product) IsLowStock() bool {
	return float64(p.AvailableQuantity) < float64(p.TotalQuantity)*lowStockRatio
}
