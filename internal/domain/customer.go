package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomerTier string

const (
	TierNew      CustomerTier = "New"
	TierBronze   CustomerTier = "Bronze"
	TierSilver   CustomerTier = "Silver"
	TierGold     CustomerTier = "Gold"
	TierPlatinum CustomerTier = "Platinum"
)

// Rank orders tiers from New (0) to Platinum (4).
func (t CustomerTier) Rank() int {
	switch t {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	case TierPlatinum:
		return 4
	}
	return 0
}

type Customer struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	CNIC           string          `json:"cnic"`
	Photo          string          `json:"photo,omitempty"`
	GuarantorName  string          `json:"guarantor_name"`
	GuarantorPhone string          `json:"guarantor_phone"`
	Tier           CustomerTier    `json:"tier"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	TotalDebt      decimal.Decimal `json:"total_debt"` // udhaar
	Rating         int             `json:"rating"`
	CreatedOn      time.Time       `json:"created_on"`
	UpdatedOn      time.Time       `json:"updated_on"`
}
