package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/billing"
	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/utils"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user"`
}

type productRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Category      string          `json:"category" validate:"max=100"`
	TotalQuantity int             `json:"total_quantity" validate:"gte=0"`
	Rate          decimal.Decimal `json:"rate"`
	Image         string          `json:"image"`
	Description   string          `json:"description"`
}

func (p productRequest) toDomain(id string) *domain.Product {
	return &domain.Product{
		ID:            id,
		Name:          strings.TrimSpace(p.Name),
		Category:      p.Category,
		TotalQuantity: p.TotalQuantity,
		Rate:          p.Rate,
		Image:         p.Image,
		Description:   p.Description,
	}
}

type customerRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	Phone          string `json:"phone" validate:"max=30"`
	Address        string `json:"address"`
	CNIC           string `json:"cnic" validate:"max=30"`
	Photo          string `json:"photo"`
	GuarantorName  string `json:"guarantor_name"`
	GuarantorPhone string `json:"guarantor_phone" validate:"max=30"`
	Rating         int    `json:"rating" validate:"gte=0,lte=5"`
}

func (c customerRequest) toDomain(id string) *domain.Customer {
	return &domain.Customer{
		ID:             id,
		Name:           strings.TrimSpace(c.Name),
		Phone:          c.Phone,
		Address:        c.Address,
		CNIC:           c.CNIC,
		Photo:          c.Photo,
		GuarantorName:  c.GuarantorName,
		GuarantorPhone: c.GuarantorPhone,
		Rating:         c.Rating,
	}
}

type settleDebtRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note" validate:"max=500"`
}

type orderLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type createRentalRequest struct {
	CustomerID         string             `json:"customer_id" validate:"required"`
	StartDate          string             `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	ExpectedReturnDate string             `json:"expected_return_date" validate:"omitempty,datetime=2006-01-02"`
	Notes              string             `json:"notes" validate:"max=1000"`
	AdvancePayment     decimal.Decimal    `json:"advance_payment"`
	Items              []orderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// returnLineRequest quantities are not validated here: non-positive lines
// are skipped and oversized ones are clamped.
type returnLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type returnRequest struct {
	ReturnDate     string              `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
	Discount       decimal.Decimal     `json:"discount"`
	ReceivedAmount decimal.Decimal     `json:"received_amount"`
	Items          []returnLineRequest `json:"items" validate:"required,min=1,dive"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type userRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"max=100"`
	Role     string `json:"role" validate:"required,oneof=ADMIN STAFF"`
}

type settlementResponse struct {
	SubTotal         decimal.Decimal `json:"sub_total"`
	Discount         decimal.Decimal `json:"discount"`
	NetBill          decimal.Decimal `json:"net_bill"`
	AdvanceAdjusted  decimal.Decimal `json:"advance_adjusted"`
	RemainingAdvance decimal.Decimal `json:"remaining_advance"`
	CurrentPayable   decimal.Decimal `json:"current_payable"`
	PreviousDebt     decimal.Decimal `json:"previous_debt"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	ReceivedAmount   decimal.Decimal `json:"received_amount"`
	BalanceDue       decimal.Decimal `json:"balance_due"`
	ChangeDue        decimal.Decimal `json:"change_due"`
}

type returnResponse struct {
	Days       int                `json:"days"`
	Returned   []domain.OrderLine `json:"returned"`
	Settlement settlementResponse `json:"settlement"`
	Invoice    *domain.Invoice    `json:"invoice,omitempty"`
	Rental     domain.Rental      `json:"rental"`
	Customer   domain.Customer    `json:"customer"`
}

func newReturnResponse(res *billing.ReturnResult, withInvoice bool) returnResponse {
	s := res.Settlement
	out := returnResponse{
		Days:     res.Charge.Days,
		Returned: res.Returned,
		Settlement: settlementResponse{
			SubTotal:         s.SubTotal,
			Discount:         s.Discount,
			NetBill:          s.NetBill,
			AdvanceAdjusted:  s.AdvanceAdjusted,
			RemainingAdvance: s.RemainingAdvance,
			CurrentPayable:   s.CurrentPayable,
			PreviousDebt:     s.PreviousDebt,
			TotalOutstanding: s.TotalOutstanding,
			ReceivedAmount:   s.ReceivedAmount,
			BalanceDue:       s.BalanceDue,
			ChangeDue:        s.ChangeDue,
		},
		Rental:   res.Rental,
		Customer: res.Customer,
	}
	if withInvoice {
		inv := res.Invoice
		out.Invoice = &inv
	}
	return out
}

func toOrderLines(items []orderLineRequest) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

func toReturnLines(items []returnLineRequest) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}

// parseOptionalDate parses a yyyy-mm-dd value, returning nil for "".
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := utils.ParseDateTime(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, field, err)
	}
	return &t, nil
}

func parseStatuses(raw string) []domain.RentalStatus {
	if raw == "" {
		return nil
	}
	var statuses []domain.RentalStatus
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			statuses = append(statuses, domain.RentalStatus(s))
		}
	}
	return statuses
}
