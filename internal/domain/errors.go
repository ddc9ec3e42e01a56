package domain

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrEmptyOrder              = errors.New("order has no items")
	ErrRentalClosed            = errors.New("rental is already completed")
	ErrOpenRentalExists        = errors.New("customer already has an open rental")
	ErrNothingToReturn         = errors.New("nothing to return")
	ErrInvalidAmount           = errors.New("amount must not be negative")
	ErrInvalidStatusTransition = errors.New("invalid rental status transition")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrDuplicate               = errors.New("already exists")
	ErrCustomerHasRentals      = errors.New("customer has rental history")
	ErrInvalidInput            = errors.New("invalid input")
)
