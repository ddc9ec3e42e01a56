// Package lock serializes writers that touch the same customer or rental.
package lock

import (
	"context"
	"errors"
)

// ErrNotObtained is returned when a lock could not be taken before the
// context was done.
var ErrNotObtained = errors.New("lock not obtained")

// Unlock releases a lock obtained from a Locker.
type Unlock func()

type Locker interface {
	Obtain(ctx context.Context, key string) (Unlock, error)
}

func CustomerKey(customerID string) string {
	return "customer:" + customerID
}

func RentalKey(rentalID string) string {
	return "rental:" + rentalID
}
