// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// MinQuantity is the smallest quantity a cart line can hold.
const MinQuantity Quantity = 1

// ErrInvalidQuantity is the sentinel error wrapped by InvalidQuantityError.
var ErrInvalidQuantity = errors.New("invalid quantity")

type (
	// Quantity is the number of units on a cart line. It is never below 1.
	Quantity int

	// InvalidQuantityError is returned when a Quantity is below MinQuantity.
	InvalidQuantityError struct {
		Value Quantity
	}
)

// Validate returns an error if the Quantity is below MinQuantity.
func (q Quantity) Validate() error {
	if q < MinQuantity {
		return &InvalidQuantityError{Value: q}
	}
	return nil
}

// Add returns q+delta, floored at MinQuantity.
func (q Quantity) Add(delta int) Quantity {
	return max(MinQuantity, q+Quantity(delta))
}

// String returns the decimal string representation of the Quantity.
func (q Quantity) String() string { return strconv.Itoa(int(q)) }

// Error implements the error interface for InvalidQuantityError.
func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d (must be at least %d)", e.Value, MinQuantity)
}

// Unwrap returns ErrInvalidQuantity for errors.Is() compatibility.
func (e *InvalidQuantityError) Unwrap() error { return ErrInvalidQuantity }
