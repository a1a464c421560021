// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidProductName is the sentinel error wrapped by InvalidProductNameError.
	ErrInvalidProductName = errors.New("invalid product name")
	// ErrInvalidPrice is the sentinel error wrapped by InvalidPriceError.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrInvalidBarcode is the sentinel error wrapped by InvalidBarcodeError.
	ErrInvalidBarcode = errors.New("invalid barcode")
)

type (
	// ProductName is the display name of a product as typed or scanned.
	// Two names denote the same product when their Normalized forms are equal.
	ProductName string

	// InvalidProductNameError is returned when a ProductName is empty or whitespace-only.
	InvalidProductNameError struct {
		Value ProductName
	}

	// Price is a unit price in whole rupiah. Prices are never negative.
	Price int64

	// InvalidPriceError is returned when a Price is negative.
	InvalidPriceError struct {
		Value Price
	}

	// Barcode identifies a scanned product. The zero value ("") means the
	// item was entered manually and carries no barcode.
	Barcode string

	// InvalidBarcodeError is returned when a non-empty Barcode contains whitespace.
	InvalidBarcodeError struct {
		Value Barcode
	}
)

// String returns the string representation of the ProductName.
func (n ProductName) String() string { return string(n) }

// Display returns the name with surrounding whitespace removed.
func (n ProductName) Display() string { return strings.TrimSpace(string(n)) }

// Normalized returns the identity key of the name: trimmed and case-folded.
func (n ProductName) Normalized() string {
	return strings.ToLower(strings.TrimSpace(string(n)))
}

// IsValid returns whether the ProductName is valid.
// A valid name must contain at least one non-whitespace character.
func (n ProductName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidProductNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidProductNameError.
func (e *InvalidProductNameError) Error() string {
	return fmt.Sprintf("invalid product name %q: must not be empty", e.Value)
}

// Unwrap returns ErrInvalidProductName for errors.Is() compatibility.
func (e *InvalidProductNameError) Unwrap() error { return ErrInvalidProductName }

// String returns the decimal string representation of the Price.
func (p Price) String() string { return strconv.FormatInt(int64(p), 10) }

// Validate returns an error if the Price is negative.
func (p Price) Validate() error {
	if p < 0 {
		return &InvalidPriceError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidPriceError.
func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price %d (must not be negative)", e.Value)
}

// Unwrap returns ErrInvalidPrice for errors.Is() compatibility.
func (e *InvalidPriceError) Unwrap() error { return ErrInvalidPrice }

// ParsePrice extracts the digits of a typed price ("Rp 4.500" -> 4500).
// It returns an error when the input holds no digits at all.
func ParsePrice(raw string) (Price, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("%w: %q holds no digits", ErrInvalidPrice, raw)
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPrice, err)
	}
	return Price(v), nil
}

// String returns the string representation of the Barcode.
func (b Barcode) String() string { return string(b) }

// IsZero reports whether no barcode is present.
func (b Barcode) IsZero() bool { return b == "" }

// IsValid returns whether the Barcode is valid.
// The zero value is valid (no barcode). Non-zero values must not contain whitespace.
func (b Barcode) IsValid() (bool, []error) {
	if b == "" {
		return true, nil
	}
	if strings.IndexFunc(string(b), unicode.IsSpace) >= 0 {
		return false, []error{&InvalidBarcodeError{Value: b}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBarcodeError.
func (e *InvalidBarcodeError) Error() string {
	return fmt.Sprintf("invalid barcode %q: must not contain whitespace", e.Value)
}

// Unwrap returns ErrInvalidBarcode for errors.Is() compatibility.
func (e *InvalidBarcodeError) Unwrap() error { return ErrInvalidBarcode }
