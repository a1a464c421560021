// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxDiscountPercentage is the upper bound of a member discount.
const MaxDiscountPercentage DiscountPercentage = 100

// ErrInvalidDiscountPercentage is the sentinel error wrapped by InvalidDiscountPercentageError.
var ErrInvalidDiscountPercentage = errors.New("invalid discount percentage")

type (
	// PhoneDigits is a phone number reduced to its decimal digits.
	PhoneDigits string

	// DiscountPercentage is a member discount in percent, within [0, 100].
	DiscountPercentage float64

	// InvalidDiscountPercentageError is returned when a DiscountPercentage is
	// outside [0, 100] or not a number.
	InvalidDiscountPercentageError struct {
		Value DiscountPercentage
	}
)

// SanitizePhone keeps only the ASCII digits of raw.
func SanitizePhone(raw string) PhoneDigits {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return PhoneDigits(b.String())
}

// String returns the string representation of the PhoneDigits.
func (p PhoneDigits) String() string { return string(p) }

// HasSuffix reports whether the phone number ends with suffix.
// An empty suffix never matches.
func (p PhoneDigits) HasSuffix(suffix string) bool {
	return suffix != "" && strings.HasSuffix(string(p), suffix)
}

// String returns the percentage without trailing zeros ("10", "12.5").
func (d DiscountPercentage) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}

// Validate returns an error if the percentage is outside [0, 100] or NaN.
func (d DiscountPercentage) Validate() error {
	if math.IsNaN(float64(d)) || d < 0 || d > MaxDiscountPercentage {
		return &InvalidDiscountPercentageError{Value: d}
	}
	return nil
}

// Clamp returns the percentage limited to [0, 100]. NaN becomes 0.
func (d DiscountPercentage) Clamp() DiscountPercentage {
	switch {
	case math.IsNaN(float64(d)), d < 0:
		return 0
	case d > MaxDiscountPercentage:
		return MaxDiscountPercentage
	default:
		return d
	}
}

// Error implements the error interface for InvalidDiscountPercentageError.
func (e *InvalidDiscountPercentageError) Error() string {
	return fmt.Sprintf("invalid discount percentage %v (must be in range 0-100)", float64(e.Value))
}

// Unwrap returns ErrInvalidDiscountPercentage for errors.Is() compatibility.
func (e *InvalidDiscountPercentageError) Unwrap() error { return ErrInvalidDiscountPercentage }
