// SPDX-License-Identifier: MPL-2.0

package member

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/keranjangkita/keranjang/pkg/types"
)

const (
	// DefaultLevel is used when the feed has no level for a member.
	DefaultLevel = "Member"

	// MinNameLength is the default minimum length of a login name fragment.
	MinNameLength = 3

	// PhoneSuffixLength is the number of trailing phone digits a login needs.
	PhoneSuffixLength = 4
)

var (
	// ErrMemberNotFound is returned when no member matches a login query. It
	// is also returned when the directory could not be fetched.
	ErrMemberNotFound = errors.New("member not found")

	// ErrDirectoryUnavailable is returned when the directory feed could not be
	// fetched: timeout, transport failure or a non-2xx status.
	ErrDirectoryUnavailable = errors.New("member directory unavailable")
)

type (
	// Member is a directory record entitled to a discount.
	Member struct {
		Name               string                   `json:"name"`
		Phone              types.PhoneDigits        `json:"phone"`
		Level              string                   `json:"level"`
		DiscountPercentage types.DiscountPercentage `json:"discountPercentage"`
	}

	// Query is what a shopper types to log in.
	Query struct {
		// Name is any part of the member name, ignoring case.
		Name string
		// PhoneSuffix is the last four digits of the phone number.
		PhoneSuffix string
	}
)

// Validate checks the query with the default minimum name length.
func (q Query) Validate() error {
	return q.validate(MinNameLength)
}

func (q Query) validate(minName int) error {
	if utf8.RuneCountInString(strings.TrimSpace(q.Name)) < minName {
		return types.NewValidationError("name", fmt.Sprintf("enter at least %d characters of the member name", minName))
	}
	suffix := strings.TrimSpace(q.PhoneSuffix)
	if len(suffix) != PhoneSuffixLength || types.SanitizePhone(suffix).String() != suffix {
		return types.NewValidationError("phone", fmt.Sprintf("enter exactly the last %d digits of the phone number", PhoneSuffixLength))
	}
	return nil
}

// FindByQuery returns the first member whose name contains the query name,
// ignoring case, and whose phone ends with the query suffix.
func FindByQuery(members []Member, q Query) (Member, bool) {
	name := strings.ToLower(strings.TrimSpace(q.Name))
	suffix := strings.TrimSpace(q.PhoneSuffix)
	if name == "" {
		return Member{}, false
	}
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), name) && m.Phone.HasSuffix(suffix) {
			return m, true
		}
	}
	return Member{}, false
}
