// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/keranjangkita/keranjang/internal/issue"
	"github.com/keranjangkita/keranjang/internal/member"
	"github.com/keranjangkita/keranjang/internal/session"
	"github.com/keranjangkita/keranjang/pkg/types"
)

// errProductNotFound is returned by scan when no name is known for a barcode.
var errProductNotFound = errors.New("product not found")

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classify maps a command error to its exit code and catalogued issue.
// An unavailable directory is checked before ErrMemberNotFound because a
// failed login wraps both.
func classify(err error) (types.ExitCode, issue.Id) {
	var ae *issue.ActionableError
	hasIssue := errors.As(err, &ae) && ae.IssueID != 0

	code, id := types.ExitFailure, issue.Id(0)
	switch {
	case errors.Is(err, types.ErrValidation):
		code, id = types.ExitValidation, issue.InvalidInputId
	case member.IsUnavailable(err):
		code, id = types.ExitNotFound, issue.MemberDirectoryUnavailableId
	case errors.Is(err, member.ErrMemberNotFound):
		code, id = types.ExitNotFound, issue.MemberNotFoundId
	case errors.Is(err, session.ErrLineNotFound):
		code, id = types.ExitNotFound, issue.CartLineNotFoundId
	case errors.Is(err, errProductNotFound):
		code, id = types.ExitNotFound, issue.ProductNotFoundId
	}

	if hasIssue {
		id = ae.IssueID
	}
	return code, id
}
