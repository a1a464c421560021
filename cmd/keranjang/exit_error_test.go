// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/keranjangkita/keranjang/internal/issue"
	"github.com/keranjangkita/keranjang/internal/member"
	"github.com/keranjangkita/keranjang/internal/session"
	"github.com/keranjangkita/keranjang/pkg/types"
)

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &ExitError{Code: types.ExitNotFound, Err: cause}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ExitError should unwrap to its cause")
	}
	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() without cause = %q", got)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	unavailable := fmt.Errorf("%w: %w", member.ErrMemberNotFound,
		fmt.Errorf("%w: timeout", member.ErrDirectoryUnavailable))

	tests := []struct {
		name      string
		err       error
		wantCode  types.ExitCode
		wantIssue issue.Id
	}{
		{"validation", types.NewValidationError("price", "required"), types.ExitValidation, issue.InvalidInputId},
		{"member not found", member.ErrMemberNotFound, types.ExitNotFound, issue.MemberNotFoundId},
		{"directory unavailable", unavailable, types.ExitNotFound, issue.MemberDirectoryUnavailableId},
		{"line not found", fmt.Errorf("remove: %w", session.ErrLineNotFound), types.ExitNotFound, issue.CartLineNotFoundId},
		{"product not found", errProductNotFound, types.ExitNotFound, issue.ProductNotFoundId},
		{"unknown", errors.New("disk full"), types.ExitFailure, 0},
		{
			name:      "catalogued issue wins",
			err:       issue.NewErrorContext().WithOperation("open storage").WithIssue(issue.StorageUnavailableId).Wrap(errors.New("refused")).BuildError(),
			wantCode:  types.ExitFailure,
			wantIssue: issue.StorageUnavailableId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			code, id := classify(tt.err)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if id != tt.wantIssue {
				t.Errorf("issue = %d, want %d", id, tt.wantIssue)
			}
		})
	}
}

func TestMaskPhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   types.PhoneDigits
		want string
	}{
		{"081234561234", "••••••••1234"},
		{"1234", "1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := maskPhone(tt.in); got != tt.want {
			t.Errorf("maskPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
