// SPDX-License-Identifier: MPL-2.0

package lookup

import "sync"

type (
	// Ticket identifies one request issued through Latest.
	Ticket uint64

	// Latest keeps the result of the newest request only. A response settled
	// with an older ticket is dropped, however late it arrives.
	Latest[T any] struct {
		mu      sync.Mutex
		issued  Ticket
		settled Ticket
		value   T
	}
)

// Begin issues a ticket for a new request, superseding all earlier ones.
func (l *Latest[T]) Begin() Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

// Settle stores value if ticket is still the newest issued and reports
// whether it was kept.
func (l *Latest[T]) Settle(ticket Ticket, value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ticket != l.issued || ticket == l.settled {
		return false
	}
	l.settled = ticket
	l.value = value
	return true
}

// Value returns the newest settled value and whether the newest request has
// settled.
func (l *Latest[T]) Value() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.issued != 0 && l.settled == l.issued
}
