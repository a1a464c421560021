// SPDX-License-Identifier: MPL-2.0

package member

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	"github.com/keranjangkita/keranjang/internal/kvstore"
)

// SessionKey is the kvstore key holding the logged-in member.
const SessionKey = "keranjang_kita_member"

// SessionStore remembers the logged-in member until logout.
type SessionStore struct {
	kv     kvstore.Store
	logger *log.Logger
}

// NewSessionStore creates a SessionStore persisted in kv. A nil logger discards output.
func NewSessionStore(kv kvstore.Store, logger *log.Logger) *SessionStore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &SessionStore{kv: kv, logger: logger}
}

// Current returns the logged-in member, or nil. Corrupt data reads as logged out.
func (s *SessionStore) Current(ctx context.Context) *Member {
	raw, ok, err := s.kv.Get(ctx, SessionKey)
	if err != nil {
		s.logger.Warn("member session unreadable", "err", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var m Member
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		s.logger.Warn("member session corrupt, treating as logged out", "err", err)
		return nil
	}
	if m.Name == "" {
		return nil
	}
	m.DiscountPercentage = m.DiscountPercentage.Clamp()
	return &m
}

// Save stores m as the logged-in member.
func (s *SessionStore) Save(ctx context.Context, m Member) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, SessionKey, string(data))
}

// Clear logs the member out.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, SessionKey)
}
