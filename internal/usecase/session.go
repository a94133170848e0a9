package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"portfolio-gateway/internal/domain"
)

// TokenSlot is the single durable key-value slot holding the raw bearer
// token, the server-side analogue of the browser's local storage entry.
// Read returns "" when the slot is empty.
type TokenSlot interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, token string) error
	Erase(ctx context.Context) error
}

// Decoder turns a raw token into identity claims.
type Decoder func(raw string) (domain.Identity, error)

// SessionStore owns the session: the token and the identity derived from it.
// Both dependencies are injected so tests substitute fakes without touching
// durable storage.
type SessionStore struct {
	mu      sync.RWMutex
	slot    TokenSlot
	decode  Decoder
	session domain.Session
}

func NewSessionStore(slot TokenSlot, decode Decoder) *SessionStore {
	return &SessionStore{slot: slot, decode: decode}
}

// Initialize warms the session from the persisted token, best-effort. A token
// that no longer decodes is erased and the store is left logged out; no error
// reaches the caller.
func (s *SessionStore) Initialize(ctx context.Context) {
	raw, err := s.slot.Read(ctx)
	if err != nil {
		slog.Warn("session slot unreadable, starting logged out", "error", err)
		return
	}
	if raw == "" {
		return
	}

	identity, err := s.decode(raw)
	if err != nil {
		slog.Warn("persisted token no longer decodes, clearing session", "error", err)
		if err := s.slot.Erase(ctx); err != nil {
			slog.Warn("failed to erase stale token", "error", err)
		}
		return
	}

	s.mu.Lock()
	s.session = domain.Session{Token: raw, Identity: &identity}
	s.mu.Unlock()
}

// Login persists the token and derives the identity. A token that fails to
// decode right after a successful login call means the server issued an
// unparseable token; the slot is erased and ErrUnparseableToken returned.
func (s *SessionStore) Login(ctx context.Context, raw string) error {
	if err := s.slot.Write(ctx, raw); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	identity, err := s.decode(raw)
	if err != nil {
		if eraseErr := s.slot.Erase(ctx); eraseErr != nil {
			slog.Warn("failed to erase unparseable token", "error", eraseErr)
		}
		return fmt.Errorf("%w: %v", domain.ErrUnparseableToken, err)
	}

	s.mu.Lock()
	s.session = domain.Session{Token: raw, Identity: &identity}
	s.mu.Unlock()
	return nil
}

// Logout erases the persisted token and clears the identity. Idempotent.
func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.slot.Erase(ctx); err != nil {
		return fmt.Errorf("erase token: %w", err)
	}
	s.mu.Lock()
	s.session = domain.Session{}
	s.mu.Unlock()
	return nil
}

// IsAuthenticated reports whether a decoded identity is present.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated()
}

// Identity returns the current identity, if any.
func (s *SessionStore) Identity() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.Identity == nil {
		return domain.Identity{}, false
	}
	return *s.session.Identity, true
}

// Token returns the raw bearer token, or "" when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}
