package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/amishk599/cvnexus/internal/model"
)

// Session owns the provider credential for one run of the program. It is the
// only holder of the key: components that call the provider receive the
// session explicitly.
type Session struct {
	store model.CredentialStore

	mu         sync.RWMutex
	credential string
	persisted  bool
}

// Open reads the persisted credential once. When nothing is stored, fallback
// (from config or environment) is used for this run without being persisted.
func Open(store model.CredentialStore, fallback string) (*Session, error) {
	stored, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}

	s := &Session{store: store}
	if key := strings.TrimSpace(stored); key != "" {
		s.credential = key
		s.persisted = true
	} else {
		s.credential = strings.TrimSpace(fallback)
	}
	return s, nil
}

// SignIn trims and stores key, replacing any previous credential.
func (s *Session) SignIn(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return model.ErrMissingCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(key); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	s.credential = key
	s.persisted = true
	return nil
}

// SignOut clears both the persisted and the in-memory credential.
func (s *Session) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	s.credential = ""
	s.persisted = false
	return nil
}

// Credential returns the current key, or "" when signed out.
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SignedIn reports whether a credential is available.
func (s *Session) SignedIn() bool {
	return s.Credential() != ""
}

// Persisted reports whether the current credential came from (or was written
// to) the credential store rather than the fallback.
func (s *Session) Persisted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persisted
}

// Masked returns the credential with all but its last four characters hidden.
func (s *Session) Masked() string {
	key := s.Credential()
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
