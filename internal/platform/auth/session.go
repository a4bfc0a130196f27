package auth

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

// SessionCookie is the cookie carrying the opaque session token. A custom
// name avoids advertising the session framework in use.
const SessionCookie = "sessionId"

// ErrNoSession is returned by a SessionStore when the token is unknown or
// has expired.
var ErrNoSession = errors.New("session not found")

// SessionStore persists authenticated sessions behind an opaque token.
// Implementations must treat an expired session the same as a missing one.
type SessionStore interface {
	Create(ctx context.Context, user User) (string, error)
	Get(ctx context.Context, token string) (*User, error)
	Delete(ctx context.Context, token string) error
}

func newToken() (string, error) {
	var b [32]byte
	if _, err := crypto_rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

type memorySession struct {
	user      User
	expiresAt time.Time
}

// MemoryStore is the default single-instance session store. Sessions expire
// after the configured TTL; a janitor goroutine sweeps expired entries so an
// idle dashboard does not accumulate them.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
	ttl      time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
	}
}

// StartJanitor sweeps expired sessions every interval until ctx is cancelled.
func (s *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(time.Now())
			}
		}
	}()
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
}

func (s *MemoryStore) Create(_ context.Context, user User) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.sessions[token] = memorySession{user: user, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) Get(_ context.Context, token string) (*User, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(sess.expiresAt) {
		return nil, ErrNoSession
	}
	user := sess.user
	return &user, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
