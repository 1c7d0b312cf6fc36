package session

import (
	"errors"
	"sync"
	"time"

	"pos/internal/cart"
	"pos/internal/order"

	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("session not found or expired")

// Session is one login. Its cart and order inputs are only touched
// through WithOrder and Draft, which run under the session lock.
type Session struct {
	Token    string
	Username string

	mu    sync.Mutex
	cart  *cart.Ledger
	draft order.ExportRequest

	expiresAt time.Time
}

// WithOrder gives fn the cart and the last accepted order inputs; the
// inputs fn returns are stored only when fn succeeds.
func (s *Session) WithOrder(fn func(*cart.Ledger, order.ExportRequest) (order.ExportRequest, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, err := fn(s.cart, s.draft)
	if err != nil {
		return err
	}
	s.draft = draft
	return nil
}

func (s *Session) Draft() order.ExportRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (s *Store) Create(username string) *Session {
	sess := &Session{
		Token:    uuid.NewString(),
		Username: username,
		cart:     cart.NewLedger(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess.expiresAt = s.now().Add(s.ttl)
	s.sessions[sess.Token] = sess
	return sess
}

// Get returns a live session and extends its expiry.
func (s *Store) Get(token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrUnauthorized
	}
	now := s.now()
	if !now.Before(sess.expiresAt) {
		delete(s.sessions, token)
		return nil, ErrUnauthorized
	}
	sess.expiresAt = now.Add(s.ttl)
	return sess, nil
}

func (s *Store) Delete(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return false
	}
	delete(s.sessions, token)
	return true
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
