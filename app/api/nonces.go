package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultNonceTTL = 10 * time.Minute

// NonceStore issues single-use tokens for the manual run endpoint.
type NonceStore struct {
	ttl    time.Duration
	now    func() time.Time
	nonces map[string]time.Time
	mu     sync.Mutex
}

func NewNonceStore(ttl time.Duration) *NonceStore {
	if ttl <= 0 {
		ttl = DefaultNonceTTL
	}
	return &NonceStore{
		ttl:    ttl,
		now:    time.Now,
		nonces: make(map[string]time.Time),
	}
}

func (s *NonceStore) Issue() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purge()

	nonce := uuid.NewString()
	s.nonces[nonce] = s.now().Add(s.ttl)
	return nonce
}

// Consume reports whether nonce was issued and not yet used or expired.
func (s *NonceStore) Consume(nonce string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expires, ok := s.nonces[nonce]
	if !ok {
		return false
	}
	delete(s.nonces, nonce)

	return s.now().Before(expires)
}

func (s *NonceStore) purge() {
	now := s.now()
	for nonce, expires := range s.nonces {
		if !now.Before(expires) {
			delete(s.nonces, nonce)
		}
	}
}
