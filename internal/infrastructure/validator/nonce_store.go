package validator

import (
	"sync"
	"time"
)

// NonceStore tracks used nonces to prevent replay attacks
type NonceStore struct {
	mu     sync.Mutex
	nonces map[string]time.Time
	ttl    time.Duration
	limit  int
}

// NewNonceStore creates a nonce store that forgets nonces after ttl
func NewNonceStore(ttl time.Duration) *NonceStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &NonceStore{
		nonces: make(map[string]time.Time),
		ttl:    ttl,
		limit:  10000,
	}
}

// IsValid checks if a nonce is valid (not seen within ttl) and records it
func (ns *NonceStore) IsValid(nonce string, seenAt time.Time) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()

	if existing, ok := ns.nonces[nonce]; ok && seenAt.Sub(existing) <= ns.ttl {
		return false
	}

	ns.nonces[nonce] = seenAt

	if len(ns.nonces) > ns.limit {
		ns.cleanup(seenAt)
	}

	return true
}

// cleanup removes nonces older than ttl
func (ns *NonceStore) cleanup(now time.Time) {
	for nonce, seenAt := range ns.nonces {
		if now.Sub(seenAt) > ns.ttl {
			delete(ns.nonces, nonce)
		}
	}
}
