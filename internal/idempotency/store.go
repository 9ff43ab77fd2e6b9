// Package idempotency provides the in-process store that makes
// repeated payment operations with the same key return the first
// response instead of a new side effect. Entries live for a fixed TTL
// and do not survive a process restart.
package idempotency

import (
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL matches the source system's 24-hour entry lifetime.
const DefaultTTL = 24 * time.Hour

type entry struct {
	value     any
	createdAt time.Time
	expiresAt time.Time
}

// Store is a keyed response cache with atomic per-key check-and-insert.
// Two simultaneous calls with the same fresh key cannot both execute
// the underlying operation: the singleflight group guarantees one
// winner and hands its result to the loser. Expired entries are
// deleted lazily when looked up, not swept proactively.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	group   singleflight.Group
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// lookup returns the cached value for key, deleting it first if it has
// expired.
func (s *Store) lookup(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

func (s *Store) put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[key] = &entry{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(s.ttl),
	}
}

// Do runs fn under key's idempotency contract: the first response
// produced for key is the only response ever returned until the entry
// expires, and fn never runs on the replay path. An empty key disables
// idempotency and runs fn directly. Errors are not cached; a failed
// first attempt leaves the key free for a retry.
func (s *Store) Do(key string, fn func() (any, error)) (value any, replayed bool, err error) {
	if key == "" {
		v, err := fn()
		return v, false, err
	}

	if v, ok := s.lookup(key); ok {
		return v, true, nil
	}

	executed := false
	v, err, _ := s.group.Do(key, func() (any, error) {
		// A concurrent winner may have stored between our lookup and
		// joining the flight.
		if v, ok := s.lookup(key); ok {
			return v, nil
		}
		executed = true
		v, err := fn()
		if err != nil {
			return nil, err
		}
		s.put(key, v)
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, !executed, nil
}

// Len reports the number of live entries (expired ones included until
// their lazy eviction).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// GenerateKey issues a fresh idempotency key for callers that want one
// server-assigned.
func GenerateKey() string {
	raw := uuid.New()
	return fmt.Sprintf("IK_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(raw[:6]))
}
