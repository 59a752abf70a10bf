// Package pending holds transactions that were read from an image but are
// still waiting for the sender to reply with a note.
package pending

import (
	"sync"
	"time"

	"github.com/rakhadi/duitbot/internal/receipt"
)

// DefaultTTL bounds how long a pending transaction waits for its note.
// A sender who never replies would otherwise leak an entry forever.
const DefaultTTL = 24 * time.Hour

type entry struct {
	tx        receipt.Transaction
	createdAt time.Time
}

// Store is an in-memory table of pending transactions keyed by sender
// identity. It is safe for concurrent use; Take is the atomic
// get-and-remove that prevents two concurrent messages from the same
// sender from both consuming the same entry. Data is lost on restart.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry

	now func() time.Time
}

// NewStore creates a store whose entries expire after ttl. A non-positive
// ttl falls back to DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Put saves or replaces the pending transaction for a sender.
func (s *Store) Put(sender string, tx receipt.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sender] = entry{tx: tx, createdAt: s.now()}
}

// Take removes and returns the sender's pending transaction. An expired
// entry is dropped and reported as absent.
func (s *Store) Take(sender string) (receipt.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sender]
	if !ok {
		return receipt.Transaction{}, false
	}
	delete(s.entries, sender)
	if s.expired(e) {
		return receipt.Transaction{}, false
	}
	return e.tx, true
}

// Get returns a copy of the sender's pending transaction without
// consuming it.
func (s *Store) Get(sender string) (receipt.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sender]
	if !ok {
		return receipt.Transaction{}, false
	}
	if s.expired(e) {
		delete(s.entries, sender)
		return receipt.Transaction{}, false
	}
	return e.tx, true
}

// Remove drops the sender's pending transaction, if any.
func (s *Store) Remove(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sender)
}

// Sweep drops every expired entry and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for sender, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, sender)
			dropped++
		}
	}
	return dropped
}

// Len reports how many entries are currently held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) expired(e entry) bool {
	return s.now().Sub(e.createdAt) > s.ttl
}
