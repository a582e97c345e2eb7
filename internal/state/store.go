package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/rolo/internal/contacts"
)

// Snapshot is the latest state document plus pull bookkeeping.
type Snapshot struct {
	Data                contacts.Snapshot
	HasData             bool
	Revision            uint64 // bumped on every Replace
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // failed pulls or dropped connections since the last good document
}

// IsOffline returns true when the node has been unreachable more than once in
// a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store holds exactly one Snapshot. The document is replaced wholesale; there
// is no way to edit part of it.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Replace swaps in a new document and clears any recorded error.
func (s *Store) Replace(data contacts.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Data = data.Clone()
	s.snapshot.HasData = true
	s.snapshot.Revision++
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// RecordError keeps the previous document but records err for visibility.
func (s *Store) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

// Current returns a copy of the current snapshot.
func (s *Store) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Data = s.snapshot.Data.Clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
