package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// Snapshot represents the latest remote data available to the UI.
type Snapshot struct {
	Products            []catalog.Product
	Present             bool // a product list has been received at least once
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int    // Number of consecutive fetch failures
	Generation          uint64 // Generation of the most recent request
}

// IsOffline returns true when the API has been unreachable for multiple fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Begin marks a fetch as in flight and returns its generation. Only the
// completion of the latest generation is applied.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Generation++
	s.snapshot.Loading = true
	return s.snapshot.Generation
}

// Complete records the outcome of the fetch started with generation gen. It
// reports false and changes nothing when a newer fetch has been started since.
// When err is non-nil the previous products are kept but the error is
// recorded for visibility.
func (s *Store) Complete(gen uint64, products []catalog.Product, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.snapshot.Generation {
		return false
	}
	s.snapshot.Loading = false
	s.snapshot.LastUpdated = time.Now()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return true
	}

	s.snapshot.Products = catalog.Clone(products)
	s.snapshot.Present = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Update is Begin followed immediately by Complete.
func (s *Store) Update(products []catalog.Product, err error) {
	s.Complete(s.Begin(), products, err)
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Products = catalog.Clone(s.snapshot.Products)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
