package storage

import (
	"sort"
	"sync"
	"time"
)

// DefaultDelay is the debounce window used when none is configured.
const DefaultDelay = 300 * time.Millisecond

// Writer is the write side of a Store. *Store and *WriteBehind both satisfy it.
type Writer interface {
	Set(key string, value any)
}

var (
	_ Writer = (*Store)(nil)
	_ Writer = (*WriteBehind)(nil)
)

// WriteBehind batches writes to a Store. Each Set replaces the pending value
// for its key and restarts the debounce timer; once the timer fires every
// pending key is written. Flush writes synchronously and is what callers use
// on shutdown. Values must not be mutated after they are handed over.
type WriteBehind struct {
	store *Store
	delay time.Duration

	flushMu sync.Mutex // keeps batches in the order they were taken

	mu      sync.Mutex
	pending map[string]any
	timer   *time.Timer
	closed  bool
}

// NewWriteBehind wraps store with a debounce of delay.
func NewWriteBehind(store *Store, delay time.Duration) *WriteBehind {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &WriteBehind{
		store:   store,
		delay:   delay,
		pending: make(map[string]any),
	}
}

// Set schedules value to be written under key.
func (w *WriteBehind) Set(key string, value any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.store.Set(key, value)
		return
	}
	w.pending[key] = value
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.Flush)
}

// Pending returns the number of keys waiting to be written.
func (w *WriteBehind) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Flush writes all pending values now.
func (w *WriteBehind) Flush() {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	batch := w.pending
	w.pending = make(map[string]any)
	w.mu.Unlock()

	keys := make([]string, 0, len(batch))
	for key := range batch {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		w.store.Set(key, batch[key])
	}
}

// Close flushes pending writes. Later Sets are written through immediately.
func (w *WriteBehind) Close() {
	w.Flush()
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}
