package app

import (
	"context"
	"time"

	"github.com/five82/shelf/internal/state"
)

// maxBackoff caps the retry delay after consecutive failures.
const maxBackoff = 30 * time.Second

// StartPoller launches a background goroutine that refetches the product list
// every interval, backing off while the API keeps failing. A non-positive
// interval disables background refresh. It returns immediately.
func StartPoller(ctx context.Context, f *Fetcher, interval time.Duration) {
	if interval <= 0 || f == nil {
		return
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			_ = f.Refresh(ctx)
			timer.Reset(nextDelay(f.store, interval))
		}
	}()
}

func nextDelay(store *state.Store, interval time.Duration) time.Duration {
	return calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff (or at base itself when base is already longer).
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	limit := maxBackoff
	if base > limit {
		limit = base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= limit {
			return limit
		}
	}
	return delay
}
