package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/evidmap/evidmap"
)

// FetchEntriesFunc fetches and parses a feed.
type FetchEntriesFunc func(ctx context.Context, feedURL string) ([]evidmap.FeedEntry, error)

// LogFunc logs a retry attempt.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the default backoff schedule.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchEntriesWithRetryDelays calls fetch with retries using the given
// delay schedule between attempts. The number of attempts is
// len(delays)+1. Context cancellation aborts the wait between attempts.
func FetchEntriesWithRetryDelays(ctx context.Context, feedURL string, fetch FetchEntriesFunc, logf LogFunc, delays []time.Duration) ([]evidmap.FeedEntry, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := delays[attempt-1]
			if logf != nil {
				logf("retrying %s in %v (attempt %d/%d): %v", feedURL, delay, attempt+1, maxAttempts, lastErr)
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		entries, err := fetch(ctx, feedURL)
		if err == nil {
			return entries, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
