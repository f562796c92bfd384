// Package clock holds the sleep primitive shared by the retry, poll and
// export loops so tests can replace it.
package clock

import (
	"context"
	"time"
)

// SleepFunc pauses for d. It returns early with ctx.Err() when ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// NowFunc returns the current time.
type NowFunc func() time.Time

// Sleep is the real SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
