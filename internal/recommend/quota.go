// Package recommend synthesizes schedule entries on demand, gated by a
// fixed-window usage quota.
package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/field-planner/internal/model"
)

// QuotaExceededError is returned when the window's allowance is spent.
type QuotaExceededError struct {
	Remaining time.Duration
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("recommendation quota exceeded, retry in %s", e.Remaining.Round(time.Second))
}

// RemainingMs is the cooldown left in milliseconds.
func (e *QuotaExceededError) RemainingMs() int64 {
	return e.Remaining.Milliseconds()
}

func withDefaults(q model.Quota) model.Quota {
	if q.Limit <= 0 {
		q.Limit = model.DefaultQuotaLimit
	}
	if q.Window <= 0 {
		q.Window = model.DefaultQuotaWindow
	}
	return q
}

// expired reports whether q has no open window at now.
func expired(q model.Quota, now time.Time) bool {
	return q.WindowStart == nil || now.Sub(*q.WindowStart) >= q.Window
}

// Acquire consumes one use from q at now and returns the next quota.
// The window is fixed: it opens on the first use after expiry and does not
// slide with later calls.
func Acquire(q model.Quota, now time.Time) (model.Quota, error) {
	q = withDefaults(q)
	if expired(q, now) {
		start := now
		q.WindowStart = &start
		q.Used = 0
	}
	if q.Used >= q.Limit {
		return q, &QuotaExceededError{Remaining: q.Window - now.Sub(*q.WindowStart)}
	}
	q.Used++
	return q, nil
}

// Remaining is the cooldown left at now. Zero means a call would be granted.
func Remaining(q model.Quota, now time.Time) time.Duration {
	q = withDefaults(q)
	if expired(q, now) || q.Used < q.Limit {
		return 0
	}
	return q.Window - now.Sub(*q.WindowStart)
}

// Countdown publishes the cooldown left once per tick, starting immediately.
// The channel is closed after a zero value is sent or when ctx is done.
func Countdown(ctx context.Context, q model.Quota, clock func() time.Time, tick time.Duration) <-chan time.Duration {
	out := make(chan time.Duration, 1)
	go func() {
		defer close(out)
		t := time.NewTicker(tick)
		defer t.Stop()
		for {
			r := Remaining(q, clock())
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
			if r == 0 {
				return
			}
			select {
			case <-t.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
