package research

import (
	"context"
	"strings"
	"time"
)

// sleepFunc is the sleep function used between retries (injectable for tests)
var sleepFunc = sleepContext

// RetryPolicy is a bounded exponential-backoff policy for provider calls.
// Injected into the engine so retry behavior is independently testable.
type RetryPolicy struct {
	MaxAttempts int           // Attempts before giving up
	BaseWait    time.Duration // Wait after the first failure; doubles each attempt
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, 1s base wait
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseWait: time.Second}
}

// Backoff returns the wait before the given retry attempt (0-based)
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return p.BaseWait * time.Duration(1<<uint(attempt))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryable reports whether an error looks like a transient provider
// failure worth retrying
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "429") ||
		strings.Contains(s, "500") ||
		strings.Contains(s, "502") ||
		strings.Contains(s, "503") ||
		strings.Contains(s, "overloaded")
}
