package query

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/apiclient"
)

// RetryPolicy decides whether and when a failed read is attempted again.
// Mutations never consult it.
type RetryPolicy struct {
	MaxRetries  int
	Delay       func(attempt int) time.Duration
	ShouldRetry func(err error) bool
}

// DefaultRetry retries a read once, except for validation, conflict and
// not-found rejections.
var DefaultRetry = RetryPolicy{
	MaxRetries:  1,
	Delay:       ExponentialBackoff(time.Second, 30*time.Second),
	ShouldRetry: Retryable,
}

// NoRetry disables retries.
var NoRetry = RetryPolicy{}

// ExponentialBackoff returns min(base·2^attempt, max).
func ExponentialBackoff(base, max time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		d := base
		for i := 0; i < attempt && d < max; i++ {
			d *= 2
		}
		if d > max {
			return max
		}
		return d
	}
}

// Retryable reports whether err may succeed when the read is repeated.
func Retryable(err error) bool {
	if apiErr, ok := apiclient.AsError(err); ok {
		return apiErr.Class().Retryable()
	}
	return true
}

func (p RetryPolicy) allow(attempt int, err error) bool {
	if attempt >= p.MaxRetries {
		return false
	}
	if p.ShouldRetry != nil {
		return p.ShouldRetry(err)
	}
	return Retryable(err)
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Delay == nil {
		return 0
	}
	return p.Delay(attempt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
