// Package retry re-runs flaky external lookups with exponential backoff and
// jitter. Registrant lookups hit port-43 servers that rate-limit and drop
// connections routinely; resolver queries are never retried, since their
// failure classification is part of the result contract.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"
)

// Policy controls how many attempts are made and how long to back off
// between them.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Default returns the policy used for registrant lookups.
func Default() Policy {
	return Policy{
		Attempts:  3,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  5 * time.Second,
	}
}

// Do executes fn until it succeeds, attempts run out, or retryable reports
// the error as permanent. A nil retryable falls back to Transient.
func (p Policy) Do(ctx context.Context, retryable func(error) bool, fn func() error) error {
	if p.Attempts <= 0 {
		p.Attempts = 1
	}
	if retryable == nil {
		retryable = Transient
	}

	var err error
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}
		if attempt == p.Attempts || !retryable(err) {
			return err
		}

		delay := p.delay(attempt)
		if delay <= 0 {
			continue
		}
		if !sleep(ctx, delay) {
			return ctx.Err()
		}
	}

	return err
}

// Transient reports whether an error is likely to clear on its own: a
// deadline, or a network error that is itself a timeout or temporary.
// Cancellation is never transient.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || netErr.Temporary()
	}

	return false
}

// delay computes the jittered backoff for an attempt: a random duration up
// to base doubled per attempt, capped at MaxDelay.
func (p Policy) delay(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}

	d := p.BaseDelay << (attempt - 1)
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}

	jitterMax := int64(d)
	if jitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(jitterMax + 1))
}

func sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
