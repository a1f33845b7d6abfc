package tablebase

import (
	"time"

	"lukechampine.com/frand"
)

// RetryPolicy describes how lookup attempts are spaced. One policy value is
// shared by every Client call site; the Delay function is pure given a fixed
// Jitter, so it can be tested without any network I/O.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, first one included.
	MaxAttempts uint

	// BaseDelay is the wait after the first failed attempt; each further
	// attempt doubles it.
	BaseDelay time.Duration

	// MaxDelay caps the exponential part of the delay.
	MaxDelay time.Duration

	// Jitter returns a random extra delay in [0, span). Nil means frand
	// is used; tests inject a zero function for determinism.
	Jitter func(span time.Duration) time.Duration
}

// DefaultRetryPolicy matches the documented worst case: 3 attempts, 250ms
// base delay doubling to a 2s cap.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    2 * time.Second,
	}
}

// Delay returns the wait before retry number n (0-based, so n=0 is the wait
// between the first and second attempt).
func (p RetryPolicy) Delay(n uint) time.Duration {
	d := p.BaseDelay << n
	if d > p.MaxDelay || d < p.BaseDelay { // overflow guard on the shift
		d = p.MaxDelay
	}
	return d + p.jitter(p.BaseDelay)
}

func (p RetryPolicy) jitter(span time.Duration) time.Duration {
	if span <= 0 {
		return 0
	}
	if p.Jitter != nil {
		return p.Jitter(span)
	}
	return time.Duration(frand.Intn(int(span)))
}
