package scanner

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttler paces requests. It applies an optional fixed requests-per-second
// cap and per-request delay, and when adaptive mode is on it exponentially
// backs off after 429/503 responses or repeated connection errors, gradually
// recovering toward the base delay once responses are healthy again.
type Throttler struct {
	mu           sync.Mutex
	baseDelay    time.Duration
	currentDelay time.Duration
	maxDelay     time.Duration
	consecutive  int // consecutive throttle signals
	adaptive     bool
	quiet        bool
	limiter      *rate.Limiter // nil = no rate cap
}

// NewThrottler creates a throttler. ratePerSec of 0 disables the rate cap.
func NewThrottler(baseDelay time.Duration, ratePerSec float64, adaptive, quiet bool) *Throttler {
	t := &Throttler{
		baseDelay:    baseDelay,
		currentDelay: baseDelay,
		maxDelay:     30 * time.Second,
		adaptive:     adaptive,
		quiet:        quiet,
	}
	if ratePerSec > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}
	return t
}

// Wait blocks until the next request may be sent. Workers call this before
// each request.
func (t *Throttler) Wait(ctx context.Context) error {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	delay := t.delay()
	if delay <= 0 {
		return nil
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Throttler) delay() time.Duration {
	if !t.adaptive {
		return t.baseDelay
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentDelay
}

// RecordStatus updates the adaptive delay based on a response status code.
func (t *Throttler) RecordStatus(statusCode int) {
	if !t.adaptive {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if statusCode == 429 || statusCode == 503 {
		t.consecutive++
		t.backOff(fmt.Sprintf("rate limited (HTTP %d)", statusCode))
		return
	}

	if t.consecutive > 0 {
		t.consecutive = 0
		// Gradually recover: halve delay toward base, but not below base.
		newDelay := t.currentDelay / 2
		if newDelay < t.baseDelay {
			newDelay = t.baseDelay
		}
		if newDelay != t.currentDelay {
			t.currentDelay = newDelay
			if !t.quiet && t.currentDelay > t.baseDelay {
				fmt.Fprintf(os.Stderr, "\n[+] Recovering — delay now %s/req\n", t.currentDelay)
			}
		}
	}
}

// RecordError flags a connection error (timeout, reset) as a possible
// rate limit signal. Three in a row trigger a back-off.
func (t *Throttler) RecordError() {
	if !t.adaptive {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.consecutive++
	if t.consecutive >= 3 {
		t.backOff("multiple errors")
	}
}

// backOff doubles the current delay up to maxDelay. Caller holds t.mu.
func (t *Throttler) backOff(reason string) {
	newDelay := t.currentDelay * 2
	if newDelay < 500*time.Millisecond {
		newDelay = 500 * time.Millisecond
	}
	if newDelay > t.maxDelay {
		newDelay = t.maxDelay
	}
	if newDelay != t.currentDelay {
		t.currentDelay = newDelay
		if !t.quiet {
			fmt.Fprintf(os.Stderr, "\n[!] %s — backing off to %s/req\n", reason, t.currentDelay)
		}
	}
}
