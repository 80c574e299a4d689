// Package backoff computes retry delays using exponential backoff with ±25%
// jitter. It is shared by the engine's conflict retries and the webhook
// client's HTTP retries.
package backoff

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"time"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// Policy describes an exponential backoff schedule.
type Policy struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// Delay calculates the delay for a given retry attempt. The attempt
// parameter is 1-indexed (attempt 1 is the first retry).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(p.Initial) * math.Pow(p.Multiplier, float64(attempt-1))

	// Cap at max interval before applying jitter.
	if p.Max > 0 && delay > float64(p.Max) {
		delay = float64(p.Max)
	}

	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// Wait sleeps for the delay of attempt or until ctx is done.
func (p Policy) Wait(ctx context.Context, attempt int) error {
	t := time.NewTimer(p.Delay(attempt))
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}
