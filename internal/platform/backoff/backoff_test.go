package backoff

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDelay_ExponentialIncrease(t *testing.T) {
	t.Parallel()

	p := Policy{Initial: 100 * time.Millisecond, Max: 10 * time.Second, Multiplier: 2.0}

	// Run multiple samples to account for jitter.
	const samples = 100
	for attempt := 1; attempt <= 3; attempt++ {
		base := float64(100*time.Millisecond) * float64(int(1)<<(attempt-1))
		minExpected := time.Duration(base * (1 - jitterFraction))
		maxExpected := time.Duration(base * (1 + jitterFraction))

		for range samples {
			delay := p.Delay(attempt)
			if delay < minExpected || delay > maxExpected {
				t.Errorf("attempt %d: delay %v not in [%v, %v]", attempt, delay, minExpected, maxExpected)
			}
		}
	}
}

func TestDelay_CappedAtMax(t *testing.T) {
	t.Parallel()

	p := Policy{Initial: 100 * time.Millisecond, Max: 500 * time.Millisecond, Multiplier: 2.0}

	// Attempt 10 would be 100ms * 2^9 = 51.2s without cap.
	maxWithJitter := time.Duration(float64(p.Max) * (1 + jitterFraction))

	const samples = 100
	for range samples {
		if delay := p.Delay(10); delay > maxWithJitter {
			t.Errorf("delay %v exceeds max interval with jitter %v", delay, maxWithJitter)
		}
	}
}

func TestDelay_ZeroAttemptTreatedAsFirst(t *testing.T) {
	t.Parallel()

	p := Policy{Initial: 100 * time.Millisecond, Max: time.Second, Multiplier: 2.0}
	maxExpected := time.Duration(float64(p.Initial) * (1 + jitterFraction))

	if delay := p.Delay(0); delay > maxExpected {
		t.Errorf("Delay(0) = %v, want <= %v", delay, maxExpected)
	}
}

func TestWait_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{Initial: time.Hour, Max: time.Hour, Multiplier: 1}
	if err := p.Wait(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}

func TestWait_Elapses(t *testing.T) {
	t.Parallel()

	p := Policy{Initial: time.Millisecond, Max: time.Millisecond, Multiplier: 1}
	if err := p.Wait(context.Background(), 1); err != nil {
		t.Errorf("Wait() error = %v, want nil", err)
	}
}

func TestSecureRandFloat64_InRange(t *testing.T) {
	t.Parallel()

	const samples = 1000
	for range samples {
		v := secureRandFloat64()
		if v < 0 || v >= 1 {
			t.Errorf("secureRandFloat64() = %v, want [0, 1)", v)
		}
	}
}
