package cdp

import (
	"errors"
	"math"
	"time"
)

// Defaults applied by NextRetryFromPolicy when the policy leaves a field unset.
const (
	defaultInitialDelay      = 60 * time.Second
	defaultBackoffMultiplier = 2.0
)

// RetryPolicy controls retry scheduling for one CDP system.
type RetryPolicy struct {
	MaxRetries        int
	InitialDelay      time.Duration
	BackoffMultiplier float64
}

// NextRetryAt computes the timestamp of the next delivery attempt:
// now + initialDelay * multiplier^retryCount. Validation happens before any
// computation; retryCount counts already-failed attempts and is zero-based.
func NextRetryAt(retryCount int, initialDelay time.Duration, multiplier float64) (time.Time, error) {
	if retryCount < 0 {
		return time.Time{}, errors.New("retry count must be non-negative")
	}
	if initialDelay <= 0 {
		return time.Time{}, errors.New("initial delay must be positive")
	}
	if multiplier < 1.0 {
		return time.Time{}, errors.New("multiplier must be >= 1.0")
	}

	delay := time.Duration(float64(initialDelay) * math.Pow(multiplier, float64(retryCount)))
	return time.Now().Add(delay), nil
}

// NextRetryFromPolicy is a convenience around NextRetryAt that falls back to
// 60s / 2.0 when the policy does not specify the delay or multiplier.
func NextRetryFromPolicy(retryCount int, policy RetryPolicy) (time.Time, error) {
	delay := policy.InitialDelay
	if delay == 0 {
		delay = defaultInitialDelay
	}

	multiplier := policy.BackoffMultiplier
	if multiplier == 0 {
		multiplier = defaultBackoffMultiplier
	}

	return NextRetryAt(retryCount, delay, multiplier)
}
