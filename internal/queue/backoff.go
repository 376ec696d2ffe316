// Package queue defines the task-queue contract used by the worker runtime
// and scheduler, plus the retry backoff policy (spec §4.1).
package queue

import (
	"math"
	"math/rand"
	"time"
)

// BaseBackoff and MaxJitterFraction parameterize the backoff formula in
// spec §4.1: backoff(n) = base * 2^(n-1) * (1 + jitter), jitter ~ U(0, 0.2).
const (
	BaseBackoff       = 15 * time.Second
	MaxJitterFraction = 0.2
)

// Backoff computes the retry delay for the given attempt count using the
// deterministic part of the formula and an injected jitter source so callers
// (and tests) can control randomness.
func Backoff(attempts int, jitter float64) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	base := float64(BaseBackoff) * math.Pow(2, float64(attempts-1))
	return time.Duration(base * (1 + jitter))
}

// RandomJitter draws jitter ~ U(0, MaxJitterFraction), the source Backoff is
// called with in production code paths.
func RandomJitter() float64 {
	return rand.Float64() * MaxJitterFraction
}
