// Package retry reruns failing operations on a capped exponential backoff
// schedule. The database layer leans on it while Postgres is unreachable or
// still starting up.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Config describes a backoff schedule and which errors are worth retrying.
type Config struct {
	// Attempts is the total number of tries, the first one included.
	Attempts int
	// BaseDelay is the wait before the second try.
	BaseDelay time.Duration
	// MaxDelay caps the wait between tries.
	MaxDelay time.Duration
	// Factor multiplies the wait after every failed try.
	Factor float64
	// Transient lists error substrings that justify another try.
	// An empty list retries every error.
	Transient []string
}

// DefaultConfig returns a schedule of five tries, starting at one second and
// doubling up to thirty seconds.
func DefaultConfig() Config {
	return Config{
		Attempts:  5,
		BaseDelay: time.Second,
		MaxDelay:  30 * time.Second,
		Factor:    2.0,
	}
}

// PostgresConfig returns DefaultConfig restricted to the errors Postgres
// produces while the server is unreachable or still booting.
func PostgresConfig() Config {
	cfg := DefaultConfig()
	cfg.Transient = []string{
		"connection refused",
		"connection reset",
		"connection timed out",
		"server closed the connection",
		"too many connections",
		"database system is starting up",
		"no connection could be made",
		"network is unreachable",
		"i/o timeout",
		"dial tcp",
	}
	return cfg
}

// IsTransient reports whether err matches the config's retryable patterns.
func (c Config) IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if len(c.Transient) == 0 {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range c.Transient {
		if strings.Contains(msg, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// Do reruns fn until it succeeds, fails on a non-transient error, or the
// schedule is exhausted. The context cancels both the tries and the waits.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	_, err := DoValue(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoValue is Do for operations that produce a value. On failure it returns
// the zero value together with the last error seen.
func DoValue[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.Attempts < 1 {
		return zero, fmt.Errorf("retry: Attempts must be at least 1")
	}

	wait := cfg.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		value, err := fn()
		if err == nil {
			return value, nil
		}
		lastErr = err

		if !cfg.IsTransient(err) || attempt == cfg.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(jitter(wait)):
		}

		wait = time.Duration(float64(wait) * cfg.Factor)
		if wait > cfg.MaxDelay {
			wait = cfg.MaxDelay
		}
	}

	return zero, lastErr
}

// jitter spreads a wait by up to ten percent in either direction so restarted
// replicas do not reconnect in lockstep.
func jitter(d time.Duration) time.Duration {
	//nolint:gosec // jitter needs no cryptographic randomness
	offset := (rand.Float64()*2 - 1) * 0.1 * float64(d)
	return d + time.Duration(offset)
}
