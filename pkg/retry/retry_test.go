package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig keeps test waits in the microsecond range.
func fastConfig(attempts int) Config {
	return Config{
		Attempts:  attempts,
		BaseDelay: time.Microsecond,
		MaxDelay:  10 * time.Microsecond,
		Factor:    2.0,
	}
}

func TestDoValue(t *testing.T) {
	ctx := context.Background()

	t.Run("first try succeeds", func(t *testing.T) {
		calls := 0
		got, err := DoValue(ctx, fastConfig(3), func() (string, error) {
			calls++
			return "connected", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "connected", got)
		assert.Equal(t, 1, calls)
	})

	t.Run("recovers after transient failures", func(t *testing.T) {
		calls := 0
		got, err := DoValue(ctx, fastConfig(5), func() (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("connection refused")
			}
			return 42, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausted schedule returns last error", func(t *testing.T) {
		calls := 0
		_, err := DoValue(ctx, fastConfig(4), func() (int, error) {
			calls++
			return 0, fmt.Errorf("attempt %d failed", calls)
		})

		require.Error(t, err)
		assert.EqualError(t, err, "attempt 4 failed")
		assert.Equal(t, 4, calls)
	})

	t.Run("non-transient error stops immediately", func(t *testing.T) {
		cfg := fastConfig(5)
		cfg.Transient = []string{"connection refused"}

		calls := 0
		_, err := DoValue(ctx, cfg, func() (int, error) {
			calls++
			return 0, errors.New("syntax error at or near SELECT")
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts rejected", func(t *testing.T) {
		_, err := DoValue(ctx, Config{}, func() (int, error) {
			t.Fatal("fn must not run")
			return 0, nil
		})
		require.Error(t, err)
	})

	t.Run("cancelled context stops before the next try", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)

		calls := 0
		_, err := DoValue(cancelled, fastConfig(10), func() (int, error) {
			calls++
			cancel()
			return 0, errors.New("connection refused")
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("already expired context never runs fn", func(t *testing.T) {
		expired, cancel := context.WithCancel(ctx)
		cancel()

		calls := 0
		_, err := DoValue(expired, fastConfig(3), func() (int, error) {
			calls++
			return 0, nil
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls)
	})
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("propagates success", func(t *testing.T) {
		calls := 0
		err := Do(ctx, fastConfig(3), func() error {
			calls++
			if calls == 1 {
				return errors.New("i/o timeout")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("propagates failure", func(t *testing.T) {
		sentinel := errors.New("dial tcp 10.0.0.1:5432: no route")
		err := Do(ctx, fastConfig(2), func() error { return sentinel })
		assert.ErrorIs(t, err, sentinel)
	})
}

func TestConfig_IsTransient(t *testing.T) {
	pg := PostgresConfig()

	t.Run("nil error is never transient", func(t *testing.T) {
		assert.False(t, pg.IsTransient(nil))
	})

	t.Run("empty pattern list retries everything", func(t *testing.T) {
		assert.True(t, DefaultConfig().IsTransient(errors.New("anything at all")))
	})

	t.Run("postgres startup errors match", func(t *testing.T) {
		for _, msg := range []string{
			"dial tcp 127.0.0.1:5432: connect: connection refused",
			"pq: the database system is starting up",
			"read tcp 10.0.0.2:41234: i/o timeout",
			"pq: sorry, too many connections already",
		} {
			assert.True(t, pg.IsTransient(errors.New(msg)), msg)
		}
	})

	t.Run("query errors do not match", func(t *testing.T) {
		for _, msg := range []string{
			`pq: password authentication failed for user "promptstash"`,
			`pq: relation "prompts" does not exist`,
			"pq: duplicate key value violates unique constraint",
		} {
			assert.False(t, pg.IsTransient(errors.New(msg)), msg)
		}
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		assert.True(t, pg.IsTransient(errors.New("CONNECTION REFUSED")))
	})
}

func TestBackoffSchedule(t *testing.T) {
	t.Run("waits grow but stay under the cap", func(t *testing.T) {
		cfg := Config{
			Attempts:  4,
			BaseDelay: 20 * time.Millisecond,
			MaxDelay:  40 * time.Millisecond,
			Factor:    2.0,
		}

		start := time.Now()
		err := Do(context.Background(), cfg, func() error {
			return errors.New("connection refused")
		})
		elapsed := time.Since(start)

		require.Error(t, err)
		// Three waits of roughly 20ms, 40ms, 40ms, each with ten percent
		// jitter either way.
		assert.Greater(t, elapsed, 80*time.Millisecond)
		assert.Less(t, elapsed, 200*time.Millisecond)
	})

	t.Run("jitter stays within ten percent", func(t *testing.T) {
		base := 100 * time.Millisecond
		for i := 0; i < 50; i++ {
			d := jitter(base)
			assert.GreaterOrEqual(t, d, 90*time.Millisecond)
			assert.LessOrEqual(t, d, 110*time.Millisecond)
		}
	})
}
