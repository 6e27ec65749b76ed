package retrier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll(t *testing.T) {
	t.Run("found on first attempt", func(t *testing.T) {
		r := New(WithInitialInterval(time.Millisecond))
		out, err := Poll(r, context.Background(), func(ctx context.Context) (string, error) {
			return "value", nil
		})
		require.NoError(t, err)
		assert.True(t, out.Found())
		assert.Equal(t, Found, out.Status)
		assert.Equal(t, "value", out.Value)
		assert.Equal(t, 1, out.Attempts)
		assert.NoError(t, out.LastErr)
	})

	t.Run("found after failures", func(t *testing.T) {
		r := New(WithMaxAttempts(5), WithInitialInterval(time.Millisecond))
		attempts := 0
		out, err := Poll(r, context.Background(), func(ctx context.Context) (int, error) {
			attempts++
			if attempts < 3 {
				return 0, errors.New("not yet")
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.True(t, out.Found())
		assert.Equal(t, 42, out.Value)
		assert.Equal(t, 3, out.Attempts)
		assert.Equal(t, 3, attempts)
	})

	t.Run("exhausted after max attempts", func(t *testing.T) {
		r := New(WithMaxAttempts(100), WithInitialInterval(time.Microsecond))
		attempts := 0
		out, err := Poll(r, context.Background(), func(ctx context.Context) (float64, error) {
			attempts++
			return 0, errors.New("fail")
		})
		require.NoError(t, err)
		assert.False(t, out.Found())
		assert.Equal(t, Exhausted, out.Status)
		assert.Equal(t, 100, out.Attempts)
		assert.Equal(t, 100, attempts)
		assert.Zero(t, out.Value)
		assert.EqualError(t, out.LastErr, "fail")
	})

	t.Run("context cancellation", func(t *testing.T) {
		r := New(WithMaxAttempts(5), WithInitialInterval(10*time.Millisecond))
		ctx, cancel := context.WithCancel(context.Background())

		attempts := 0
		out, err := Poll(r, ctx, func(ctx context.Context) (string, error) {
			attempts++
			if attempts == 2 {
				cancel()
			}
			return "", errors.New("fail")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 2, attempts)
		assert.Equal(t, Exhausted, out.Status)
	})

	t.Run("waits before the first attempt", func(t *testing.T) {
		r := New(WithInitialInterval(20 * time.Millisecond))
		start := time.Now()
		_, err := Poll(r, context.Background(), func(ctx context.Context) (struct{}, error) {
			return struct{}{}, nil
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
}

func TestRetrier_Do(t *testing.T) {
	t.Run("success after retries", func(t *testing.T) {
		r := New(WithMaxAttempts(3), WithInitialInterval(time.Millisecond))
		attempts := 0
		err := r.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("returns last error", func(t *testing.T) {
		r := New(WithMaxAttempts(2), WithInitialInterval(time.Millisecond))
		attempts := 0
		err := r.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return errors.New("permanent")
		})
		assert.EqualError(t, err, "permanent")
		assert.Equal(t, 2, attempts)
	})

	t.Run("context cancelled between attempts", func(t *testing.T) {
		r := New(WithMaxAttempts(5), WithInitialInterval(time.Second))
		ctx, cancel := context.WithCancel(context.Background())
		err := r.Do(ctx, func(ctx context.Context) error {
			cancel()
			return errors.New("fail")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDoWithData(t *testing.T) {
	r := New(WithMaxAttempts(3), WithInitialInterval(time.Millisecond))
	calls := 0
	v, err := DoWithData(r, context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("once")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestNew_Normalizes(t *testing.T) {
	r := New(WithMaxAttempts(0), WithMultiplier(0.5), WithInitialInterval(time.Second), WithMaxInterval(time.Millisecond))
	assert.Equal(t, 1, r.MaxAttempts())
	assert.Equal(t, 1.0, r.multiplier)
	assert.Equal(t, time.Second, r.maxInterval)
}

func TestRetrier_Backoff(t *testing.T) {
	r := New(WithInitialInterval(time.Millisecond), WithMultiplier(2), WithMaxInterval(4*time.Millisecond))
	assert.Equal(t, time.Millisecond, r.wait(time.Millisecond))

	r = New(WithJitter(0.5))
	for i := 0; i < 20; i++ {
		d := r.wait(100 * time.Millisecond)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "exhausted", Exhausted.String())
}
