package retrier

import (
	"context"
	"math/rand"
	"time"
)

const (
	defaultInitialInterval = 200 * time.Millisecond
	defaultMaxInterval     = 5 * time.Second
	defaultMultiplier      = 1.0
	defaultMaxAttempts     = 100
	defaultJitter          = 0.0
)

// Status tells how a poll ended.
type Status int

const (
	// Exhausted means every attempt failed.
	Exhausted Status = iota
	// Found means an attempt produced a value.
	Found
)

// String returns the string representation.
func (s Status) String() string {
	if s == Found {
		return "found"
	}
	return "exhausted"
}

// Outcome is the tagged result of Poll.
type Outcome[T any] struct {
	Value    T
	Status   Status
	Attempts int
	// LastErr is the error of the final failed attempt, nil when Found.
	LastErr error
}

// Found reports whether the poll produced a value.
func (o Outcome[T]) Found() bool {
	return o.Status == Found
}

// Retrier waits between attempts with an optional backoff and jitter.
type Retrier struct {
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
	maxAttempts     int
	jitter          float64
}

// Option defines a function to configure the Retrier.
type Option func(*Retrier)

// WithInitialInterval sets the wait before the first attempt.
func WithInitialInterval(d time.Duration) Option {
	return func(r *Retrier) {
		r.initialInterval = d
	}
}

// WithMaxInterval caps the wait between attempts.
func WithMaxInterval(d time.Duration) Option {
	return func(r *Retrier) {
		r.maxInterval = d
	}
}

// WithMultiplier sets the backoff multiplier. 1 keeps the interval fixed.
func WithMultiplier(m float64) Option {
	return func(r *Retrier) {
		r.multiplier = m
	}
}

// WithMaxAttempts sets the total number of attempts.
func WithMaxAttempts(n int) Option {
	return func(r *Retrier) {
		r.maxAttempts = n
	}
}

// WithJitter sets the jitter factor (0.0 to 1.0).
func WithJitter(j float64) Option {
	return func(r *Retrier) {
		r.jitter = j
	}
}

// New creates a new Retrier with default values and optional overrides.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
		multiplier:      defaultMultiplier,
		maxAttempts:     defaultMaxAttempts,
		jitter:          defaultJitter,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.maxAttempts < 1 {
		r.maxAttempts = 1
	}
	if r.multiplier < 1 {
		r.multiplier = 1
	}
	if r.maxInterval < r.initialInterval {
		r.maxInterval = r.initialInterval
	}

	return r
}

// MaxAttempts returns the configured attempt budget.
func (r *Retrier) MaxAttempts() int {
	return r.maxAttempts
}

// Poll calls fn until it returns a nil error or the attempt budget runs out.
// Every attempt, the first included, is preceded by a wait so that the
// observed resource has time to settle. A failed budget is not an error: the
// outcome is Exhausted. The returned error is non-nil only when ctx is done.
func Poll[T any](r *Retrier, ctx context.Context, fn func(ctx context.Context) (T, error)) (Outcome[T], error) {
	var out Outcome[T]
	interval := r.initialInterval

	for out.Attempts < r.maxAttempts {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-time.After(r.wait(interval)):
		}

		out.Attempts++
		v, err := fn(ctx)
		if err == nil {
			out.Value = v
			out.Status = Found
			out.LastErr = nil
			return out, nil
		}
		out.LastErr = err

		interval = time.Duration(float64(interval) * r.multiplier)
		if interval > r.maxInterval {
			interval = r.maxInterval
		}
	}

	return out, nil
}

// Do calls fn until it succeeds or the attempt budget runs out and returns
// the last error. Unlike Poll, the first attempt runs immediately.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	interval := r.initialInterval

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.wait(interval)):
			}

			interval = time.Duration(float64(interval) * r.multiplier)
			if interval > r.maxInterval {
				interval = r.maxInterval
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
	}

	return err
}

// DoWithData executes the given function with retries and returns a value.
func DoWithData[T any](r *Retrier, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := r.Do(ctx, func(ctx context.Context) error {
		var e error
		result, e = fn(ctx)
		return e
	})
	return result, err
}

func (r *Retrier) wait(interval time.Duration) time.Duration {
	if r.jitter == 0 {
		return interval
	}
	jitter := (rand.Float64()*2 - 1) * r.jitter * float64(interval)
	d := time.Duration(float64(interval) + jitter)
	if d < 0 {
		return 0
	}
	return d
}
