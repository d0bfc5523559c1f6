package retry

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// IsRetryableFunc is a function that determines if an error is retryable
type IsRetryableFunc func(error) bool

// Options configures the retry behavior
type Options struct {
	// MaxRetries is the maximum number of retry attempts (not including the initial attempt)
	MaxRetries int

	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration

	// BackoffFactor is the factor by which the delay increases after each retry
	BackoffFactor float64

	// JitterFactor adds randomness to the delay (0.0 = no jitter, 1.0 = 100% jitter)
	JitterFactor float64

	// RetryableErrors are matched as substrings of the error message
	RetryableErrors []string

	// IsRetryableFunc takes precedence over RetryableErrors when set
	IsRetryableFunc IsRetryableFunc

	// Logger receives one event per retry attempt
	Logger zerolog.Logger
}

// DefaultOptions returns default retry options
func DefaultOptions() Options {
	return Options{
		MaxRetries:    3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
		Logger:        zerolog.Nop(),
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, the retries
// are used up, or ctx is done.
func Do[T any](ctx context.Context, fn func() (T, error), opts Options) (T, error) {
	var zero T
	var delay time.Duration

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			if attempt > 0 {
				opts.Logger.Debug().Int("attempt", attempt+1).Msg("Retry successful")
			}
			return result, nil
		}

		if !isRetryable(err, opts) {
			return zero, err
		}

		if attempt >= opts.MaxRetries {
			opts.Logger.Debug().Int("attempts", attempt+1).Err(err).Msg("Max retries exceeded")
			return zero, err
		}

		delay = nextDelay(delay, attempt, opts)
		if opts.JitterFactor > 0 {
			jitter := float64(delay) * opts.JitterFactor
			delay = time.Duration(float64(delay) + (rnd.Float64()*jitter*2 - jitter))
		}

		opts.Logger.Debug().Int("attempt", attempt+1).Dur("delay", delay).Err(err).Msg("Retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

func nextDelay(prev time.Duration, attempt int, opts Options) time.Duration {
	if attempt == 0 {
		return opts.InitialDelay
	}

	delay := time.Duration(float64(prev) * opts.BackoffFactor)
	if opts.MaxDelay > 0 && delay > opts.MaxDelay {
		delay = opts.MaxDelay
	}
	return delay
}

// IsRetryable reports whether err's message contains any of retryableErrors
func IsRetryable(err error, retryableErrors []string) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())
	for _, retryableErr := range retryableErrors {
		if strings.Contains(errMsg, strings.ToLower(retryableErr)) {
			return true
		}
	}

	return false
}

func isRetryable(err error, opts Options) bool {
	if opts.IsRetryableFunc != nil {
		return opts.IsRetryableFunc(err)
	}
	return IsRetryable(err, opts.RetryableErrors)
}
