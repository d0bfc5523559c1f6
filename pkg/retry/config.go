package retry

import (
	"time"

	"github.com/niels/httplite/pkg/config"
	"github.com/rs/zerolog"
)

// FromConfig builds the dial retry policy from the retry section of the
// configuration. A disabled policy makes exactly one attempt.
func FromConfig(rc config.RetryConfig, logger zerolog.Logger) Options {
	opts := Options{Logger: logger}
	if !rc.Enabled {
		return opts
	}

	opts.MaxRetries = rc.MaxRetries
	opts.InitialDelay = time.Duration(rc.InitialDelay) * time.Millisecond
	opts.MaxDelay = time.Duration(rc.MaxDelay) * time.Millisecond
	opts.JitterFactor = rc.JitterFactor
	opts.RetryableErrors = rc.RetryableErrors

	// a factor below 1 would shrink the delay on every attempt
	opts.BackoffFactor = rc.BackoffFactor
	if opts.BackoffFactor < 1 {
		opts.BackoffFactor = 1
	}

	return opts
}
