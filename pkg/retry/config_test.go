package retry

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/niels/httplite/pkg/config"
	"github.com/rs/zerolog"
)

func TestFromConfigDefaults(t *testing.T) {
	opts := FromConfig(config.LoadDefault().Retry, zerolog.Nop())

	if opts.MaxRetries != 3 {
		t.Errorf("Expected MaxRetries=3, got: %d", opts.MaxRetries)
	}
	if opts.InitialDelay != 100*time.Millisecond {
		t.Errorf("Expected InitialDelay=100ms, got: %v", opts.InitialDelay)
	}
	if opts.MaxDelay != 2*time.Second {
		t.Errorf("Expected MaxDelay=2s, got: %v", opts.MaxDelay)
	}

	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errString("connect: connection refused")}
	if !isRetryable(refused, opts) {
		t.Error("Default policy should retry refused dials")
	}
	if isRetryable(errString("no such host"), opts) {
		t.Error("Default policy should not retry unknown hosts")
	}
}

func TestFromConfigDisabled(t *testing.T) {
	rc := config.LoadDefault().Retry
	rc.Enabled = false

	opts := FromConfig(rc, zerolog.Nop())
	if opts.MaxRetries != 0 {
		t.Errorf("Expected MaxRetries=0 when disabled, got: %d", opts.MaxRetries)
	}
	if len(opts.RetryableErrors) != 0 {
		t.Errorf("Expected no retryable errors when disabled, got: %v", opts.RetryableErrors)
	}
}

func TestFromConfigClampsBackoff(t *testing.T) {
	rc := config.LoadDefault().Retry
	rc.BackoffFactor = 0.5

	if opts := FromConfig(rc, zerolog.Nop()); opts.BackoffFactor != 1 {
		t.Errorf("Expected BackoffFactor clamped to 1, got: %v", opts.BackoffFactor)
	}
}

func TestFromConfigRetriesRefusedDial(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()

	rc := config.LoadDefault().Retry
	rc.MaxRetries = 2
	rc.InitialDelay = 1
	rc.MaxDelay = 5

	attempts := 0
	_, err = Do(context.Background(), func() (net.Conn, error) {
		attempts++
		return net.DialTimeout("tcp", addr, time.Second)
	}, FromConfig(rc, zerolog.Nop()))

	if err == nil {
		t.Fatal("Expected dial to a closed port to fail")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected connection refused, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got: %d", attempts)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
