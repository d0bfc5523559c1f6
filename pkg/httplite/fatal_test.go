package httplite

import (
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubAddr string

func (a stubAddr) Network() string { return "tcp" }
func (a stubAddr) String() string { return string(a) }

// stubConn is a net.Conn serving a fixed request and recording what is
// written back.
type stubConn struct {
	request  string
	readErr  error
	writeErr error

	mu      sync.Mutex
	written string
	closed  bool
}

func (c *stubConn) Read(p []byte) (int, error) {
	if c.readErr != nil {
		return 0, c.readErr
	}
	if c.request == "" {
		return 0, io.EOF
	}
	n := copy(p, c.request)
	c.request = c.request[n:]
	return n, nil
}

func (c *stubConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written += string(p)
	return len(p), nil
}

func (c *stubConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *stubConn) LocalAddr() net.Addr { return stubAddr("127.0.0.1:80") }
func (c *stubConn) RemoteAddr() net.Addr { return stubAddr("127.0.0.1:50000") }
func (c *stubConn) SetDeadline(time.Time) error { return nil }
func (c *stubConn) SetReadDeadline(time.Time) error { return nil }
func (c *stubConn) SetWriteDeadline(time.Time) error { return nil }

// stubListener hands out conns in order, then fails with acceptErr
type stubListener struct {
	conns     []net.Conn
	acceptErr error
	accepts   int
}

func (l *stubListener) Accept() (net.Conn, error) {
	l.accepts++
	if len(l.conns) == 0 {
		return nil, l.acceptErr
	}
	c := l.conns[0]
	l.conns = l.conns[1:]
	return c, nil
}

func (l *stubListener) Close() error { return nil }
func (l *stubListener) Addr() net.Addr { return stubAddr("127.0.0.1:80") }

func assertIoError(t *testing.T, err error, op string, cause error) {
	t.Helper()

	var ioErr *IoError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expected *IoError, got %T: %v", err, err)
	}
	if ioErr.Op != op {
		t.Errorf("Expected op %q, got %q", op, ioErr.Op)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Expected error to wrap %v, got %v", cause, err)
	}
}

func TestServeAcceptErrorIsFatal(t *testing.T) {
	exhausted := errors.New("too many open files")
	l := &stubListener{acceptErr: exhausted}

	err := New("127.0.0.1:80").WithLogger(zerolog.Nop()).Serve(l)

	assertIoError(t, err, "accept", exhausted)
	if l.accepts != 1 {
		t.Errorf("Expected 1 accept, got %d", l.accepts)
	}
}

func TestServeReadErrorIsFatal(t *testing.T) {
	reset := errors.New("connection reset by peer")
	broken := &stubConn{readErr: reset}
	healthy := &stubConn{request: "GET /ping HTTP/1.1\r\n\r\n"}
	l := &stubListener{conns: []net.Conn{broken, healthy}, acceptErr: errors.New("unreachable")}

	srv := New("127.0.0.1:80").WithLogger(zerolog.Nop())
	srv.HandleFunc("/ping", func(w *ResponseWriter, r *Request) { w.PrintText("pong") })

	err := srv.Serve(l)

	assertIoError(t, err, "read", reset)
	if l.accepts != 1 {
		t.Errorf("Expected the loop to stop after 1 accept, got %d", l.accepts)
	}
	if healthy.written != "" {
		t.Errorf("Next client should not be served, got %q", healthy.written)
	}
	if !broken.closed {
		t.Error("Failed connection should be closed")
	}
}

func TestServeNotFoundWriteErrorIsFatal(t *testing.T) {
	pipe := errors.New("broken pipe")
	broken := &stubConn{request: "GET /missing HTTP/1.1\r\n\r\n", writeErr: pipe}
	healthy := &stubConn{request: "GET /missing HTTP/1.1\r\n\r\n"}
	l := &stubListener{conns: []net.Conn{broken, healthy}, acceptErr: errors.New("unreachable")}

	err := New("127.0.0.1:80").WithLogger(zerolog.Nop()).Serve(l)

	assertIoError(t, err, "write", pipe)
	if l.accepts != 1 {
		t.Errorf("Expected the loop to stop after 1 accept, got %d", l.accepts)
	}
	if healthy.written != "" {
		t.Errorf("Next client should not be served, got %q", healthy.written)
	}
}

func TestServeHandlerWriteErrorKeepsServing(t *testing.T) {
	pipe := errors.New("broken pipe")
	done := errors.New("listener exhausted")
	broken := &stubConn{request: "GET /ping HTTP/1.1\r\n\r\n", writeErr: pipe}
	healthy := &stubConn{request: "GET /ping HTTP/1.1\r\n\r\n"}
	l := &stubListener{conns: []net.Conn{broken, healthy}, acceptErr: done}

	srv := New("127.0.0.1:80").WithLogger(zerolog.Nop())
	srv.HandleFunc("/ping", func(w *ResponseWriter, r *Request) { w.PrintText("pong") })

	err := srv.Serve(l)

	assertIoError(t, err, "accept", done)
	if l.accepts != 3 {
		t.Errorf("Expected 3 accepts, got %d", l.accepts)
	}
	if healthy.written != textPrefix+"pong" {
		t.Errorf("Unexpected response to second client: %q", healthy.written)
	}
}
