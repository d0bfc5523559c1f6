// Package client sends single raw requests to an httplite server and parses
// the minimal responses it produces.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/niels/httplite/pkg/config"
	"github.com/niels/httplite/pkg/logging"
	"github.com/niels/httplite/pkg/retry"
)

// ErrMalformedResponse is returned when the reply has no status line
var ErrMalformedResponse = errors.New("malformed response")

// Response is a parsed reply
type Response struct {
	Proto   string            // e.g. HTTP/1.1
	Status  string            // e.g. 200 OK
	Headers map[string]string // header names as sent
	Body    string
	Raw     string
}

// ContentType returns the Content-Type header, or an empty string
func (r *Response) ContentType() string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, "Content-Type") {
			return v
		}
	}
	return ""
}

// Client dials a server once per request
type Client struct {
	dialTimeout time.Duration
	readTimeout time.Duration
	retry       retry.Options
}

// New creates a client with the given retry policy
func New(dialTimeout, readTimeout time.Duration, retryOpts retry.Options) *Client {
	return &Client{
		dialTimeout: dialTimeout,
		readTimeout: readTimeout,
		retry:       retryOpts,
	}
}

// FromConfig creates a client from the application configuration
func FromConfig(cfg *config.Config) *Client {
	return New(
		time.Duration(cfg.Client.DialTimeout)*time.Millisecond,
		time.Duration(cfg.Client.ReadTimeout)*time.Millisecond,
		retry.FromConfig(cfg.Retry, logging.WithComponent("client")),
	)
}

// Do sends "method path HTTP/1.1" to addr and reads until the server closes
// the connection. A :port address is dialed on the loopback interface, the
// same way the server binds it.
func (c *Client) Do(ctx context.Context, addr, method, path string) (*Response, error) {
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}

	conn, err := retry.Do(ctx, func() (net.Conn, error) {
		d := net.Dialer{Timeout: c.dialTimeout}
		return d.DialContext(ctx, "tcp", addr)
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	if c.readTimeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(c.readTimeout)); err != nil {
			return nil, fmt.Errorf("failed to set deadline: %w", err)
		}
	}

	if _, err := io.WriteString(conn, FormatRequest(addr, method, path)); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return ParseResponse(string(raw))
}

// FormatRequest builds the request text sent by Do
func FormatRequest(host, method, path string) string {
	if method == "" {
		method = "GET"
	}
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s %s HTTP/1.1\r\nHost: %s\r\n\r\n", strings.ToUpper(method), path, host)
}

// ParseResponse splits raw response text into status line, headers and body
func ParseResponse(raw string) (*Response, error) {
	reader := bufio.NewReader(strings.NewReader(raw))

	statusLine, err := reader.ReadString('\n')
	if err != nil && statusLine == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedResponse)
	}
	proto, status, found := strings.Cut(strings.TrimRight(statusLine, "\r\n"), " ")
	if !found || !strings.HasPrefix(proto, "HTTP/") {
		return nil, fmt.Errorf("%w: bad status line %q", ErrMalformedResponse, statusLine)
	}

	resp := &Response{
		Proto:   proto,
		Status:  status,
		Headers: make(map[string]string),
		Raw:     raw,
	}

	for {
		line, err := reader.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			break
		}
		if k, v, ok := strings.Cut(trimmed, ":"); ok {
			resp.Headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		if err != nil {
			break
		}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	resp.Body = string(body)

	return resp, nil
}
