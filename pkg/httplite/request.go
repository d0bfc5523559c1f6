package httplite

import "strings"

const (
	defaultMethod = "GET"
	defaultURL    = "/"
)

// Request is the text received on a connection. Only the request line is
// interpreted.
type Request struct {
	raw string
}

// NewRequest wraps raw request text
func NewRequest(raw string) *Request {
	return &Request{raw: raw}
}

// Raw returns the request text as it was read
func (r *Request) Raw() string {
	return r.raw
}

// Method returns the first token of the request line, or GET if there is none
func (r *Request) Method() string {
	fields := r.requestLine()
	if len(fields) < 1 {
		return defaultMethod
	}
	return fields[0]
}

// URL returns the second token of the request line, or / if there is none.
// The value is not decoded and still carries any query string.
func (r *Request) URL() string {
	fields := r.requestLine()
	if len(fields) < 2 {
		return defaultURL
	}
	return fields[1]
}

func (r *Request) requestLine() []string {
	line, _, _ := strings.Cut(r.raw, "\n")
	return strings.Fields(line)
}
