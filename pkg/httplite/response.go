package httplite

import (
	"bufio"
	"fmt"
	"io"
)

const (
	statusLine      = "HTTP/1.1 200 OK\r\n"
	contentTypeText = "text/plain"
	contentTypeJSON = "application/json"
)

// ResponseWriter writes a single response to one connection. Every call is
// flushed before it returns; nothing is buffered between calls.
type ResponseWriter struct {
	w *bufio.Writer
}

// NewResponseWriter creates a writer over the connection's write half
func NewResponseWriter(w io.Writer) *ResponseWriter {
	return &ResponseWriter{w: bufio.NewWriter(w)}
}

// Write sends text as-is and flushes it to the connection
func (rw *ResponseWriter) Write(text string) error {
	if _, err := rw.w.WriteString(text); err != nil {
		return &IoError{Op: "write", Err: err}
	}
	if err := rw.w.Flush(); err != nil {
		return &IoError{Op: "write", Err: err}
	}
	return nil
}

// PrintText sends a complete plain-text response. The status line is always
// 200 OK whatever the body says.
func (rw *ResponseWriter) PrintText(text string) error {
	return rw.Write(formatResponse(contentTypeText, text))
}

// PrintJSON renders v with ToJSON and sends it as an application/json response
func (rw *ResponseWriter) PrintJSON(v any) error {
	body, err := ToJSON(v)
	if err != nil {
		return fmt.Errorf("failed to render json body: %w", err)
	}
	return rw.Write(formatResponse(contentTypeJSON, body))
}

func formatResponse(contentType, body string) string {
	return statusLine + "Content-Type: " + contentType + "\r\n\r\n" + body
}
