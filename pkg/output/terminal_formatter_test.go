package output

import (
	"errors"
	"strings"
	"testing"

	"github.com/niels/httplite/pkg/client"
)

func sampleResponse(contentType, body string) *client.Response {
	return &client.Response{
		Proto:   "HTTP/1.1",
		Status:  "200 OK",
		Headers: map[string]string{"Content-Type": contentType},
		Body:    body,
	}
}

func TestFormatResponseNoColor(t *testing.T) {
	f := NewTerminalFormatter(false)
	got := f.FormatResponse(sampleResponse("text/plain", "pong"))

	expected := "HTTP/1.1 200 OK\nContent-Type: text/plain\n\npong"
	if got != expected {
		t.Errorf("Unexpected output:\ngot:  %q\nwant: %q", got, expected)
	}
}

func TestFormatResponseColor(t *testing.T) {
	f := NewTerminalFormatter(true)
	got := f.FormatResponse(sampleResponse("text/plain", "pong"))

	if !strings.Contains(got, "\x1b[") {
		t.Errorf("Expected ANSI escapes in colored output, got %q", got)
	}
	if !strings.Contains(got, "200 OK") || !strings.HasSuffix(got, "pong") {
		t.Errorf("Expected status and plain body, got %q", got)
	}
}

func TestFormatResponseHighlightsJSON(t *testing.T) {
	body := `{"routes":["/ping"]}`

	plain := NewTerminalFormatter(false).FormatResponse(sampleResponse("application/json", body))
	if !strings.HasSuffix(plain, body) {
		t.Errorf("Expected raw JSON body without color, got %q", plain)
	}

	colored := NewTerminalFormatter(true).FormatResponse(sampleResponse("application/json", body))
	if strings.HasSuffix(colored, body) {
		t.Errorf("Expected highlighted JSON body, got %q", colored)
	}
	if !strings.Contains(colored, "routes") || !strings.Contains(colored, "/ping") {
		t.Errorf("Highlighted body lost content: %q", colored)
	}
}

func TestFormatError(t *testing.T) {
	got := NewTerminalFormatter(false).FormatError(errors.New("boom"))
	if got != "Error: boom" {
		t.Errorf("Unexpected error output: %q", got)
	}
}
