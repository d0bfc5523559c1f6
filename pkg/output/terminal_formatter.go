package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/quick"
	"github.com/fatih/color"
	"github.com/niels/httplite/pkg/client"
)

// TerminalFormatter renders client responses for a terminal
type TerminalFormatter struct {
	useColor bool
	style    string
}

// NewTerminalFormatter creates a new terminal formatter
func NewTerminalFormatter(useColor bool) *TerminalFormatter {
	return &TerminalFormatter{
		useColor: useColor,
		style:    "monokai",
	}
}

// FormatResponse formats the status line, headers and body of resp
func (f *TerminalFormatter) FormatResponse(resp *client.Response) string {
	var sb strings.Builder

	statusLine := resp.Proto + " " + resp.Status
	sb.WriteString(f.colorize(statusLine, color.FgGreen, color.Bold))
	sb.WriteString("\n")

	names := make([]string, 0, len(resp.Headers))
	for name := range resp.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(f.colorize(name+":", color.FgCyan))
		sb.WriteString(" ")
		sb.WriteString(resp.Headers[name])
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(f.formatBody(resp.ContentType(), resp.Body))
	return sb.String()
}

func (f *TerminalFormatter) formatBody(contentType, body string) string {
	if !f.useColor || body == "" {
		return body
	}

	mimeType, _, _ := strings.Cut(contentType, ";")
	lexer := lexers.MatchMimeType(strings.TrimSpace(mimeType))
	if lexer == nil || lexer.Config().Name == "plaintext" {
		return body
	}

	var sb strings.Builder
	if err := quick.Highlight(&sb, body, lexer.Config().Name, "terminal16m", f.style); err != nil {
		return body
	}
	return sb.String()
}

func (f *TerminalFormatter) colorize(text string, attrs ...color.Attribute) string {
	if !f.useColor {
		return text
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(text)
}

// FormatError renders an error line
func (f *TerminalFormatter) FormatError(err error) string {
	return f.colorize(fmt.Sprintf("Error: %v", err), color.FgRed, color.Bold)
}
