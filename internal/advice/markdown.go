package advice

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownRenderer converts cleaned Markdown into displayable output.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// HTMLMarkdown renders GitHub-flavored Markdown to sanitized HTML.
type HTMLMarkdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLMarkdown builds an HTML renderer with tables, strikethrough and autolinks enabled.
func NewHTMLMarkdown() *HTMLMarkdown {
	return &HTMLMarkdown{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to HTML and strips anything outside the UGC policy.
func (m *HTMLMarkdown) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return m.policy.Sanitize(buf.String()), nil
}

// TerminalMarkdown renders Markdown as styled terminal text.
type TerminalMarkdown struct {
	r *glamour.TermRenderer
}

// NewTerminalMarkdown builds a glamour renderer wrapping at width columns.
func NewTerminalMarkdown(width int) (*TerminalMarkdown, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return &TerminalMarkdown{r: r}, nil
}

// Render styles markdown for the terminal.
func (m *TerminalMarkdown) Render(markdown string) (string, error) {
	out, err := m.r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

var (
	_ MarkdownRenderer = (*HTMLMarkdown)(nil)
	_ MarkdownRenderer = (*TerminalMarkdown)(nil)
)
