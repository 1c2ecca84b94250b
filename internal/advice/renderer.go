package advice

import (
	"encoding/json"
	"html"

	"finance-advisor/internal/shared/telemetry"
)

// OutputSink is the surface the rendered HTML is written to.
type OutputSink interface {
	Show(html string)
}

// SinkFunc adapts a function to OutputSink.
type SinkFunc func(html string)

// Show calls f(html).
func (f SinkFunc) Show(html string) {
	f(html)
}

// Renderer normalizes planning service replies and writes them to Sink.
type Renderer struct {
	Markdown MarkdownRenderer
	Sink     OutputSink
	Notices  Notices
	// CleanFallback runs the cleaning pass over the debug dump too, which
	// strips its fence and renders the JSON as plain paragraphs.
	CleanFallback bool
}

// NewRenderer returns a Renderer using the HTML notices.
func NewRenderer(md MarkdownRenderer, sink OutputSink) *Renderer {
	return &Renderer{
		Markdown: md,
		Sink:     sink,
		Notices:  HTMLNotices(),
	}
}

// Render classifies raw, renders it and shows the result. The shown HTML is returned.
func (r *Renderer) Render(raw json.RawMessage) string {
	return r.RenderResponse(Classify(raw))
}

// RenderResponse renders an already classified reply.
func (r *Renderer) RenderResponse(resp Response) string {
	text, ok := r.DisplayText(resp)
	if !ok {
		return r.show(r.Notices.NoResponse)
	}
	return r.show(r.toHTML(text))
}

// DisplayText returns the Markdown that would be rendered for resp, or false
// when resp carries nothing to display.
func (r *Renderer) DisplayText(resp Response) (string, bool) {
	switch v := resp.(type) {
	case Advice:
		return Clean(v.Text), true
	case FinalOutput:
		return Clean(v.Text), true
	case PlainText:
		return Clean(v.Text), true
	case Unrecognized:
		text := FallbackText(v.Raw)
		if r.CleanFallback {
			text = Clean(text)
		}
		return text, true
	case Missing:
		return "", false
	default:
		return "", false
	}
}

// ShowPending writes the pending notice, if any.
func (r *Renderer) ShowPending() {
	if r.Notices.Pending == "" {
		return
	}
	r.show(r.Notices.Pending)
}

// ShowTransportError reports a failed request without invoking Markdown.
func (r *Renderer) ShowTransportError(err error) string {
	if r.Notices.TransportError == nil {
		return r.show("Network Error: " + html.EscapeString(errText(err)))
	}
	return r.show(r.Notices.TransportError(err))
}

// ShowInvalidInput reports form values that could not be turned into a request.
func (r *Renderer) ShowInvalidInput(err error) string {
	if r.Notices.InvalidInput == nil {
		return r.show("Invalid input: " + html.EscapeString(errText(err)))
	}
	return r.show(r.Notices.InvalidInput(err))
}

func (r *Renderer) toHTML(text string) string {
	if r.Markdown == nil {
		return preformatted(text)
	}
	out, err := r.Markdown.Render(text)
	if err != nil {
		telemetry.Warn("advice.render_failed", map[string]any{"error": err.Error()})
		return preformatted(text)
	}
	return out
}

func (r *Renderer) show(out string) string {
	if r.Sink != nil {
		r.Sink.Show(out)
	}
	return out
}

func preformatted(text string) string {
	return "<pre>" + html.EscapeString(text) + "</pre>"
}
