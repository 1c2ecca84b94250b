package advice

import (
	"fmt"
	"html"
)

// Notices are the fixed messages written to the sink without Markdown rendering.
type Notices struct {
	// Pending replaces the surface while a request is in flight. Empty disables it.
	Pending        string
	NoResponse     string
	TransportError func(err error) string
	InvalidInput   func(err error) string
}

// HTMLNotices returns the notices used by the web form.
func HTMLNotices() Notices {
	return Notices{
		Pending:    "<p><b>Generating plan… Please wait...</b></p>",
		NoResponse: `<p style="color:red;">❌ No response from server.</p>`,
		TransportError: func(err error) string {
			return fmt.Sprintf(`<p style="color:red;">Network Error: %s</p>`, html.EscapeString(errText(err)))
		},
		InvalidInput: func(err error) string {
			return fmt.Sprintf(`<p style="color:red;">Invalid input: %s</p>`, html.EscapeString(errText(err)))
		},
	}
}

// TextNotices returns plain-text notices for terminal output. Pending is left
// empty; callers show their own progress indicator.
func TextNotices() Notices {
	return Notices{
		NoResponse: "❌ No response from server.",
		TransportError: func(err error) string {
			return "Network Error: " + errText(err)
		},
		InvalidInput: func(err error) string {
			return "Invalid input: " + errText(err)
		},
	}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
