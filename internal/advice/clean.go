package advice

import (
	"regexp"
	"strings"
)

const (
	fence       = "```"
	languageTag = "markdown"
)

var (
	inlineCodeRe    = regexp.MustCompile("`([^`\n]+)`")
	leadingSpacesRe = regexp.MustCompile(`(?m)^ {4,}`)
	leadingTabsRe   = regexp.MustCompile(`(?m)^\t+`)
	lineEndings     = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Clean strips stray Markdown artifacts from model output before rendering.
// Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	text = lineEndings.Replace(text)

	text = strings.ReplaceAll(text, fence, "")
	text = untilStable(text, func(s string) string {
		return inlineCodeRe.ReplaceAllString(s, "$1")
	})
	text = untilStable(text, stripIndentation)
	return dropBlankLines(text)
}

// untilStable reapplies fn until its output stops changing. Unwrapping
// "``a``b" and stripping "\t    x" both need a second round.
func untilStable(text string, fn func(string) string) string {
	for {
		next := fn(text)
		if next == text {
			return next
		}
		text = next
	}
}

func stripIndentation(text string) string {
	text = leadingSpacesRe.ReplaceAllString(text, "")
	return leadingTabsRe.ReplaceAllString(text, "")
}

// dropBlankLines removes lines that are empty, whitespace only (any Unicode
// space, NBSP included) or a bare language tag.
func dropBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.EqualFold(trimmed, languageTag) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
