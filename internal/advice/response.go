package advice

import (
	"bytes"
	"encoding/json"
)

// Response is the shape of a planning service reply. It is one of
// Missing, Advice, FinalOutput, PlainText or Unrecognized.
type Response interface {
	response()
}

// Missing is an absent, null or falsy reply.
type Missing struct{}

// Advice is an object carrying a non-empty "advice" string.
type Advice struct {
	Text string
}

// FinalOutput is an object carrying a non-empty "final_output" string and no advice.
type FinalOutput struct {
	Text string
}

// PlainText is a bare JSON string.
type PlainText struct {
	Text string
}

// Unrecognized is any other value; it is shown as a debug dump.
// Raw holds the reply bytes so the dump keeps the server's key order.
type Unrecognized struct {
	Value any
	Raw   json.RawMessage
}

func (Missing) response()      {}
func (Advice) response()       {}
func (FinalOutput) response()  {}
func (PlainText) response()    {}
func (Unrecognized) response() {}

// Classify decodes a raw reply and picks the first matching shape:
// missing, advice, final_output, string, anything else.
func Classify(raw json.RawMessage) Response {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Missing{}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		quoted, _ := json.Marshal(string(trimmed))
		return Unrecognized{Value: string(trimmed), Raw: quoted}
	}
	if !truthy(value) {
		return Missing{}
	}

	switch v := value.(type) {
	case map[string]any:
		if text, ok := nonEmptyString(v["advice"]); ok {
			return Advice{Text: text}
		}
		if text, ok := nonEmptyString(v["final_output"]); ok {
			return FinalOutput{Text: text}
		}
	case string:
		return PlainText{Text: v}
	}
	return Unrecognized{Value: value, Raw: json.RawMessage(trimmed)}
}

// FallbackText wraps a 2-space indented dump of raw in a fenced code block.
// Key order and string contents are kept as the server sent them.
func FallbackText(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		buf.Reset()
		buf.Write(bytes.TrimSpace(raw))
	}
	return "```\n" + buf.String() + "\n```"
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
