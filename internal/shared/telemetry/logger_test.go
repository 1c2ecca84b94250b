package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetWriter(&buf)
	defer restore()

	Info("plan.requested", map[string]any{"risk_level": "medium", "expenses": 2})

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg", "risk_level", "expenses"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["level"] != "info" || payload["msg"] != "plan.requested" {
		t.Fatalf("unexpected level/msg: %v %v", payload["level"], payload["msg"])
	}
}

func TestSetLevelFiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	restore := SetWriter(&buf)
	defer restore()
	defer SetLevel("info")

	SetLevel("error")
	Info("hidden", nil)
	Warn("hidden", nil)
	Error("shown", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], `"shown"`) {
		t.Fatalf("expected only the error line, got %q", buf.String())
	}
}
