package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// decodeLines parses every JSON line written to buf.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			t.Fatalf("failed to parse log line %q: %v", line, err)
		}
		out = append(out, parsed)
	}
	return out
}

func TestLoggerCreation(t *testing.T) {
	logger := New("test-component")

	if logger.component != "test-component" {
		t.Errorf("expected component 'test-component', got '%s'", logger.component)
	}
}

func TestLoggerWithSession(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("console", &buf, LevelInfo).WithSession("s-1")

	logger.Info("started", nil)

	events := decodeLines(t, &buf)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0]["session"] != "s-1" {
		t.Errorf("expected session 's-1', got '%v'", events[0]["session"])
	}
	if events[0]["component"] != "console" {
		t.Errorf("expected component 'console', got '%v'", events[0]["component"])
	}
}

func TestEventShape(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("storage", &buf, LevelDebug)

	logger.Warn("record_skipped", map[string]interface{}{"key": "Ghost.1"}, errors.New("unknown class"))

	events := decodeLines(t, &buf)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e["level"] != "warn" {
		t.Errorf("expected level 'warn', got '%v'", e["level"])
	}
	if e["event"] != "record_skipped" {
		t.Errorf("expected event 'record_skipped', got '%v'", e["event"])
	}
	if e["key"] != "Ghost.1" {
		t.Errorf("expected key 'Ghost.1', got '%v'", e["key"])
	}
	if e["error"] != "unknown class" {
		t.Errorf("expected error 'unknown class', got '%v'", e["error"])
	}
	if _, ok := e["ts"]; !ok {
		t.Error("expected ts field")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("storage", &buf, LevelWarn)

	logger.Debug("noise", nil)
	logger.Info("noise", nil)
	logger.Error("save_failed", nil, errors.New("disk full"))

	events := decodeLines(t, &buf)
	if len(events) != 1 {
		t.Fatalf("expected only the error event, got %d", len(events))
	}
	if events[0]["event"] != "save_failed" {
		t.Errorf("expected event 'save_failed', got '%v'", events[0]["event"])
	}
}

func TestComponentSharesSink(t *testing.T) {
	var buf bytes.Buffer
	root := NewWithWriter("hbnb", &buf, LevelInfo)

	root.Component("storage").Info("reloaded", map[string]interface{}{"count": 3})

	events := decodeLines(t, &buf)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0]["component"] != "storage" {
		t.Errorf("expected component 'storage', got '%v'", events[0]["component"])
	}
	if events[0]["count"].(float64) != 3 {
		t.Errorf("expected count 3, got '%v'", events[0]["count"])
	}
}

func TestTimedEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("storage", &buf, LevelDebug)

	logger.TimedEvent("saved", time.Now().Add(-100*time.Millisecond), nil)

	events := decodeLines(t, &buf)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0]["duration_ms"].(float64) < 100 {
		t.Errorf("expected duration_ms >= 100, got '%v'", events[0]["duration_ms"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"":      LevelWarn,
		"loud":  LevelWarn,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
