package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestMakeDefaults(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf)

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}

	l.Info("hidden")

	if buf.Len() != 0 {
		t.Errorf("info must be filtered at the default level: %q", buf.String())
	}

	l.Warn("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("warn must pass the default level: %q", buf.String())
	}
}

func TestMakeWithLevel(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelDebug))

	l.Debug("dbg")

	if !strings.Contains(buf.String(), "dbg") {
		t.Errorf("debug message missing: %q", buf.String())
	}
}

func TestWrapOverrides(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf).Wrap(WithLevel(LevelError))

	l.Warn("hidden")

	if buf.Len() != 0 {
		t.Errorf("warn must be filtered after wrap: %q", buf.String())
	}

	if l.Level() != LevelError {
		t.Errorf("Level() = %v, want %v", l.Level(), LevelError)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON))

	l.Error("boom", "key", "val")

	var record map[string]any

	err := json.Unmarshal(buf.Bytes(), &record)
	if err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if record["msg"] != "boom" || record["key"] != "val" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf).With(slog.String("component", "test"))

	l.Error("boom")

	if !strings.Contains(buf.String(), "component=test") {
		t.Errorf("attribute missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "bogus", want: DefaultLevel},
		{in: "", want: DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{in: "json", want: FormatJSON},
		{in: " JSON ", want: FormatJSON},
		{in: "text", want: FormatText},
		{in: "bogus", want: FormatText},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if s := LevelDebug.String(); s != "debug" {
		t.Errorf("LevelDebug.String() = %q", s)
	}

	if s := FormatJSON.String(); s != "json" {
		t.Errorf("FormatJSON.String() = %q", s)
	}
}
