package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("backup finished", "tag", "nightly")

	out := buf.String()
	if !strings.Contains(out, "backup finished") {
		t.Errorf("output should contain the message, got %q", out)
	}
	if !strings.Contains(out, "tag=nightly") {
		t.Errorf("output should contain the attribute, got %q", out)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("hello")

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: FormatText, Output: &buf})

	logger.Info("suppressed")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn message should pass at warn level")
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		v    int
		want slog.Level
	}{
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, slog.LevelDebug - 4},
		{5, slog.LevelDebug - 4},
	}
	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.v); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := NewDiscard()
	ctx := NewContext(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Error("FromContext should return the attached logger")
	}
	if got := FromContext(context.Background()); got == nil {
		t.Error("FromContext should fall back to a non-nil default")
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)
	logger := slog.New(h)

	logger.Info("fan out")

	for name, buf := range map[string]*bytes.Buffer{"a": &a, "b": &b} {
		if !strings.Contains(buf.String(), "fan out") {
			t.Errorf("handler %s should have received the record", name)
		}
	}
}
