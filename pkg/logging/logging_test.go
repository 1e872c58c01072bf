package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tc := range testCases {
		if tc.level.String() != tc.expected {
			t.Errorf("expected LogLevel(%d).String() = %q, got %q", tc.level, tc.expected, tc.level.String())
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelWarn, &buf)

	Debug("Test", "debug message")
	Info("Test", "info message")
	Warn("Test", "warn message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("expected debug/info to be filtered at Warn level, got: %s", out)
	}
	if !strings.Contains(out, "warn message") {
		t.Errorf("expected warn message in output, got: %s", out)
	}
}

func TestSubsystemAndErrorAttributes(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, &buf)

	Error("AuthGate", errTest, "refresh failed for %s", "sandbox")

	out := buf.String()
	if !strings.Contains(out, "subsystem=AuthGate") {
		t.Errorf("expected subsystem attribute, got: %s", out)
	}
	if !strings.Contains(out, "boom") {
		t.Errorf("expected error attribute, got: %s", out)
	}
	if !strings.Contains(out, "refresh failed for sandbox") {
		t.Errorf("expected formatted message, got: %s", out)
	}
}

type testError struct{}

func (testError) Error() string { return "boom" }

var errTest = testError{}
