package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleLoggerTextPrinter(t *testing.T) {
	b := &bytes.Buffer{}
	printer := &TextPrinter{Writer: b, Colors: false}
	l := NewConsoleLogger(printer, func(int) {})
	l.SetLevel(INFO)

	l.Debug("Debug %q", "llamas")
	l.Info("Info %q", "llamas")
	l.Warn("Warn %q", "llamas")
	l.Error("Error %q", "llamas")

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("bad number of lines, got %d", len(lines))
	}

	if !strings.HasSuffix(lines[0], `Info "llamas"`) {
		t.Fatalf("line 0 bad, got %q", lines[0])
	}

	if !strings.HasSuffix(lines[1], `Warn "llamas"`) {
		t.Fatalf("line 1 bad, got %q", lines[1])
	}

	if !strings.HasSuffix(lines[2], `Error "llamas"`) {
		t.Fatalf("line 2 bad, got %q", lines[2])
	}
}

func TestConsoleLoggerFatalExits(t *testing.T) {
	b := &bytes.Buffer{}
	printer := &TextPrinter{Writer: b, Colors: false}

	var exitCode int
	l := NewConsoleLogger(printer, func(code int) { exitCode = code })

	l.Fatal("kaboom")

	if exitCode != 1 {
		t.Fatalf("exitCode = %d, want 1", exitCode)
	}
	if !strings.Contains(b.String(), "kaboom") {
		t.Fatalf("output %q does not contain %q", b.String(), "kaboom")
	}
}

func TestConsoleLoggerWithFields(t *testing.T) {
	b := &bytes.Buffer{}
	printer := &TextPrinter{Writer: b, Colors: false}
	l := NewConsoleLogger(printer, func(int) {}).WithFields(StringField("task", "first-version"))

	l.Info("done")

	if !strings.Contains(b.String(), "task=first-version") {
		t.Fatalf("output %q does not contain field", b.String())
	}
}
