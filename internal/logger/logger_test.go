package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	if Named("test") == nil {
		t.Fatal("named logger is nil")
	}
}

func TestLoggerWrites(t *testing.T) {
	defer SetLevel(0)
	SetLevel(0)

	var buf bytes.Buffer
	l := New(&buf).Named("loader")
	ctx := context.Background()

	l.Info(ctx, "model loaded", String("algorithm", "gbm"), Int("trees", 3))
	out := buf.String()
	for _, want := range []string{"model loaded", "loader.algorithm=gbm", "loader.trees=3", "logger_test.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}

	buf.Reset()
	l.Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Errorf("debug written at info level: %q", buf.String())
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatal(err)
	}
	l.Debug(ctx, "visible", Error(errors.New("boom")))
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("debug output missing error field: %q", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	defer SetLevel(0)
	for _, lvl := range []string{"debug", "INFO", "", "warn", "warning", "error"} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("SetLevelString(%q): %v", lvl, err)
		}
	}
	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	ctx := context.Background()
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
	l.Debug(ctx, "x")
	if l.Named("n") == nil {
		t.Fatal("named nop logger is nil")
	}
}
