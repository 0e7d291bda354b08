package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerNamedWith(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if err := SetOutput(&buf); err != nil {
		t.Fatalf("failed to set output: %v", err)
	}
	defer func() { _ = SetOutput(os.Stdout) }()

	Named("search").With(String("run_id", "r-1")).Info(context.Background(), "sweep done", Int("round", 3))

	out := buf.String()
	for _, want := range []string{"component=search", "run_id=r-1", "round=3", "sweep done", "logger_test.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output %q", want, out)
		}
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if err := SetOutput(&buf); err != nil {
		t.Fatalf("failed to set output: %v", err)
	}
	if err := SetFormat("json"); err != nil {
		t.Fatalf("failed to set format: %v", err)
	}
	defer func() {
		_ = SetFormat("text")
		_ = SetOutput(os.Stdout)
	}()

	Get().Warn(context.Background(), "threshold exhausted", Float64("threshold", 1.5))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "threshold exhausted" {
		t.Errorf("unexpected msg %v", line["msg"])
	}
	if line["threshold"] != 1.5 {
		t.Errorf("unexpected threshold %v", line["threshold"])
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	if err := SetOutput(&buf); err != nil {
		t.Fatalf("failed to set output: %v", err)
	}
	defer func() {
		_ = SetLevelString("info")
		_ = SetOutput(os.Stdout)
	}()

	if err := SetLevelString("bogus"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if err := SetLevelString("error"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Info(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at error level, got %q", buf.String())
	}
	if err := SetFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
