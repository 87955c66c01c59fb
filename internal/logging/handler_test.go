package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandler_MasksSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "auth check", 0)
	r.AddAttrs(slog.String("api_token", "sk-verysecretvalue1234"))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "sk-verysecretvalue1234") {
		t.Errorf("token leaked into log output: %q", out)
	}
	if !strings.Contains(out, "****") {
		t.Errorf("expected masked value in output: %q", out)
	}
}

func TestHandler_MasksTokenValuesUnderInnocentKeys(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "field submitted", 0)
	r.AddAttrs(slog.String("value", "sk-verysecretvalue1234"))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if strings.Contains(buf.String(), "sk-verysecretvalue1234") {
		t.Errorf("token-shaped value leaked: %q", buf.String())
	}
}

func TestHandler_Enabled(t *testing.T) {
	level := slog.LevelWarn
	h := NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: level})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, nil)

	derived := h.WithAttrs([]slog.Attr{slog.String("stage", "auth")})
	r := slog.NewRecord(time.Now(), slog.LevelInfo, "entered", 0)
	if err := derived.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}

	if !strings.Contains(buf.String(), "stage=auth") {
		t.Errorf("expected derived attribute in output: %q", buf.String())
	}
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)

	logger := slog.New(h)
	logger.Info("both")

	if !strings.Contains(a.String(), "both") {
		t.Error("first handler missed the record")
	}
	if !strings.Contains(b.String(), "both") {
		t.Error("second handler missed the record")
	}
}
