package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewJSONWritesFieldsAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "json", Writer: &buf})

	log.Info(context.Background(), "dropped")
	log.With(String("component", "net")).Warn(context.Background(), "kept", Int("faces", 20), Float64("area", 0.5), Err(errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line at warn level, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec["msg"] != "kept" || rec["component"] != "net" || rec["faces"] != float64(20) || rec["error"] != "boom" {
		t.Fatalf("unexpected record: %v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBatchIDHelpers(t *testing.T) {
	ctx, id := EnsureBatchID(context.Background())
	if id == "" {
		t.Fatal("expected a generated batch id")
	}
	if again, same := EnsureBatchID(ctx); same != id || BatchIDFromContext(again) != id {
		t.Fatalf("EnsureBatchID replaced existing id %q with %q", id, same)
	}

	var buf bytes.Buffer
	base := New(Config{Format: "json", Writer: &buf})
	ctx, log := WithBatchLogger(context.Background(), base)
	log.Info(ctx, "hello")
	if !strings.Contains(buf.String(), `"batch_id":"`+BatchIDFromContext(ctx)+`"`) {
		t.Fatalf("batch logger output lacks batch_id: %s", buf.String())
	}
}

func TestContextLoggerAndFallbacks(t *testing.T) {
	if LoggerFromContext(context.Background()) != nil {
		t.Fatal("expected nil logger on empty context")
	}
	ctx := ContextWithLogger(context.Background(), nil)
	if _, ok := LoggerFromContext(ctx).(noopLogger); !ok {
		t.Fatal("nil logger should be stored as Noop")
	}
	if _, ok := FromSlog(nil).(noopLogger); !ok {
		t.Fatal("FromSlog(nil) should return Noop")
	}
	if Err(nil).Value != "" {
		t.Fatal("Err(nil) should be empty")
	}
}
