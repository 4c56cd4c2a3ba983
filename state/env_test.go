package state

import (
	"context"
	"log"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())

	env := EnvFromContext(ctx)
	if env.Log == nil {
		t.Error("expected no-op logger before configuration")
	}
	if env.Started().IsZero() {
		t.Error("expected start time to be set")
	}
	if env.Overwrite || env.Strict {
		t.Error("export switches must be off by default")
	}
	if again := EnvFromContext(ctx); again != env {
		t.Error("context must carry the same environment")
	}
}

func TestEnvFromContext_Missing(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for context without env")
		}
	}()
	_ = EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{started: time.Now().Add(-50 * time.Millisecond)}

	if up := env.Uptime(); up < 50*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 50ms", up)
	}
}

func TestLocalEnv_RunLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.RunLogger(42).Info("Document written")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].LoggerName != "export" {
		t.Errorf("logger name = %q, want export", entries[0].LoggerName)
	}
	if got := entries[0].ContextMap()["run"]; got != int64(42) {
		t.Errorf("run field = %v, want 42", got)
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	env := &LocalEnv{Log: zap.New(core)}

	env.CaptureStdLog()
	// second capture is ignored, single release restores
	env.CaptureStdLog()
	log.Print("http: TLS handshake error")
	env.ReleaseStdLog()
	log.Print("not captured")

	if n := logs.FilterMessage("http: TLS handshake error").Len(); n != 1 {
		t.Errorf("captured %d std log records, want 1", n)
	}
	if n := logs.FilterMessage("not captured").Len(); n != 0 {
		t.Error("std log still redirected after release")
	}
}

func TestLocalEnv_StdLogNilLogger(t *testing.T) {
	env := &LocalEnv{}
	env.CaptureStdLog()
	if env.releaseFunc != nil {
		t.Error("nothing to capture into without logger")
	}
	env.ReleaseStdLog()
}
