package logger

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogsObjectUnderKey(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZap(zap.New(core).Sugar())

	log.InfoObj("case finished", "case_result", map[string]any{"name": "GetNotFound"})
	log.DebugObj("api call completed", "api_call", "GET /stores")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	got, ok := fields["case_result"].(map[string]any)
	if !ok || got["name"] != "GetNotFound" {
		t.Fatalf("unexpected fields %#v", fields)
	}
	if entries[1].Level != zapcore.DebugLevel {
		t.Fatalf("expected debug level, got %v", entries[1].Level)
	}
}

func TestPackageHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("ignored", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNopLoggerSatisfiesInterface(t *testing.T) {
	var log Logger = &NopLogger{}
	log.ErrorObj("ignored", "k", nil)
}

func TestZapReportsCallSite(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZap(zap.New(core, zap.AddCaller()).Sugar())

	log.WarnObj("case failed", "case_result", "List")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	caller := entries[0].Caller
	if !caller.Defined || filepath.Base(caller.File) != "logger_test.go" {
		t.Fatalf("caller should be the test, got %s", caller.String())
	}
}

func TestPackageHelpersReportCallSite(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := S
	S = zap.New(core, zap.AddCaller()).Sugar().WithOptions(zap.AddCallerSkip(1))
	t.Cleanup(func() { S = prev })

	ErrorObj("run failed", "error", "boom")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := filepath.Base(entries[0].Caller.File); got != "logger_test.go" {
		t.Fatalf("caller should be the test, got %s", entries[0].Caller.String())
	}
}

func TestEnsureFallsBackToNop(t *testing.T) {
	if _, ok := Ensure(nil).(*NopLogger); !ok {
		t.Fatalf("expected NopLogger for nil")
	}
	z := NewZap(nil)
	if Ensure(z) != Logger(z) {
		t.Fatalf("expected the given logger back")
	}
}
