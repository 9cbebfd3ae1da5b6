package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger instance")
	}
	if logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("expected debug entries to be disabled by default")
	}
	_ = logger.Sync()
}

func TestNewDebugToStdout(t *testing.T) {
	logger, err := New(Options{Debug: true, Stdout: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("expected debug entries to be enabled")
	}
	_ = logger.Sync()
}
