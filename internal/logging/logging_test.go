package logging

import "testing"

func TestNewNopDoesNotPanicOnNilFields(t *testing.T) {
	l := NewNop()
	l.Info("start")
	l.Debug("detail", String("k", "v"))
	l.Warn("trouble", Int("count", 3), Err(nil))
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func TestNilLoggerIsSafeToCall(t *testing.T) {
	var l *Logger
	l.Info("should not panic")
	l.Debug("should not panic")
	l.Warn("should not panic")
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync on nil Logger: %v", err)
	}
}

func TestNewBuildsAProductionLogger(t *testing.T) {
	l, err := New(false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l == nil {
		t.Fatal("expected non-nil Logger")
	}
	l.Info("compile start", String("root", "root.sol"))
}
