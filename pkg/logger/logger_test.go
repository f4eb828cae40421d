package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ordersvc/config"
	"ordersvc/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNilLoggerSafety(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	Debug("test debug")
	Info("test info")
	Warn("test warn")
	Error("test error")

	if With(zap.String("key", "value")) == nil {
		t.Error("With() returned nil logger")
	}
	if WithRequestID("test-id") == nil {
		t.Error("WithRequestID() returned nil logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext() returned nil logger")
	}
	if err := Sync(); err != nil {
		t.Errorf("Sync on nil logger: %v", err)
	}
}

func TestInitEncoders(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	tests := []struct {
		name string
		cfg  config.LogConfig
		env  string
	}{
		{"development default", config.LogConfig{Level: "debug", Output: "stdout"}, "development"},
		{"production default", config.LogConfig{Level: "info", Output: "stdout"}, "production"},
		{"explicit json", config.LogConfig{Level: "warn", Format: "json", Output: "stdout"}, "development"},
		{"explicit console", config.LogConfig{Level: "error", Format: "console", Output: "stdout"}, "production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Init(&tt.cfg, tt.env); err != nil {
				t.Fatalf("Init: %v", err)
			}
			Info("logger initialised", zap.String("env", tt.env))
			if Get() == nil {
				t.Fatal("Get() returned nil after Init")
			}
		})
	}
}

func TestFromContextCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))
	defer restore()

	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")
	FromContext(ctx).Info("handled")

	entries := logs.FilterMessage("handled").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-42" {
		t.Errorf("request_id = %v, want req-42", got)
	}
}

func TestDynamicLogLevel(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	if err := Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !Get().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug should be enabled")
	}

	UpdateLevel("warn")
	if Get().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled after UpdateLevel(warn)")
	}
	UpdateLevel("debug")
}

func TestFileOutput(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	path := filepath.Join(t.TempDir(), "nested", "app.log")
	cfg := &config.LogConfig{Level: "info", Format: "json", Output: "file", FilePath: path}
	if err := Init(cfg, "production"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for i := 0; i < 10; i++ {
		Info("order placed", zap.Int("entry", i))
	}
	_ = Sync()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("log file is empty")
	}
}
