package logger

import (
	"testing"

	"github.com/nordvik/nordscreen/pkg/config"
)

func testConfig(format, level string) *config.Config {
	return &config.Config{
		Env:       "development",
		LogFormat: format,
		LogLevel:  level,
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		format string
		level  string
	}{
		{"json output", "json", "info"},
		{"console output", "console", "debug"},
		{"pretty output", "pretty", "warn"},
		{"unknown level falls back to info", "json", "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(testConfig(tt.format, tt.level))
			if log == nil {
				t.Fatal("New() returned nil")
			}

			// Must not panic
			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")
			log.Error("error message")
		})
	}
}

func TestWithFields(t *testing.T) {
	log := NewNop()

	derived := log.WithField("ticker", "EQNR.OL")
	if derived == nil {
		t.Fatal("WithField returned nil")
	}
	if derived == log {
		t.Error("WithField should return a new logger")
	}

	derived = log.WithFields(map[string]interface{}{
		"exchange": "oslo",
		"count":    42,
	})
	if derived == nil {
		t.Fatal("WithFields returned nil")
	}

	derived.Info("fields attached")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"WARN", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"unknown", "info"},
		{"", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input).String(); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}
