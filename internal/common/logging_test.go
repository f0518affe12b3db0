package common

import (
	"testing"
)

func TestNewLogger_FluentAPI(t *testing.T) {
	// Must not panic
	logger := NewLogger("error")
	logger.Info().Str("key", "value").Msg("test message")
	logger.Warn().Int("count", 42).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
	logger.Debug().Float64("rate", 3.14).Bool("ok", true).Msg("debug")
}

func TestNewSilentLogger(t *testing.T) {
	logger := NewSilentLogger()
	if logger == nil {
		t.Fatal("NewSilentLogger returned nil")
	}
	logger.Info().Msg("discarded")
}

func TestWithCorrelationId(t *testing.T) {
	logger := NewSilentLogger().WithCorrelationId("abc123")
	if logger == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	logger.Info().Msg("tagged")
}
