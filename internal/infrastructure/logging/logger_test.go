package logging

import (
	"log/slog"
	"testing"

	"github.com/nerrad567/sound-logic-core/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewAndWith(t *testing.T) {
	l := New(config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"}, "test")
	if l == nil || l.Logger == nil {
		t.Fatal("New() returned a nil logger")
	}
	child := l.With("component", "bridge")
	if child == nil || child.Logger == l.Logger {
		t.Error("With() did not derive a new logger")
	}
}

func TestDefault(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
}
