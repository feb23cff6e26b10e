package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "FRONTEND_URL", "LOG_LEVEL", "TICK_INTERVAL"} {
		t.Setenv(key, "")
	}

	c, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != "8080" || c.DBPath != "./data/solitaire.db" {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if c.LogLevel != slog.LevelInfo || c.TickInterval != time.Second {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestLoad_EnvAndFlags(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TICK_INTERVAL", "")

	c, err := Load([]string{"-port", "9100", "-tick", "500ms"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != "9100" {
		t.Errorf("expected flag to win over env, got port %s", c.Port)
	}
	if c.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level from env, got %v", c.LogLevel)
	}
	if c.TickInterval != 500*time.Millisecond {
		t.Errorf("expected 500ms tick, got %v", c.TickInterval)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad level", []string{"-log-level", "loud"}},
		{"bad tick", []string{"-tick", "soon"}},
		{"zero tick", []string{"-tick", "0s"}},
		{"unknown flag", []string{"-nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", "")
			t.Setenv("TICK_INTERVAL", "")
			if _, err := Load(tt.args); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
