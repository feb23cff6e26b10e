package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port         string
	DBPath       string
	FrontendURL  string
	LogLevel     slog.Level
	TickInterval time.Duration
}

// Load reads flags from args, falling back to environment variables and then
// to defaults.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var (
		port        = fs.String("port", envOr("PORT", "8080"), "Server port")
		dbPath      = fs.String("db", envOr("DB_PATH", "./data/solitaire.db"), "Database path")
		frontendURL = fs.String("frontend", envOr("FRONTEND_URL", "http://localhost:5173"), "Frontend URL for CORS")
		logLevel    = fs.String("log-level", envOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
		tick        = fs.String("tick", envOr("TICK_INTERVAL", "1s"), "Timer broadcast interval")
	)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	c := Config{
		Port:        *port,
		DBPath:      *dbPath,
		FrontendURL: *frontendURL,
	}

	d, err := time.ParseDuration(*tick)
	if err != nil {
		return Config{}, fmt.Errorf("invalid tick interval %q: %w", *tick, err)
	}
	if d <= 0 {
		return Config{}, fmt.Errorf("tick interval must be positive, got %s", d)
	}
	c.TickInterval = d

	level, err := parseLogLevel(*logLevel)
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", s)
	}
}
