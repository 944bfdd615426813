// Command tracelink annotates changelog commits with issue-tracker links.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/releasetrain/tracelink/internal/config"
	"github.com/releasetrain/tracelink/internal/logging"
)

var version = "dev"

var cfg *config.Config

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(logging.Config{
		Level:     parseLevel(cfg.Log.Level),
		SentryDSN: cfg.Log.SentryDSN,
		Env:       "production",
		Version:   version,
		LogFile:   cfg.Log.File,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Flush(2 * time.Second)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
