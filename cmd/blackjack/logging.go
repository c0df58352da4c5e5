package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// newFileLogger logs to path so the terminal stays free for the game.
func newFileLogger(path string, level log.Level) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "blackjack",
		Level:           level,
	})
	return logger, f, nil
}

func newStderrLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}

func logLevel(configured log.Level, debug bool) log.Level {
	if debug {
		return log.DebugLevel
	}
	return configured
}
