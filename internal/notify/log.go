package notify

import (
	"context"
	"log/slog"
)

// Log writes each notification to a structured logger at the given level.
type Log struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewLog returns a Log sink writing at info level.
func NewLog(logger *slog.Logger) *Log {
	return &Log{Logger: logger, Level: slog.LevelInfo}
}

// Emit implements Sink.
func (l *Log) Emit(name string, payload any) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(context.Background(), l.Level, "notification", "name", name, "payload", payload)
}
