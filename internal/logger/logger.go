package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type implLogger struct {
	logger *log.Logger
	level  string
	prefix string
}

// New creates a new Logger instance writing to stdout
func New(level string) Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a Logger writing to w
func NewWithWriter(level string, w io.Writer) Logger {
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  strings.ToLower(level),
	}
}

// Named returns a Logger that tags every line with the component name.
// Loggers not created by this package are returned unchanged.
func Named(l Logger, component string) Logger {
	impl, ok := l.(*implLogger)
	if !ok {
		return l
	}
	return &implLogger{
		logger: impl.logger,
		level:  impl.level,
		prefix: "[" + component + "] ",
	}
}

func (l *implLogger) shouldLog(level string) bool {
	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) printf(level, tag, msg string, args ...interface{}) {
	if l.shouldLog(level) {
		l.logger.Printf(tag+l.prefix+msg, args...)
	}
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.printf("debug", "[DEBUG] ", msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.printf("info", "[INFO] ", msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.printf("warn", "[WARN] ", msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.printf("error", "[ERROR] ", msg, args...)
}

// FormatError renders err for status records, "" for nil
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
