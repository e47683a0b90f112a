// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger writes leveled, timestamped lines to stderr and an optional log file
type Logger struct {
	file   *os.File
	out    io.Writer
	mu     sync.Mutex
	closed bool
	now    func() time.Time
}

// Discard is a logger that drops every message
var Discard = New(io.Discard)

// New creates a logger writing to w
func New(w io.Writer) *Logger {
	return &Logger{
		out: w,
		now: time.Now,
	}
}

// NewLogger creates a logger writing to stderr and, when logFile is set, to
// that file as well
func NewLogger(logFile string) (*Logger, error) {
	if logFile == "" {
		return New(os.Stderr), nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Create multi-writer: stderr + file
	l := New(io.MultiWriter(os.Stderr, file))
	l.file = file
	return l, nil
}

// logMessage writes a single log line
func (l *Logger) logMessage(level, format string, v ...interface{}) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	message := fmt.Sprintf(format, v...)
	timestamp := l.now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.out, "[%s] [%s] %s\n", timestamp, level, message)
}

// Printf logs a message at INFO level
func (l *Logger) Printf(format string, v ...interface{}) {
	l.logMessage("INFO", format, v...)
}

// Infof is an alias for Printf
func (l *Logger) Infof(format string, v ...interface{}) {
	l.logMessage("INFO", format, v...)
}

// Errorf logs a message at ERROR level
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logMessage("ERROR", format, v...)
}

// Warnf logs a message at WARN level
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logMessage("WARN", format, v...)
}

// Debugf logs a message at DEBUG level
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logMessage("DEBUG", format, v...)
}

// Close closes the log file. Further messages are dropped.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
