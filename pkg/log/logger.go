// Package log provides the logging abstraction used across lokiship. A
// zerolog adapter is the default implementation; a no-op logger is
// available for tests.
package log

import "time"

// Logger provides structured logging. Implementations can wrap zerolog or
// any other logging library.
type Logger interface {
	// Debug logs a debug-level message with fields.
	Debug(msg string, fields ...Field)

	// Info logs an info-level message with fields.
	Info(msg string, fields ...Field)

	// Warn logs a warning-level message with fields.
	Warn(msg string, fields ...Field)

	// Error logs an error-level message with fields.
	Error(msg string, fields ...Field)
}

// Field is a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field with key "error".
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any creates a field with an arbitrary value.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Noop is a Logger that discards every message. Useful in tests.
type Noop struct{}

// NewNoop creates a no-op logger.
func NewNoop() Noop { return Noop{} }

// Debug discards the message.
func (Noop) Debug(string, ...Field) {}

// Info discards the message.
func (Noop) Info(string, ...Field) {}

// Warn discards the message.
func (Noop) Warn(string, ...Field) {}

// Error discards the message.
func (Noop) Error(string, ...Field) {}
