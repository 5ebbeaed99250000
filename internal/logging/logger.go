// Package logging decouples the importer from a concrete logging framework.
// Components receive a Logger through their constructors; tests pass a MockLogger.
package logging

// Logger is the structured logger used throughout the importer.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger that attaches err to every entry.
	WithError(err error) Logger
	// WithField returns a logger that attaches key=value to every entry.
	WithField(key string, value interface{}) Logger
	// WithFields returns a logger that attaches all fields to every entry.
	WithFields(fields ...Field) Logger

	// Fatal logs and exits the program. Only command handlers call it.
	Fatal(msg string, fields ...Field)
	// Fatalf logs a formatted message and exits the program.
	Fatalf(msg string, args ...interface{})
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

var defaultLogger Logger = NewLogrusAdapter("info", "text")

// GetLogger returns the process-wide fallback logger used when a component is
// constructed without one.
func GetLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger replaces the fallback logger. A nil logger is ignored.
func SetDefaultLogger(logger Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// OrDefault returns logger, or the fallback logger when logger is nil.
func OrDefault(logger Logger) Logger {
	if logger == nil {
		return defaultLogger
	}
	return logger
}
